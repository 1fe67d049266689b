package cmd

import (
	"fmt"
	"image/color"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ostafen/giflet/internal/env"
	"github.com/ostafen/giflet/internal/format"
	"github.com/ostafen/giflet/internal/logger"
	ufmt "github.com/ostafen/giflet/pkg/util/format"
	"github.com/spf13/cobra"
)

func Execute() error {
	return NewRootCommand().Execute()
}

func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   env.AppName,
		Short: env.AppName + " - GIF decoding and playback tool",
	}

	rootCmd.PersistentFlags().String("log-level", "INFO", "minimum log level (DEBUG, INFO, WARN, ERROR)")
	rootCmd.PersistentFlags().String("log-file", "", "write logs to the specified file")

	rootCmd.AddCommand(
		DefineInfoCommand(),
		DefineExtractCommand(),
		DefinePlayCommand(),
		DefineMountCommand(),
	)
	return rootCmd
}

// addDecodeFlags registers the flags controlling how a GIF is decoded.
func addDecodeFlags(cmd *cobra.Command) {
	cmd.Flags().String("background", "", "replace transparent and near-black pixels with this color (e.g. #ffffff)")
	cmd.Flags().Bool("transparency", false, "honor the transparent color index of each frame")
	cmd.Flags().String("max-size", "256MB", "maximum size of an input file")
	cmd.Flags().Int("max-pixels", format.DefaultMaxPixels, "maximum number of canvas pixels")
}

func parseDecodeOptions(cmd *cobra.Command, log *slog.Logger) (format.Options, error) {
	bg, _ := cmd.Flags().GetString("background")
	transparency, _ := cmd.Flags().GetBool("transparency")
	maxPixels, _ := cmd.Flags().GetInt("max-pixels")
	maxSize, _ := cmd.Flags().GetString("max-size")

	background, err := parseColor(bg)
	if err != nil {
		return format.Options{}, err
	}

	maxFileSize, err := ufmt.ParseBytes(maxSize)
	if err != nil {
		return format.Options{}, fmt.Errorf("--max-size: %w", err)
	}

	return format.Options{
		Background:   background,
		Transparency: transparency,
		MaxPixels:    maxPixels,
		MaxFileSize:  maxFileSize,
		Logger:       log,
	}, nil
}

// parseColor parses a hex color of the form #rrggbb. The empty string yields
// the zero color, which disables background substitution.
func parseColor(s string) (color.RGBA, error) {
	if s == "" {
		return color.RGBA{}, nil
	}

	hex := strings.TrimPrefix(s, "#")
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil || len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid color %q, expected #rrggbb", s)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xFF}, nil
}

// setupLogger creates the logger configured by the persistent flags. The
// returned close function must be called once the command is done.
func setupLogger(cmd *cobra.Command) (*slog.Logger, func() error, error) {
	level, _ := cmd.Flags().GetString("log-level")
	logFile, _ := cmd.Flags().GetString("log-file")

	log, f, err := logger.Setup(logFile, logger.ParseLevel(level))
	if err != nil {
		return nil, nil, err
	}
	if f == nil {
		return log, func() error { return nil }, nil
	}
	return log, f.Close, nil
}

func loadDocument(cmd *cobra.Command, path string, log *slog.Logger) (*format.Document, error) {
	opts, err := parseDecodeOptions(cmd, log)
	if err != nil {
		return nil, err
	}

	return format.DecodeFile(path, opts)
}

func warnPartial(cmd *cobra.Command, path string, doc *format.Document) {
	if doc.Partial {
		printWarn(cmd.OutOrStdout(), "%s is damaged, only %d frame(s) could be decoded", path, len(doc.Frames))
	}
}
