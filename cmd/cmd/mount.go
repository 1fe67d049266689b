// Copyright (c) 2025 Stefano Scafiti
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
package cmd

import (
	"bytes"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/ostafen/giflet/internal/env"
	"github.com/ostafen/giflet/internal/format"
	"github.com/ostafen/giflet/internal/fuse"
	"github.com/ostafen/giflet/pkg/manifest"
	"github.com/spf13/cobra"
)

func DefineMountCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mount <file>",
		Short: "Mount the frames of a GIF as a read-only filesystem",
		Long: `The 'mount' command decodes a GIF and exposes every composited frame as a PNG file (frame_0000.png, frame_0001.png, ...) in a read-only FUSE filesystem, along with a manifest.xml file.
The filesystem stays mounted until the process receives an interrupt or termination signal. Only supported on Linux.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         RunMount,
	}

	cmd.Flags().StringP("mountpoint", "m", "", "Path to the directory where the filesystem will be mounted. If not specified, a default will be generated.")
	cmd.Flags().Float64("scale", 1, "scale factor applied to every frame")
	addDecodeFlags(cmd)
	return cmd
}

func RunMount(cmd *cobra.Command, args []string) error {
	log, closeLog, err := setupLogger(cmd)
	if err != nil {
		return err
	}
	defer closeLog()

	path := args[0]
	scale, _ := cmd.Flags().GetFloat64("scale")

	mountpoint, _ := cmd.Flags().GetString("mountpoint")
	if mountpoint == "" {
		mountpoint = getMountpoint(path)
	}

	doc, err := loadDocument(cmd, path, log)
	if err != nil {
		return err
	}
	warnPartial(cmd, path, doc)

	entries, err := buildEntries(path, doc, scale)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	printInfo(cmd.OutOrStdout(), "serving %d frame(s) of %s at %s", len(doc.Frames), path, mountpoint)
	return fuse.Mount(ctx, mountpoint, entries, log)
}

// buildEntries encodes the frames of doc and its manifest as in-memory files.
func buildEntries(path string, doc *format.Document, scale float64) ([]fuse.FileEntry, error) {
	mtime := time.Now()
	if fi, err := os.Stat(path); err == nil {
		mtime = fi.ModTime()
	}

	var buf bytes.Buffer
	mw := manifest.NewWriter(&buf)
	if err := mw.WriteHeader(manifest.NewHeader(env.AppName, env.Version, manifestSource(path, doc))); err != nil {
		return nil, err
	}

	entries := make([]fuse.FileEntry, 0, len(doc.Frames)+1)
	err := walkFrames(doc, scale, func(obj manifest.FrameObject, data []byte) error {
		entries = append(entries, fuse.FileEntry{
			Name:  obj.Filename,
			Data:  data,
			Mtime: mtime,
		})
		return mw.WriteFrame(obj)
	})
	if err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	entries = append(entries, fuse.FileEntry{
		Name:  manifestName,
		Data:  buf.Bytes(),
		Mtime: mtime,
	})
	return entries, nil
}

func getMountpoint(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base)) + "_mnt"
}
