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
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/ostafen/giflet/internal/env"
	"github.com/ostafen/giflet/pkg/manifest"
	"github.com/ostafen/giflet/pkg/pbar"
	osutils "github.com/ostafen/giflet/pkg/util/os"
	"github.com/spf13/cobra"
)

func DefineExtractCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract <file>",
		Short: "Extract the frames of a GIF as PNG images",
		Long: `The 'extract' command decodes a GIF and writes every composited frame as a PNG image, together with a manifest.xml file describing the source and the delay of each frame.
The output directory is created if it does not exist and must otherwise be empty.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         RunExtract,
	}

	cmd.Flags().StringP("output-dir", "o", "", "directory where frames will be written (default <name>-frames)")
	cmd.Flags().Float64("scale", 1, "scale factor applied to every frame")
	addDecodeFlags(cmd)
	return cmd
}

func RunExtract(cmd *cobra.Command, args []string) error {
	log, closeLog, err := setupLogger(cmd)
	if err != nil {
		return err
	}
	defer closeLog()

	path := args[0]
	scale, _ := cmd.Flags().GetFloat64("scale")

	outDir, _ := cmd.Flags().GetString("output-dir")
	if outDir == "" {
		base := filepath.Base(path)
		outDir = strings.TrimSuffix(base, filepath.Ext(base)) + "-frames"
	}

	doc, err := loadDocument(cmd, path, log)
	if err != nil {
		return err
	}
	warnPartial(cmd, path, doc)

	if _, err := osutils.EnsureDir(outDir, true); err != nil {
		return err
	}

	f, err := os.Create(filepath.Join(outDir, manifestName))
	if err != nil {
		return err
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	mw := manifest.NewWriter(bw)
	if err := mw.WriteHeader(manifest.NewHeader(env.AppName, env.Version, manifestSource(path, doc))); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printInfo(out, "extracting %d frame(s) from %s to %s", len(doc.Frames), path, outDir)

	bar := pbar.NewProgressBarState(out, len(doc.Frames))
	err = walkFrames(doc, scale, func(obj manifest.FrameObject, data []byte) error {
		name := filepath.Join(outDir, obj.Filename)
		if err := os.WriteFile(name, data, 0644); err != nil {
			return err
		}
		log.Debug("frame written", "path", name, "size", len(data))

		bar.Add(int64(len(data)))
		bar.Render(false)
		return mw.WriteFrame(obj)
	})
	bar.Render(true)
	bar.Finish()
	if err != nil {
		return err
	}

	if err := mw.Close(); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return err
	}

	printInfo(out, "manifest written to %s", filepath.Join(outDir, manifestName))
	return f.Close()
}
