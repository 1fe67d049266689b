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
	"fmt"
	"text/tabwriter"

	"github.com/ostafen/giflet/pkg/util/format"
	"github.com/spf13/cobra"
)

func DefineInfoCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <file>...",
		Short: "Show information about GIF files",
		Long: `The 'info' command decodes each given file and prints a table with its format, canvas size, number of frames and total duration.
Files that cannot be decoded are reported and skipped.`,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE:         RunInfo,
	}

	cmd.Flags().Bool("frames", false, "also list the delay of every frame")
	addDecodeFlags(cmd)
	return cmd
}

func RunInfo(cmd *cobra.Command, args []string) error {
	log, closeLog, err := setupLogger(cmd)
	if err != nil {
		return err
	}
	defer closeLog()

	listFrames, _ := cmd.Flags().GetBool("frames")

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FILE\tFORMAT\tSIZE\tCANVAS\tFRAMES\tDURATION\tSTATUS")

	failed := 0
	for _, path := range args {
		doc, err := loadDocument(cmd, path, log)
		if err != nil {
			log.Error("unable to decode file", "path", path, "err", err)
			fmt.Fprintf(w, "%s\t-\t-\t-\t-\t-\t%s\n", path, err)
			failed++
			continue
		}
		src := manifestSource(path, doc)

		status := "ok"
		if doc.Partial {
			status = "partial"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%dx%d\t%d\t%s\t%s\n",
			path,
			doc.Version,
			format.FormatBytes(src.FileSize),
			doc.Width,
			doc.Height,
			len(doc.Frames),
			doc.Duration(),
			status,
		)

		if listFrames {
			for i, f := range doc.Frames {
				fmt.Fprintf(w, "  #%d\t\t\t\t\t%s\t\n", i, f.Delay)
			}
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) could not be decoded", failed, len(args))
	}
	return nil
}
