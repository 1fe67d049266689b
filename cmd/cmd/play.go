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
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ostafen/giflet/internal/player"
	"github.com/ostafen/giflet/internal/render"
	"github.com/spf13/cobra"
)

const (
	hideCursor = "\033[?25l"
	showCursor = "\033[?25h"
)

func DefinePlayCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play <file>",
		Short: "Play a GIF animation in the terminal",
		Long: `The 'play' command decodes a GIF and plays it in a true-color terminal, drawing two pixels per character cell.
Playback stops on interrupt, when --duration elapses, or after the last frame when looping is disabled.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         RunPlay,
	}

	cmd.Flags().Bool("loop", true, "restart the animation after the last frame")
	cmd.Flags().Int("fps", 30, "number of player ticks per second")
	cmd.Flags().Int("width", 80, "maximum width in terminal columns (0 disables scaling)")
	cmd.Flags().Duration("duration", 0, "stop playback after this long (0 plays until interrupted)")
	addDecodeFlags(cmd)
	return cmd
}

func RunPlay(cmd *cobra.Command, args []string) error {
	log, closeLog, err := setupLogger(cmd)
	if err != nil {
		return err
	}
	defer closeLog()

	loop, _ := cmd.Flags().GetBool("loop")
	fps, _ := cmd.Flags().GetInt("fps")
	width, _ := cmd.Flags().GetInt("width")
	duration, _ := cmd.Flags().GetDuration("duration")

	if fps <= 0 {
		return fmt.Errorf("--fps must be greater than 0")
	}

	doc, err := loadDocument(cmd, args[0], log)
	if err != nil {
		return err
	}
	warnPartial(cmd, args[0], doc)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, duration)
		defer cancel()
	}

	out := cmd.OutOrStdout()
	io.WriteString(out, hideCursor)
	defer io.WriteString(out, showCursor)

	return play(ctx, player.New(doc, loop), render.NewScreen(out, width), time.Second/time.Duration(fps))
}

// play draws the current frame of p every time it changes, ticking p at
// the given interval until ctx is done or a non-looping animation ends.
func play(ctx context.Context, p *player.Player, screen *render.Screen, interval time.Duration) error {
	if err := screen.Draw(p.Current().Image); err != nil {
		return err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for !p.Finished() {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			prev := p.Index()
			p.Tick(now.Sub(last))
			last = now

			if p.Index() == prev {
				continue
			}
			if err := screen.Draw(p.Current().Image); err != nil {
				return err
			}
		}
	}
	return nil
}
