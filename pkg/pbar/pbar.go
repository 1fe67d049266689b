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
package pbar

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ostafen/giflet/pkg/util/format"
)

const MinRefreshRate = time.Millisecond * 500

const barLength = 20

// ProgressBarState holds all the data needed to render the progress bar
type ProgressBarState struct {
	w io.Writer

	TotalFrames     int
	ProcessedFrames int
	BytesWritten    int64
	StartTime       time.Time
	LastUpdateTime  time.Time
}

// NewProgressBarState initializes a new ProgressBarState
func NewProgressBarState(w io.Writer, totalFrames int) *ProgressBarState {
	return &ProgressBarState{
		w:              w,
		TotalFrames:    totalFrames,
		StartTime:      time.Now(),
		LastUpdateTime: time.Unix(0, 0),
	}
}

// Add records one more processed frame of n bytes.
func (pbs *ProgressBarState) Add(n int64) {
	pbs.ProcessedFrames++
	pbs.BytesWritten += n
}

// Render updates and prints the progress bar line
func (pbs *ProgressBarState) Render(force bool) {
	if !force && time.Since(pbs.LastUpdateTime) < MinRefreshRate {
		return
	}

	percentage := 100.0
	if pbs.TotalFrames > 0 {
		percentage = float64(pbs.ProcessedFrames) / float64(pbs.TotalFrames) * 100
	}

	filledLen := int(float64(barLength) * percentage / 100)
	var bar string
	if filledLen >= barLength {
		bar = strings.Repeat("=", barLength)
	} else {
		bar = strings.Repeat("=", filledLen) + ">" + strings.Repeat(" ", barLength-filledLen-1)
	}

	var rate float64
	if elapsed := time.Since(pbs.StartTime).Seconds(); elapsed > 0 {
		rate = float64(pbs.ProcessedFrames) / elapsed
	}

	pbs.LastUpdateTime = time.Now()

	// \r moves the cursor to the beginning of the line; trailing spaces clear
	// leftovers from a previous longer line.
	fmt.Fprintf(pbs.w, "\r[INFO] Progress: [%s] %3.0f%% (%d/%d frames) | Written: %s | @ %.1f frames/s    ",
		bar,
		percentage,
		pbs.ProcessedFrames,
		pbs.TotalFrames,
		format.FormatBytes(pbs.BytesWritten),
		rate)
}

// Finish prints a newline, effectively finishing the progress bar output
func (pbs *ProgressBarState) Finish() {
	fmt.Fprintln(pbs.w)
}
