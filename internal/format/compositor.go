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
package format

import (
	"image"
	"image/color"
)

// Background substitution thresholds.
const (
	alphaThreshold = 128
	darkThreshold  = 50
)

// compositor draws image blocks onto a canvas that persists across frames.
// Disposal methods are not honored: every block overwrites its region.
type compositor struct {
	canvas     *image.RGBA
	background color.RGBA
	substitute bool
}

func newCompositor(width, height int, background color.RGBA) *compositor {
	c := &compositor{
		canvas:     image.NewRGBA(image.Rect(0, 0, width, height)),
		background: background,
		substitute: background.A != 0,
	}
	if c.substitute {
		pix := c.canvas.Pix
		for i := 0; i < len(pix); i += 4 {
			pix[i+0] = background.R
			pix[i+1] = background.G
			pix[i+2] = background.B
			pix[i+3] = background.A
		}
	}
	return c
}

// draw maps indices through ct onto region. Pixels falling outside the
// canvas, beyond the decoded data or outside the color table are skipped,
// as is the transparent index when it is non-negative.
func (c *compositor) draw(indices []byte, ct ColorTable, region image.Rectangle, transparent int) {
	if len(ct) == 0 || len(indices) == 0 {
		return
	}

	visible := region.Intersect(c.canvas.Rect)
	width := region.Dx()

	for y := visible.Min.Y; y < visible.Max.Y; y++ {
		row := (y - region.Min.Y) * width
		for x := visible.Min.X; x < visible.Max.X; x++ {
			i := row + x - region.Min.X
			if i >= len(indices) {
				return
			}

			idx := int(indices[i])
			if idx >= len(ct) || idx == transparent {
				continue
			}

			px := ct[idx].RGBA()
			if c.substitute && isBackground(px) {
				px = c.background
			}

			off := c.canvas.PixOffset(x, y)
			s := c.canvas.Pix[off : off+4 : off+4]
			s[0], s[1], s[2], s[3] = px.R, px.G, px.B, px.A
		}
	}
}

// snapshot returns a copy of the current canvas.
func (c *compositor) snapshot() *image.RGBA {
	return cloneRGBA(c.canvas)
}

// isBackground reports whether px counts as transparent or background under
// the substitution heuristic. Dark but opaque artwork is matched too.
func isBackground(px color.RGBA) bool {
	if px.A < alphaThreshold {
		return true
	}
	return px.R < darkThreshold && px.G < darkThreshold && px.B < darkThreshold
}
