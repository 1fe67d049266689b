// Package render draws RGBA frames as ANSI true-color text. Every text cell
// holds two vertically stacked pixels using half block characters.
package render

import (
	"bytes"
	"fmt"
	"image"
	"io"

	"github.com/fatih/color"
	xdraw "golang.org/x/image/draw"
)

const (
	upperHalf = "▀"
	lowerHalf = "▄"
)

// Pixels with an alpha below this value are left to the terminal background.
const alphaThreshold = 128

// Resize scales src to width x height with the given interpolator.
func Resize(src image.Image, width, height int, interp xdraw.Interpolator) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	interp.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

// Fit scales src down to at most cols pixels wide, keeping its aspect ratio.
// Images that already fit are returned unchanged.
func Fit(src image.Image, cols int) image.Image {
	b := src.Bounds()
	if cols <= 0 || b.Dx() <= cols {
		return src
	}
	height := max(1, b.Dy()*cols/b.Dx())
	return Resize(src, cols, height, xdraw.ApproxBiLinear)
}

// encode writes img to buf, one text line per pair of pixel rows, and
// returns the number of lines written.
func encode(buf *bytes.Buffer, img image.Image) int {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		for x := b.Min.X; x < b.Max.X; x++ {
			top, topOk := rgba(img, x, y)

			var bottom rgb
			bottomOk := false
			if y+1 < b.Max.Y {
				bottom, bottomOk = rgba(img, x, y+1)
			}
			buf.WriteString(cell(top, topOk, bottom, bottomOk))
		}
		buf.WriteByte('\n')
	}
	return (b.Dy() + 1) / 2
}

type rgb struct {
	r, g, b int
}

func rgba(img image.Image, x, y int) (rgb, bool) {
	r, g, b, a := img.At(x, y).RGBA()
	if a>>8 < alphaThreshold {
		return rgb{}, false
	}
	return rgb{int(r >> 8), int(g >> 8), int(b >> 8)}, true
}

func cell(top rgb, topOk bool, bottom rgb, bottomOk bool) string {
	switch {
	case topOk && bottomOk:
		return color.RGB(top.r, top.g, top.b).AddBgRGB(bottom.r, bottom.g, bottom.b).Sprint(upperHalf)
	case topOk:
		return color.RGB(top.r, top.g, top.b).Sprint(upperHalf)
	case bottomOk:
		return color.RGB(bottom.r, bottom.g, bottom.b).Sprint(lowerHalf)
	default:
		return " "
	}
}

// Screen redraws frames in place on a terminal.
type Screen struct {
	w    io.Writer
	cols int
	rows int
	buf  bytes.Buffer
}

// NewScreen returns a Screen writing to w. Frames wider than cols pixels are
// scaled down; zero disables scaling.
func NewScreen(w io.Writer, cols int) *Screen {
	return &Screen{w: w, cols: cols}
}

// Draw writes img over the previously drawn frame.
func (s *Screen) Draw(img image.Image) error {
	s.buf.Reset()
	if s.rows > 0 {
		fmt.Fprintf(&s.buf, "\033[%dA", s.rows) // move the cursor to the top of the image
	}
	s.rows = encode(&s.buf, Fit(img, s.cols))

	_, err := s.w.Write(s.buf.Bytes())
	return err
}
