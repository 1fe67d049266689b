package format

import (
	"errors"
	"image"
	"image/color"
	"log/slog"
	"time"

	"github.com/ostafen/giflet/internal/logger"
)

// DefaultDelay is the frame delay used when no graphic control extension
// precedes an image block.
const DefaultDelay = 100 * time.Millisecond

// DefaultMaxPixels bounds the canvas allocation when Options.MaxPixels is zero.
const DefaultMaxPixels = 1 << 26

var (
	ErrMalformedHeader = errors.New("gif: malformed header")
	ErrTruncated       = errors.New("gif: truncated stream")
	ErrMalformedBlock  = errors.New("gif: malformed block")
	ErrTooLarge        = errors.New("gif: image too large")
)

// RGB is a single color table entry.
type RGB struct {
	R, G, B uint8
}

// RGBA returns the entry as an opaque color.
func (c RGB) RGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xFF}
}

// ColorTable maps color indices to colors. It holds at most 256 entries.
type ColorTable []RGB

// Frame is a fully composited animation frame.
type Frame struct {
	Image *image.RGBA
	Delay time.Duration
}

// Clone returns a deep copy of the frame.
func (f Frame) Clone() Frame {
	return Frame{
		Image: cloneRGBA(f.Image),
		Delay: f.Delay,
	}
}

// Document is the result of a successful decode.
type Document struct {
	Version         string // "GIF87a" or "GIF89a"
	Width, Height   int
	BackgroundIndex byte
	Frames          []Frame

	// Partial reports that the stream was damaged after at least one frame
	// and decoding stopped early. The frames present are complete.
	Partial bool
}

// Duration returns the sum of all frame delays.
func (d *Document) Duration() time.Duration {
	var total time.Duration
	for _, f := range d.Frames {
		total += f.Delay
	}
	return total
}

// Clone returns a deep copy of the document, frame buffers included.
func (d *Document) Clone() *Document {
	c := *d
	c.Frames = make([]Frame, len(d.Frames))
	for i, f := range d.Frames {
		c.Frames[i] = f.Clone()
	}
	return &c
}

// Options control how a GIF stream is decoded.
type Options struct {
	// Background enables background substitution when it is not fully
	// transparent: pixels that are transparent or near-black are replaced
	// by this color.
	Background color.RGBA

	// Transparency skips pixels matching the transparent index declared by
	// a graphic control extension, leaving the canvas untouched there.
	Transparency bool

	MaxPixels   int   // canvas size limit, DefaultMaxPixels if zero
	MaxFileSize int64 // input size limit, unlimited if zero

	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.MaxPixels <= 0 {
		o.MaxPixels = DefaultMaxPixels
	}
	if o.Logger == nil {
		o.Logger = logger.Discard()
	}
	return o
}

func cloneRGBA(img *image.RGBA) *image.RGBA {
	if img == nil {
		return nil
	}
	c := &image.RGBA{
		Pix:    make([]uint8, len(img.Pix)),
		Stride: img.Stride,
		Rect:   img.Rect,
	}
	copy(c.Pix, img.Pix)
	return c
}
