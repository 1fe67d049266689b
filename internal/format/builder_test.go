package format_test

import (
	"bytes"
	"compress/lzw"
	"image"
	"image/color"
	"image/gif"
	"math/bits"
	"testing"

	"github.com/ostafen/giflet/internal/format"
	"github.com/stretchr/testify/require"
)

var (
	red   = format.RGB{R: 0xFF}
	green = format.RGB{G: 0xFF}
	blue  = format.RGB{B: 0xFF}
	black = format.RGB{}
)

// gifBuilder writes GIF blocks one at a time so tests can produce
// streams the standard encoder never would.
type gifBuilder struct {
	bytes.Buffer
}

func tableBits(ct format.ColorTable) byte {
	return byte(bits.Len(uint(len(ct))) - 2)
}

func (b *gifBuilder) header(width, height int, global format.ColorTable) *gifBuilder {
	b.WriteString("GIF89a")
	b.writeUint16(width)
	b.writeUint16(height)

	var fields byte
	if global != nil {
		fields = 0x80 | tableBits(global)
	}
	b.WriteByte(fields)
	b.WriteByte(0) // background index
	b.WriteByte(0) // aspect ratio
	b.writeTable(global)
	return b
}

func (b *gifBuilder) graphicControl(delay int, transparent int) *gifBuilder {
	b.Write([]byte{0x21, 0xF9, 0x04})

	var fields byte
	if transparent >= 0 {
		fields = 1
	} else {
		transparent = 0
	}
	b.WriteByte(fields)
	b.writeUint16(delay)
	b.WriteByte(byte(transparent))
	b.WriteByte(0)
	return b
}

func (b *gifBuilder) extension(label byte, blocks ...string) *gifBuilder {
	b.Write([]byte{0x21, label})
	for _, s := range blocks {
		b.WriteByte(byte(len(s)))
		b.WriteString(s)
	}
	b.WriteByte(0)
	return b
}

func (b *gifBuilder) image(r image.Rectangle, local format.ColorTable, pixels []byte) *gifBuilder {
	litWidth := 2
	if local != nil {
		litWidth = max(2, bits.Len(uint(len(local)))-1)
	}

	var data bytes.Buffer
	w := lzw.NewWriter(&data, lzw.LSB, litWidth)
	_, _ = w.Write(pixels)
	_ = w.Close()

	return b.rawImage(r, local, byte(litWidth), data.Bytes())
}

func (b *gifBuilder) rawImage(r image.Rectangle, local format.ColorTable, litWidth byte, data []byte) *gifBuilder {
	b.WriteByte(0x2C)
	b.writeUint16(r.Min.X)
	b.writeUint16(r.Min.Y)
	b.writeUint16(r.Dx())
	b.writeUint16(r.Dy())

	var fields byte
	if local != nil {
		fields = 0x80 | tableBits(local)
	}
	b.WriteByte(fields)
	b.writeTable(local)

	b.WriteByte(litWidth)
	for len(data) > 0 {
		n := min(len(data), 255)
		b.WriteByte(byte(n))
		b.Write(data[:n])
		data = data[n:]
	}
	b.WriteByte(0)
	return b
}

func (b *gifBuilder) trailer() []byte {
	b.WriteByte(0x3B)
	return b.Bytes()
}

func (b *gifBuilder) writeUint16(v int) {
	b.WriteByte(byte(v))
	b.WriteByte(byte(v >> 8))
}

func (b *gifBuilder) writeTable(ct format.ColorTable) {
	for _, c := range ct {
		b.Write([]byte{c.R, c.G, c.B})
	}
}

// zeroRunCodes packs an LZW stream (minimum code size 2) that fills the
// dictionary with ever longer runs of index 0, then repeats the longest
// entry, 4091 zeros, the given number of times.
func zeroRunCodes(repeats int) []byte {
	var (
		out   []byte
		acc   uint32
		n     uint
		width = uint(3)
	)
	write := func(code int) {
		acc |= uint32(code) << n
		n += width
		for n >= 8 {
			out = append(out, byte(acc))
			acc >>= 8
			n -= 8
		}
	}

	write(4)
	write(0)
	for next := 6; next < 4096; next++ {
		write(next)
		if next+1 > 1<<width-1 && width < 12 {
			width++
		}
	}
	for i := 0; i < repeats; i++ {
		write(4095)
	}
	write(5)
	if n > 0 {
		out = append(out, byte(acc))
	}
	return out
}

func fill(n int, idx byte) []byte {
	return bytes.Repeat([]byte{idx}, n)
}

var testPalette = color.Palette{
	color.RGBA{0xFF, 0x00, 0x00, 0xFF},
	color.RGBA{0x00, 0xFF, 0x00, 0xFF},
	color.RGBA{0x00, 0x00, 0xFF, 0xFF},
	color.RGBA{0x00, 0x00, 0x00, 0xFF},
}

// encodeAnimation encodes width x height frames with the standard library,
// frame i filled with palette index i%4 except for a diagonal in index 3.
func encodeAnimation(t *testing.T, width, height int, delays ...int) []byte {
	t.Helper()

	g := &gif.GIF{
		Config: image.Config{
			ColorModel: testPalette,
			Width:      width,
			Height:     height,
		},
	}
	for i, d := range delays {
		img := image.NewPaletted(image.Rect(0, 0, width, height), testPalette)
		for j := range img.Pix {
			img.Pix[j] = uint8(i % 3)
		}
		for k := 0; k < min(width, height); k++ {
			img.SetColorIndex(k, k, 3)
		}
		g.Image = append(g.Image, img)
		g.Delay = append(g.Delay, d)
	}

	var buf bytes.Buffer
	require.NoError(t, gif.EncodeAll(&buf, g))
	return buf.Bytes()
}
