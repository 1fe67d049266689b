package cmd

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/ostafen/giflet/internal/format"
	"github.com/ostafen/giflet/internal/render"
	"github.com/ostafen/giflet/pkg/manifest"
	xdraw "golang.org/x/image/draw"
)

const manifestName = "manifest.xml"

func frameName(i int) string {
	return fmt.Sprintf("frame_%04d.png", i)
}

// encodeFrame encodes img as PNG, scaled by the given factor.
func encodeFrame(img *image.RGBA, scale float64) ([]byte, error) {
	var src image.Image = img
	if scale > 0 && scale != 1 {
		b := img.Bounds()
		w := max(1, int(float64(b.Dx())*scale))
		h := max(1, int(float64(b.Dy())*scale))
		src = render.Resize(img, w, h, xdraw.NearestNeighbor)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// walkFrames encodes every frame of doc and passes it to fn along with its
// manifest entry.
func walkFrames(doc *format.Document, scale float64, fn func(obj manifest.FrameObject, data []byte) error) error {
	for i := range doc.Frames {
		f := &doc.Frames[i]

		data, err := encodeFrame(f.Image, scale)
		if err != nil {
			return fmt.Errorf("encoding frame %d: %w", i, err)
		}

		obj := manifest.FrameObject{
			Index:    i,
			Filename: frameName(i),
			FileSize: uint64(len(data)),
			Delay:    f.Delay.Milliseconds(),
		}
		if err := fn(obj, data); err != nil {
			return err
		}
	}
	return nil
}

func manifestSource(path string, doc *format.Document) manifest.Source {
	var size int64
	if fi, err := os.Stat(path); err == nil {
		size = fi.Size()
	}

	return manifest.Source{
		Filename: path,
		FileSize: size,
		Format:   doc.Version,
		Width:    doc.Width,
		Height:   doc.Height,
		Frames:   len(doc.Frames),
		Duration: doc.Duration().Milliseconds(),
		Partial:  doc.Partial,
	}
}
