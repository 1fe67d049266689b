package format

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"time"

	"github.com/ostafen/giflet/internal/lzw"
)

// Section indicators.
const (
	sExtension       = 0x21
	sImageDescriptor = 0x2C
	sTrailer         = 0x3B
)

// Extensions.
const (
	eText           = 0x01 // Plain Text
	eGraphicControl = 0xF9 // Graphic Control
	eComment        = 0xFE // Comment
	eApplication    = 0xFF // Application
)

// Masks
const (
	// Fields.
	fColorTable         = 1 << 7
	fInterlace          = 1 << 6
	fColorTableBitsMask = 7

	// Graphic control flags.
	gcTransparentColorSet = 1 << 0
)

var errTrailer = errors.New("gif: trailer")

// decodeSession holds the state of a single decode. It is never shared
// between decodes.
type decodeSession struct {
	r    *Reader
	opts Options
	log  *slog.Logger

	doc              *Document
	globalColorTable ColorTable
	comp             *compositor

	// Pending graphic control state, consumed by the next image block.
	delay               time.Duration
	hasTransparentIndex bool
	transparentIndex    byte

	decoders map[int]*lzw.Decoder // by minimum code size


	tmp [1024]byte // must be at least 768 so we can read color table
}

// Decode decodes a GIF87a or GIF89a stream held in memory.
func Decode(data []byte, opts Options) (*Document, error) {
	if opts.MaxFileSize > 0 && int64(len(data)) > opts.MaxFileSize {
		return nil, fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrTooLarge, len(data), opts.MaxFileSize)
	}

	doc, err := DecodeReader(bytes.NewReader(data), opts)
	if errors.Is(err, ErrMalformedHeader) {
		if ext := Sniff(data); ext != "" {
			err = fmt.Errorf("%w (looks like a %s file)", err, ext)
		}
	}
	return doc, err
}

// DecodeReader decodes a GIF stream read from r.
//
// The stream is decoded into fully composited frames. Damage found after
// at least one frame has been decoded is not reported as an error: the
// frames decoded so far are returned and Document.Partial is set.
func DecodeReader(r io.Reader, opts Options) (*Document, error) {
	opts = opts.withDefaults()

	s := &decodeSession{
		r:        NewReader(r),
		opts:     opts,
		log:      opts.Logger,
		delay:    DefaultDelay,
		decoders: make(map[int]*lzw.Decoder),
	}
	return s.decode()
}

func (s *decodeSession) decode() (*Document, error) {
	if err := s.readHeaderAndScreenDescriptor(); err != nil {
		return nil, err
	}

	for {
		err := s.readBlock()
		if err == errTrailer {
			break
		}
		if err != nil {
			if len(s.doc.Frames) == 0 {
				return nil, err
			}
			s.log.Warn("gif: decoding stopped early, keeping decoded frames",
				"frames", len(s.doc.Frames),
				"offset", s.r.Offset(),
				"err", err,
			)
			s.doc.Partial = true
			break
		}
	}

	if len(s.doc.Frames) == 0 {
		s.log.Debug("gif: no image blocks, using blank canvas")
		s.doc.Frames = append(s.doc.Frames, Frame{
			Image: s.comp.snapshot(),
			Delay: DefaultDelay,
		})
	}
	return s.doc, nil
}

func (s *decodeSession) readBlock() error {
	c, err := s.r.ReadByte()
	if err != nil {
		return truncated("block type", err)
	}

	switch c {
	case sExtension:
		return s.readExtension()
	case sImageDescriptor:
		return s.readImageDescriptor()
	case sTrailer:
		return errTrailer
	default:
		return fmt.Errorf("%w: unknown block type 0x%.2x at offset %d", ErrMalformedBlock, c, s.r.Offset()-1)
	}
}

func (s *decodeSession) readHeaderAndScreenDescriptor() error {
	if _, err := io.ReadFull(s.r, s.tmp[:6]); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedHeader, err)
	}
	version := string(s.tmp[:6])
	if version != "GIF87a" && version != "GIF89a" {
		return fmt.Errorf("%w: can't recognize format %q", ErrMalformedHeader, version)
	}

	if err := s.readFull(s.tmp[:7], "logical screen descriptor"); err != nil {
		return err
	}

	width := int(readUint16(s.tmp[0:2]))
	height := int(readUint16(s.tmp[2:4]))
	if width == 0 || height == 0 {
		return fmt.Errorf("%w: invalid canvas size %dx%d", ErrMalformedHeader, width, height)
	}
	if width*height > s.opts.MaxPixels {
		return fmt.Errorf("%w: canvas %dx%d exceeds %d pixels", ErrTooLarge, width, height, s.opts.MaxPixels)
	}

	s.doc = &Document{
		Version:         version,
		Width:           width,
		Height:          height,
		BackgroundIndex: s.tmp[5],
	}
	// s.tmp[6] is the Pixel Aspect Ratio, which is ignored.

	if fields := s.tmp[4]; fields&fColorTable != 0 {
		ct, err := s.readColorTable(fields)
		if err != nil {
			return err
		}
		s.globalColorTable = ct
	}

	s.comp = newCompositor(width, height, s.opts.Background)

	s.log.Debug("gif: header",
		"version", version,
		"width", width,
		"height", height,
		"global_colors", len(s.globalColorTable),
	)
	return nil
}

func (s *decodeSession) readColorTable(fields byte) (ColorTable, error) {
	n := 1 << (1 + uint(fields&fColorTableBitsMask))
	if err := s.readFull(s.tmp[:3*n], "color table"); err != nil {
		return nil, err
	}

	ct := make(ColorTable, n)
	for i := range ct {
		ct[i] = RGB{R: s.tmp[3*i], G: s.tmp[3*i+1], B: s.tmp[3*i+2]}
	}
	return ct, nil
}

func (s *decodeSession) readExtension() error {
	label, err := s.r.ReadByte()
	if err != nil {
		return truncated("extension", err)
	}

	switch label {
	case eGraphicControl:
		return s.readGraphicControl()
	case eText, eComment, eApplication:
		s.log.Debug("gif: skipping extension", "label", fmt.Sprintf("0x%.2x", label))
	default:
		s.log.Debug("gif: skipping unknown extension", "label", fmt.Sprintf("0x%.2x", label))
	}
	return s.skipSubBlocks()
}

func (s *decodeSession) readGraphicControl() error {
	n, err := s.readSubBlock()
	if err != nil {
		return err
	}
	if n == 0 {
		// Empty extension, no terminator follows.
		return nil
	}
	if n < 4 {
		return fmt.Errorf("%w: invalid graphic control extension block size: %d", ErrMalformedBlock, n)
	}

	flags := s.tmp[0]
	s.delay = time.Duration(readUint16(s.tmp[1:3])) * 10 * time.Millisecond
	s.hasTransparentIndex = flags&gcTransparentColorSet != 0
	s.transparentIndex = s.tmp[3]

	return s.skipSubBlocks()
}

func (s *decodeSession) readImageDescriptor() error {
	if err := s.readFull(s.tmp[:9], "image descriptor"); err != nil {
		return err
	}
	left := int(readUint16(s.tmp[0:2]))
	top := int(readUint16(s.tmp[2:4]))
	width := int(readUint16(s.tmp[4:6]))
	height := int(readUint16(s.tmp[6:8]))
	fields := s.tmp[8]

	ct := s.globalColorTable
	if fields&fColorTable != 0 {
		local, err := s.readColorTable(fields)
		if err != nil {
			return err
		}
		ct = local
	}
	if fields&fInterlace != 0 {
		s.log.Debug("gif: interlaced image, rows are drawn in stored order")
	}

	litWidth, err := s.r.ReadByte()
	if err != nil {
		return truncated("image data", err)
	}

	data, err := s.readImageData()
	if err != nil {
		return err
	}

	indices, err := s.decodeImageData(int(litWidth), data, width*height)
	if err != nil {
		if !errors.Is(err, lzw.ErrExhausted) {
			return fmt.Errorf("gif: decoding image data at offset %d: %w", s.r.Offset(), err)
		}
		// Missing pixels keep the canvas value.
		s.log.Debug("gif: image data ended without end code",
			"decoded", len(indices),
			"expected", width*height,
		)
	}

	transparent := -1
	if s.opts.Transparency && s.hasTransparentIndex {
		transparent = int(s.transparentIndex)
	}
	region := image.Rect(left, top, left+width, top+height)
	s.comp.draw(indices, ct, region, transparent)

	s.doc.Frames = append(s.doc.Frames, Frame{
		Image: s.comp.snapshot(),
		Delay: s.delay,
	})

	s.log.Debug("gif: frame decoded",
		"index", len(s.doc.Frames)-1,
		"bounds", region.String(),
		"delay", s.delay,
		"local_colors", fields&fColorTable != 0,
	)

	s.delay = DefaultDelay
	s.hasTransparentIndex = false
	s.transparentIndex = 0
	return nil
}

// decodeImageData expands the LZW stream of an image block. Output past the
// pixel count of the block is never drawn, so decoding stops there.
func (s *decodeSession) decodeImageData(litWidth int, data []byte, pixels int) ([]byte, error) {
	if pixels == 0 {
		return nil, nil
	}

	d, ok := s.decoders[litWidth]
	if !ok {
		var err error
		if d, err = lzw.NewDecoder(litWidth); err != nil {
			return nil, err
		}
		s.decoders[litWidth] = d
	}
	return d.DecodeLimit(data, pixels)
}

// readImageData concatenates the data sub-blocks of an image block.
func (s *decodeSession) readImageData() ([]byte, error) {
	var data []byte
	for {
		n, err := s.readSubBlock()
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return data, nil
		}
		data = append(data, s.tmp[:n]...)
	}
}

// readSubBlock reads one length-prefixed sub-block into s.tmp and returns its size.
func (s *decodeSession) readSubBlock() (int, error) {
	n, err := s.r.ReadByte()
	if err != nil {
		return 0, truncated("sub-block", err)
	}
	if n == 0 {
		return 0, nil
	}
	if err := s.readFull(s.tmp[:n], "sub-block"); err != nil {
		return 0, err
	}
	return int(n), nil
}

func (s *decodeSession) skipSubBlocks() error {
	for {
		n, err := s.r.ReadByte()
		if err != nil {
			return truncated("sub-block", err)
		}
		if n == 0 {
			return nil
		}
		if err := s.r.Discard(int(n)); err != nil {
			return truncated("sub-block", err)
		}
	}
}

func (s *decodeSession) readFull(b []byte, what string) error {
	if _, err := io.ReadFull(s.r, b); err != nil {
		return truncated(what, err)
	}
	return nil
}

func truncated(what string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: reading %s", ErrTruncated, what)
	}
	return fmt.Errorf("gif: reading %s: %w", what, err)
}

func readUint16(b []byte) uint16 {
	return uint16(b[0]) | uint16(b[1])<<8
}
