// Package lzw implements the variable-width LZW decompressor used by GIF image data.
//
// Codes are packed least significant bit first. The code width starts at
// minCodeSize+1 and grows by one bit every time the dictionary fills the
// current width, up to 12 bits. Two control codes are reserved right after
// the literal range: the clear code resets the dictionary and the end code
// terminates the stream.
package lzw

import (
	"errors"
	"fmt"
	"slices"
)

const (
	maxWidth = 12
	maxCodes = 1 << maxWidth

	noCode = 0xFFFF
)

var (
	ErrInvalidCode     = errors.New("lzw: invalid code")
	ErrInvalidCodeSize = errors.New("lzw: invalid minimum code size")
)

// Decoder holds the dictionary of a single decoding pass.
// The zero value is not usable, create one with NewDecoder.
type Decoder struct {
	minCodeSize int

	clear, end uint16
	next       uint16 // next free dictionary slot
	width      uint
	max        uint16

	// Entry c expands to expand(prefix[c]) + suffix[c].
	prefix [maxCodes]uint16
	suffix [maxCodes]byte
	first  [maxCodes]byte
	length [maxCodes]uint16
}

func NewDecoder(minCodeSize int) (*Decoder, error) {
	if minCodeSize < 2 || minCodeSize > 8 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCodeSize, minCodeSize)
	}

	d := &Decoder{
		minCodeSize: minCodeSize,
		clear:       1 << minCodeSize,
	}
	d.end = d.clear + 1

	for c := uint16(0); c < d.clear; c++ {
		d.prefix[c] = noCode
		d.suffix[c] = byte(c)
		d.first[c] = byte(c)
		d.length[c] = 1
	}
	d.reset()
	return d, nil
}

// Decode is a shorthand for NewDecoder followed by Decoder.Decode.
func Decode(minCodeSize int, data []byte) ([]byte, error) {
	d, err := NewDecoder(minCodeSize)
	if err != nil {
		return nil, err
	}
	return d.Decode(data)
}

func (d *Decoder) reset() {
	d.next = d.end + 1
	d.width = uint(d.minCodeSize) + 1
	d.max = 1<<d.width - 1
}

// Decode expands a complete code stream into the literal sequence.
//
// Decoding stops at the end code. If the data runs out before the end code,
// the output produced so far is returned together with ErrExhausted.
// A code that is neither a literal, a defined entry nor the next free slot
// yields ErrInvalidCode.
func (d *Decoder) Decode(data []byte) ([]byte, error) {
	return d.DecodeLimit(data, 0)
}

// DecodeLimit is like Decode but stops once limit bytes have been produced,
// ignoring the rest of the stream. A limit <= 0 means no limit.
func (d *Decoder) DecodeLimit(data []byte, limit int) ([]byte, error) {
	d.reset()

	size := len(data) * 2
	if limit > 0 {
		size = min(size, limit)
	}

	br := NewBitReader(data)
	out := make([]byte, 0, size)

	prev := uint16(noCode)
	for {
		if limit > 0 && len(out) >= limit {
			return out[:limit], nil
		}

		v, err := br.ReadBits(d.width)
		if err != nil {
			return out, err
		}
		code := uint16(v)

		switch {
		case code == d.clear:
			d.reset()
			prev = noCode
			continue
		case code == d.end:
			return out, nil
		}

		if prev == noCode {
			if code >= d.clear {
				return out, fmt.Errorf("%w: %d with empty dictionary", ErrInvalidCode, code)
			}
			out = append(out, byte(code))
			prev = code
			continue
		}

		var c byte
		switch {
		case code < d.next:
			out = d.expand(out, code)
			c = d.first[code]
		case code == d.next:
			out = d.expand(out, prev)
			c = d.first[prev]
			out = append(out, c)
		default:
			return out, fmt.Errorf("%w: %d (next %d)", ErrInvalidCode, code, d.next)
		}

		if d.next <= d.max {
			d.prefix[d.next] = prev
			d.suffix[d.next] = c
			d.first[d.next] = d.first[prev]
			d.length[d.next] = d.length[prev] + 1
			d.next++

			if d.next > d.max && d.width < maxWidth {
				d.width++
				d.max = 1<<d.width - 1
			}
		}
		prev = code
	}
}

// expand appends the string of code to out.
func (d *Decoder) expand(out []byte, code uint16) []byte {
	n := int(d.length[code])
	start := len(out)
	out = slices.Grow(out, n)[:start+n]

	for i := start + n - 1; i >= start; i-- {
		out[i] = d.suffix[code]
		code = d.prefix[code]
	}
	return out
}
