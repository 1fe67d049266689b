package lzw

import "errors"

var (
	// ErrExhausted is returned when the bit stream holds fewer bits than requested.
	ErrExhausted = errors.New("lzw: bit stream exhausted")

	ErrInvalidBitCount = errors.New("lzw: invalid bit count")
)

const maxReadBits = 16

// BitReader extracts variable width codes from a byte slice,
// least significant bit first within each byte.
type BitReader struct {
	data []byte
	pos  int  // current byte
	bit  uint // bits already consumed from data[pos]
}

func NewBitReader(data []byte) *BitReader {
	return &BitReader{data: data}
}

// ReadBits returns the next n bits (1 <= n <= 16) as an unsigned integer.
// If fewer than n bits remain, the cursor is left untouched and ErrExhausted is returned.
func (r *BitReader) ReadBits(n uint) (uint32, error) {
	if n == 0 || n > maxReadBits {
		return 0, ErrInvalidBitCount
	}
	if r.Remaining() < int(n) {
		return 0, ErrExhausted
	}

	var (
		result uint32
		read   uint
	)
	for read < n {
		avail := 8 - r.bit
		take := min(avail, n-read)

		bits := (uint32(r.data[r.pos]) >> r.bit) & (1<<take - 1)
		result |= bits << read

		read += take
		r.bit += take
		if r.bit == 8 {
			r.pos++
			r.bit = 0
		}
	}
	return result, nil
}

// Remaining returns the number of unread bits.
func (r *BitReader) Remaining() int {
	return (len(r.data)-r.pos)*8 - int(r.bit)
}
