package format

import (
	"bufio"
	"io"
)

// Reader is a buffered byte reader that keeps track of how many bytes
// have been consumed from the underlying stream.
type Reader struct {
	r *bufio.Reader

	n int
}

func NewReader(r io.Reader) *Reader {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Reader{r: br}
}

func (r *Reader) ReadByte() (byte, error) {
	b, err := r.r.ReadByte()
	if err == nil {
		r.n++
	}
	return b, err
}

func (r *Reader) Read(buf []byte) (int, error) {
	n, err := r.r.Read(buf)
	if n > 0 {
		r.n += n
	}
	return n, err
}

func (r *Reader) Discard(n int) error {
	m, err := r.r.Discard(n)
	r.n += m
	return err
}

// Offset returns the number of bytes consumed so far.
func (r *Reader) Offset() int {
	return r.n
}
