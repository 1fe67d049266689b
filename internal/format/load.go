package format

import (
	"fmt"

	"github.com/ostafen/giflet/internal/mmap"
)

// DecodeFile maps the file at path and decodes it. The returned document
// does not reference the mapped memory.
func DecodeFile(path string, opts Options) (*Document, error) {
	mf, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	defer mf.Close()

	doc, err := Decode(mf.Data, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}
