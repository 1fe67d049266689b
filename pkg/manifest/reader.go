package manifest

import (
	"encoding/xml"
	"errors"
	"io"
)

// Read parses a manifest written by Writer.
func Read(r io.Reader) (*Header, []FrameObject, error) {
	dec := xml.NewDecoder(r)

	var (
		hdr    *Header
		frames []FrameObject
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, err
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		switch start.Name.Local {
		case "header":
			hdr = &Header{}
			if err := dec.DecodeElement(hdr, &start); err != nil {
				return nil, nil, err
			}
		case "frame":
			var fo FrameObject
			if err := dec.DecodeElement(&fo, &start); err != nil {
				return nil, nil, err
			}
			frames = append(frames, fo)
		}
	}
	return hdr, frames, nil
}
