// Copyright (c) 2025 Stefano Scafiti
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
package format

import "bytes"

// FileHeader names a file format by the magic bytes it starts with.
type FileHeader struct {
	Ext        string
	Signatures [][]byte
}

// KnownHeaders lists formats commonly mistaken for GIF files.
var KnownHeaders = []FileHeader{
	{
		Ext:        "png",
		Signatures: [][]byte{[]byte("\x89PNG\r\n\x1a\n")},
	},
	{
		Ext:        "jpg",
		Signatures: [][]byte{{0xFF, 0xD8, 0xFF}},
	},
	{
		Ext:        "bmp",
		Signatures: [][]byte{[]byte("BM")},
	},
	{
		Ext: "tiff",
		Signatures: [][]byte{
			[]byte("\x49\x49\x2A\x00"),
			[]byte("\x4D\x4D\x00\x2A"),
		},
	},
	{
		Ext:        "webp",
		Signatures: [][]byte{[]byte("RIFF")},
	},
	{
		Ext:        "pdf",
		Signatures: [][]byte{[]byte("%PDF-")},
	},
	{
		Ext: "zip",
		Signatures: [][]byte{
			{'P', 'K', 0x03, 0x04},
		},
	},
	{
		Ext:        "rar",
		Signatures: [][]byte{{0x52, 0x61, 0x72, 0x21, 0x1a, 0x07}},
	},
}

// Sniff returns the extension of the first known format whose signature
// prefixes data, or the empty string.
func Sniff(data []byte) string {
	for _, hdr := range KnownHeaders {
		for _, sig := range hdr.Signatures {
			if !bytes.HasPrefix(data, sig) {
				continue
			}
			// RIFF is shared with WAV and AVI.
			if hdr.Ext == "webp" && (len(data) < 12 || string(data[8:12]) != "WEBP") {
				continue
			}
			return hdr.Ext
		}
	}
	return ""
}
