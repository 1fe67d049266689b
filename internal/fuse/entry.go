package fuse

import "time"

// FileEntry is a read-only file served from memory.
type FileEntry struct {
	Name  string
	Data  []byte
	Mtime time.Time
}
