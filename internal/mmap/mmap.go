// Package mmap maps input files read-only into memory.
package mmap

import (
	"fmt"
	"os"
)

// MmapFile represents a read-only view of a whole file.
type MmapFile struct {
	Data     []byte   // The file contents
	File     *os.File // The underlying opened file
	FileSize int      // Total size of the underlying file

	mapped bool // Data must be unmapped on Close
}

// Open maps the file at filePath. Files that cannot be mapped are read into memory instead.
// The returned MmapFile must be closed once Data is no longer referenced.
func Open(filePath string) (*MmapFile, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %q: %w", filePath, err)
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to get file info for %q: %w", filePath, err)
	}
	if fi.IsDir() {
		f.Close()
		return nil, fmt.Errorf("%q is a directory", filePath)
	}

	fileSize := int(fi.Size())
	if fileSize == 0 {
		f.Close()
		return nil, fmt.Errorf("file %q is empty", filePath)
	}

	data, mapped, err := mapFile(f, fileSize)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to map file %q: %w", filePath, err)
	}

	return &MmapFile{
		Data:     data,
		File:     f,
		FileSize: fileSize,
		mapped:   mapped,
	}, nil
}

// Close unmaps the memory region and closes the underlying file.
func (mf *MmapFile) Close() error {
	var err error
	if mf.Data != nil && mf.mapped {
		err = unmap(mf.Data)
		if err != nil {
			return fmt.Errorf("failed to munmap: %w", err)
		}
	}
	mf.Data = nil

	if mf.File != nil {
		closeErr := mf.File.Close()
		if closeErr != nil {
			return fmt.Errorf("failed to close file: %w", closeErr)
		}
		mf.File = nil
	}
	return nil
}
