//go:build !linux
// +build !linux

package fuse

import (
	"context"
	"errors"
	"log/slog"
)

func Mount(ctx context.Context, mountpoint string, entries []FileEntry, logger *slog.Logger) error {
	return errors.New("FUSE mount is only supported on Linux")
}
