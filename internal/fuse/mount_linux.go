//go:build linux
// +build linux

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
package fuse

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"bazil.org/fuse"
	fusefs "bazil.org/fuse/fs"
	osutil "github.com/ostafen/giflet/pkg/util/os"
)

const maxUnmountRetries = 3

// Mount serves entries read-only at mountpoint until ctx is cancelled and
// the filesystem has been unmounted. The mountpoint is created if missing
// and must otherwise be an empty directory.
func Mount(ctx context.Context, mountpoint string, entries []FileEntry, logger *slog.Logger) error {
	created, err := osutil.EnsureDir(mountpoint, true)
	if err != nil {
		return err
	}
	if created {
		defer os.Remove(mountpoint)
	}

	c, err := fuse.Mount(mountpoint, fuse.ReadOnly(), fuse.FSName("giflet"))
	if err != nil {
		return err
	}
	defer c.Close()

	errc := make(chan error, 1)
	go func() {
		srv := fusefs.New(c, nil)
		errc <- srv.Serve(NewFramesFS(entries))
	}()
	return waitForUnmount(ctx, mountpoint, errc, logger)
}

func waitForUnmount(ctx context.Context, mountpoint string, errc <-chan error, logger *slog.Logger) error {
	logger.Info("waiting for termination signal", "mountpoint", mountpoint)

	attempts := 0
	for {
		select {
		case err := <-errc:
			if err != nil {
				return fmt.Errorf("serve %s: %w", mountpoint, err)
			}
			return nil
		case <-ctx.Done():
		}

		logger.Info("unmounting", "mountpoint", mountpoint, "attempt", attempts+1, "max", maxUnmountRetries)
		err := fuse.Unmount(mountpoint)
		if err == nil {
			// Serve returns once the kernel drops the connection.
			return <-errc
		}

		attempts++
		if attempts >= maxUnmountRetries {
			return fmt.Errorf("unable to unmount %s after %d attempts: %w", mountpoint, attempts, err)
		}
		logger.Warn("unmount failed, retrying", "err", err, "remaining", maxUnmountRetries-attempts)
		time.Sleep(time.Second)
	}
}
