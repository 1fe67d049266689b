//go:build linux
// +build linux

package fuse

import (
	"context"
	"testing"
	"time"

	"bazil.org/fuse"
	"github.com/stretchr/testify/require"
)

func testFS() *FramesFS {
	mtime := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	return NewFramesFS([]FileEntry{
		{Name: "frame_0001.png", Data: []byte("second"), Mtime: mtime},
		{Name: "frame_0000.png", Data: []byte("first frame"), Mtime: mtime},
		{Name: "manifest.xml", Data: []byte("<manifest/>"), Mtime: mtime},
	})
}

func TestReadDirAll(t *testing.T) {
	root, err := testFS().Root()
	require.NoError(t, err)

	dirents, err := root.(*Dir).ReadDirAll(context.Background())
	require.NoError(t, err)
	require.Len(t, dirents, 3)

	names := make([]string, len(dirents))
	for i, d := range dirents {
		names[i] = d.Name
		require.Equal(t, fuse.DT_File, d.Type)
		require.Equal(t, uint64(i+2), d.Inode)
	}
	require.Equal(t, []string{"frame_0000.png", "frame_0001.png", "manifest.xml"}, names)

	var attr fuse.Attr
	require.NoError(t, root.Attr(context.Background(), &attr))
	require.True(t, attr.Mode.IsDir())
}

func TestLookupAndRead(t *testing.T) {
	ctx := context.Background()
	dir := &Dir{fs: testFS()}

	_, err := dir.Lookup(ctx, "frame_0002.png")
	require.ErrorIs(t, err, fuse.ENOENT)

	node, err := dir.Lookup(ctx, "frame_0000.png")
	require.NoError(t, err)

	var attr fuse.Attr
	require.NoError(t, node.Attr(ctx, &attr))
	require.Equal(t, uint64(len("first frame")), attr.Size)
	require.Equal(t, 2025, attr.Mtime.Year())

	f := node.(File)
	read := func(off int64, size int) string {
		var resp fuse.ReadResponse
		require.NoError(t, f.Read(ctx, &fuse.ReadRequest{Offset: off, Size: size}, &resp))
		return string(resp.Data)
	}

	require.Equal(t, "first", read(0, 5))
	require.Equal(t, "frame", read(6, 100))
	require.Equal(t, "", read(11, 10))
	require.Equal(t, "", read(50, 10))
}
