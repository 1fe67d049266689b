package mmap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.bin")
	content := []byte("GIF89a mapped content")
	require.NoError(t, os.WriteFile(path, content, 0644))

	mf, err := Open(path)
	require.NoError(t, err)
	require.Equal(t, content, mf.Data)
	require.Equal(t, len(content), mf.FileSize)

	require.NoError(t, mf.Close())
	require.Nil(t, mf.Data)
	require.NoError(t, mf.Close())
}

func TestOpenErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Open(filepath.Join(dir, "missing.gif"))
	require.Error(t, err)

	_, err = Open(dir)
	require.Error(t, err)

	empty := filepath.Join(dir, "empty.gif")
	require.NoError(t, os.WriteFile(empty, nil, 0644))
	_, err = Open(empty)
	require.Error(t, err)
}
