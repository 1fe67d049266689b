package os

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "frames")

	created, err := EnsureDir(dir, true)
	require.NoError(t, err)
	require.True(t, created)

	created, err = EnsureDir(dir, true)
	require.NoError(t, err)
	require.False(t, created)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "frame_0000.png"), []byte{1}, 0644))

	_, err = EnsureDir(dir, true)
	require.Error(t, err)

	created, err = EnsureDir(dir, false)
	require.NoError(t, err)
	require.False(t, created)

	_, err = EnsureDir(filepath.Join(dir, "frame_0000.png"), false)
	require.Error(t, err)
}

func TestIsDirEmpty(t *testing.T) {
	dir := t.TempDir()

	empty, err := IsDirEmpty(dir)
	require.NoError(t, err)
	require.True(t, empty)

	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))
	empty, err = IsDirEmpty(dir)
	require.NoError(t, err)
	require.False(t, empty)

	_, err = IsDirEmpty(filepath.Join(dir, "missing"))
	require.Error(t, err)
}
