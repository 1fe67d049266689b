package logger

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	require.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	require.Equal(t, slog.LevelWarn, ParseLevel("WARN"))
	require.Equal(t, slog.LevelError, ParseLevel("ERROR"))
	require.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNewFiltersLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, slog.LevelWarn)

	l.Info("hidden")
	l.Warn("shown", "frames", 3)

	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "level=WARN msg=shown frames=3")
}

func TestSetup(t *testing.T) {
	l, f, err := Setup("", slog.LevelDebug)
	require.NoError(t, err)
	require.Nil(t, f)
	require.NotNil(t, l)

	path := filepath.Join(t.TempDir(), "logs", "giflet.log")
	l, f, err = Setup(path, slog.LevelDebug)
	require.NoError(t, err)
	require.NotNil(t, f)

	l.Debug("decoding", "file", "a.gif")
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "file=a.gif")
}
