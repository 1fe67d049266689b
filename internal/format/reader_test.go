package format_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/ostafen/giflet/internal/format"
	"github.com/stretchr/testify/require"
)

func TestReaderOffset(t *testing.T) {
	testData := []byte("0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ")

	r := format.NewReader(bytes.NewReader(testData))
	require.Equal(t, 0, r.Offset())

	c, err := r.ReadByte()
	require.NoError(t, err)
	require.Equal(t, byte('0'), c)
	require.Equal(t, 1, r.Offset())

	buf := make([]byte, 5)
	_, err = io.ReadFull(r, buf)
	require.NoError(t, err)
	require.Equal(t, []byte("12345"), buf)
	require.Equal(t, 6, r.Offset())

	require.NoError(t, r.Discard(10))
	require.Equal(t, 16, r.Offset())

	c, err = r.ReadByte()
	require.NoError(t, err)
	require.Equal(t, byte('G'), c)

	err = r.Discard(100)
	require.ErrorIs(t, err, io.EOF)
	require.Equal(t, len(testData), r.Offset())

	_, err = r.ReadByte()
	require.ErrorIs(t, err, io.EOF)
	require.Equal(t, len(testData), r.Offset())
}
