package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatBytes(t *testing.T) {
	require.Equal(t, "512B", FormatBytes(512))
	require.Equal(t, "1KB", FormatBytes(1024))
	require.Equal(t, "1.50MB", FormatBytes(3*MB/2))
	require.Equal(t, "2GB", FormatBytes(2*GB))
}

func TestParseBytes(t *testing.T) {
	cases := map[string]int64{
		"0":      0,
		"512":    512,
		"512B":   512,
		"64KB":   64 * KB,
		"1.5MB":  3 * MB / 2,
		" 2gb ":  2 * GB,
		"1 TB":   TB,
		"100 kb": 100 * KB,
	}
	for in, want := range cases {
		got, err := ParseBytes(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}

	for _, in := range []string{"", "MB", "abc", "-1KB", "12XB"} {
		_, err := ParseBytes(in)
		require.Error(t, err, in)
	}

	for _, n := range []int64{0, 100, KB, 64 * MB, 3 * GB} {
		got, err := ParseBytes(FormatBytes(n))
		require.NoError(t, err)
		require.Equal(t, n, got)
	}
}
