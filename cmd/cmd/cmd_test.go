package cmd

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	fcolor "github.com/fatih/color"
	"github.com/ostafen/giflet/internal/format"
	"github.com/ostafen/giflet/internal/player"
	"github.com/ostafen/giflet/internal/render"
	"github.com/ostafen/giflet/pkg/manifest"
	"github.com/stretchr/testify/require"
)

var palette = color.Palette{
	color.RGBA{0xFF, 0, 0, 0xFF},
	color.RGBA{0, 0xFF, 0, 0xFF},
	color.RGBA{0, 0, 0xFF, 0xFF},
	color.RGBA{0xFF, 0xFF, 0xFF, 0xFF},
}

func writeGIF(t *testing.T, dir string, delays ...int) string {
	t.Helper()

	g := &gif.GIF{Config: image.Config{ColorModel: palette, Width: 6, Height: 4}}
	for i, d := range delays {
		img := image.NewPaletted(image.Rect(0, 0, 6, 4), palette)
		for j := range img.Pix {
			img.Pix[j] = uint8(i % len(palette))
		}
		g.Image = append(g.Image, img)
		g.Delay = append(g.Delay, d)
	}

	var buf bytes.Buffer
	require.NoError(t, gif.EncodeAll(&buf, g))

	path := filepath.Join(dir, "anim.gif")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	prev := fcolor.NoColor
	fcolor.NoColor = true
	t.Cleanup(func() { fcolor.NoColor = prev })

	var out bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

func TestInfo(t *testing.T) {
	dir := t.TempDir()
	path := writeGIF(t, dir, 50, 150)

	out, err := run(t, "info", "--frames", path)
	require.NoError(t, err)
	require.Contains(t, out, "GIF89a")
	require.Contains(t, out, "6x4")
	require.Contains(t, out, "2s")
	require.Contains(t, out, "1.5s")
	require.Contains(t, out, "ok")

	bad := filepath.Join(dir, "bad.gif")
	require.NoError(t, os.WriteFile(bad, []byte("not a gif"), 0644))

	out, err = run(t, "info", path, bad)
	require.Error(t, err)
	require.Contains(t, out, "malformed header")
}

func TestSetupLogger(t *testing.T) {
	root := NewRootCommand()
	require.NoError(t, root.ParseFlags(nil))

	_, closeLog, err := setupLogger(root)
	require.NoError(t, err)
	require.NoError(t, closeLog())

	dir := t.TempDir()
	logFile := filepath.Join(dir, "logs", "giflet.log")

	_, err = run(t, "--log-level", "DEBUG", "--log-file", logFile, "info", writeGIF(t, dir, 10, 20))
	require.NoError(t, err)

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	require.Contains(t, string(data), "gif: frame decoded")

	root = NewRootCommand()
	require.NoError(t, root.ParseFlags([]string{"--log-file", logFile}))

	_, closeLog, err = setupLogger(root)
	require.NoError(t, err)
	require.NoError(t, closeLog())
	require.ErrorIs(t, closeLog(), os.ErrClosed)
}

func TestExtract(t *testing.T) {
	dir := t.TempDir()
	path := writeGIF(t, dir, 10, 20, 30)
	outDir := filepath.Join(dir, "frames")

	out, err := run(t, "extract", path, "-o", outDir, "--scale", "2")
	require.NoError(t, err)
	require.Contains(t, out, "[INFO] extracting 3 frame(s)")
	require.Contains(t, out, "100% (3/3 frames)")

	for i := 0; i < 3; i++ {
		f, err := os.Open(filepath.Join(outDir, frameName(i)))
		require.NoError(t, err)

		img, err := png.Decode(f)
		f.Close()
		require.NoError(t, err)
		require.Equal(t, image.Rect(0, 0, 12, 8), img.Bounds())

		r, g, b, _ := img.At(11, 7).RGBA()
		want := palette[i].(color.RGBA)
		require.Equal(t, []uint32{uint32(want.R) * 0x101, uint32(want.G) * 0x101, uint32(want.B) * 0x101}, []uint32{r, g, b})
	}

	mf, err := os.Open(filepath.Join(outDir, manifestName))
	require.NoError(t, err)
	defer mf.Close()

	hdr, frames, err := manifest.Read(mf)
	require.NoError(t, err)
	require.Equal(t, 3, hdr.Source.Frames)
	require.Equal(t, int64(600), hdr.Source.Duration)
	require.Len(t, frames, 3)
	require.Equal(t, int64(200), frames[1].Delay)
	require.Equal(t, frameName(2), frames[2].Filename)

	// the output directory must be empty
	_, err = run(t, "extract", path, "-o", outDir)
	require.Error(t, err)
}

func TestBuildEntries(t *testing.T) {
	path := writeGIF(t, t.TempDir(), 10, 10)

	doc, err := format.DecodeFile(path, format.Options{})
	require.NoError(t, err)

	entries, err := buildEntries(path, doc, 1)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, "frame_0000.png", entries[0].Name)
	require.Equal(t, "frame_0001.png", entries[1].Name)
	require.Equal(t, manifestName, entries[2].Name)

	_, frames, err := manifest.Read(bytes.NewReader(entries[2].Data))
	require.NoError(t, err)
	require.Len(t, frames, 2)
	require.Equal(t, uint64(len(entries[1].Data)), frames[1].FileSize)
}

func TestPlayStopsAtLastFrame(t *testing.T) {
	path := writeGIF(t, t.TempDir(), 1, 1, 1)

	doc, err := format.DecodeFile(path, format.Options{})
	require.NoError(t, err)

	var out bytes.Buffer
	screen := render.NewScreen(&out, 0)
	p := player.New(doc, false)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, play(ctx, p, screen, time.Millisecond))
	require.True(t, p.Finished())
	require.Equal(t, 2, p.Index())
	require.Contains(t, out.String(), "\033[2A")
}

func TestPlayCancelled(t *testing.T) {
	path := writeGIF(t, t.TempDir(), 100, 100)

	doc, err := format.DecodeFile(path, format.Options{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	require.NoError(t, play(ctx, player.New(doc, true), render.NewScreen(&out, 0), time.Millisecond))
	require.NotEmpty(t, out.String())
}

func TestParseColor(t *testing.T) {
	c, err := parseColor("#ff8000")
	require.NoError(t, err)
	require.Equal(t, color.RGBA{0xFF, 0x80, 0x00, 0xFF}, c)

	c, err = parseColor("")
	require.NoError(t, err)
	require.Equal(t, color.RGBA{}, c)

	for _, s := range []string{"#fff", "red", "#12345g"} {
		_, err := parseColor(s)
		require.Error(t, err, s)
	}
}

func TestGetMountpoint(t *testing.T) {
	require.Equal(t, "anim_mnt", getMountpoint("/tmp/anim.gif"))
	require.Equal(t, "anim_mnt", getMountpoint("anim"))
}
