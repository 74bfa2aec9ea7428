package main

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"example.com/dmztools/internal/cli"
)

func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	cfg := filepath.Join(t.TempDir(), "dmztools.yml")
	require.NoError(t, os.WriteFile(cfg, []byte("logLevel: error\nicon:\n  sizes: [48, 16]\n"), 0o644))

	cmd := newCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append(args, "--config", cfg))
	return cli.Execute(cmd), out.String(), errOut.String()
}

func writePNG(t *testing.T, dir string, size int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 0x80, A: 0xff})
		}
	}
	path := filepath.Join(dir, "logo.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

// frameCount reads the image count from the ICONDIR header.
func frameCount(t *testing.T, path string) int {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(data), 6)
	return int(binary.LittleEndian.Uint16(data[4:6]))
}

func TestExplicitSizes(t *testing.T) {
	src := writePNG(t, t.TempDir(), 100)
	code, out, errOut := run(t, src, "--sizes", "64, 32,16")
	require.Equal(t, cli.ExitOK, code, errOut)

	want := filepath.Join(filepath.Dir(src), "logo.ico")
	assert.Equal(t, "Saved icon to "+want+"\n", out)
	assert.Equal(t, 3, frameCount(t, want))
}

func TestSizesFromConfig(t *testing.T) {
	src := writePNG(t, t.TempDir(), 100)
	target := filepath.Join(t.TempDir(), "app.ico")
	code, _, errOut := run(t, src, "-o", target)
	require.Equal(t, cli.ExitOK, code, errOut)
	assert.Equal(t, 2, frameCount(t, target))
}

func TestExitCodes(t *testing.T) {
	dir := t.TempDir()
	src := writePNG(t, dir, 20)

	cases := []struct {
		name string
		args []string
		code int
	}{
		{"no source", nil, cli.ExitUsage},
		{"two sources", []string{src, src}, cli.ExitUsage},
		{"bad sizes", []string{src, "--sizes", "64,x"}, cli.ExitUsage},
		{"size too big", []string{src, "--sizes", "512"}, cli.ExitUsage},
		{"only larger sizes", []string{src, "--sizes", "64,32"}, cli.ExitUsage},
		{"missing source", []string{filepath.Join(dir, "nope.png")}, cli.ExitFailure},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, out, errOut := run(t, tc.args...)
			assert.Equal(t, tc.code, code)
			assert.Empty(t, out)
			assert.Contains(t, errOut, "toico: ")
		})
	}
	assert.NoFileExists(t, filepath.Join(dir, "logo.ico"))
}
