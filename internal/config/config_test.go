package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "merged", cfg.Merge.DefaultName)
	assert.Equal(t, []int{256, 128, 64, 32, 16}, cfg.Icon.Sizes)
}

func TestLoadOverlaysFile(t *testing.T) {
	dir := t.TempDir()
	yml := `
logLevel: debug
merge:
  defaultName: combined
qr:
  outputDir: /tmp/codes
  level: high
icon:
  sizes: [64, 32]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dmztools.yaml"), []byte(yml), 0o644))

	cfg, err := Load(t.TempDir(), dir)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "combined", cfg.Merge.DefaultName)
	assert.Equal(t, "qr", cfg.QR.DefaultName)
	assert.Equal(t, "/tmp/codes", cfg.QR.OutputDir)
	assert.Equal(t, "high", cfg.QR.Level)
	assert.Equal(t, 10, cfg.QR.ModulePixels)
	assert.Equal(t, []int{64, 32}, cfg.Icon.Sizes)
	assert.Equal(t, ":8080", cfg.Web.Addr)
}

func TestLoadPrefersFirstDir(t *testing.T) {
	a, b := t.TempDir(), t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(a, "dmztools.yml"), []byte("web:\n  addr: \":9000\"\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(b, "dmztools.yml"), []byte("web:\n  addr: \":9100\"\n"), 0o644))

	cfg, err := Load(a, b)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Web.Addr)
}

func TestLoadBlankValuesFallBack(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dmztools.yml"), []byte("merge:\n  defaultName: \"\"\nicon:\n  sizes: []\n"), 0o644))
	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "merged", cfg.Merge.DefaultName)
	assert.Equal(t, []int{256, 128, 64, 32, 16}, cfg.Icon.Sizes)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dmztools.yml")
	require.NoError(t, os.WriteFile(path, []byte("merge: [unclosed"), 0o644))

	_, err := Load(dir)
	assert.Error(t, err)
	_, err = LoadFile(path)
	assert.Error(t, err)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yml"))
	assert.True(t, os.IsNotExist(err))
}

func TestFindPrefersExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yml")
	require.NoError(t, os.WriteFile(path, []byte("web:\n  addr: \":9090\"\n"), 0o644))

	cfg, err := Find(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Web.Addr)
	assert.Equal(t, "pdfs", cfg.Web.Root)

	_, err = Find(filepath.Join(t.TempDir(), "gone.yml"))
	assert.Error(t, err)
}
