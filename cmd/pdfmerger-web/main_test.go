package main

import (
	"bytes"
	"context"
	"flag"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dmztools.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestSetupUsesFlags(t *testing.T) {
	root := filepath.Join(t.TempDir(), "pdfs")
	cfg := writeConfig(t, "logLevel: error\nweb:\n  addr: \":9999\"\n")

	var stderr bytes.Buffer
	srv, _, err := setup([]string{"-root", root, "-addr", "127.0.0.1:0", "-config", cfg}, &stderr)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:0", srv.Addr)
	assert.DirExists(t, filepath.Join(root, "_merged"))
	assert.DirExists(t, filepath.Join(root, "_downloads"))

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSetupFallsBackToConfig(t *testing.T) {
	root := filepath.Join(t.TempDir(), "lib")
	cfg := writeConfig(t, "logLevel: error\nweb:\n  addr: \"127.0.0.1:9999\"\n  root: "+root+"\n")

	srv, _, err := setup([]string{"-config", cfg}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9999", srv.Addr)
	assert.DirExists(t, filepath.Join(root, "_merged"))
}

func TestSetupErrors(t *testing.T) {
	_, _, err := setup([]string{"-nope"}, &bytes.Buffer{})
	assert.Error(t, err)

	_, _, err = setup([]string{"-h"}, &bytes.Buffer{})
	assert.ErrorIs(t, err, flag.ErrHelp)

	_, _, err = setup([]string{"-config", filepath.Join(t.TempDir(), "missing.yml")}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "config:")
}

func TestRunStopsOnCancel(t *testing.T) {
	root := t.TempDir()
	cfg := writeConfig(t, "logLevel: error\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := run(ctx, []string{"-root", root, "-addr", "127.0.0.1:0", "-config", cfg}, &bytes.Buffer{})
	assert.NoError(t, err)
}
