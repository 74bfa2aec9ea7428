package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fakePDF = "%PDF-1.4\n% fake body\n%%EOF\n"

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/docs/sheet.pdf", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte(fakePDF))
	})
	mux.HandleFunc("/blob", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write([]byte(fakePDF))
	})
	mux.HandleFunc("/landing", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><body>
			<a href="#top">top</a>
			<a href="/about">About</a>
			<a href="/blob">Download now</a>
			<a href="docs/sheet.pdf?x=1">file</a>
		</body></html>`))
	})
	mux.HandleFunc("/textonly", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<a href="/about">About</a><a href="/blob">Get the PDF</a>`))
	})
	mux.HandleFunc("/loop", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<a href="/loop">download</a>`))
	})
	mux.HandleFunc("/nolink", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<p>nothing here</p>`))
	})
	mux.HandleFunc("/image", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("png"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestDownloadDirect(t *testing.T) {
	srv := newServer(t)
	out := filepath.Join(t.TempDir(), "a.pdf")
	require.NoError(t, New().Download(context.Background(), srv.URL+"/docs/sheet.pdf", out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, fakePDF, string(data))
}

func TestDownloadFollowsLandingPage(t *testing.T) {
	srv := newServer(t)
	for _, path := range []string{"/landing", "/textonly"} {
		out := filepath.Join(t.TempDir(), "b.pdf")
		require.NoError(t, New().Download(context.Background(), srv.URL+path, out), path)
		assert.FileExists(t, out)
	}
}

func TestDownloadErrors(t *testing.T) {
	srv := newServer(t)
	dir := t.TempDir()
	c := New()

	cases := map[string]string{
		"/missing": "http 404",
		"/nolink":  ErrNoPDFLink.Error(),
		"/image":   "unsupported content-type",
		"/loop":    "gave up",
	}
	for path, want := range cases {
		out := filepath.Join(dir, strings.Trim(path, "/")+".pdf")
		err := c.Download(context.Background(), srv.URL+path, out)
		require.Error(t, err, path)
		assert.Contains(t, err.Error(), want, path)
		assert.NoFileExists(t, out, path)
	}
}

func TestLandingPageReadIsCapped(t *testing.T) {
	pad := strings.Repeat("x", maxPageBytes)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/sheet.pdf":
			w.Header().Set("Content-Type", "application/pdf")
			_, _ = w.Write([]byte(fakePDF))
		case "/early":
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(`<a href="/sheet.pdf">sheet</a><p>` + pad + `</p>`))
		case "/late":
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(`<p>` + pad + `</p><a href="/sheet.pdf">sheet</a>`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	dir := t.TempDir()
	require.NoError(t, New().Download(context.Background(), srv.URL+"/early", filepath.Join(dir, "early.pdf")))

	late := filepath.Join(dir, "late.pdf")
	err := New().Download(context.Background(), srv.URL+"/late", late)
	require.ErrorIs(t, err, ErrNoPDFLink)
	assert.NoFileExists(t, late)
}

func TestIntoPicksUniqueNames(t *testing.T) {
	srv := newServer(t)
	dir := t.TempDir()
	c := New()

	first, err := c.Into(context.Background(), srv.URL+"/docs/sheet.pdf", dir)
	require.NoError(t, err)
	second, err := c.Into(context.Background(), srv.URL+"/docs/sheet.pdf", dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "sheet.pdf"), first)
	assert.Equal(t, filepath.Join(dir, "sheet-1.pdf"), second)
}

func TestFindPDFLinkPrefersDirect(t *testing.T) {
	html := `<a href="/get">Download</a><a href="files/report.PDF">report</a>`
	got, err := FindPDFLink(strings.NewReader(html), "https://example.com/page/index.html")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/page/files/report.PDF", got)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "sheet.pdf", FileName("https://x.test/a/sheet.pdf?v=2"))
	assert.Equal(t, "my_file.pdf", FileName("https://x.test/my%20_file.pdf"))
	assert.Equal(t, "landing.pdf", FileName("https://x.test/landing"))
	assert.Equal(t, "download.pdf", FileName("https://x.test/"))
	assert.Equal(t, "download.pdf", FileName("::bad"))
}

func TestDownloadRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte(fakePDF))
	}))
	defer srv.Close()

	c := New()
	c.RetryDelay = time.Millisecond
	out := filepath.Join(t.TempDir(), "r.pdf")
	require.NoError(t, c.Download(context.Background(), srv.URL+"/r", out))
	assert.EqualValues(t, 2, calls.Load())

	calls.Store(0)
	c.Retries = 0
	err := c.Download(context.Background(), srv.URL+"/r", filepath.Join(t.TempDir(), "x.pdf"))
	assert.ErrorContains(t, err, "http 503")
}
