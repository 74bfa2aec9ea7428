// Package fetch downloads remote PDFs so they can join a merge.
//
// Many sites answer a document link with an HTML landing page instead of
// the file itself. In that case the page is searched for a link ending in
// .pdf, or an anchor whose text mentions "download" or "pdf", and that link
// is followed.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// DefaultUserAgent identifies the downloader to remote servers.
const DefaultUserAgent = "DMZTools/1.0 (+https://example.local)"

// DefaultMaxHops bounds how many landing pages are followed.
const DefaultMaxHops = 3

// maxPageBytes caps how much of a landing page is searched for a link.
const maxPageBytes = 4 << 20

// ErrNoPDFLink is returned when a landing page has no usable link.
var ErrNoPDFLink = errors.New("no direct PDF link found in HTML page")

// Client downloads PDFs over HTTP.
type Client struct {
	HTTP      *http.Client
	UserAgent string
	MaxHops   int
	// Retries is how many extra attempts a request gets after a network
	// error or a 5xx answer. RetryDelay separates attempts.
	Retries    int
	RetryDelay time.Duration
}

// errRetryable marks failures worth another attempt.
type errRetryable struct{ err error }

func (e errRetryable) Error() string { return e.err.Error() }
func (e errRetryable) Unwrap() error { return e.err }

// New returns a client with a 60 second timeout.
func New() *Client {
	return &Client{
		HTTP:       &http.Client{Timeout: 60 * time.Second},
		UserAgent:  DefaultUserAgent,
		MaxHops:    DefaultMaxHops,
		Retries:    1,
		RetryDelay: 500 * time.Millisecond,
	}
}

// Into downloads rawURL into dir under a name derived from the URL and
// returns the written path. Existing files are never overwritten.
func (c *Client) Into(ctx context.Context, rawURL, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("fetch: creating %s: %w", dir, err)
	}
	outPath := uniquePath(dir, FileName(rawURL))
	if err := c.Download(ctx, rawURL, outPath); err != nil {
		return "", err
	}
	return outPath, nil
}

// Download writes the PDF behind rawURL to outPath. The file only appears
// once the body has been copied completely.
func (c *Client) Download(ctx context.Context, rawURL, outPath string) error {
	hops := c.MaxHops
	if hops <= 0 {
		hops = DefaultMaxHops
	}
	u := rawURL
	for i := 0; i < hops+1; i++ {
		next, err := c.getWithRetry(ctx, u, outPath)
		if err != nil {
			return fmt.Errorf("fetch %s: %w", u, err)
		}
		if next == "" {
			return nil
		}
		u = next
	}
	return fmt.Errorf("fetch %s: gave up after %d landing pages", rawURL, hops)
}

func (c *Client) getWithRetry(ctx context.Context, u, outPath string) (string, error) {
	var lastErr error
	for i := 0; i <= c.Retries; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(c.RetryDelay):
			}
		}
		next, err := c.get(ctx, u, outPath)
		var re errRetryable
		if err == nil || !errors.As(err, &re) {
			return next, err
		}
		lastErr = re.err
	}
	return "", lastErr
}

// get performs one request. It returns the next URL to follow when the
// response was a landing page, or "" once the PDF has been written.
func (c *Client) get(ctx context.Context, u, outPath string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}
	ua := c.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	req.Header.Set("User-Agent", ua)

	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", err
		}
		return "", errRetryable{err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return "", errRetryable{errors.New("http " + strconv.Itoa(resp.StatusCode))}
	}
	if resp.StatusCode >= 400 {
		return "", errors.New("http " + strconv.Itoa(resp.StatusCode))
	}

	ct := strings.ToLower(resp.Header.Get("Content-Type"))
	switch {
	case strings.Contains(ct, "pdf"), ct == "application/octet-stream",
		strings.HasSuffix(strings.ToLower(resp.Request.URL.Path), ".pdf"):
		return "", writeAtomic(outPath, resp.Body)
	case strings.Contains(ct, "text/html"):
		link, err := FindPDFLink(io.LimitReader(resp.Body, maxPageBytes), resp.Request.URL.String())
		if err != nil {
			return "", err
		}
		return link, nil
	}
	return "", fmt.Errorf("unsupported content-type %q", ct)
}

// FindPDFLink scans an HTML document for the most likely PDF link and
// resolves it against base. Links ending in .pdf win over anchors that only
// mention "download" or "pdf" in their text.
func FindPDFLink(r io.Reader, base string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", err
	}
	var direct, textual []string
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") {
			return
		}
		abs := absURL(base, href)
		txt := strings.ToLower(strings.TrimSpace(a.Text()))
		switch {
		case strings.HasSuffix(strings.ToLower(stripQuery(abs)), ".pdf"):
			direct = append(direct, abs)
		case strings.Contains(txt, "download") || strings.Contains(txt, "pdf"):
			textual = append(textual, abs)
		}
	})
	if len(direct) > 0 {
		return direct[0], nil
	}
	if len(textual) > 0 {
		return textual[0], nil
	}
	return "", ErrNoPDFLink
}

// FileName picks a local file name for rawURL, always ending in .pdf.
func FileName(rawURL string) string {
	name := ""
	if u, err := url.Parse(rawURL); err == nil {
		name = path.Base(u.Path)
	}
	name = strings.TrimSuffix(name, path.Ext(name))
	name = sanitize(name)
	if name == "" {
		name = "download"
	}
	return name + ".pdf"
}

func sanitize(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r == '-' || r == '_' || r == '.' ||
			(r >= 'a' && r <= 'z') ||
			(r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), ".")
}

func uniquePath(dir, name string) string {
	p := filepath.Join(dir, name)
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := 1; ; i++ {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			return p
		}
		p = filepath.Join(dir, fmt.Sprintf("%s-%d%s", stem, i, ext))
	}
}

func writeAtomic(outPath string, body io.Reader) error {
	tmp, err := os.CreateTemp(filepath.Dir(outPath), ".fetch-*")
	if err != nil {
		return err
	}
	if _, err := io.Copy(tmp, body); err != nil {
		tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), outPath)
}

func absURL(base, href string) string {
	bu, err := url.Parse(base)
	if err != nil {
		return href
	}
	hu, err := url.Parse(href)
	if err != nil {
		return href
	}
	return bu.ResolveReference(hu).String()
}

func stripQuery(u string) string {
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		return u[:i]
	}
	return u
}
