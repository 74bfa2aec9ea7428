// Package app is the presentation-independent core of the desktop tool. The
// Controller owns the selection list and runs merges, QR generation and
// downloads; every action returns a Notice that the GUI shows as a dialog.
package app

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"example.com/dmztools/internal/apperr"
	"example.com/dmztools/internal/fetch"
	"example.com/dmztools/internal/logging"
	"example.com/dmztools/internal/merge"
	"example.com/dmztools/internal/outname"
	"example.com/dmztools/internal/qr"
	"example.com/dmztools/internal/selection"
)

// Options configure a Controller. Zero values select the defaults.
type Options struct {
	MergeBase   string // fallback output name for merges
	QRBase      string // fallback output name for QR codes
	QRDir       string // destination of QR codes; "" means the working directory
	QR          qr.Options
	DownloadDir string // where fetched PDFs land; "" means the user cache dir
	Fetcher     *fetch.Client
	Resolver    outname.Resolver
	Logger      *slog.Logger
}

// Controller holds the session state: the ordered list of PDFs to merge.
type Controller struct {
	opts  Options
	files *selection.List
	log   *slog.Logger
}

// New returns a controller with an empty selection.
func New(opts Options) *Controller {
	if opts.MergeBase == "" {
		opts.MergeBase = outname.DefaultMergeBase
	}
	if opts.QRBase == "" {
		opts.QRBase = outname.DefaultQRBase
	}
	if opts.Fetcher == nil {
		opts.Fetcher = fetch.New()
	}
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}
	return &Controller{
		opts:  opts,
		files: selection.New(nil),
		log:   log.With("component", "app"),
	}
}

// OnChange registers fn to receive the display entries after every change
// to the selection.
func (c *Controller) OnChange(fn func(entries []string)) {
	c.files.OnChange = fn
}

// AddFiles appends paths that are not selected yet.
func (c *Controller) AddFiles(paths ...string) {
	if c.files.Add(paths...) {
		c.log.Debug("files added", "count", c.files.Len())
	}
}

// RemoveSelected drops the entries at the given display positions.
func (c *Controller) RemoveSelected(indices ...int) {
	c.files.Remove(indices...)
}

// ClearFiles empties the selection.
func (c *Controller) ClearFiles() {
	c.files.Clear()
}

// MoveFile moves one entry; it reports whether anything moved.
func (c *Controller) MoveFile(from, to int) bool {
	return c.files.Move(from, to)
}

// Entries is the current display projection of the selection.
func (c *Controller) Entries() []string { return c.files.Entries() }

// Paths is a snapshot of the selected paths.
func (c *Controller) Paths() []string { return c.files.Paths() }

// Merge combines the selected PDFs into <name>-<timestamp>.pdf inside the
// first file's folder.
func (c *Controller) Merge(name string) Notice {
	req := merge.Request{Inputs: c.files.Paths()}
	if err := req.Validate(); err != nil {
		c.log.Warn("merge rejected", "error", err)
		return Failure(OpMerge, err)
	}

	out, err := c.opts.Resolver.Resolve(name, "pdf", c.opts.MergeBase, filepath.Dir(req.Inputs[0]))
	if err != nil {
		return Failure(OpMerge, err)
	}
	req.Output = out

	res, err := merge.Run(req)
	if err != nil {
		c.log.Error("merge failed", "output", out, "error", err)
		return Failure(OpMerge, err)
	}
	c.log.Info("merged", "inputs", len(req.Inputs), "pages", res.Pages, "output", res.Output)
	return Success("Merged PDF saved to:\n" + res.Output)
}

// GenerateQR writes a QR code for url as <name>-<timestamp>.png.
func (c *Controller) GenerateQR(url, name string) Notice {
	if strings.TrimSpace(url) == "" {
		return Failure(OpQR, apperr.Invalid("url", "enter the URL to encode"))
	}

	dir := c.opts.QRDir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return Failure(OpQR, err)
		}
		dir = wd
	}
	out, err := c.opts.Resolver.Resolve(name, "png", c.opts.QRBase, dir)
	if err != nil {
		return Failure(OpQR, err)
	}
	if err := qr.Generate(url, out, c.opts.QR); err != nil {
		c.log.Error("qr failed", "output", out, "error", err)
		return Failure(OpQR, err)
	}
	c.log.Info("qr written", "output", out)
	return Success("QR code saved to:\n" + out)
}

// FetchFile downloads a remote PDF and appends it to the selection.
func (c *Controller) FetchFile(ctx context.Context, url string) Notice {
	url = strings.TrimSpace(url)
	if url == "" {
		return Failure(OpFetch, apperr.Invalid("url", "enter the URL of a PDF"))
	}
	dir, err := c.downloadDir()
	if err != nil {
		return Failure(OpFetch, err)
	}
	path, err := c.opts.Fetcher.Into(ctx, url, dir)
	if err != nil {
		c.log.Warn("fetch failed", "url", url, "error", err)
		return Failure(OpFetch, err)
	}
	c.AddFiles(path)
	c.log.Info("fetched", "url", url, "path", path)
	return Success("Downloaded to:\n" + path)
}

func (c *Controller) downloadDir() (string, error) {
	if c.opts.DownloadDir != "" {
		return c.opts.DownloadDir, nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "dmztools", "downloads"), nil
}
