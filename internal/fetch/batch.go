package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
)

// IsURL reports whether s is an http or https URL rather than a local path.
func IsURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Batch downloads every URL into dir as f_<index>.pdf, keeping their order.
// A URL that fails is logged and reported in skipped; only a cancelled
// context or an unusable dir stops the batch.
func (c *Client) Batch(ctx context.Context, urls []string, dir string, log *slog.Logger) (paths, skipped []string, err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("fetch: creating %s: %w", dir, err)
	}
	for i, u := range urls {
		if err := ctx.Err(); err != nil {
			return paths, skipped, err
		}
		lp := filepath.Join(dir, "f_"+strconv.Itoa(i)+".pdf")
		if err := c.Download(ctx, u, lp); err != nil {
			log.Warn("skip", "url", u, "error", err)
			skipped = append(skipped, u)
			continue
		}
		paths = append(paths, lp)
	}
	return paths, skipped, nil
}
