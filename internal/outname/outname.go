// Package outname derives timestamped output file names such as
// merged-20240131-094501.pdf.
package outname

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// TimestampLayout is YYYYMMDD-HHMMSS.
const TimestampLayout = "20060102-150405"

// Fallback base names.
const (
	DefaultMergeBase = "merged"
	DefaultQRBase    = "qr"
)

// Resolver builds output paths. Now defaults to time.Now.
type Resolver struct {
	Now func() time.Time
}

var std = Resolver{}

// Resolve uses the wall clock. See Resolver.Resolve.
func Resolve(userBase, ext, defaultBase, dir string) (string, error) {
	return std.Resolve(userBase, ext, defaultBase, dir)
}

// Resolve returns dir/<base>-<timestamp>.<ext> and makes sure dir exists.
// A trailing ".<ext>" (any case) on userBase is dropped so names never end
// up with a double extension. Two calls within the same second return the
// same path.
func (r Resolver) Resolve(userBase, ext, defaultBase, dir string) (string, error) {
	ext = strings.TrimPrefix(ext, ".")
	name := Name(userBase, ext, defaultBase) + "-" + Timestamp(r.now()) + "." + ext
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("outname: creating %s: %w", dir, err)
	}
	return filepath.Join(dir, name), nil
}

// Name normalises the base part of an output name.
func Name(userBase, ext, defaultBase string) string {
	base := strings.TrimSpace(userBase)
	if base == "" {
		base = defaultBase
	}
	base = strings.TrimRight(base, ".")
	if ext != "" {
		suffix := "." + strings.ToLower(strings.TrimPrefix(ext, "."))
		if strings.HasSuffix(strings.ToLower(base), suffix) {
			base = base[:len(base)-len(suffix)]
		}
	}
	if base == "" {
		base = defaultBase
	}
	return base
}

// Timestamp formats t with TimestampLayout.
func Timestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

func (r Resolver) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}
