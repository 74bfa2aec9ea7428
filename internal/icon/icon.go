// Package icon converts ordinary images into multi-resolution Windows .ico
// files.
package icon

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"example.com/dmztools/internal/apperr"
)

// MaxSize is the largest edge an ICO entry can describe.
const MaxSize = 256

// DefaultSizes are the frame sizes written when none are requested.
var DefaultSizes = []int{256, 128, 64, 32, 16}

// FormatSizes renders sizes the way ParseSizes reads them.
func FormatSizes(sizes []int) string {
	parts := make([]string, len(sizes))
	for i, s := range sizes {
		parts[i] = strconv.Itoa(s)
	}
	return strings.Join(parts, ",")
}

// ParseSizes reads a comma separated list such as "256,128,64". Blank
// tokens are skipped.
func ParseSizes(raw string) ([]int, error) {
	var sizes []int
	for _, tok := range strings.Split(raw, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		n, err := strconv.Atoi(tok)
		if err != nil {
			return nil, &apperr.ValidationError{
				Field: "sizes",
				Msg:   "sizes must be integers separated by commas",
				Err:   err,
			}
		}
		if n < 1 || n > MaxSize {
			return nil, apperr.Invalid("sizes", "%d is outside 1..%d", n, MaxSize)
		}
		sizes = append(sizes, n)
	}
	if len(sizes) == 0 {
		return nil, apperr.Invalid("sizes", "provide at least one icon size")
	}
	return sizes, nil
}

// DefaultOutput swaps the extension of input for .ico.
func DefaultOutput(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".ico"
}

// Convert reads input and writes an icon with one frame per size. Sizes
// larger than the source image are skipped, and each frame keeps the
// source aspect ratio inside its size×size box. An empty output selects
// DefaultOutput(input). The written path is returned.
func Convert(input, output string, sizes []int) (string, error) {
	if len(sizes) == 0 {
		sizes = DefaultSizes
	}
	if output == "" {
		output = DefaultOutput(input)
	}

	src, err := imaging.Open(input, imaging.AutoOrientation(true))
	if err != nil {
		return "", &apperr.EncodingError{Op: "decode", Err: err}
	}

	frames, err := Frames(src, sizes)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return "", fmt.Errorf("icon: creating output dir: %w", err)
	}
	f, err := os.Create(output)
	if err != nil {
		return "", fmt.Errorf("icon: %w", err)
	}
	if err := Encode(f, frames); err != nil {
		f.Close()
		_ = os.Remove(output)
		return "", err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(output)
		return "", fmt.Errorf("icon: %w", err)
	}
	return output, nil
}

// Frames scales src once per requested size. Frames that come out with the
// same dimensions are kept once.
func Frames(src image.Image, sizes []int) ([]image.Image, error) {
	b := src.Bounds()
	type dim struct{ w, h int }
	seen := map[dim]bool{}
	var frames []image.Image
	for _, s := range sizes {
		if s < 1 || s > MaxSize || s > b.Dx() || s > b.Dy() {
			continue
		}
		frame := imaging.Fit(src, s, s, imaging.Lanczos)
		d := dim{frame.Bounds().Dx(), frame.Bounds().Dy()}
		if seen[d] {
			continue
		}
		seen[d] = true
		frames = append(frames, frame)
	}
	if len(frames) == 0 {
		return nil, apperr.Invalid("sizes", "the %dx%d image is smaller than every requested size", b.Dx(), b.Dy())
	}
	return frames, nil
}
