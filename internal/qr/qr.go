// Package qr renders text (usually a URL) as a QR code PNG.
package qr

import (
	"bytes"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"example.com/dmztools/internal/apperr"
)

// DefaultModulePixels is the edge length of one QR module in the output.
const DefaultModulePixels = 10

// Options tune the rendered code. The zero value gives medium error
// correction, 10 px modules and the standard quiet zone.
type Options struct {
	// Level is one of "low", "medium", "high", "highest".
	Level string
	// ModulePixels sets the size of a single module. Ignored when Size > 0.
	ModulePixels int
	// Size forces the image to Size×Size pixels.
	Size int
	// NoBorder drops the quiet zone around the code.
	NoBorder bool
}

// ParseLevel maps a level name to the encoder's recovery level.
func ParseLevel(s string) (qrcode.RecoveryLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "m", "medium":
		return qrcode.Medium, nil
	case "l", "low":
		return qrcode.Low, nil
	case "q", "high":
		return qrcode.High, nil
	case "h", "highest":
		return qrcode.Highest, nil
	}
	return qrcode.Medium, apperr.Invalid("level", "%q is not one of low, medium, high, highest", s)
}

// Encode returns the PNG bytes for text.
func Encode(text string, opts Options) ([]byte, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperr.Invalid("url", "enter the URL to encode")
	}
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	code, err := qrcode.New(text, level)
	if err != nil {
		return nil, &apperr.EncodingError{Op: "qr", Err: err}
	}
	code.DisableBorder = opts.NoBorder

	size := opts.Size
	if size <= 0 {
		px := opts.ModulePixels
		if px <= 0 {
			px = DefaultModulePixels
		}
		// negative size means pixels per module
		size = -px
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, code.Image(size)); err != nil {
		return nil, &apperr.EncodingError{Op: "qr", Err: err}
	}
	return buf.Bytes(), nil
}

// Generate writes the QR code for text to outputPath, creating its
// directory when needed.
func Generate(text, outputPath string, opts Options) error {
	data, err := Encode(text, opts)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("qr: creating output dir: %w", err)
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("qr: writing %s: %w", outputPath, err)
	}
	return nil
}
