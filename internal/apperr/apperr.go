// Package apperr holds the error types shared by the merge, QR and icon
// operations. Presentation layers match them with errors.As and turn them
// into a single message for the user.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// MaxListedPaths caps how many missing paths a MissingFileError prints.
const MaxListedPaths = 5

// ErrTooFewInputs is wrapped by the ValidationError returned for merges with
// fewer than two inputs.
var ErrTooFewInputs = errors.New("at least two input files are required")

// ValidationError reports bad user input detected before any I/O.
type ValidationError struct {
	Field string // "inputs", "url", "sizes", ...
	Msg   string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Invalid builds a ValidationError.
func Invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Msg: fmt.Sprintf(format, args...)}
}

// MissingFileError lists inputs that no longer exist as regular files.
type MissingFileError struct {
	Paths []string
}

func (e *MissingFileError) Error() string {
	return "these files could not be found:\n" + e.Listing()
}

// Listing renders at most MaxListedPaths paths, one per line, followed by
// "..." when more were missing.
func (e *MissingFileError) Listing() string {
	shown := e.Paths
	if len(shown) > MaxListedPaths {
		shown = shown[:MaxListedPaths]
	}
	out := strings.Join(shown, "\n")
	if len(e.Paths) > MaxListedPaths {
		out += "\n..."
	}
	return out
}

// MergeError wraps a failure of the PDF library while merging.
type MergeError struct {
	Output string
	Err    error
}

func (e *MergeError) Error() string {
	if e.Err == nil {
		return "merge failed"
	}
	return fmt.Sprintf("merge failed: %v", e.Err)
}

func (e *MergeError) Unwrap() error { return e.Err }

// EncodingError wraps a failure while decoding or encoding an image.
type EncodingError struct {
	Op  string // "qr", "decode", "ico"
	Err error
}

func (e *EncodingError) Error() string {
	if e.Err == nil {
		return e.Op + ": unknown error"
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *EncodingError) Unwrap() error { return e.Err }

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
