// Package merge concatenates PDF documents with pdfcpu.
//
// Pages are appended in input order, each document contributing all of its
// pages in document order. The output only appears once the whole merge has
// succeeded: pdfcpu writes into a temporary file next to the destination,
// which is then renamed into place.
package merge

import (
	"fmt"
	"os"
	"path/filepath"

	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"example.com/dmztools/internal/apperr"
)

// MinInputs is the smallest number of files a merge request accepts.
const MinInputs = 2

func init() {
	// keep pdfcpu from installing a config dir under the user's home
	model.ConfigPath = "disable"
}

// Request is one merge invocation.
type Request struct {
	Inputs []string
	Output string
}

// Result describes a finished merge.
type Result struct {
	Output string
	Pages  int
}

// Validate checks the inputs. It performs no writes, so it can run before
// an output path has been chosen.
func (r Request) Validate() error {
	if len(r.Inputs) < MinInputs {
		return &apperr.ValidationError{
			Field: "inputs",
			Msg:   "add at least two PDF files to merge",
			Err:   apperr.ErrTooFewInputs,
		}
	}
	var missing []string
	for _, p := range r.Inputs {
		if st, err := os.Stat(p); err != nil || !st.Mode().IsRegular() {
			missing = append(missing, p)
		}
	}
	if len(missing) > 0 {
		return &apperr.MissingFileError{Paths: missing}
	}
	return nil
}

// countPages is swapped out in tests.
var countPages = PageCount

// Run validates req, merges, and reports the page count of the result.
// Pages are counted before the result is moved into place, so a result
// that cannot be read back never reaches req.Output.
func Run(req Request) (Result, error) {
	if err := req.Validate(); err != nil {
		return Result{}, err
	}
	n, err := files(req.Inputs, req.Output, true)
	if err != nil {
		return Result{}, err
	}
	return Result{Output: req.Output, Pages: n}, nil
}

// Files merges inputs into output. It accepts a single input; the two file
// minimum is enforced by Request.Validate.
func Files(inputs []string, output string) error {
	_, err := files(inputs, output, false)
	return err
}

func files(inputs []string, output string, count bool) (int, error) {
	if len(inputs) == 0 {
		return 0, apperr.Invalid("inputs", "no input files provided")
	}
	if output == "" {
		return 0, apperr.Invalid("output", "no output path")
	}

	tmp, err := os.CreateTemp(filepath.Dir(output), ".merge-*.pdf")
	if err != nil {
		return 0, &apperr.MergeError{Output: output, Err: fmt.Errorf("creating temp file: %w", err)}
	}
	tmpPath := tmp.Name()
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return 0, &apperr.MergeError{Output: output, Err: err}
	}

	if err := pdfapi.MergeCreateFile(inputs, tmpPath, false, model.NewDefaultConfiguration()); err != nil {
		_ = os.Remove(tmpPath)
		return 0, &apperr.MergeError{Output: output, Err: err}
	}
	var pages int
	if count {
		if pages, err = countPages(tmpPath); err != nil {
			_ = os.Remove(tmpPath)
			return 0, &apperr.MergeError{Output: output, Err: err}
		}
	}
	if err := os.Rename(tmpPath, output); err != nil {
		_ = os.Remove(tmpPath)
		return 0, &apperr.MergeError{Output: output, Err: fmt.Errorf("moving result into place: %w", err)}
	}
	return pages, nil
}

// PageCount returns the number of pages of the PDF at path.
func PageCount(path string) (int, error) {
	n, err := pdfapi.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("merge: counting pages of %s: %w", path, err)
	}
	return n, nil
}
