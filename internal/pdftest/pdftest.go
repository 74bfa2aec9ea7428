// Package pdftest writes small fixture PDFs for tests. Every page gets its
// own size so tests can tell pages apart after a merge.
package pdftest

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/jung-kurt/gofpdf"
	"github.com/stretchr/testify/require"
)

// Size is a page size in points.
type Size struct {
	W, H float64
}

// SizeFor returns a distinct page size for page number n (0-based).
func SizeFor(n int) Size {
	return Size{W: 200 + float64(n)*10, H: 300 + float64(n)*10}
}

// Write creates dir/name with one page per size, each labelled with its
// name and page number.
func Write(t testing.TB, dir, name string, sizes ...Size) string {
	t.Helper()
	require.NotEmpty(t, sizes, "pdftest: at least one page")

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: sizes[0].W, Ht: sizes[0].H},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetFont("Helvetica", "", 12)
	for i, s := range sizes {
		pdf.AddPageFormat("P", gofpdf.SizeType{Wd: s.W, Ht: s.H})
		pdf.Text(20, 40, fmt.Sprintf("%s page %d", name, i+1))
	}

	path := filepath.Join(dir, name)
	require.NoError(t, pdf.OutputFileAndClose(path))
	return path
}

// WriteSinglePages creates n single-page PDFs named doc1.pdf..docN.pdf,
// page i sized SizeFor(i).
func WriteSinglePages(t testing.TB, dir string, n int) []string {
	t.Helper()
	paths := make([]string, n)
	for i := 0; i < n; i++ {
		paths[i] = Write(t, dir, fmt.Sprintf("doc%d.pdf", i+1), SizeFor(i))
	}
	return paths
}

// WriteGarbage creates a file with a .pdf name that is not a PDF.
func WriteGarbage(t testing.TB, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("this is not a pdf\n"), 0o644))
	return path
}
