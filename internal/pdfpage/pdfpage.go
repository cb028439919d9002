// Package pdfpage inspects existing PDF files before their pages are
// embedded into a new document.
package pdfpage

import (
	"errors"
	"fmt"
	"os"

	"rsc.io/pdf"
)

// Sentinel errors for page inspection.
var (
	ErrNotPDF    = errors.New("not a valid PDF")
	ErrNoPages   = errors.New("PDF has no pages")
	ErrNoBox     = errors.New("page has no media box")
	ErrPageRange = errors.New("page number out of range")
)

// maxParentDepth bounds the walk up the page tree when resolving inherited attributes.
const maxParentDepth = 32

// Box is a page rectangle in PDF points.
type Box struct {
	X, Y          float64
	Width, Height float64
}

// Info describes one page of a PDF file.
type Info struct {
	Path      string
	Page      int
	PageCount int
	MediaBox  Box
}

// Probe opens the file at path, checks that it parses as a PDF and returns
// the media box of the requested page (1-based). The file is closed before
// Probe returns.
func Probe(path string, page int) (info Info, err error) {
	f, err := os.Open(path) // #nosec G304 -- caller-provided document path
	if err != nil {
		return Info{}, err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return Info{}, err
	}

	// rsc.io/pdf panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s: %v", ErrNotPDF, path, r)
		}
	}()

	r, err := pdf.NewReader(f, st.Size())
	if err != nil {
		return Info{}, fmt.Errorf("%w: %s: %v", ErrNotPDF, path, err)
	}

	n := r.NumPage()
	if n == 0 {
		return Info{}, fmt.Errorf("%w: %s", ErrNoPages, path)
	}
	if page < 1 || page > n {
		return Info{}, fmt.Errorf("%w: %d (document has %d)", ErrPageRange, page, n)
	}

	box, ok := mediaBox(r.Page(page).V)
	if !ok {
		return Info{}, fmt.Errorf("%w: %s page %d", ErrNoBox, path, page)
	}

	return Info{Path: path, Page: page, PageCount: n, MediaBox: box}, nil
}

// mediaBox reads /MediaBox from the page dictionary or the nearest ancestor.
func mediaBox(v pdf.Value) (Box, bool) {
	for i := 0; i < maxParentDepth && !v.IsNull(); i++ {
		mb := v.Key("MediaBox")
		if mb.Kind() == pdf.Array && mb.Len() == 4 {
			x0, y0 := mb.Index(0).Float64(), mb.Index(1).Float64()
			x1, y1 := mb.Index(2).Float64(), mb.Index(3).Float64()
			if x1 < x0 {
				x0, x1 = x1, x0
			}
			if y1 < y0 {
				y0, y1 = y1, y0
			}
			if x1-x0 <= 0 || y1-y0 <= 0 {
				return Box{}, false
			}
			return Box{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}, true
		}
		v = v.Key("Parent")
	}
	return Box{}, false
}
