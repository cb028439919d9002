package pdftour

import (
	"fmt"

	"github.com/alnah/go-pdftour/internal/pdfpage"
)

// Embedded page layout.
const (
	DefaultEmbedScale = 0.75
	embedShadowOffset = 10.0 // points at scale 1
	embedShadowGrey   = 0.2  // fraction of black
)

// Rect is a rectangle in PDF points, origin bottom-left.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// PageSource identifies a page of an existing PDF and its bounding box.
type PageSource struct {
	Path      string
	Page      int
	PageCount int
	Box       Rect
}

// LoadEmbeddedPage opens the PDF at path and reads the bounding box of its
// first page. The file is closed before returning; the page content is read
// again by the renderer.
func LoadEmbeddedPage(path string) (PageSource, error) {
	info, err := pdfpage.Probe(path, 1)
	if err != nil {
		return PageSource{}, fmt.Errorf("%w: %w", ErrEmbedPage, err)
	}
	return PageSource{
		Path:      info.Path,
		Page:      info.Page,
		PageCount: info.PageCount,
		Box: Rect{
			X:      info.MediaBox.X,
			Y:      info.MediaBox.Y,
			Width:  info.MediaBox.Width,
			Height: info.MediaBox.Height,
		},
	}, nil
}

// scale returns the effective scale of e.
func (e EmbeddedPage) scale() float64 {
	if e.Scale > 0 {
		return e.Scale
	}
	return DefaultEmbedScale
}
