package pdftour

import (
	"fmt"
	"strings"
)

// Length units, in points.
const (
	Point = 1.0
	Inch  = 72.0
	CM    = Inch / 2.54
	MM    = CM / 10
)

// Page size constants.
const (
	PageSizeA4     = "a4"
	PageSizeLetter = "letter"
	PageSizeLegal  = "legal"
)

// Orientation constants.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// Margin bounds in points.
const (
	MaxMargin     = 3 * Inch
	DefaultMargin = Inch
)

// pageDimensions holds portrait width and height in points.
var pageDimensions = map[string][2]float64{
	PageSizeA4:     {595.28, 841.89},
	PageSizeLetter: {612, 792},
	PageSizeLegal:  {612, 1008},
}

// Margins are page margins in points.
type Margins struct {
	Left, Right, Top, Bottom float64
}

// UniformMargins returns margins of m on every side.
func UniformMargins(m float64) Margins {
	return Margins{Left: m, Right: m, Top: m, Bottom: m}
}

// PageSettings configures page dimensions.
type PageSettings struct {
	Size        string // "a4", "letter", "legal"
	Orientation string // "portrait", "landscape"
	Margins     Margins
}

// DefaultPageSettings returns A4 portrait with one-inch margins.
func DefaultPageSettings() PageSettings {
	return PageSettings{
		Size:        PageSizeA4,
		Orientation: OrientationPortrait,
		Margins:     UniformMargins(DefaultMargin),
	}
}

// Validate checks that page settings are valid.
// Does not mutate - uses case-insensitive comparison.
func (p PageSettings) Validate() error {
	if _, ok := pageDimensions[strings.ToLower(p.Size)]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidPageSize, p.Size)
	}

	switch strings.ToLower(p.Orientation) {
	case OrientationPortrait, OrientationLandscape:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidOrientation, p.Orientation)
	}

	for _, m := range []float64{p.Margins.Left, p.Margins.Right, p.Margins.Top, p.Margins.Bottom} {
		if m < 0 || m > MaxMargin {
			return fmt.Errorf("%w: %.2f (must be between 0 and %.0f points)", ErrInvalidMargin, m, MaxMargin)
		}
	}
	return nil
}

// Dimensions returns the page width and height in points.
// Unknown sizes fall back to A4.
func (p PageSettings) Dimensions() (width, height float64) {
	dims, ok := pageDimensions[strings.ToLower(p.Size)]
	if !ok {
		dims = pageDimensions[PageSizeA4]
	}
	if strings.EqualFold(p.Orientation, OrientationLandscape) {
		return dims[1], dims[0]
	}
	return dims[0], dims[1]
}

// FrameWidth returns the width available between the side margins.
func (p PageSettings) FrameWidth() float64 {
	w, _ := p.Dimensions()
	return w - p.Margins.Left - p.Margins.Right
}

// FrameHeight returns the height available between top and bottom margins.
func (p PageSettings) FrameHeight() float64 {
	_, h := p.Dimensions()
	return h - p.Margins.Top - p.Margins.Bottom
}

// fpdfOrientation maps the orientation to fpdf's "P"/"L".
func (p PageSettings) fpdfOrientation() string {
	if strings.EqualFold(p.Orientation, OrientationLandscape) {
		return "L"
	}
	return "P"
}

// fpdfSize maps the page size to fpdf's size name.
func (p PageSettings) fpdfSize() string {
	switch strings.ToLower(p.Size) {
	case PageSizeLetter:
		return "Letter"
	case PageSizeLegal:
		return "Legal"
	default:
		return "A4"
	}
}

// PageDecorator draws fixed page furniture (headers, footers) on page,
// numbered from 1.
type PageDecorator func(c Canvas, page int)

// Document is a story plus the metadata and page furniture needed to
// render it.
type Document struct {
	Title   string
	Author  string
	Subject string
	Page    PageSettings

	// Blocks is the content. NewDocument stores a snapshot of a Story so
	// later appends never reach an in-flight render.
	Blocks []Block

	OnFirstPage  PageDecorator
	OnLaterPages PageDecorator
}

// NewDocument creates a document with default page settings holding a
// snapshot of story.
func NewDocument(title string, story *Story) *Document {
	doc := &Document{
		Title: title,
		Page:  DefaultPageSettings(),
	}
	if story != nil {
		doc.Blocks = story.Blocks()
	}
	return doc
}

// Validate checks the document before rendering.
func (d *Document) Validate() error {
	if d == nil || len(d.Blocks) == 0 {
		return ErrEmptyDocument
	}
	return d.Page.Validate()
}

// decorator returns the decorator for page n.
func (d *Document) decorator(page int) PageDecorator {
	if page == 1 {
		return d.OnFirstPage
	}
	return d.OnLaterPages
}
