package pdftour

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/alnah/go-pdftour/internal/fontenc"
)

// Canvas is a drawing surface using PDF coordinates: origin at the bottom
// left corner of the page, y growing upwards, lengths in points.
// Decorators receive one for each page; NewCanvas creates a standalone one.
type Canvas interface {
	SaveState()
	RestoreState()
	Translate(dx, dy float64)
	Scale(sx, sy float64)
	Rotate(degrees float64)

	// SetFont selects a core font by PostScript-style name, such as
	// "Helvetica", "Helvetica-Bold" or "Times-Italic".
	SetFont(name string, size float64)
	SetFontSize(size float64)
	SetFillColor(c Color)
	SetStrokeColor(c Color)
	SetLineWidth(w float64)

	DrawString(x, y float64, s string)
	DrawCentredString(x, y float64, s string)
	DrawRightString(x, y float64, s string)
	Line(x1, y1, x2, y2 float64)
	Rect(x, y, w, h float64, stroke, fill bool)
	// DrawImage draws the image with its lower left corner at (x, y).
	// A zero w or h follows the image's aspect ratio.
	DrawImage(path string, x, y, w, h float64) error
	StringWidth(s string) float64

	PageSize() (width, height float64)
	PageNumber() int
	ShowPage()

	BeginText() TextObject
	DrawText(t TextObject)
}

// TextObject buffers text positioned relative to a moving cursor. Nothing is
// drawn until the object is passed to Canvas.DrawText.
type TextObject interface {
	SetOrigin(x, y float64)
	SetFont(name string, size, leading float64)
	// TextLine draws s at the cursor and moves to the start of the next line.
	TextLine(s string)
	// TextLines calls TextLine for every line of s.
	TextLines(s string)
	// TextOut draws s at the cursor and leaves the cursor after it.
	TextOut(s string)
	Cursor() (x, y float64)
}

// Compile-time interface checks.
var (
	_ Canvas     = (*fpdfCanvas)(nil)
	_ Canvas     = (*PDFCanvas)(nil)
	_ TextObject = (*textObject)(nil)
)

// Canvas defaults, matching a fresh PDF graphics state.
const (
	defaultCanvasFont     = FontHelvetica
	defaultCanvasFontSize = 12.0
	defaultLineWidth      = 1.0
)

// canvasState is the part of the graphics state the canvas tracks itself.
type canvasState struct {
	fill      Color
	stroke    Color
	family    string
	style     string
	size      float64
	lineWidth float64
}

func defaultCanvasState() canvasState {
	return canvasState{
		fill:      Black,
		stroke:    Black,
		family:    defaultCanvasFont,
		size:      defaultCanvasFontSize,
		lineWidth: defaultLineWidth,
	}
}

// fpdfCanvas adapts an fpdf document to Canvas. fpdf works top-down from
// the top left corner, so y values are flipped against the page height and
// transformations pivot around fpdf's (0, pageHeight).
type fpdfCanvas struct {
	pdf   *fpdf.Fpdf
	pageW float64
	pageH float64
	state canvasState
	stack []canvasState
	depth int // open TransformBegin calls, including the base one
}

func newFpdfCanvas(pdf *fpdf.Fpdf) *fpdfCanvas {
	w, h := pdf.GetPageSize()
	return &fpdfCanvas{pdf: pdf, pageW: w, pageH: h}
}

// begin opens the base graphics state for a page and resets to defaults.
func (c *fpdfCanvas) begin() {
	c.pageW, c.pageH = c.pdf.GetPageSize()
	c.pdf.TransformBegin()
	c.depth = 1
	c.stack = c.stack[:0]
	c.state = defaultCanvasState()
	c.apply()
}

// end closes every graphics state opened since begin.
func (c *fpdfCanvas) end() {
	for c.depth > 0 {
		c.pdf.TransformEnd()
		c.depth--
	}
	c.stack = c.stack[:0]
}

func (c *fpdfCanvas) apply() {
	s := c.state
	r, g, b := s.fill.RGB255()
	c.pdf.SetFillColor(r, g, b)
	c.pdf.SetTextColor(r, g, b)
	r, g, b = s.stroke.RGB255()
	c.pdf.SetDrawColor(r, g, b)
	c.pdf.SetLineWidth(s.lineWidth)
	c.pdf.SetFont(s.family, s.style, s.size)
}

func (c *fpdfCanvas) SaveState() {
	c.stack = append(c.stack, c.state)
	c.pdf.TransformBegin()
	c.depth++
}

func (c *fpdfCanvas) RestoreState() {
	if len(c.stack) == 0 {
		return
	}
	c.state = c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
	c.pdf.TransformEnd()
	c.depth--
	c.apply()
}

func (c *fpdfCanvas) Translate(dx, dy float64) {
	c.pdf.TransformTranslate(dx, -dy)
}

func (c *fpdfCanvas) Scale(sx, sy float64) {
	c.pdf.TransformScale(sx*100, sy*100, 0, c.pageH)
}

func (c *fpdfCanvas) Rotate(degrees float64) {
	c.pdf.TransformRotate(degrees, 0, c.pageH)
}

func (c *fpdfCanvas) SetFont(name string, size float64) {
	c.state.family, c.state.style = parseFontName(name)
	c.state.size = size
	c.pdf.SetFont(c.state.family, c.state.style, size)
}

func (c *fpdfCanvas) SetFontSize(size float64) {
	c.state.size = size
	c.pdf.SetFontSize(size)
}

func (c *fpdfCanvas) SetFillColor(col Color) {
	c.state.fill = col
	r, g, b := col.RGB255()
	c.pdf.SetFillColor(r, g, b)
	c.pdf.SetTextColor(r, g, b)
}

func (c *fpdfCanvas) SetStrokeColor(col Color) {
	c.state.stroke = col
	r, g, b := col.RGB255()
	c.pdf.SetDrawColor(r, g, b)
}

func (c *fpdfCanvas) SetLineWidth(w float64) {
	c.state.lineWidth = w
	c.pdf.SetLineWidth(w)
}

func (c *fpdfCanvas) DrawString(x, y float64, s string) {
	c.pdf.Text(x, c.pageH-y, fontenc.CP1252(s))
}

func (c *fpdfCanvas) DrawCentredString(x, y float64, s string) {
	c.DrawString(x-c.StringWidth(s)/2, y, s)
}

func (c *fpdfCanvas) DrawRightString(x, y float64, s string) {
	c.DrawString(x-c.StringWidth(s), y, s)
}

func (c *fpdfCanvas) Line(x1, y1, x2, y2 float64) {
	c.pdf.Line(x1, c.pageH-y1, x2, c.pageH-y2)
}

func (c *fpdfCanvas) Rect(x, y, w, h float64, stroke, fill bool) {
	style := rectStyle(stroke, fill)
	if style == "" {
		return
	}
	c.pdf.Rect(x, c.pageH-y-h, w, h, style)
}

func (c *fpdfCanvas) DrawImage(path string, x, y, w, h float64) error {
	w, h, err := imageSize(c.pdf, path, w, h)
	if err != nil {
		return err
	}
	c.pdf.ImageOptions(path, x, c.pageH-y-h, w, h, false, fpdf.ImageOptions{}, 0, "")
	if err := c.pdf.Error(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrImage, path, err)
	}
	return nil
}

func (c *fpdfCanvas) StringWidth(s string) float64 {
	return c.pdf.GetStringWidth(fontenc.CP1252(s))
}

// widthIn measures s in a font other than the current one.
func (c *fpdfCanvas) widthIn(family, style string, size float64, s string) float64 {
	c.pdf.SetFont(family, style, size)
	w := c.pdf.GetStringWidth(fontenc.CP1252(s))
	c.pdf.SetFont(c.state.family, c.state.style, c.state.size)
	return w
}

func (c *fpdfCanvas) PageSize() (width, height float64) {
	return c.pageW, c.pageH
}

func (c *fpdfCanvas) PageNumber() int {
	return c.pdf.PageNo()
}

// ShowPage ends the current page and starts a new one with a fresh
// graphics state.
func (c *fpdfCanvas) ShowPage() {
	c.end()
	c.pdf.AddPage()
	c.begin()
}

func (c *fpdfCanvas) BeginText() TextObject {
	return &textObject{
		canvas:  c,
		family:  c.state.family,
		style:   c.state.style,
		size:    c.state.size,
		leading: c.state.size * 1.2,
	}
}

func (c *fpdfCanvas) DrawText(t TextObject) {
	to, ok := t.(*textObject)
	if !ok || to.canvas != c {
		return
	}
	for _, op := range to.ops {
		c.pdf.SetFont(op.family, op.style, op.size)
		c.pdf.Text(op.x, c.pageH-op.y, fontenc.CP1252(op.text))
	}
	to.ops = nil
	c.pdf.SetFont(c.state.family, c.state.style, c.state.size)
}

// textOp is one buffered string.
type textOp struct {
	x, y   float64
	family string
	style  string
	size   float64
	text   string
}

type textObject struct {
	canvas  *fpdfCanvas
	lineX   float64
	x, y    float64
	family  string
	style   string
	size    float64
	leading float64
	ops     []textOp
}

func (t *textObject) SetOrigin(x, y float64) {
	t.lineX, t.x, t.y = x, x, y
}

func (t *textObject) SetFont(name string, size, leading float64) {
	t.family, t.style = parseFontName(name)
	t.size = size
	if leading <= 0 {
		leading = size * 1.2
	}
	t.leading = leading
}

func (t *textObject) TextOut(s string) {
	t.ops = append(t.ops, textOp{x: t.x, y: t.y, family: t.family, style: t.style, size: t.size, text: s})
	t.x += t.canvas.widthIn(t.family, t.style, t.size, s)
}

func (t *textObject) TextLine(s string) {
	if s != "" {
		t.ops = append(t.ops, textOp{x: t.x, y: t.y, family: t.family, style: t.style, size: t.size, text: s})
	}
	t.x = t.lineX
	t.y -= t.leading
}

func (t *textObject) TextLines(s string) {
	for _, line := range strings.Split(strings.TrimRight(s, "\n"), "\n") {
		t.TextLine(strings.TrimSpace(line))
	}
}

func (t *textObject) Cursor() (x, y float64) {
	return t.x, t.y
}

// PDFCanvas is a standalone canvas document: draw, call ShowPage between
// pages, then Bytes or Save.
type PDFCanvas struct {
	*fpdfCanvas
	done bool
}

// NewCanvas creates a one-page canvas document. The margins of page are
// ignored; canvas drawing is absolute.
func NewCanvas(page PageSettings) (*PDFCanvas, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}
	pdf := newFpdf(page, time.Time{})
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	c := &PDFCanvas{fpdfCanvas: newFpdfCanvas(pdf)}
	c.begin()
	return c, nil
}

// SetInfo sets document metadata.
func (c *PDFCanvas) SetInfo(title, author string) {
	c.pdf.SetTitle(title, true)
	c.pdf.SetAuthor(author, true)
}

// Bytes finishes the document and returns it. The canvas cannot be drawn on
// afterwards.
func (c *PDFCanvas) Bytes() ([]byte, error) {
	if !c.done {
		c.end()
		c.done = true
	}
	var buf bytes.Buffer
	if err := c.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	return buf.Bytes(), nil
}

// Save finishes the document and writes it to path.
func (c *PDFCanvas) Save(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := c.Bytes()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644) // #nosec G306 -- output PDFs are meant to be shared
}

// parseFontName splits names like "Times-BoldItalic" into an fpdf family
// and style. Unknown families fall back to Helvetica.
func parseFontName(name string) (family, style string) {
	base, variant, _ := strings.Cut(name, "-")
	switch strings.ToLower(base) {
	case "times", "times new roman":
		family = FontTimes
	case "courier":
		family = FontCourier
	default:
		family = FontHelvetica
	}
	v := strings.ToLower(variant)
	bold := strings.Contains(v, "bold")
	italic := strings.Contains(v, "italic") || strings.Contains(v, "oblique")
	return family, fontStyle(bold, italic)
}

func rectStyle(stroke, fill bool) string {
	switch {
	case stroke && fill:
		return "FD"
	case fill:
		return "F"
	case stroke:
		return "D"
	}
	return ""
}

// imageSize resolves zero dimensions from the image's pixel size at 72 dpi.
func imageSize(pdf *fpdf.Fpdf, path string, w, h float64) (float64, float64, error) {
	if _, err := os.Stat(path); err != nil {
		return 0, 0, fmt.Errorf("%w: %w", ErrImage, err)
	}
	info := pdf.RegisterImageOptions(path, fpdf.ImageOptions{})
	if err := pdf.Error(); err != nil || info == nil {
		return 0, 0, fmt.Errorf("%w: %s: %v", ErrImage, path, err)
	}
	nw, nh := info.Extent()
	w, h = fitImage(nw, nh, w, h)
	return w, h, nil
}

// newFpdf creates an fpdf document in points for page. A zero created time
// leaves fpdf's default (now) for the creation and modification dates.
func newFpdf(page PageSettings, created time.Time) *fpdf.Fpdf {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: page.fpdfOrientation(),
		UnitStr:        "pt",
		SizeStr:        page.fpdfSize(),
	})
	pdf.SetMargins(page.Margins.Left, page.Margins.Top, page.Margins.Right)
	pdf.SetAutoPageBreak(true, page.Margins.Bottom)
	pdf.SetCellMargin(0)
	pdf.SetCreator("pdftour", false)
	if !created.IsZero() {
		pdf.SetCreationDate(created)
		pdf.SetModificationDate(created)
		pdf.SetCatalogSort(true)
	}
	return pdf
}
