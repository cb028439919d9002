package pdftour

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/go-pdf/fpdf/contrib/gofpdi"

	"github.com/alnah/go-pdftour/internal/fontenc"
	"github.com/alnah/go-pdftour/internal/pipeline"
)

var _ Renderer = (*fpdfRenderer)(nil)

// Baseline position within a line box, as a fraction of the font size.
const ascentRatio = 0.8

// fpdfRenderer lays blocks out top to bottom with go-pdf/fpdf.
type fpdfRenderer struct {
	created time.Time
}

// Close is a no-op; fpdf holds no external resources.
func (r *fpdfRenderer) Close() error {
	return nil
}

// Render lays out doc and returns the PDF bytes.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (r *fpdfRenderer) Render(ctx context.Context, doc *Document) (out []byte, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: internal error: %v", ErrPDFGeneration, rec)
		}
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	pdf := newFpdf(doc.Page, r.created)
	pdf.SetTitle(doc.Title, true)
	pdf.SetAuthor(doc.Author, true)
	pdf.SetSubject(doc.Subject, true)

	f := newFlow(pdf, doc)
	if err := f.importPages(); err != nil {
		return nil, err
	}

	pdf.SetHeaderFuncMode(f.decorate, true)
	pdf.AddPage()

	for i, b := range doc.Blocks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := f.draw(b); err != nil {
			return nil, fmt.Errorf("block %d (%s): %w", i+1, b.Kind(), err)
		}
		if err := pdf.Error(); err != nil {
			return nil, fmt.Errorf("%w: block %d (%s): %v", ErrPDFGeneration, i+1, b.Kind(), err)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	return buf.Bytes(), nil
}

// flow tracks the frame of the current page while blocks are placed.
// Positions are fpdf's: y grows downwards from the top edge.
type flow struct {
	pdf    *fpdf.Fpdf
	doc    *Document
	canvas *fpdfCanvas

	left, top     float64
	width, bottom float64

	importer  *gofpdi.Importer
	templates map[string]int
}

func newFlow(pdf *fpdf.Fpdf, doc *Document) *flow {
	_, pageH := doc.Page.Dimensions()
	return &flow{
		pdf:       pdf,
		doc:       doc,
		canvas:    newFpdfCanvas(pdf),
		left:      doc.Page.Margins.Left,
		top:       doc.Page.Margins.Top,
		width:     doc.Page.FrameWidth(),
		bottom:    pageH - doc.Page.Margins.Bottom,
		templates: make(map[string]int),
	}
}

// decorate is fpdf's header hook: it runs the page decorator at the start
// of every page, inside its own graphics state.
func (f *flow) decorate() {
	page := f.pdf.PageNo()
	dec := f.doc.decorator(page)
	if dec == nil {
		return
	}
	f.canvas.begin()
	dec(f.canvas, page)
	f.canvas.end()
}

func (f *flow) draw(b Block) error {
	switch v := b.(type) {
	case Heading:
		return f.paragraph(v.Text, v.Style)
	case Paragraph:
		return f.paragraph(v.Text, v.Style)
	case Spacer:
		f.space(v.Height)
		return nil
	case Image:
		return f.image(v)
	case Table:
		return f.table(v)
	case Preformatted:
		return f.preformatted(v)
	case EmbeddedPage:
		return f.embedded(v)
	case PageBreak:
		f.pdf.AddPage()
		return nil
	}
	return fmt.Errorf("%w: unsupported block %T", ErrPDFGeneration, b)
}

// atTop reports whether nothing has been placed on the current page yet.
func (f *flow) atTop() bool {
	return f.pdf.GetY() <= f.top+0.5
}

// space moves down by h, stopping at the bottom of the frame.
func (f *flow) space(h float64) {
	if h <= 0 {
		return
	}
	f.pdf.SetY(math.Min(f.pdf.GetY()+h, f.bottom))
}

// ensure starts a new page unless h fits below the current position. A
// block taller than the frame is placed at the top of a page and overflows.
func (f *flow) ensure(h float64) {
	if f.pdf.GetY()+h > f.bottom && !f.atTop() {
		f.pdf.AddPage()
	}
}

func (f *flow) setFill(c Color) {
	r, g, b := c.RGB255()
	f.pdf.SetFillColor(r, g, b)
}

func (f *flow) setText(c Color) {
	r, g, b := c.RGB255()
	f.pdf.SetTextColor(r, g, b)
}

func (f *flow) setDraw(c Color) {
	r, g, b := c.RGB255()
	f.pdf.SetDrawColor(r, g, b)
}

// runFont selects the font for one inline run of a paragraph in style st.
func (f *flow) runFont(st Style, run pipeline.Run) {
	family := st.Font
	if run.Code {
		family = FontCourier
	}
	f.pdf.SetFont(family, fontStyle(st.Bold || run.Bold, st.Italic || run.Italic), st.Size)
}

func (f *flow) paragraph(text string, st Style) error {
	runs := pipeline.ParseInline(text)
	if len(runs) == 0 {
		return nil
	}
	if !f.atTop() {
		f.space(st.SpaceBefore)
	}

	lh := st.LineHeight()
	f.ensure(lh)
	f.setText(st.TextColor)
	f.pdf.SetX(f.left)

	if len(runs) == 1 {
		txt := fontenc.CP1252(runs[0].Text)
		f.runFont(st, runs[0])
		if st.Background != nil {
			f.paragraphBackground(st, len(f.pdf.SplitLines([]byte(txt), f.width)))
		}
		f.pdf.MultiCell(f.width, lh, txt, "", st.Alignment.fpdfAlign(), false)
	} else {
		// fpdf justifies only single-font cells; mixed runs are set left.
		for _, run := range runs {
			f.runFont(st, run)
			f.pdf.Write(lh, fontenc.CP1252(run.Text))
		}
		f.pdf.Ln(lh)
	}

	f.space(st.SpaceAfter)
	return nil
}

// paragraphBackground fills the area behind lines lines of st, widened by
// the border padding, clipped to the current page.
func (f *flow) paragraphBackground(st Style, lines int) {
	y := f.pdf.GetY()
	h := math.Min(float64(lines)*st.LineHeight(), f.bottom-y)
	pad := st.BorderPadding
	f.setFill(*st.Background)
	f.pdf.Rect(f.left-pad, y-pad, f.width+2*pad, h+2*pad, "F")
}

func (f *flow) image(img Image) error {
	w, h, err := imageSize(f.pdf, img.Path, img.Width, img.Height)
	if err != nil {
		return err
	}
	if w > f.width {
		h, w = h*f.width/w, f.width
	}
	if frameH := f.bottom - f.top; h > frameH {
		w, h = w*frameH/h, frameH
	}

	f.ensure(h)
	y := f.pdf.GetY()
	x := f.left + (f.width-w)/2
	f.pdf.ImageOptions(img.Path, x, y, w, h, false, fpdf.ImageOptions{}, 0, "")
	f.pdf.SetY(y + h)
	return nil
}

func (f *flow) preformatted(p Preformatted) error {
	st := p.Style
	lines := pipeline.SplitLines(p.Text)
	for i := range lines {
		lines[i] = fontenc.ExpandTabs(lines[i])
	}
	spans, err := pipeline.Highlight(strings.Join(lines, "\n"), p.Language, "")
	if err != nil {
		return err
	}
	if len(spans) == 0 {
		return nil
	}

	if !f.atTop() {
		f.space(st.SpaceBefore)
	}

	lh := st.LineHeight()
	pad := st.BorderPadding
	for i := 0; i < len(spans); {
		y := f.pdf.GetY()
		n := int(math.Floor((f.bottom-y-2*pad)/lh + 1e-9))
		if n < 1 {
			if !f.atTop() {
				f.pdf.AddPage()
				continue
			}
			n = 1
		}
		n = min(n, len(spans)-i)

		h := float64(n)*lh + 2*pad
		if st.Background != nil {
			f.setFill(*st.Background)
			f.pdf.Rect(f.left, y, f.width, h, "F")
		}
		for k := 0; k < n; k++ {
			baseline := y + pad + float64(k)*lh + (lh-st.Size)/2 + ascentRatio*st.Size
			f.codeLine(st, spans[i+k], f.left+pad, baseline)
		}

		i += n
		f.pdf.SetY(y + h)
		if i < len(spans) {
			f.pdf.AddPage()
		}
	}

	f.space(st.SpaceAfter)
	return nil
}

// codeLine draws one line of coloured spans starting at x on baseline.
func (f *flow) codeLine(st Style, spans []pipeline.Span, x, baseline float64) {
	for _, sp := range spans {
		f.pdf.SetFont(st.Font, fontStyle(st.Bold || sp.Bold, st.Italic || sp.Italic), st.Size)
		if sp.HasColor {
			f.pdf.SetTextColor(int(sp.R), int(sp.G), int(sp.B))
		} else {
			f.setText(st.TextColor)
		}
		txt := fontenc.CP1252(sp.Text)
		f.pdf.Text(x, baseline, txt)
		x += f.pdf.GetStringWidth(txt)
	}
}

func (f *flow) table(t Table) error {
	if err := t.Validate(); err != nil {
		return err
	}

	ncols := t.Columns()
	widths := t.ColWidths
	if widths == nil {
		widths = make([]float64, ncols)
		for i := range widths {
			widths[i] = f.width / float64(ncols)
		}
	}
	total := 0.0
	for _, w := range widths {
		total += w
	}
	x0 := f.left + math.Max(0, (f.width-total)/2)

	fs := t.FontSize
	if fs <= 0 {
		fs = DefaultTableFontSize
	}
	lh := fs * 1.2

	heights := make([]float64, len(t.Rows))
	for r, row := range t.Rows {
		lines := 1
		for _, cell := range row {
			lines = max(lines, len(pipeline.SplitLines(cell)))
		}
		heights[r] = float64(lines)*lh + 2*TableCellPaddingY
	}

	tr := tableRun{table: t, cells: t.Style.Resolve(len(t.Rows), ncols), widths: widths, x0: x0, size: fs, leading: lh}
	for r := range t.Rows {
		if f.pdf.GetY()+heights[r] > f.bottom && !f.atTop() {
			f.pdf.AddPage()
			if r >= t.RepeatRows {
				for hr := 0; hr < t.RepeatRows; hr++ {
					f.tableRow(tr, hr, heights[hr])
				}
			}
		}
		f.tableRow(tr, r, heights[r])
	}
	return nil
}

// tableRun is the resolved layout of a table being drawn.
type tableRun struct {
	table   Table
	cells   [][]CellStyle
	widths  []float64
	x0      float64
	size    float64
	leading float64
}

func (f *flow) tableRow(tr tableRun, r int, h float64) {
	y := f.pdf.GetY()
	row := tr.table.Rows[r]

	x := tr.x0
	for c, w := range tr.widths {
		if bg := tr.cells[r][c].Background; bg != nil {
			f.setFill(*bg)
			f.pdf.Rect(x, y, w, h, "F")
		}
		x += w
	}

	f.pdf.SetFont(DefaultTableFont, "", tr.size)
	x = tr.x0
	for c, w := range tr.widths {
		cs := tr.cells[r][c]
		var text string
		if c < len(row) {
			text = row[c]
		}
		f.setText(cs.TextColor)
		for k, line := range pipeline.SplitLines(text) {
			enc := fontenc.CP1252(line)
			tw := f.pdf.GetStringWidth(enc)
			tx := x + TableCellPaddingX
			switch cs.Align {
			case AlignCenter:
				tx = x + (w-tw)/2
			case AlignRight:
				tx = x + w - TableCellPaddingX - tw
			}
			baseline := y + TableCellPaddingY + float64(k)*tr.leading + (tr.leading-tr.size)/2 + ascentRatio*tr.size
			f.pdf.Text(tx, baseline, enc)
		}
		x += w
	}

	x = tr.x0
	for c, w := range tr.widths {
		cs := tr.cells[r][c]
		f.stroke(cs.Top, x, y, x+w, y)
		f.stroke(cs.Bottom, x, y+h, x+w, y+h)
		f.stroke(cs.Left, x, y, x, y+h)
		f.stroke(cs.Right, x+w, y, x+w, y+h)
		x += w
	}

	f.pdf.SetY(y + h)
}

func (f *flow) stroke(s *Stroke, x1, y1, x2, y2 float64) {
	if s == nil {
		return
	}
	f.pdf.SetLineWidth(s.Width)
	f.setDraw(s.Color)
	f.pdf.Line(x1, y1, x2, y2)
}

func (f *flow) embedded(e EmbeddedPage) error {
	src := e.Source
	if src.Box.Width <= 0 || src.Box.Height <= 0 {
		return fmt.Errorf("%w: %s: empty bounding box", ErrEmbedPage, src.Path)
	}
	tpl, ok := f.templates[pageKey(src)]
	if !ok {
		return fmt.Errorf("%w: %s: page not imported", ErrEmbedPage, src.Path)
	}

	s := e.scale()
	w, h := src.Box.Width*s, src.Box.Height*s
	off := embedShadowOffset * s

	// Shrink to fit the frame, shadow included.
	fit := math.Min(1, math.Min((f.bottom-f.top)/(h+off), f.width/(w+off)))
	w, h, off, s = w*fit, h*fit, off*fit, s*fit

	if !f.atTop() {
		f.space(e.SpaceBefore)
	}
	f.ensure(h + off)

	x, y := f.left, f.pdf.GetY()
	f.setFill(CMYKGrey(embedShadowGrey))
	f.pdf.Rect(x+off, y+off, w, h, "F")
	f.setFill(White)
	f.pdf.Rect(x, y, w, h, "F")
	f.importer.UseImportedTemplate(f.pdf, tpl, x, y, w, h)
	f.setDraw(Black)
	f.pdf.SetLineWidth(s)
	f.pdf.Rect(x, y, w, h, "D")

	f.pdf.SetY(y + h + off)
	f.space(e.SpaceAfter)
	return nil
}

// importPages imports every embedded page before the first page is added.
func (f *flow) importPages() error {
	for _, b := range f.doc.Blocks {
		e, ok := b.(EmbeddedPage)
		if !ok {
			continue
		}
		key := pageKey(e.Source)
		if _, done := f.templates[key]; done {
			continue
		}
		if f.importer == nil {
			f.importer = gofpdi.NewImporter()
		}
		tpl, err := importPage(f.importer, f.pdf, e.Source)
		if err != nil {
			return err
		}
		f.templates[key] = tpl
	}
	return nil
}

// importPage wraps gofpdi, which reports malformed files by panicking.
func importPage(imp *gofpdi.Importer, pdf *fpdf.Fpdf, src PageSource) (tpl int, err error) {
	if _, err := os.Stat(src.Path); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrEmbedPage, err)
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s: %v", ErrEmbedPage, src.Path, r)
		}
	}()

	page := max(src.Page, 1)
	tpl = imp.ImportPage(pdf, src.Path, page, "/MediaBox")
	if err := pdf.Error(); err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrEmbedPage, src.Path, err)
	}
	return tpl, nil
}

func pageKey(src PageSource) string {
	return fmt.Sprintf("%s#%d", src.Path, max(src.Page, 1))
}
