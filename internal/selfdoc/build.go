package selfdoc

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	pdftour "github.com/alnah/go-pdftour"
	"github.com/alnah/go-pdftour/internal/pipeline"
)

// Defaults for the self-documenting output.
const (
	DefaultOutput   = "99_self_document.pdf"
	DefaultTitle    = "A Tour of PDF Generation"
	DefaultPageInfo = "pdftour demos"
)

// DefaultExclude lists the entries skipped besides the output file.
var DefaultExclude = []string{"images"}

// Options configures Build.
type Options struct {
	// Sheet defaults to pdftour.DefaultStyleSheet.
	Sheet *pdftour.StyleSheet
	// Handlers defaults to DefaultHandlers(DefaultSnipLines).
	Handlers Handlers
	// Output is the name of the file being generated; it is always skipped.
	// Defaults to DefaultOutput.
	Output string
	// Exclude defaults to DefaultExclude.
	Exclude []string
	// Progress receives the name of every file not excluded, before it is
	// dispatched. Nil discards.
	Progress io.Writer
}

func (o Options) withDefaults() Options {
	if o.Sheet == nil {
		o.Sheet = pdftour.DefaultStyleSheet()
	}
	if o.Handlers == nil {
		o.Handlers = DefaultHandlers(DefaultSnipLines)
	}
	if o.Output == "" {
		o.Output = DefaultOutput
	}
	if o.Exclude == nil {
		o.Exclude = DefaultExclude
	}
	if o.Progress == nil {
		o.Progress = io.Discard
	}
	return o
}

func (o Options) excluded(name string) bool {
	return name == o.Output || slices.Contains(o.Exclude, name)
}

// Build lists dir in lexicographic order and appends, for every file with
// a handler, a heading naming the file followed by the handler's blocks.
// The story opens with a page break and every PDF starts on a new page.
func Build(dir string, opts Options) (*pdftour.Story, error) {
	opts = opts.withDefaults()

	titleText, err := opts.Sheet.Get(pdftour.StyleTitleText)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadSource, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)

	story := pdftour.NewStory(pdftour.PageBreak{})
	for _, name := range names {
		if opts.excluded(name) {
			continue
		}
		_, _ = fmt.Fprintln(opts.Progress, name)

		kind := Classify(name)
		handle, ok := opts.Handlers[kind]
		if !ok {
			continue
		}

		blocks, err := handle(filepath.Join(dir, name), opts.Sheet)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}

		if kind == KindPDF {
			story.Append(pdftour.PageBreak{})
		}
		story.Append(pdftour.Heading{Text: pipeline.EscapeInline(name), Style: titleText})
		story.Append(blocks...)
	}
	return story, nil
}

// Decorations is the page furniture of the self-documenting output.
type Decorations struct {
	Title    string
	PageInfo string
	// Date is appended to the footer when set.
	Date string
}

// Decoration layout, in points.
const (
	titleDrop     = 108.0
	footerX       = pdftour.Inch
	footerY       = 0.75 * pdftour.Inch
	titleSize     = 16.0
	footerSize    = 9.0
	footerFont    = "Times-Roman"
	titleFont     = "Times-Bold"
	dateSeparator = " · "
)

func (d Decorations) info() string {
	if d.Date == "" {
		return d.PageInfo
	}
	return d.PageInfo + dateSeparator + d.Date
}

// FirstPage draws the title and the first page footer.
func (d Decorations) FirstPage(c pdftour.Canvas, _ int) {
	w, h := c.PageSize()
	c.SaveState()
	c.SetFont(titleFont, titleSize)
	c.DrawCentredString(w/2, h-titleDrop, d.Title)
	c.SetFont(footerFont, footerSize)
	c.DrawString(footerX, footerY, "First Page / "+d.info())
	c.RestoreState()
}

// LaterPages draws the numbered footer.
func (d Decorations) LaterPages(c pdftour.Canvas, page int) {
	c.SaveState()
	c.SetFont(footerFont, footerSize)
	c.DrawString(footerX, footerY, fmt.Sprintf("Page %d %s", page, d.info()))
	c.RestoreState()
}

// Document wraps story into a document decorated with d.
func (d Decorations) Document(story *pdftour.Story) *pdftour.Document {
	doc := pdftour.NewDocument(d.Title, story)
	doc.Subject = d.PageInfo
	doc.OnFirstPage = d.FirstPage
	doc.OnLaterPages = d.LaterPages
	return doc
}
