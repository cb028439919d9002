package pdftour

import (
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"

	"github.com/alnah/go-pdftour/internal/pipeline"
)

// htmlBuilder converts a document into an HTML tree for the Chrome backend.
// Every paragraph style used gets one CSS class.
type htmlBuilder struct {
	classes map[string]string
	css     strings.Builder
}

// buildHTML returns the complete HTML page for doc.
func buildHTML(doc *Document) (string, error) {
	b := &htmlBuilder{classes: make(map[string]string)}

	var body []*html.Node
	for i, blk := range doc.Blocks {
		n, err := b.block(blk)
		if err != nil {
			return "", fmt.Errorf("block %d (%s): %w", i+1, blk.Kind(), err)
		}
		body = append(body, n)
	}

	w, h := doc.Page.Dimensions()
	css := fmt.Sprintf("@page { size: %.2fpt %.2fpt; }\nbody { margin: 0; }\nimg { display: block; margin: 0 auto; }\n"+
		"table { border-collapse: collapse; margin: 0 auto; }\n.embedded { position: relative; }\n", w, h)

	head := []*html.Node{
		pipeline.AppendAll(pipeline.Element("title"), pipeline.TextNode(doc.Title)),
		pipeline.AppendAll(pipeline.Element("style"), pipeline.TextNode(css+b.css.String())),
	}
	return pipeline.RenderDocument(head, body)
}

func (b *htmlBuilder) block(blk Block) (*html.Node, error) {
	switch v := blk.(type) {
	case Heading:
		return b.text("h2", v.Text, v.Style), nil
	case Paragraph:
		return b.text("p", v.Text, v.Style), nil
	case Spacer:
		return pipeline.Element("div", "style", fmt.Sprintf("height: %.2fpt", v.Height)), nil
	case Image:
		return b.image(v)
	case Table:
		return b.table(v)
	case Preformatted:
		return b.preformatted(v)
	case EmbeddedPage:
		return b.embedded(v), nil
	case PageBreak:
		return pipeline.Element("div", "style", "break-after: page"), nil
	}
	return nil, fmt.Errorf("%w: unsupported block %T", ErrPDFGeneration, blk)
}

// class returns the CSS class for st, declaring it on first use.
func (b *htmlBuilder) class(st Style) string {
	if c, ok := b.classes[st.Name]; ok {
		return c
	}
	c := fmt.Sprintf("s%d", len(b.classes))
	b.classes[st.Name] = c
	fmt.Fprintf(&b.css, ".%s { %s }\n", c, styleCSS(st))
	return c
}

func (b *htmlBuilder) text(tag, text string, st Style) *html.Node {
	n := pipeline.Element(tag, "class", b.class(st))
	for _, run := range pipeline.ParseInline(text) {
		node := pipeline.TextNode(run.Text)
		if run.Code {
			node = pipeline.AppendAll(pipeline.Element("code"), node)
		}
		if run.Italic {
			node = pipeline.AppendAll(pipeline.Element("i"), node)
		}
		if run.Bold {
			node = pipeline.AppendAll(pipeline.Element("b"), node)
		}
		n.AppendChild(node)
	}
	return n
}

func (b *htmlBuilder) image(img Image) (*html.Node, error) {
	nw, nh, err := ImageSize(img.Path)
	if err != nil {
		return nil, err
	}
	w, h := fitImage(nw, nh, img.Width, img.Height)
	src, err := pipeline.PathToFileURL(img.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImage, err)
	}
	return pipeline.Element("img",
		"src", src,
		"alt", filepath.Base(img.Path),
		"style", fmt.Sprintf("width: %.2fpt; height: %.2fpt", w, h),
	), nil
}

func (b *htmlBuilder) preformatted(p Preformatted) (*html.Node, error) {
	box := pipeline.Element("div", "class", b.class(p.Style))
	if p.Language == "" {
		pre := pipeline.Element("pre", "style", "margin: 0; font: inherit")
		return pipeline.AppendAll(box, pipeline.AppendAll(pre, pipeline.TextNode(p.Text))), nil
	}

	code, err := pipeline.CodeHTML(p.Text, p.Language)
	if err != nil {
		return nil, err
	}
	nodes, err := pipeline.ParseFragment(code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	return pipeline.AppendAll(box, nodes...), nil
}

func (b *htmlBuilder) table(t Table) (*html.Node, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	ncols := t.Columns()
	cells := t.Style.Resolve(len(t.Rows), ncols)

	fs := t.FontSize
	if fs <= 0 {
		fs = DefaultTableFontSize
	}
	table := pipeline.Element("table", "style",
		fmt.Sprintf("font-family: %s; font-size: %.2fpt; line-height: %.2fpt", cssFontFamily(DefaultTableFont), fs, fs*1.2))

	if t.ColWidths != nil {
		group := pipeline.Element("colgroup")
		for _, w := range t.ColWidths {
			group.AppendChild(pipeline.Element("col", "style", fmt.Sprintf("width: %.2fpt", w)))
		}
		table.AppendChild(group)
	} else {
		table.Attr[0].Val += "; width: 100%"
	}

	var head, body *html.Node
	if t.RepeatRows > 0 {
		head = pipeline.Element("thead")
		table.AppendChild(head)
	}
	body = pipeline.Element("tbody")
	table.AppendChild(body)

	for r, row := range t.Rows {
		tr := pipeline.Element("tr")
		for c := 0; c < ncols; c++ {
			var text string
			if c < len(row) {
				text = row[c]
			}
			cell := pipeline.Element("td", "style", cellCSS(cells[r][c]))
			for k, line := range pipeline.SplitLines(text) {
				if k > 0 {
					cell.AppendChild(pipeline.Element("br"))
				}
				cell.AppendChild(pipeline.TextNode(line))
			}
			tr.AppendChild(cell)
		}
		if r < t.RepeatRows {
			head.AppendChild(tr)
		} else {
			body.AppendChild(tr)
		}
	}
	return table, nil
}

// embedded draws a framed placeholder: Chrome cannot place pages of
// another PDF.
func (b *htmlBuilder) embedded(e EmbeddedPage) *html.Node {
	s := e.scale()
	w, h := e.Source.Box.Width*s, e.Source.Box.Height*s
	off := embedShadowOffset * s
	grey := CMYKGrey(embedShadowGrey)

	style := fmt.Sprintf("width: %.2fpt; height: %.2fpt; margin: %.2fpt 0 %.2fpt 0; background: #fff; "+
		"border: %.2fpt solid #000; box-shadow: %.2fpt %.2fpt 0 %s; "+
		"display: flex; align-items: center; justify-content: center; font: 10pt %s",
		w, h, e.SpaceBefore, e.SpaceAfter+off, s, off, off, grey.Hex(), cssFontFamily(FontHelvetica))

	label := fmt.Sprintf("%s (page %d)", filepath.Base(e.Source.Path), max(e.Source.Page, 1))
	return pipeline.AppendAll(pipeline.Element("div", "class", "embedded", "style", style), pipeline.TextNode(label))
}

// styleCSS renders the declarations for a paragraph style.
func styleCSS(st Style) string {
	decl := []string{
		"font-family: " + cssFontFamily(st.Font),
		fmt.Sprintf("font-size: %.2fpt", st.Size),
		fmt.Sprintf("line-height: %.2fpt", st.LineHeight()),
		"text-align: " + st.Alignment.String(),
		fmt.Sprintf("margin: %.2fpt 0 %.2fpt 0", st.SpaceBefore, st.SpaceAfter),
		"color: " + st.TextColor.Hex(),
	}
	if st.Font == FontCourier {
		decl = append(decl, "white-space: pre-wrap")
	}
	if st.Background != nil {
		decl = append(decl, "background: "+st.Background.Hex())
	}
	if st.BorderPadding > 0 {
		decl = append(decl, fmt.Sprintf("padding: %.2fpt", st.BorderPadding))
	}
	if st.Bold {
		decl = append(decl, "font-weight: bold")
	}
	if st.Italic {
		decl = append(decl, "font-style: italic")
	}
	return strings.Join(decl, "; ")
}

// cellCSS renders the inline style of one table cell.
func cellCSS(cs CellStyle) string {
	decl := []string{
		fmt.Sprintf("padding: %.2fpt %.2fpt", TableCellPaddingY, TableCellPaddingX),
		"text-align: " + cs.Align.String(),
		"color: " + cs.TextColor.Hex(),
	}
	if cs.Background != nil {
		decl = append(decl, "background: "+cs.Background.Hex())
	}
	for _, side := range []struct {
		name   string
		stroke *Stroke
	}{{"top", cs.Top}, {"bottom", cs.Bottom}, {"left", cs.Left}, {"right", cs.Right}} {
		if side.stroke != nil {
			decl = append(decl, fmt.Sprintf("border-%s: %.2fpt solid %s", side.name, side.stroke.Width, side.stroke.Color.Hex()))
		}
	}
	return strings.Join(decl, "; ")
}

// cssFontFamily maps a core font family onto a CSS font stack.
func cssFontFamily(family string) string {
	switch family {
	case FontTimes:
		return `"Times New Roman", Times, serif`
	case FontCourier:
		return `"Courier New", Courier, monospace`
	}
	return "Helvetica, Arial, sans-serif"
}
