package pipeline

import (
	"html"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Run is a stretch of paragraph text sharing one set of inline attributes.
type Run struct {
	Text   string
	Bold   bool
	Italic bool
	Code   bool
}

// inlineParser only knows paragraphs, so list markers, headings and
// indentation in the source stay literal text.
var inlineParser = parser.NewParser(
	parser.WithBlockParsers(util.Prioritized(parser.NewParagraphParser(), 1000)),
	parser.WithInlineParsers(parser.DefaultInlineParsers()...),
)

// ParseInline splits paragraph text into styled runs. Recognized markup:
// *italic*, **bold**, `code`, the <b>, <i>, <em>, <strong> tags and
// <bullet>; other tags are dropped. HTML entities such as &#8212; are
// decoded. Whitespace, including newlines, is collapsed to single spaces.
func ParseInline(src string) []Run {
	src = CollapseWhitespace(src)
	if src == "" {
		return nil
	}

	source := []byte(src)
	doc := inlineParser.Parse(text.NewReader(source))

	w := &runWriter{}
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.Emphasis:
			delta := 1
			if !entering {
				delta = -1
			}
			if node.Level >= 2 {
				w.bold += delta
			} else {
				w.italic += delta
			}
		case *ast.CodeSpan:
			if entering {
				w.code++
			} else {
				w.code--
			}
		case *ast.RawHTML:
			if entering {
				for i := 0; i < node.Segments.Len(); i++ {
					seg := node.Segments.At(i)
					w.tag(string(seg.Value(source)))
				}
			}
		case *ast.Text:
			if entering {
				value := node.Segment.Value(source)
				if w.code == 0 {
					value = util.UnescapePunctuations(value)
				}
				w.write(string(value))
				if node.SoftLineBreak() || node.HardLineBreak() {
					w.write(" ")
				}
			}
		case *ast.String:
			if entering {
				w.write(string(node.Value))
			}
		}
		return ast.WalkContinue, nil
	})

	for i := range w.runs {
		w.runs[i].Text = html.UnescapeString(w.runs[i].Text)
	}
	return w.runs
}

// PlainText strips inline markup and returns the bare text.
func PlainText(src string) string {
	var b strings.Builder
	for _, r := range ParseInline(src) {
		b.WriteString(r.Text)
	}
	return b.String()
}

// inlineEscaper backslash-escapes the characters ParseInline would read as
// markup.
var inlineEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"<", `\<`,
	"&", `\&`,
	"[", `\[`,
)

// EscapeInline quotes s so that ParseInline returns it verbatim, apart
// from whitespace collapsing. File names and other literal text go through
// it before becoming paragraph text.
func EscapeInline(s string) string {
	return inlineEscaper.Replace(s)
}

// emphasisEscaper backslash-escapes the Markdown characters only, leaving
// inline tags and entities to ParseInline.
var emphasisEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"[", `\[`,
)

// EscapeEmphasis quotes the Markdown emphasis and code characters of s.
// Tags such as <b> or <bullet> and entities such as &bull; keep their
// meaning, as in docstrings written for paragraph markup.
func EscapeEmphasis(s string) string {
	return emphasisEscaper.Replace(s)
}

// runWriter accumulates runs, merging neighbours with equal attributes.
type runWriter struct {
	runs               []Run
	bold, italic, code int
}

func (w *runWriter) write(s string) {
	if s == "" {
		return
	}
	r := Run{Bold: w.bold > 0, Italic: w.italic > 0, Code: w.code > 0}
	if n := len(w.runs); n > 0 {
		last := &w.runs[n-1]
		if last.Bold == r.Bold && last.Italic == r.Italic && last.Code == r.Code {
			last.Text += s
			return
		}
	}
	r.Text = s
	w.runs = append(w.runs, r)
}

// tag toggles bold/italic for the small set of inline HTML tags accepted in
// paragraph text. A <bullet> element keeps its content, followed by a
// space. Other tags are dropped.
func (w *runWriter) tag(raw string) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "<b>", "<strong>":
		w.bold++
	case "</b>", "</strong>":
		if w.bold > 0 {
			w.bold--
		}
	case "<i>", "<em>":
		w.italic++
	case "</i>", "</em>":
		if w.italic > 0 {
			w.italic--
		}
	case "</bullet>":
		w.write(" ")
	}
}
