package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
)

// ErrHighlight indicates source code could not be tokenised or rendered.
var ErrHighlight = errors.New("syntax highlighting failed")

// DefaultHighlightStyle is the chroma style used when none is given.
const DefaultHighlightStyle = "github"

// Span is a piece of one source line with its token colour.
type Span struct {
	Text     string
	R, G, B  uint8
	HasColor bool
	Bold     bool
	Italic   bool
}

// Highlight tokenises code and returns it split into lines of coloured spans.
// An empty or unknown language yields uncoloured lines. Tabs are left as-is.
func Highlight(code, language, styleName string) ([][]Span, error) {
	lines := SplitLines(code)
	if language == "" {
		return plainSpans(lines), nil
	}

	lexer := lexers.Get(language)
	if lexer == nil {
		return plainSpans(lines), nil
	}
	lexer = chroma.Coalesce(lexer)

	if styleName == "" {
		styleName = DefaultHighlightStyle
	}
	style := styles.Get(styleName)

	iter, err := lexer.Tokenise(nil, strings.Join(lines, "\n"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHighlight, err)
	}

	out := make([][]Span, 1, len(lines))
	for _, tok := range iter.Tokens() {
		entry := style.Get(tok.Type)
		parts := strings.Split(tok.Value, "\n")
		for i, part := range parts {
			if i > 0 {
				out = append(out, nil)
			}
			if part == "" {
				continue
			}
			span := Span{
				Text:   part,
				Bold:   entry.Bold == chroma.Yes,
				Italic: entry.Italic == chroma.Yes,
			}
			if entry.Colour.IsSet() {
				span.R, span.G, span.B = entry.Colour.Red(), entry.Colour.Green(), entry.Colour.Blue()
				span.HasColor = true
			}
			cur := &out[len(out)-1]
			*cur = append(*cur, span)
		}
	}

	// Chroma terminates its input with a newline; drop the empty tail line.
	for len(out) > len(lines) && len(out[len(out)-1]) == 0 {
		out = out[:len(out)-1]
	}
	return out, nil
}

func plainSpans(lines []string) [][]Span {
	out := make([][]Span, len(lines))
	for i, line := range lines {
		if line != "" {
			out[i] = []Span{{Text: line}}
		}
	}
	return out
}

// codeMarkdown renders fenced code blocks to HTML with inline chroma styles,
// so the browser backend needs no stylesheet for token colours.
var codeMarkdown = goldmark.New(
	goldmark.WithExtensions(
		highlighting.NewHighlighting(
			highlighting.WithStyle(DefaultHighlightStyle),
			highlighting.WithFormatOptions(
				chromahtml.WithClasses(false),
			),
		),
	),
)

// CodeHTML renders code as a highlighted <pre> element.
func CodeHTML(code, language string) (string, error) {
	fence := "```"
	for strings.Contains(code, fence) {
		fence += "`"
	}

	var src strings.Builder
	src.WriteString(fence)
	src.WriteString(language)
	src.WriteByte('\n')
	src.WriteString(NormalizeLineEndings(code))
	if !strings.HasSuffix(code, "\n") {
		src.WriteByte('\n')
	}
	src.WriteString(fence)
	src.WriteByte('\n')

	var buf bytes.Buffer
	if err := codeMarkdown.Convert([]byte(src.String()), &buf); err != nil {
		return "", fmt.Errorf("%w: %v", ErrHighlight, err)
	}
	return buf.String(), nil
}
