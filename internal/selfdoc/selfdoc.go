// Package selfdoc turns a directory of demo sources and their outputs into
// one story: every file gets a heading followed by blocks chosen by its
// type (source code, plain text or an embedded PDF page).
package selfdoc

import (
	"errors"
	"fmt"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"

	pdftour "github.com/alnah/go-pdftour"
	"github.com/alnah/go-pdftour/internal/pipeline"
)

// ErrReadSource indicates a file of the directory could not be read.
var ErrReadSource = errors.New("cannot read source file")

// DefaultSnipLines is the number of lines kept from plain text files.
const DefaultSnipLines = 30

// SnipMarker is appended to plain text cut at the snip limit.
var SnipMarker = strings.Repeat("-", 37) + " SNIP " + strings.Repeat("-", 37)

// docMarker delimits the description of a Python source file.
const docMarker = `"""`

// Kind is the type of a directory entry.
type Kind int

const (
	KindUnknown Kind = iota
	KindPython
	KindGo
	KindText
	KindPDF
)

func (k Kind) String() string {
	switch k {
	case KindPython:
		return "python"
	case KindGo:
		return "go"
	case KindText:
		return "text"
	case KindPDF:
		return "pdf"
	default:
		return "unknown"
	}
}

// Classify returns the kind of the file name by extension. The match is
// case-sensitive: REPORT.PDF is unknown.
func Classify(name string) Kind {
	switch filepath.Ext(name) {
	case ".py":
		return KindPython
	case ".go":
		return KindGo
	case ".txt", ".csv":
		return KindText
	case ".pdf":
		return KindPDF
	default:
		return KindUnknown
	}
}

// Handler produces the blocks shown for one file.
type Handler func(path string, sheet *pdftour.StyleSheet) ([]pdftour.Block, error)

// Handlers maps a kind to its handler. Kinds without a handler are skipped.
type Handlers map[Kind]Handler

// DefaultHandlers returns a handler for every known kind. Plain text is cut
// after snipLines lines; a value below one means DefaultSnipLines.
func DefaultHandlers(snipLines int) Handlers {
	if snipLines < 1 {
		snipLines = DefaultSnipLines
	}
	return Handlers{
		KindPython: PythonSource,
		KindGo:     GoSource,
		KindText: func(path string, sheet *pdftour.StyleSheet) ([]pdftour.Block, error) {
			return PlainText(path, sheet, snipLines)
		},
		KindPDF: PDFPage,
	}
}

// Source is a source file split into its description and its code.
type Source struct {
	// Description is only meaningful when HasDescription is true.
	Description    string
	HasDescription bool
	Code           string
	Language       string
}

// SplitPython locates the first line holding only a triple-quote marker.
// The lines before it are the description, with the opening marker of the
// first line removed. When the marker opens the file, the description runs
// up to the next marker line instead. The code is everything after the
// closing marker. Without a marker the whole text is code.
func SplitPython(text string) Source {
	lines := strings.Split(pipeline.NormalizeLineEndings(text), "\n")
	src := Source{Code: text, Language: "python"}

	open := markerLine(lines, 0)
	if open < 0 {
		return src
	}

	desc := lines[:open]
	end := open
	if open == 0 {
		closing := markerLine(lines, 1)
		if closing < 0 {
			return src
		}
		desc = lines[1:closing]
		end = closing
	} else {
		desc = append([]string{strings.TrimPrefix(desc[0], docMarker)}, desc[1:]...)
	}

	src.Description = strings.Join(desc, "\n")
	src.HasDescription = true
	src.Code = strings.Join(lines[end+1:], "\n")
	return src
}

// markerLine returns the index of the first marker line at or after from,
// or -1.
func markerLine(lines []string, from int) int {
	for i := from; i < len(lines); i++ {
		if strings.TrimRight(lines[i], " \t") == docMarker {
			return i
		}
	}
	return -1
}

// SplitGo uses the doc comment of the package clause as the description;
// the code starts at the package keyword. Text that does not parse is all
// code.
func SplitGo(name, text string) Source {
	src := Source{Code: text, Language: "go"}

	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, name, text, parser.PackageClauseOnly|parser.ParseComments)
	if err != nil || f.Doc == nil {
		return src
	}

	src.Description = f.Doc.Text()
	src.HasDescription = true
	src.Code = text[fset.Position(f.Package).Offset:]
	return src
}

// Blocks renders the source: the first description paragraph as a
// subtitle, the others as description text, then the code. Description
// text keeps its underscores and asterisks; only inline tags are markup.
func (s Source) Blocks(sheet *pdftour.StyleSheet) ([]pdftour.Block, error) {
	var blocks []pdftour.Block

	if s.HasDescription {
		paras := pipeline.SplitParagraphs(s.Description)
		if len(paras) > 0 {
			subtitle, err := sheet.Get(pdftour.StyleSubtitle)
			if err != nil {
				return nil, err
			}
			description, err := sheet.Get(pdftour.StyleDescription)
			if err != nil {
				return nil, err
			}
			blocks = append(blocks, pdftour.Heading{Text: pipeline.EscapeEmphasis(paras[0]), Style: subtitle})
			for _, p := range paras[1:] {
				blocks = append(blocks, pdftour.Paragraph{Text: pipeline.EscapeEmphasis(p), Style: description})
			}
		}
	}

	code := strings.Trim(pipeline.NormalizeLineEndings(s.Code), "\n")
	if strings.TrimSpace(code) != "" {
		style, err := sheet.Get(pdftour.StyleCode)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, pdftour.Preformatted{Text: code, Language: s.Language, Style: style})
	}
	return blocks, nil
}

// PythonSource is the handler for Python files.
func PythonSource(path string, sheet *pdftour.StyleSheet) ([]pdftour.Block, error) {
	text, err := readSource(path)
	if err != nil {
		return nil, err
	}
	return SplitPython(text).Blocks(sheet)
}

// GoSource is the handler for Go files.
func GoSource(path string, sheet *pdftour.StyleSheet) ([]pdftour.Block, error) {
	text, err := readSource(path)
	if err != nil {
		return nil, err
	}
	return SplitGo(filepath.Base(path), text).Blocks(sheet)
}

// PlainText is the handler for text files, keeping at most maxLines lines.
func PlainText(path string, sheet *pdftour.StyleSheet, maxLines int) ([]pdftour.Block, error) {
	text, err := readSource(path)
	if err != nil {
		return nil, err
	}
	style, err := sheet.Get(pdftour.StylePlainText)
	if err != nil {
		return nil, err
	}
	snipped := Snip(text, maxLines)
	if strings.TrimSpace(snipped) == "" {
		return nil, nil
	}
	return []pdftour.Block{pdftour.Preformatted{Text: snipped, Style: style}}, nil
}

// Snip keeps the first maxLines lines of text and appends SnipMarker when
// anything was cut.
func Snip(text string, maxLines int) string {
	lines := pipeline.SplitLines(text)
	if len(lines) <= maxLines {
		return strings.Join(lines, "\n")
	}
	kept := append(lines[:maxLines:maxLines], SnipMarker)
	return strings.Join(kept, "\n")
}

// Embedded page spacing, in points.
const pageSpacing = 12.0

// PDFPage is the handler for PDF files: the first page, scaled down.
func PDFPage(path string, _ *pdftour.StyleSheet) ([]pdftour.Block, error) {
	src, err := pdftour.LoadEmbeddedPage(path)
	if err != nil {
		return nil, err
	}
	return []pdftour.Block{pdftour.EmbeddedPage{
		Source:      src,
		Scale:       pdftour.DefaultEmbedScale,
		SpaceBefore: pageSpacing,
		SpaceAfter:  pageSpacing,
	}}, nil
}

func readSource(path string) (string, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from a directory listing
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadSource, err)
	}
	return string(data), nil
}
