package storyfile

import (
	"fmt"
	"path/filepath"
	"strings"

	pdftour "github.com/alnah/go-pdftour"
	"github.com/alnah/go-pdftour/internal/assets"
	"github.com/alnah/go-pdftour/internal/fileutil"
	"github.com/alnah/go-pdftour/internal/pipeline"
	"github.com/alnah/go-pdftour/internal/selfdoc"
)

// Block types.
const (
	TypeHeading   = "heading"
	TypeParagraph = "paragraph"
	TypeSpacer    = "spacer"
	TypeImage     = "image"
	TypeTable     = "table"
	TypeCode      = "code"
	TypeText      = "text"
	TypeFile      = "file"
	TypePDF       = "pdf"
	TypePageBreak = "pagebreak"
)

// BlockSpec is one entry of the blocks list. Which fields apply depends on
// Type.
type BlockSpec struct {
	Type  string `yaml:"type"`
	Text  string `yaml:"text"`
	File  string `yaml:"file"`
	Style string `yaml:"style"`

	// image, pdf
	Path   string  `yaml:"path"`
	Width  Length  `yaml:"width"`
	Height Length  `yaml:"height"`
	Scale  float64 `yaml:"scale"`

	SpaceBefore Length `yaml:"spaceBefore"`
	SpaceAfter  Length `yaml:"spaceAfter"`

	// code, text, file
	Language string `yaml:"language"`
	Lines    int    `yaml:"lines"`

	// table
	CSV        string     `yaml:"csv"`
	Rows       [][]string `yaml:"rows"`
	ColWidths  []Length   `yaml:"colWidths"`
	RepeatRows int        `yaml:"repeatRows"`
	Rules      []RuleSpec `yaml:"rules"`
	Shade      *ShadeSpec `yaml:"shade"`
}

// RuleSpec is a table style rule. Cells are [col, row]; negative indices
// count from the end.
type RuleSpec struct {
	Op    string  `yaml:"op"`
	From  []int   `yaml:"from"`
	To    []int   `yaml:"to"`
	Width float64 `yaml:"width"`
	Color string  `yaml:"color"`
	Align string  `yaml:"align"`
}

// ShadeSpec colours numeric cells between two colours, see
// pdftour.ShadeNumeric.
type ShadeSpec struct {
	Columns   []int   `yaml:"columns"`
	Threshold float64 `yaml:"threshold"`
	From      string  `yaml:"from"`
	To        string  `yaml:"to"`
}

type builder struct {
	baseDir string
	sheet   *pdftour.StyleSheet
	story   *pdftour.Story
}

func (b *builder) add(spec BlockSpec) error {
	switch strings.ToLower(spec.Type) {
	case TypeHeading:
		return b.heading(spec)
	case TypeParagraph:
		return b.paragraph(spec)
	case TypeSpacer:
		b.story.Append(pdftour.Spacer{Width: spec.Width.Points(), Height: spec.Height.Points()})
		return nil
	case TypeImage:
		return b.image(spec)
	case TypeTable:
		return b.table(spec)
	case TypeCode:
		return b.code(spec)
	case TypeText:
		return b.text(spec)
	case TypeFile:
		return b.file(spec)
	case TypePDF:
		return b.pdf(spec)
	case TypePageBreak:
		b.story.Append(pdftour.PageBreak{})
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBlockType, spec.Type)
	}
}

func (b *builder) style(name, fallback string) (pdftour.Style, error) {
	if name == "" {
		name = fallback
	}
	return b.sheet.Get(name)
}

// content returns the inline text, or the content of File.
func (b *builder) content(spec BlockSpec) (string, error) {
	if spec.Text != "" {
		return spec.Text, nil
	}
	if spec.File == "" {
		return "", fmt.Errorf("%w: needs text or file", ErrInvalidStory)
	}
	data, err := readInput(b.baseDir, spec.File)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (b *builder) heading(spec BlockSpec) error {
	if strings.TrimSpace(spec.Text) == "" {
		return fmt.Errorf("%w: heading needs text", ErrInvalidStory)
	}
	st, err := b.style(spec.Style, pdftour.StyleTitleText)
	if err != nil {
		return err
	}
	b.story.Append(pdftour.Heading{Text: spec.Text, Style: st})
	return nil
}

// paragraph adds one paragraph per blank-line separated chunk of text.
func (b *builder) paragraph(spec BlockSpec) error {
	text, err := b.content(spec)
	if err != nil {
		return err
	}
	st, err := b.style(spec.Style, pdftour.StyleBody)
	if err != nil {
		return err
	}
	for _, p := range pipeline.SplitParagraphs(text) {
		b.story.Append(pdftour.Paragraph{Text: p, Style: st})
	}
	return nil
}

func (b *builder) image(spec BlockSpec) error {
	if spec.Path == "" {
		return fmt.Errorf("%w: image needs a path", ErrInvalidStory)
	}
	path := resolvePath(b.baseDir, spec.Path)
	if !fileutil.FileExists(path) {
		if _, ok := assets.LookupImage(filepath.ToSlash(spec.Path)); ok {
			generated, err := assets.EnsureImage(b.baseDir, filepath.ToSlash(spec.Path))
			if err != nil {
				return err
			}
			path = generated
		}
	}
	b.story.Append(pdftour.Image{Path: path, Width: spec.Width.Points(), Height: spec.Height.Points()})
	return nil
}

func (b *builder) table(spec BlockSpec) error {
	rows := spec.Rows
	if spec.CSV != "" {
		var err error
		if rows, err = pdftour.LoadCSV(resolvePath(b.baseDir, spec.CSV)); err != nil {
			return err
		}
	}

	style := pdftour.NewTableStyle()
	for i, r := range spec.Rules {
		rule, err := r.rule()
		if err != nil {
			return fmt.Errorf("rule %d: %w", i+1, err)
		}
		style.Add(rule)
	}
	if s := spec.Shade; s != nil {
		from, err := pdftour.ParseColor(s.From)
		if err != nil {
			return err
		}
		to, err := pdftour.ParseColor(s.To)
		if err != nil {
			return err
		}
		if err := pdftour.ShadeNumeric(&style, rows, s.Columns, s.Threshold, from, to); err != nil {
			return err
		}
	}

	widths := make([]float64, len(spec.ColWidths))
	for i, w := range spec.ColWidths {
		widths[i] = w.Points()
	}
	if len(widths) == 0 {
		widths = nil
	}

	t := pdftour.Table{Rows: rows, ColWidths: widths, RepeatRows: spec.RepeatRows, Style: style}
	if err := t.Validate(); err != nil {
		return err
	}
	b.story.Append(t)
	return nil
}

func (r RuleSpec) rule() (pdftour.TableRule, error) {
	op, err := pdftour.ParseRuleOp(r.Op)
	if err != nil {
		return pdftour.TableRule{}, err
	}
	from, err := cellRef(r.From, pdftour.Cell(0, 0))
	if err != nil {
		return pdftour.TableRule{}, err
	}
	to, err := cellRef(r.To, pdftour.Cell(-1, -1))
	if err != nil {
		return pdftour.TableRule{}, err
	}

	rule := pdftour.TableRule{Op: op, From: from, To: to, Width: r.Width}
	if r.Color != "" {
		if rule.Color, err = pdftour.ParseColor(r.Color); err != nil {
			return pdftour.TableRule{}, err
		}
	}
	if r.Align != "" {
		if rule.Align, err = pdftour.ParseAlignment(r.Align); err != nil {
			return pdftour.TableRule{}, err
		}
	}
	return rule, nil
}

func cellRef(v []int, def pdftour.CellRef) (pdftour.CellRef, error) {
	switch len(v) {
	case 0:
		return def, nil
	case 2:
		return pdftour.Cell(v[0], v[1]), nil
	default:
		return pdftour.CellRef{}, fmt.Errorf("%w: cell %v is not [col, row]", ErrInvalidStory, v)
	}
}

func (b *builder) code(spec BlockSpec) error {
	text, err := b.content(spec)
	if err != nil {
		return err
	}
	st, err := b.style(spec.Style, pdftour.StyleCode)
	if err != nil {
		return err
	}
	lang := spec.Language
	if lang == "" && spec.File != "" {
		lang = strings.TrimPrefix(filepath.Ext(spec.File), ".")
	}
	b.story.Append(pdftour.Preformatted{Text: strings.Trim(text, "\n"), Language: lang, Style: st})
	return nil
}

func (b *builder) text(spec BlockSpec) error {
	text, err := b.content(spec)
	if err != nil {
		return err
	}
	st, err := b.style(spec.Style, pdftour.StylePlainText)
	if err != nil {
		return err
	}
	if spec.Lines > 0 {
		text = selfdoc.Snip(text, spec.Lines)
	}
	b.story.Append(pdftour.Preformatted{Text: strings.Trim(text, "\n"), Style: st})
	return nil
}

// file dispatches on the file type the way the self-documenting demo does.
func (b *builder) file(spec BlockSpec) error {
	name := spec.File
	if name == "" {
		name = spec.Path
	}
	if name == "" {
		return fmt.Errorf("%w: file block needs a file", ErrInvalidStory)
	}
	handle, ok := selfdoc.DefaultHandlers(spec.Lines)[selfdoc.Classify(name)]
	if !ok {
		return fmt.Errorf("%w: no handler for %q", ErrInvalidStory, name)
	}
	blocks, err := handle(resolvePath(b.baseDir, name), b.sheet)
	if err != nil {
		return err
	}
	b.story.Append(blocks...)
	return nil
}

func (b *builder) pdf(spec BlockSpec) error {
	if spec.Path == "" {
		return fmt.Errorf("%w: pdf block needs a path", ErrInvalidStory)
	}
	src, err := pdftour.LoadEmbeddedPage(resolvePath(b.baseDir, spec.Path))
	if err != nil {
		return err
	}
	b.story.Append(pdftour.EmbeddedPage{
		Source:      src,
		Scale:       spec.Scale,
		SpaceBefore: spec.SpaceBefore.Points(),
		SpaceAfter:  spec.SpaceAfter.Points(),
	})
	return nil
}
