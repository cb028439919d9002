// Package storyfile reads documents described in YAML:
//
//	title: The Tell-Tale Heart
//	stylesheet: styles.yaml
//	page:
//	  size: a4
//	  margin: 40mm
//	blocks:
//	  - type: heading
//	    text: The Tell-Tale Heart
//	    style: title
//	  - type: spacer
//	    height: 25mm
//	  - type: paragraph
//	    file: tell_tale_heart.txt
//
// Block types are heading, paragraph, spacer, image, table, code, text,
// file, pdf and pagebreak. Relative paths are read from the directory of
// the story file.
package storyfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	pdftour "github.com/alnah/go-pdftour"
	"github.com/alnah/go-pdftour/internal/dateutil"
	"github.com/alnah/go-pdftour/internal/selfdoc"
	"github.com/alnah/go-pdftour/internal/yamlutil"
)

// Extension is the suffix of story files.
const Extension = ".story.yaml"

// Sentinel errors.
var (
	ErrInvalidStory     = errors.New("invalid story file")
	ErrUnknownBlockType = errors.New("unknown block type")
	ErrReadInput        = errors.New("cannot read story input")
)

// File is the YAML layout of a story file.
type File struct {
	Title      string      `yaml:"title"`
	Author     string      `yaml:"author"`
	Subject    string      `yaml:"subject"`
	StyleSheet string      `yaml:"stylesheet"`
	Page       *PageSpec   `yaml:"page"`
	Footer     *FooterSpec `yaml:"footer"`
	Blocks     []BlockSpec `yaml:"blocks"`
}

// PageSpec overrides the default page settings.
type PageSpec struct {
	Size        string       `yaml:"size"`
	Orientation string       `yaml:"orientation"`
	Margin      *Length      `yaml:"margin"`
	Margins     *MarginsSpec `yaml:"margins"`
}

// MarginsSpec sets each margin; zero keeps the default.
type MarginsSpec struct {
	Left   Length `yaml:"left"`
	Right  Length `yaml:"right"`
	Top    Length `yaml:"top"`
	Bottom Length `yaml:"bottom"`
}

// FooterSpec adds page furniture: the title on the first page and a page
// footer on every page.
type FooterSpec struct {
	Title    string `yaml:"title"`
	PageInfo string `yaml:"pageInfo"`
	// Date accepts a literal or "auto" / "auto:FORMAT".
	Date string `yaml:"date"`
}

// Options configures the conversion of a story file into a document.
type Options struct {
	// BaseDir resolves relative paths. Load sets it to the file's
	// directory.
	BaseDir string
	// Sheet is the base stylesheet; nil means pdftour.DefaultStyleSheet.
	Sheet *pdftour.StyleSheet
	// Now resolves "auto" dates; zero means time.Now.
	Now time.Time
	// Page is the starting point of the page settings; nil means
	// pdftour.DefaultPageSettings.
	Page *pdftour.PageSettings
}

// Load reads the story file at path and converts it to a document.
func Load(path string, opts Options) (*pdftour.Document, error) {
	var f File
	if err := yamlutil.DecodeFile(path, &f); err != nil {
		if errors.Is(err, yamlutil.ErrReadFile) {
			return nil, fmt.Errorf("%w: %v", ErrReadInput, err)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidStory, path, yamlutil.FormatError(err))
	}
	if opts.BaseDir == "" {
		opts.BaseDir = filepath.Dir(path)
	}
	return f.Document(opts)
}

// Parse decodes a story from data and converts it to a document.
func Parse(data []byte, opts Options) (*pdftour.Document, error) {
	var f File
	if err := yamlutil.Decode(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStory, yamlutil.FormatError(err))
	}
	return f.Document(opts)
}

// Document converts the file into a document.
func (f *File) Document(opts Options) (*pdftour.Document, error) {
	if len(f.Blocks) == 0 {
		return nil, fmt.Errorf("%w: no blocks", ErrInvalidStory)
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}

	sheet, err := f.styleSheet(opts)
	if err != nil {
		return nil, err
	}

	b := &builder{baseDir: opts.BaseDir, sheet: sheet, story: pdftour.NewStory()}
	for i, spec := range f.Blocks {
		if err := b.add(spec); err != nil {
			return nil, fmt.Errorf("block %d (%s): %w", i+1, spec.Type, err)
		}
	}

	doc := pdftour.NewDocument(f.Title, b.story)
	doc.Author = f.Author
	doc.Subject = f.Subject
	if doc.Page, err = f.Page.settings(opts.Page); err != nil {
		return nil, err
	}

	if f.Footer != nil {
		date, err := dateutil.ResolveDate(f.Footer.Date, opts.Now)
		if err != nil {
			return nil, fmt.Errorf("%w: footer date: %v", ErrInvalidStory, err)
		}
		title := f.Footer.Title
		if title == "" {
			title = f.Title
		}
		deco := selfdoc.Decorations{Title: title, PageInfo: f.Footer.PageInfo, Date: date}
		doc.OnFirstPage = deco.FirstPage
		doc.OnLaterPages = deco.LaterPages
	}
	return doc, nil
}

func (f *File) styleSheet(opts Options) (*pdftour.StyleSheet, error) {
	sheet := opts.Sheet
	if sheet == nil {
		sheet = pdftour.DefaultStyleSheet()
	}
	if f.StyleSheet == "" {
		return sheet, nil
	}
	data, err := readInput(opts.BaseDir, f.StyleSheet)
	if err != nil {
		return nil, err
	}
	return pdftour.LoadStyleSheet(data, sheet)
}

func (p *PageSpec) settings(base *pdftour.PageSettings) (pdftour.PageSettings, error) {
	page := pdftour.DefaultPageSettings()
	if base != nil {
		page = *base
	}
	if p == nil {
		return page, nil
	}
	if p.Size != "" {
		page.Size = p.Size
	}
	if p.Orientation != "" {
		page.Orientation = p.Orientation
	}
	if p.Margin != nil {
		page.Margins = pdftour.UniformMargins(p.Margin.Points())
	}
	if m := p.Margins; m != nil {
		setIfPositive(&page.Margins.Left, m.Left)
		setIfPositive(&page.Margins.Right, m.Right)
		setIfPositive(&page.Margins.Top, m.Top)
		setIfPositive(&page.Margins.Bottom, m.Bottom)
	}
	if err := page.Validate(); err != nil {
		return page, fmt.Errorf("%w: %w", ErrInvalidStory, err)
	}
	return page, nil
}

func setIfPositive(dst *float64, l Length) {
	if l > 0 {
		*dst = l.Points()
	}
}

// resolvePath makes a relative path relative to baseDir.
func resolvePath(baseDir, path string) string {
	if filepath.IsAbs(path) || baseDir == "" {
		return path
	}
	return filepath.Join(baseDir, path)
}

func readInput(baseDir, path string) ([]byte, error) {
	data, err := os.ReadFile(resolvePath(baseDir, path)) // #nosec G304 -- path listed in the story file
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadInput, err)
	}
	return data, nil
}
