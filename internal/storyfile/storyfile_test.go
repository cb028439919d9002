package storyfile

// Notes:
// - The sample story shipped in internal/assets is written to a temp dir and
//   loaded end to end, generated images included.
// - Block conversion is checked through the kinds of the resulting blocks;
//   rendering is covered by the root package.

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	pdftour "github.com/alnah/go-pdftour"
	"github.com/alnah/go-pdftour/internal/assets"
	"github.com/alnah/go-pdftour/internal/fileutil"
	"github.com/alnah/go-pdftour/internal/selfdoc"
)

func kinds(blocks []pdftour.Block) []pdftour.BlockKind {
	out := make([]pdftour.BlockKind, len(blocks))
	for i, b := range blocks {
		out[i] = b.Kind()
	}
	return out
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// ---------------------------------------------------------------------------
// TestParseLength - Units
// ---------------------------------------------------------------------------

func TestParseLength(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    float64
		wantErr bool
	}{
		{input: "12", want: 12},
		{input: "12pt", want: 12},
		{input: "25mm", want: 25 * pdftour.MM},
		{input: "1.5cm", want: 1.5 * pdftour.CM},
		{input: "0.5in", want: 36},
		{input: " 2 IN ", want: 144},
		{input: "", wantErr: true},
		{input: "mm", wantErr: true},
		{input: "-3mm", wantErr: true},
		{input: "ten", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := ParseLength(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidStory) {
					t.Errorf("ParseLength(%q) error = %v, want ErrInvalidStory", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseLength(%q) error: %v", tt.input, err)
			}
			if diff := got.Points() - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("ParseLength(%q) = %v, want %v", tt.input, got.Points(), tt.want)
			}
		})
	}
}

func TestLength_UnmarshalYAML(t *testing.T) {
	t.Parallel()

	data := []byte(`
blocks:
  - type: spacer
    height: 25mm
    width: 10
  - type: spacer
    height: 7.5
`)
	doc, err := Parse(data, Options{})
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	first := doc.Blocks[0].(pdftour.Spacer)
	if first.Height != 25*pdftour.MM || first.Width != 10 {
		t.Errorf("first spacer = %+v", first)
	}
	if second := doc.Blocks[1].(pdftour.Spacer); second.Height != 7.5 {
		t.Errorf("second spacer height = %v, want 7.5", second.Height)
	}

	if _, err := Parse([]byte("blocks:\n  - type: spacer\n    height: -4\n"), Options{}); err == nil {
		t.Error("Parse() with a negative length: expected error")
	}
}

// ---------------------------------------------------------------------------
// TestParse - Blocks
// ---------------------------------------------------------------------------

func TestParse(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "story.txt"), "First paragraph.\n\nSecond *one*.\n")
	writeFile(t, filepath.Join(dir, "snippet.go"), "package main\n\nfunc main() {}\n")
	writeFile(t, filepath.Join(dir, "hello.py"), "\"\"\"Hello\n\"\"\"\nprint('hi')\n")
	writeFile(t, filepath.Join(dir, "long.txt"), "1\n2\n3\n4\n5\n")

	data := []byte(`
title: Sampler
author: Someone
blocks:
  - type: heading
    text: Sampler
    style: title
  - type: paragraph
    file: story.txt
  - type: spacer
    height: 1cm
  - type: table
    rows: [[a, b], ["1", "2"]]
    colWidths: [1in, 2in]
    repeatRows: 1
    rules:
      - {op: grid, width: 0.5, color: black}
      - {op: background, to: [-1, 0], color: lightgrey}
  - type: code
    file: snippet.go
  - type: text
    file: long.txt
    lines: 2
  - type: file
    file: hello.py
  - type: pagebreak
`)
	doc, err := Parse(data, Options{BaseDir: dir})
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if doc.Title != "Sampler" || doc.Author != "Someone" {
		t.Errorf("Title, Author = %q, %q", doc.Title, doc.Author)
	}

	want := []pdftour.BlockKind{
		pdftour.KindHeading,
		pdftour.KindParagraph, pdftour.KindParagraph,
		pdftour.KindSpacer,
		pdftour.KindTable,
		pdftour.KindPreformatted,
		pdftour.KindPreformatted,
		pdftour.KindHeading, pdftour.KindPreformatted,
		pdftour.KindPageBreak,
	}
	if got := kinds(doc.Blocks); !slices.Equal(got, want) {
		t.Fatalf("kinds = %v, want %v", got, want)
	}

	if h := doc.Blocks[0].(pdftour.Heading); h.Style.Name != pdftour.StyleTitle {
		t.Errorf("heading style = %q, want %q", h.Style.Name, pdftour.StyleTitle)
	}
	if p := doc.Blocks[1].(pdftour.Paragraph); p.Style.Name != pdftour.StyleBody || p.Text != "First paragraph." {
		t.Errorf("paragraph = %q in %q", p.Text, p.Style.Name)
	}

	table := doc.Blocks[4].(pdftour.Table)
	if table.RepeatRows != 1 || table.Style.Len() != 2 {
		t.Errorf("table RepeatRows = %d, rules = %d", table.RepeatRows, table.Style.Len())
	}
	if !slices.Equal(table.ColWidths, []float64{72, 144}) {
		t.Errorf("table ColWidths = %v", table.ColWidths)
	}
	if rule := table.Style.Rules()[1]; rule.From != pdftour.Cell(0, 0) || rule.To != pdftour.Cell(-1, 0) {
		t.Errorf("background rule spans %v..%v", rule.From, rule.To)
	}

	code := doc.Blocks[5].(pdftour.Preformatted)
	if code.Language != "go" || code.Style.Name != pdftour.StyleCode {
		t.Errorf("code block language, style = %q, %q", code.Language, code.Style.Name)
	}

	text := doc.Blocks[6].(pdftour.Preformatted)
	if text.Style.Name != pdftour.StylePlainText || text.Text != "1\n2\n"+selfdoc.SnipMarker {
		t.Errorf("text block = %q in %q", text.Text, text.Style.Name)
	}
}

func TestParse_ShadedCSVTable(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "data.csv"), "Device,Down,Up\nlaptop,1500,20\nphone,500,0\n")

	data := []byte(`
blocks:
  - type: table
    csv: data.csv
    rules:
      - {op: lineabove, from: [0, 0], to: [-1, 0], width: 2, color: green}
    shade:
      columns: [1, 2]
      threshold: 1000
      from: white
      to: red
`)
	doc, err := Parse(data, Options{BaseDir: dir})
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	table := doc.Blocks[0].(pdftour.Table)
	if len(table.Rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(table.Rows))
	}
	// One base rule plus two shaded cells per data row.
	rules := table.Style.Rules()
	if len(rules) != 5 {
		t.Fatalf("got %d rules, want 5", len(rules))
	}
	if rules[1].Color != pdftour.Red {
		t.Errorf("clamped cell colour = %v, want red", rules[1].Color)
	}
	if rules[4].Color != pdftour.White {
		t.Errorf("zero cell colour = %v, want white", rules[4].Color)
	}
}

func TestParse_GeneratesSampleImage(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	data := []byte(`
blocks:
  - type: image
    path: ` + assets.ImageRaven + `
    width: 40mm
`)
	doc, err := Parse(data, Options{BaseDir: dir})
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	img := doc.Blocks[0].(pdftour.Image)
	if !fileutil.FileExists(img.Path) {
		t.Errorf("image %s was not generated", img.Path)
	}
	if img.Width != 40*pdftour.MM || img.Height != 0 {
		t.Errorf("image size = %v x %v", img.Width, img.Height)
	}
}

func TestParse_PageAndFooter(t *testing.T) {
	t.Parallel()

	data := []byte(`
title: Footed
page:
  size: letter
  orientation: landscape
  margin: 1in
  margins:
    left: 2in
footer:
  pageInfo: story files
  date: auto
blocks:
  - type: heading
    text: Hello
`)
	doc, err := Parse(data, Options{Now: time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)})
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	page := doc.Page
	if page.Size != "letter" || page.Orientation != "landscape" {
		t.Errorf("page = %s %s", page.Size, page.Orientation)
	}
	if page.Margins.Left != 144 || page.Margins.Right != 72 || page.Margins.Top != 72 {
		t.Errorf("margins = %+v", page.Margins)
	}
	if doc.OnFirstPage == nil || doc.OnLaterPages == nil {
		t.Error("footer did not install page decorators")
	}
}

func TestParse_BasePage(t *testing.T) {
	t.Parallel()

	base := pdftour.DefaultPageSettings()
	base.Size = "legal"
	base.Margins = pdftour.UniformMargins(36)

	doc, err := Parse([]byte("blocks:\n  - type: pagebreak\n"), Options{Page: &base})
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if doc.Page != base {
		t.Errorf("page = %+v, want the base page", doc.Page)
	}

	doc, err = Parse([]byte("page:\n  orientation: landscape\nblocks:\n  - type: pagebreak\n"), Options{Page: &base})
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if doc.Page.Size != "legal" || doc.Page.Orientation != "landscape" || doc.Page.Margins.Left != 36 {
		t.Errorf("page section did not start from the base page: %+v", doc.Page)
	}
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "words.csv"), "name,count\nx,many\n")
	writeFile(t, filepath.Join(dir, "notes.md"), "# notes\n")

	tests := []struct {
		name    string
		data    string
		wantErr error
	}{
		{"no blocks", "title: Empty\n", ErrInvalidStory},
		{"unknown field", "blocks:\n  - type: pagebreak\n    colour: red\n", ErrInvalidStory},
		{"unknown block type", "blocks:\n  - type: chart\n", ErrUnknownBlockType},
		{"heading without text", "blocks:\n  - type: heading\n", ErrInvalidStory},
		{"paragraph without text", "blocks:\n  - type: paragraph\n", ErrInvalidStory},
		{"missing paragraph file", "blocks:\n  - type: paragraph\n    file: nope.txt\n", ErrReadInput},
		{"unknown style", "blocks:\n  - type: heading\n    text: x\n    style: fancy\n", pdftour.ErrStyleNotFound},
		{"unknown rule", "blocks:\n  - type: table\n    rows: [[a]]\n    rules:\n      - {op: sparkle}\n", pdftour.ErrInvalidTable},
		{"bad cell", "blocks:\n  - type: table\n    rows: [[a]]\n    rules:\n      - {op: grid, from: [1]}\n", ErrInvalidStory},
		{"bad colour", "blocks:\n  - type: table\n    rows: [[a]]\n    rules:\n      - {op: background, color: mauve}\n", pdftour.ErrInvalidColor},
		{"not numeric", "blocks:\n  - type: table\n    csv: words.csv\n    shade: {columns: [1], threshold: 10, from: white, to: red}\n", pdftour.ErrNotNumeric},
		{"column widths mismatch", "blocks:\n  - type: table\n    rows: [[a, b]]\n    colWidths: [10]\n", pdftour.ErrInvalidTable},
		{"unhandled file", "blocks:\n  - type: file\n    file: notes.md\n", ErrInvalidStory},
		{"invalid pdf", "blocks:\n  - type: pdf\n    path: notes.md\n", pdftour.ErrEmbedPage},
		{"bad page size", "page:\n  size: a9\nblocks:\n  - type: pagebreak\n", ErrInvalidStory},
		{"bad footer date", "footer:\n  date: \"auto:\"\nblocks:\n  - type: pagebreak\n", ErrInvalidStory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse([]byte(tt.data), Options{BaseDir: dir})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Parse() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestLoad - Story Files on Disk
// ---------------------------------------------------------------------------

func TestLoad_SampleStory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if _, err := assets.WriteSamples(dir, assets.NewEmbeddedLoader(), false); err != nil {
		t.Fatalf("WriteSamples() error: %v", err)
	}

	doc, err := Load(filepath.Join(dir, assets.SampleStory), Options{})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if doc.Title != "The Tell-Tale Heart" {
		t.Errorf("Title = %q", doc.Title)
	}
	if doc.Page.Margins.Left != 40*pdftour.MM {
		t.Errorf("left margin = %v, want 40mm", doc.Page.Margins.Left)
	}

	want := []pdftour.BlockKind{
		pdftour.KindHeading, pdftour.KindSpacer,
		pdftour.KindParagraph, pdftour.KindParagraph,
		pdftour.KindParagraph, pdftour.KindImage, pdftour.KindParagraph,
		pdftour.KindPageBreak,
		pdftour.KindHeading, pdftour.KindTable,
		pdftour.KindPageBreak,
		pdftour.KindHeading, pdftour.KindPreformatted,
	}
	if got := kinds(doc.Blocks); !slices.Equal(got, want) {
		t.Fatalf("kinds = %v, want %v", got, want)
	}

	// Styles declared in the sample stylesheet.
	if p := doc.Blocks[4].(pdftour.Paragraph); p.Style.Name != "note" {
		t.Errorf("note paragraph style = %q", p.Style.Name)
	}
	if h := doc.Blocks[8].(pdftour.Heading); h.Style.Name != "heading2" {
		t.Errorf("section heading style = %q", h.Style.Name)
	}
	if table := doc.Blocks[9].(pdftour.Table); table.RepeatRows != 1 || table.Style.Len() <= 5 {
		t.Errorf("table RepeatRows = %d, rules = %d", table.RepeatRows, table.Style.Len())
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "missing"+Extension), Options{}); !errors.Is(err, ErrReadInput) {
		t.Errorf("Load(missing) error = %v, want ErrReadInput", err)
	}

	bad := filepath.Join(dir, "bad"+Extension)
	writeFile(t, bad, "blocks: [\n")
	if _, err := Load(bad, Options{}); !errors.Is(err, ErrInvalidStory) {
		t.Errorf("Load(bad) error = %v, want ErrInvalidStory", err)
	}

	missingSheet := filepath.Join(dir, "sheet"+Extension)
	writeFile(t, missingSheet, "stylesheet: none.yaml\nblocks:\n  - type: pagebreak\n")
	if _, err := Load(missingSheet, Options{}); !errors.Is(err, ErrReadInput) {
		t.Errorf("Load(missing stylesheet) error = %v, want ErrReadInput", err)
	}
}
