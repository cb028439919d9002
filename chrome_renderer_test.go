package pdftour

// Notes:
// - Uses a fake pagePrinter; the HTML handed to Chrome is the observable
//   output. Printing with a real browser is covered by the integration test
//   at the bottom, skipped in -short mode.

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-rod/rod/lib/proto"
)

type fakePrinter struct {
	html   string
	opts   *proto.PagePrintToPDF
	result []byte
	err    error
	closed bool
}

func (f *fakePrinter) PrintFile(_ context.Context, path string, opts *proto.PagePrintToPDF) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f.html = string(data)
	f.opts = opts
	return f.result, f.err
}

func (f *fakePrinter) Close() error {
	f.closed = true
	return nil
}

func TestChromeRenderer_Render(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	img := writeJPEG(t, dir, 450, 500)

	style := NewTableStyle(
		TableRule{Op: LineAbove, From: Cell(0, 0), To: Cell(-1, 0), Width: 2, Color: Green},
		TableRule{Op: Align, From: Cell(1, 1), To: Cell(-1, -1), Align: AlignRight},
		TableRule{Op: Background, From: Cell(1, 1), To: Cell(1, 1), Color: Red},
	)
	doc := NewDocument("Kiwi & PyCon", NewStory(
		Heading{Text: "Traffic", Style: mustStyle(t, StyleTitle)},
		Paragraph{Text: "Some **bold** and *italic* <b>text</b>", Style: mustStyle(t, StyleBody)},
		Spacer{Height: 15 * MM},
		Image{Path: img, Width: 40 * MM},
		Table{Rows: [][]string{{"Time", "Down"}, {"09:00", "1000"}}, RepeatRows: 1, Style: style, ColWidths: []float64{100, 100}},
		Preformatted{Text: "print('hi')", Language: "python", Style: mustStyle(t, StyleCode)},
		Preformatted{Text: "plain <text>", Style: mustStyle(t, StylePlainText)},
		PageBreak{},
		EmbeddedPage{Source: PageSource{Path: "/tmp/other.pdf", Page: 1, Box: Rect{Width: 595.28, Height: 841.89}}},
	))
	doc.Page.Size = PageSizeLetter

	printer := &fakePrinter{result: []byte("%PDF-1.4 fake")}
	r := &chromeRenderer{printer: printer}

	got, err := r.Render(context.Background(), doc)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if string(got) != "%PDF-1.4 fake" {
		t.Errorf("Render() = %q, want the printer output", got)
	}

	for _, want := range []string{
		"<title>Kiwi &amp; PyCon</title>",
		"<b>bold</b>",
		"<i>italic</i>",
		"<thead>",
		"border-top: 2.00pt solid #008000",
		"text-align: right",
		"background: #ff0000",
		"<pre",
		"plain &lt;text&gt;",
		"break-after: page",
		"other.pdf (page 1)",
		"width: 113.39pt",
		"file://",
	} {
		if !strings.Contains(printer.html, want) {
			t.Errorf("HTML does not contain %q", want)
		}
	}

	if *printer.opts.PaperWidth != 8.5 || *printer.opts.PaperHeight != 11 {
		t.Errorf("paper = %vx%v in, want 8.5x11", *printer.opts.PaperWidth, *printer.opts.PaperHeight)
	}
	if !printer.opts.DisplayHeaderFooter || !strings.Contains(printer.opts.FooterTemplate, "Kiwi &amp; PyCon &middot; page") {
		t.Errorf("footer template = %q", printer.opts.FooterTemplate)
	}

	if err := r.Close(); err != nil || !printer.closed {
		t.Errorf("Close() = %v, closed = %v", err, printer.closed)
	}
}

func TestChromeRenderer_Errors(t *testing.T) {
	t.Parallel()

	printErr := errors.New("printer on fire")
	r := &chromeRenderer{printer: &fakePrinter{err: printErr}}
	body := mustStyle(t, StyleBody)

	if _, err := r.Render(context.Background(), NewDocument("x", NewStory(Paragraph{Text: "x", Style: body}))); !errors.Is(err, printErr) {
		t.Errorf("Render() error = %v, want printer error", err)
	}
	if _, err := r.Render(context.Background(), NewDocument("x", NewStory())); !errors.Is(err, ErrEmptyDocument) {
		t.Errorf("Render(empty) error = %v, want ErrEmptyDocument", err)
	}

	missing := NewDocument("x", NewStory(Image{Path: filepath.Join(t.TempDir(), "none.jpg")}))
	if _, err := r.Render(context.Background(), missing); !errors.Is(err, ErrImage) {
		t.Errorf("Render(missing image) error = %v, want ErrImage", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Render(ctx, NewDocument("x", NewStory(PageBreak{}))); !errors.Is(err, context.Canceled) {
		t.Errorf("Render(cancelled) error = %v, want context.Canceled", err)
	}
}

func TestFooterTemplate(t *testing.T) {
	t.Parallel()

	got := footerTemplate("")
	if strings.Contains(got, "&middot;") {
		t.Errorf("footer without title has a separator: %q", got)
	}
	for _, want := range []string{`class="pageNumber"`, `class="totalPages"`} {
		if !strings.Contains(got, want) {
			t.Errorf("footer %q does not contain %q", got, want)
		}
	}
	if got := footerTemplate("<script>"); strings.Contains(got, "<script>") {
		t.Errorf("title not escaped: %q", got)
	}
}

func TestChromeRenderer_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping Chrome integration test in short mode")
	}

	r, err := NewRenderer(WithBackend(BackendChrome))
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	doc := NewDocument("Chrome", NewStory(Paragraph{Text: "Printed by Chrome", Style: mustStyle(t, StyleBody)}))
	data, err := r.Render(context.Background(), doc)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.HasPrefix(string(data), "%PDF-") {
		t.Errorf("output is not a PDF: %q", data[:min(len(data), 16)])
	}
}
