package pdftour

import (
	"context"
	"fmt"
	"html"
	"io"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-pdftour/internal/fileutil"
	"github.com/alnah/go-pdftour/internal/pipeline"
	"github.com/alnah/go-pdftour/internal/process"
)

// pagePrinter prints a local HTML file to PDF, to enable testing without a browser.
type pagePrinter interface {
	PrintFile(ctx context.Context, path string, opts *proto.PagePrintToPDF) ([]byte, error)
	Close() error
}

// Compile-time interface checks
var (
	_ Renderer    = (*chromeRenderer)(nil)
	_ pagePrinter = (*rodPrinter)(nil)
)

// rodPrinter implements pagePrinter using go-rod.
// Rod automatically downloads Chromium on first run if not found.
type rodPrinter struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	timeout  time.Duration
}

func newRodPrinter(timeout time.Duration) *rodPrinter {
	return &rodPrinter{timeout: timeout}
}

// ensureBrowser lazily connects to the browser.
func (p *rodPrinter) ensureBrowser() error {
	if p.browser != nil {
		return nil
	}

	l := launcher.New()

	// Use pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}
	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	p.launcher = l
	p.browser = browser
	return nil
}

// Close releases browser resources, including Chrome's helper processes.
func (p *rodPrinter) Close() error {
	if p.browser == nil {
		return nil
	}
	err := p.browser.Close()
	process.KillProcessGroup(p.launcher.PID())
	p.launcher.Kill()
	p.browser = nil
	p.launcher = nil
	return err
}

// PrintFile opens a local HTML file in headless Chrome and prints it.
func (p *rodPrinter) PrintFile(ctx context.Context, path string, opts *proto.PagePrintToPDF) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := p.ensureBrowser(); err != nil {
		return nil, err
	}

	u, err := pipeline.PathToFileURL(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	page, err := p.browser.Page(proto.TargetCreateTarget{URL: u})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer func() { _ = page.Close() }()

	// Wait for page to load with timeout from context or default
	timeout := p.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}
	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader, err := page.PDF(opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	return data, nil
}

// chromeRenderer converts a document to HTML and prints it with Chrome.
// Page decorators are not run: Chrome prints its own footer instead.
type chromeRenderer struct {
	printer pagePrinter
}

func newChromeRenderer(timeout time.Duration) *chromeRenderer {
	return &chromeRenderer{printer: newRodPrinter(timeout)}
}

// Render writes the document's HTML to a temporary file and prints it.
func (r *chromeRenderer) Render(ctx context.Context, doc *Document) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	content, err := buildHTML(doc)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, cleanup, err := fileutil.WriteTempFile(content, "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	return r.printer.PrintFile(ctx, path, printOptions(doc))
}

// Close releases browser resources.
func (r *chromeRenderer) Close() error {
	if r.printer != nil {
		return r.printer.Close()
	}
	return nil
}

// Footer height reserved below the bottom margin, in inches.
const footerInches = 0.25

// printOptions maps the page settings onto Chrome's print parameters.
func printOptions(doc *Document) *proto.PagePrintToPDF {
	w, h := doc.Page.Dimensions()
	m := doc.Page.Margins
	return &proto.PagePrintToPDF{
		PaperWidth:          floatPtr(w / Inch),
		PaperHeight:         floatPtr(h / Inch),
		MarginTop:           floatPtr(m.Top / Inch),
		MarginBottom:        floatPtr(m.Bottom/Inch + footerInches),
		MarginLeft:          floatPtr(m.Left / Inch),
		MarginRight:         floatPtr(m.Right / Inch),
		PrintBackground:     true,
		DisplayHeaderFooter: true,
		HeaderTemplate:      "<span></span>", // Empty header
		FooterTemplate:      footerTemplate(doc.Title),
	}
}

// footerTemplate generates the HTML for Chrome's native footer:
// "<title> · page N / M". Chrome fills the pageNumber and totalPages classes.
func footerTemplate(title string) string {
	content := `page <span class="pageNumber"></span> / <span class="totalPages"></span>`
	if title != "" {
		content = html.EscapeString(title) + " &middot; " + content
	}
	return fmt.Sprintf(`<div style="font-size: 9px; font-family: %s; color: #555; width: 100%%; text-align: center;">%s</div>`, cssFontFamily(FontTimes), content)
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}
