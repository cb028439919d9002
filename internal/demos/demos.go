// Package demos holds the tutorial programs. Each demo writes one PDF named
// after itself into a working directory, reading its inputs from that
// directory first and from the embedded samples otherwise.
package demos

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	pdftour "github.com/alnah/go-pdftour"
	"github.com/alnah/go-pdftour/internal/assets"
	"github.com/alnah/go-pdftour/internal/fileutil"
	"github.com/alnah/go-pdftour/internal/selfdoc"
)

// Sentinel errors.
var (
	ErrUnknownDemo = errors.New("unknown demo")
	ErrInput       = errors.New("cannot read demo input")
)

// Demo is one tutorial program.
type Demo struct {
	Name    string
	Summary string
	run     func(ctx context.Context, env *Env, out string) error
}

// Output returns the file name the demo writes.
func (d Demo) Output() string {
	return d.Name + ".pdf"
}

// SelfDocOptions configures the self-documenting demo.
type SelfDocOptions struct {
	Title    string
	PageInfo string
	// Date is appended to the footer; "auto" and "auto:FORMAT" are resolved
	// against Env.Now.
	Date      string
	SnipLines int
	Exclude   []string
	// Page replaces the default page settings when set.
	Page *pdftour.PageSettings
}

// Env is what a demo runs against.
type Env struct {
	// Dir is read for inputs and receives the output. Empty means the
	// current directory.
	Dir string
	// Samples provides inputs missing from Dir; nil means the embedded
	// samples.
	Samples assets.Loader
	// Renderer renders flowable documents; nil creates an fpdf renderer for
	// the run.
	Renderer pdftour.Renderer
	// Sheet defaults to pdftour.DefaultStyleSheet.
	Sheet *pdftour.StyleSheet
	// Now defaults to time.Now.
	Now time.Time
	// Progress receives per-file progress lines. Nil discards.
	Progress io.Writer
	SelfDoc  SelfDocOptions
}

func (e Env) withDefaults() Env {
	if e.Dir == "" {
		e.Dir = "."
	}
	if e.Samples == nil {
		e.Samples = assets.NewEmbeddedLoader()
	}
	if e.Sheet == nil {
		e.Sheet = pdftour.DefaultStyleSheet()
	}
	if e.Now.IsZero() {
		e.Now = time.Now()
	}
	if e.Progress == nil {
		e.Progress = io.Discard
	}
	if e.SelfDoc.Title == "" {
		e.SelfDoc.Title = selfdoc.DefaultTitle
	}
	if e.SelfDoc.PageInfo == "" {
		e.SelfDoc.PageInfo = selfdoc.DefaultPageInfo
	}
	if e.SelfDoc.SnipLines <= 0 {
		e.SelfDoc.SnipLines = selfdoc.DefaultSnipLines
	}
	return e
}

// Run executes the demo and returns the path of the PDF it wrote.
func (d Demo) Run(ctx context.Context, env Env) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	env = env.withDefaults()
	if err := os.MkdirAll(env.Dir, fileutil.DirPerm); err != nil {
		return "", fmt.Errorf("%s: %w", d.Name, err)
	}

	if env.Renderer == nil {
		r, err := pdftour.NewRenderer(pdftour.WithCreationDate(env.Now))
		if err != nil {
			return "", err
		}
		defer func() { _ = r.Close() }()
		env.Renderer = r
	}

	out := filepath.Join(env.Dir, d.Output())
	if err := d.run(ctx, &env, out); err != nil {
		return "", fmt.Errorf("%s: %w", d.Name, err)
	}
	return out, nil
}

// SelfDocument is the name of the demo documenting the working directory.
const SelfDocument = "99_self_document"

var registry = []Demo{
	{Name: "01_hello_world", Summary: "Canvas drawing: one centred string", run: helloWorld},
	{Name: "01_01_page_layout", Summary: "Flowables: title, spacers, paragraphs and a 300 dpi image", run: pageLayout},
	{Name: "02_text", Summary: "Canvas state stack, string placement and text objects", run: canvasText},
	{Name: "02_01_tables", Summary: "CSV table with line rules and numeric shading", run: tables},
	{Name: "03_hello_again", Summary: "Image scaled to a width, keeping its aspect ratio", run: helloAgain},
	{Name: SelfDocument, Summary: "Documents the working directory, this tour included", run: selfDocument},
}

// All returns every demo in run order. The self-documenting demo is last so
// it can pick up the PDFs of the others.
func All() []Demo {
	return slices.Clone(registry)
}

// Names returns the demo names in run order.
func Names() []string {
	names := make([]string, len(registry))
	for i, d := range registry {
		names[i] = d.Name
	}
	return names
}

// Lookup finds a demo by name, ignoring case and a ".pdf" suffix.
func Lookup(name string) (Demo, error) {
	key := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(name)), ".pdf")
	for _, d := range registry {
		if d.Name == key {
			return d, nil
		}
	}
	return Demo{}, fmt.Errorf("%w: %q", ErrUnknownDemo, name)
}

// input returns the named input from Dir, or from the samples.
func (e *Env) input(name string) ([]byte, error) {
	path := filepath.Join(e.Dir, name)
	if fileutil.FileExists(path) {
		data, err := os.ReadFile(path) // #nosec G304 -- sample name from the registry
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInput, err)
		}
		return data, nil
	}
	data, err := e.Samples.Load(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInput, err)
	}
	return data, nil
}

// image returns the path of a sample image under Dir, generating it when
// missing.
func (e *Env) image(name string) (string, error) {
	return assets.EnsureImage(e.Dir, name)
}
