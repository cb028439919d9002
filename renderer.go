package pdftour

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"
)

// Renderer turns a Document into PDF bytes. Renderers only read the
// document. Call Close when done to release resources such as a browser.
type Renderer interface {
	Render(ctx context.Context, doc *Document) ([]byte, error)
	Close() error
}

// Backend selects the rendering engine.
type Backend string

const (
	// BackendFPDF lays the document out with go-pdf/fpdf. It supports every
	// block type and page decorators.
	BackendFPDF Backend = "fpdf"
	// BackendChrome converts the document to HTML and prints it with
	// headless Chrome.
	BackendChrome Backend = "chrome"
)

// ParseBackend parses a backend name. The empty string selects BackendFPDF.
func ParseBackend(s string) (Backend, error) {
	switch Backend(strings.ToLower(strings.TrimSpace(s))) {
	case "", BackendFPDF:
		return BackendFPDF, nil
	case BackendChrome:
		return BackendChrome, nil
	}
	return "", fmt.Errorf("%w: %q (must be fpdf or chrome)", ErrUnknownBackend, s)
}

// defaultTimeout bounds a single Chrome render.
const defaultTimeout = 30 * time.Second

// rendererConfig holds options shared by the backends.
type rendererConfig struct {
	backend Backend
	timeout time.Duration
	created time.Time
}

// Option configures NewRenderer.
type Option func(*rendererConfig)

// WithBackend selects the rendering engine.
func WithBackend(b Backend) Option {
	return func(c *rendererConfig) {
		c.backend = b
	}
}

// WithTimeout sets the Chrome page load timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("pdftour: WithTimeout duration must be positive")
	}
	return func(c *rendererConfig) {
		c.timeout = d
	}
}

// WithCreationDate fixes the creation date written into fpdf output, which
// makes the bytes reproducible.
func WithCreationDate(t time.Time) Option {
	return func(c *rendererConfig) {
		c.created = t
	}
}

// NewRenderer creates a renderer for the configured backend
// (BackendFPDF by default).
func NewRenderer(opts ...Option) (Renderer, error) {
	cfg, err := resolveOptions(opts)
	if err != nil {
		return nil, err
	}
	return cfg.newRenderer(), nil
}

func resolveOptions(opts []Option) (rendererConfig, error) {
	cfg := rendererConfig{backend: BackendFPDF, timeout: defaultTimeout}
	for _, opt := range opts {
		opt(&cfg)
	}
	switch cfg.backend {
	case BackendFPDF, BackendChrome:
		return cfg, nil
	case "":
		cfg.backend = BackendFPDF
		return cfg, nil
	}
	return cfg, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.backend)
}

// newRenderer builds a renderer from a resolved configuration.
func (c rendererConfig) newRenderer() Renderer {
	if c.backend == BackendChrome {
		return newChromeRenderer(c.timeout)
	}
	return &fpdfRenderer{created: c.created}
}

// RenderFile renders doc with r and writes the result to path.
func RenderFile(ctx context.Context, r Renderer, doc *Document, path string) error {
	data, err := r.Render(ctx, doc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { // #nosec G306 -- output PDFs are meant to be shared
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
