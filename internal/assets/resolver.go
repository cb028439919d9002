package assets

import (
	"errors"
	"slices"
)

// Resolver combines custom and embedded loaders with fallback logic.
// When a custom loader is configured, it tries custom first, then falls back
// to embedded if the sample is not found in the custom location.
type Resolver struct {
	custom   Loader // nil if no custom path configured
	embedded Loader
}

// NewResolver creates a Resolver.
// If customBasePath is empty, only embedded samples are used.
// If customBasePath is set, its files take precedence with fallback to embedded.
// Returns error if customBasePath is set but invalid.
func NewResolver(customBasePath string) (*Resolver, error) {
	resolver := &Resolver{
		embedded: NewEmbeddedLoader(),
	}

	if customBasePath != "" {
		fsLoader, err := NewFilesystemLoader(customBasePath)
		if err != nil {
			return nil, err
		}
		resolver.custom = fsLoader
	}

	return resolver, nil
}

// Load reads a sample, trying the custom loader first if available.
func (r *Resolver) Load(name string) ([]byte, error) {
	// If no custom loader, use embedded directly
	if r.custom == nil {
		return r.embedded.Load(name)
	}

	// Try custom loader first
	content, err := r.custom.Load(name)
	if err == nil {
		return content, nil
	}

	// Only fall back for "not found" errors, not validation or I/O errors
	if !errors.Is(err, ErrSampleNotFound) {
		return nil, err
	}

	// Fall back to embedded
	return r.embedded.Load(name)
}

// Names lists the built-in samples. Custom files only override them and
// are not listed.
func (r *Resolver) Names() ([]string, error) {
	return r.embedded.Names()
}

// Overridden reports the built-in samples replaced by a custom file.
func (r *Resolver) Overridden() ([]string, error) {
	if r.custom == nil {
		return nil, nil
	}
	builtin, err := r.embedded.Names()
	if err != nil {
		return nil, err
	}
	custom, err := r.custom.Names()
	if err != nil {
		return nil, err
	}

	var out []string
	for _, name := range builtin {
		if slices.Contains(custom, name) {
			out = append(out, name)
		}
	}
	return out, nil
}

// HasCustomLoader returns true if a custom loader is configured.
func (r *Resolver) HasCustomLoader() bool {
	return r.custom != nil
}

// Compile-time interface check.
var _ Loader = (*Resolver)(nil)
