package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"slices"
)

//go:embed samples/*
var samples embed.FS

// EmbeddedLoader loads the built-in samples.
// Implements Loader interface.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

// Load reads a built-in sample by file name.
func (e *EmbeddedLoader) Load(name string) ([]byte, error) {
	if err := ValidateAssetName(name); err != nil {
		return nil, err
	}

	content, err := samples.ReadFile("samples/" + name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrSampleNotFound, name)
	}

	return content, nil
}

// Names lists the built-in samples.
func (e *EmbeddedLoader) Names() ([]string, error) {
	entries, err := fs.ReadDir(samples, "samples")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	slices.Sort(names)
	return names, nil
}

// Compile-time interface check.
var _ Loader = (*EmbeddedLoader)(nil)
