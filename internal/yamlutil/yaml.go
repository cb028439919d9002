// Package yamlutil decodes the YAML documents read by pdftour: config
// files, story files and stylesheets. Decoding is strict, so a misspelt key
// is an error rather than a silently ignored field.
package yamlutil

import (
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// MaxInputSize is the largest document accepted, in bytes.
const MaxInputSize = 1 << 20

var (
	ErrEmpty          = errors.New("yamlutil: empty document")
	ErrNilDestination = errors.New("yamlutil: nil destination pointer")
	ErrInputTooLarge  = errors.New("yamlutil: input exceeds maximum size")
	ErrReadFile       = errors.New("yamlutil: cannot read file")
)

// Decode decodes data into v, rejecting keys v has no field for.
func Decode(data []byte, v any) error {
	return decode(data, v, MaxInputSize)
}

func decode(data []byte, v any, limit int) error {
	switch {
	case len(data) == 0:
		return ErrEmpty
	case len(data) > limit:
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), limit)
	case v == nil:
		return ErrNilDestination
	}
	if err := yaml.UnmarshalWithOptions(data, v, yaml.Strict()); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

// DecodeFile reads path and decodes it with Decode. Files over
// MaxInputSize are rejected before being read.
func DecodeFile(path string, v any) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrReadFile, err)
	}
	if info.Size() > MaxInputSize {
		return fmt.Errorf("%w: %s is %d bytes (max %d)", ErrInputTooLarge, path, info.Size(), MaxInputSize)
	}
	data, err := os.ReadFile(path) // #nosec G304 -- caller-provided path
	if err != nil {
		return fmt.Errorf("%w: %v", ErrReadFile, err)
	}
	return Decode(data, v)
}

// FormatError renders a decoding error with the offending source lines
// when the error carries a position. Other errors print as usual.
func FormatError(err error) string {
	if err == nil {
		return ""
	}
	return yaml.FormatError(err, false, true)
}
