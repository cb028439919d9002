package assets

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// MaxNameLength is the longest sample name accepted.
const MaxNameLength = 255

// SampleExtensions are the file types a sample can have: text, CSV data
// and YAML stylesheets or stories. Matched case-insensitively.
var SampleExtensions = []string{".txt", ".csv", ".yaml", ".yml"}

// ValidateAssetName checks that name is a plain, visible file name with a
// sample extension. Anything else returns ErrInvalidAssetName.
func ValidateAssetName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	case len(name) > MaxNameLength:
		return fmt.Errorf("%w: %d chars (max %d)", ErrInvalidAssetName, len(name), MaxNameLength)
	case strings.ContainsAny(name, "/\\\x00"), strings.HasPrefix(name, "."), strings.Contains(name, ".."):
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	if ext := strings.ToLower(filepath.Ext(name)); !slices.Contains(SampleExtensions, ext) {
		return fmt.Errorf("%w: %q is not one of %s", ErrInvalidAssetName, name, strings.Join(SampleExtensions, ", "))
	}
	return nil
}
