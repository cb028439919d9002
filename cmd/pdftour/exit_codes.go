package main

import (
	"context"
	"errors"
	"os"

	pdftour "github.com/alnah/go-pdftour"
	"github.com/alnah/go-pdftour/internal/assets"
	"github.com/alnah/go-pdftour/internal/config"
	"github.com/alnah/go-pdftour/internal/dateutil"
	"github.com/alnah/go-pdftour/internal/demos"
	"github.com/alnah/go-pdftour/internal/hints"
	"github.com/alnah/go-pdftour/internal/runner"
	"github.com/alnah/go-pdftour/internal/selfdoc"
	"github.com/alnah/go-pdftour/internal/storyfile"
	"github.com/alnah/go-pdftour/internal/yamlutil"
)

// Exit codes for the pdftour CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Every output written
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, story file or validation
	ExitIO      = 3 // File not found, permission denied, cannot write
	ExitRender  = 4 // PDF generation, browser or page embedding errors
	ExitData    = 5 // Input data the document cannot use (non-numeric cells)
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Data errors (exit 5)
	if errors.Is(err, pdftour.ErrNotNumeric) ||
		errors.Is(err, pdftour.ErrInvalidTable) {
		return ExitData
	}

	// Renderer errors (exit 4)
	if errors.Is(err, pdftour.ErrBrowserConnect) ||
		errors.Is(err, pdftour.ErrPageCreate) ||
		errors.Is(err, pdftour.ErrPageLoad) ||
		errors.Is(err, pdftour.ErrPDFGeneration) ||
		errors.Is(err, pdftour.ErrEmbedPage) {
		return ExitRender
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrWritePDF) ||
		errors.Is(err, ErrOutputDir) ||
		errors.Is(err, pdftour.ErrImage) ||
		errors.Is(err, storyfile.ErrReadInput) ||
		errors.Is(err, demos.ErrInput) ||
		errors.Is(err, selfdoc.ErrReadSource) ||
		errors.Is(err, yamlutil.ErrReadFile) ||
		errors.Is(err, assets.ErrAssetRead) ||
		errors.Is(err, assets.ErrAssetWrite) ||
		errors.Is(err, runner.ErrStart) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrUnsupportedShell) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, demos.ErrUnknownDemo) ||
		errors.Is(err, storyfile.ErrInvalidStory) ||
		errors.Is(err, storyfile.ErrUnknownBlockType) ||
		errors.Is(err, dateutil.ErrInvalidDateFormat) ||
		errors.Is(err, assets.ErrInvalidBasePath) ||
		errors.Is(err, assets.ErrSampleNotFound) ||
		errors.Is(err, pdftour.ErrEmptyDocument) ||
		errors.Is(err, pdftour.ErrUnknownBackend) ||
		errors.Is(err, pdftour.ErrInvalidPageSize) ||
		errors.Is(err, pdftour.ErrInvalidOrientation) ||
		errors.Is(err, pdftour.ErrInvalidMargin) ||
		errors.Is(err, pdftour.ErrStyleNotFound) ||
		errors.Is(err, pdftour.ErrInvalidStyle) ||
		errors.Is(err, pdftour.ErrInvalidColor) {
		return ExitUsage
	}

	return ExitGeneral
}

// hintFor returns the actionable hint matching err, or "".
func hintFor(err error) string {
	switch {
	case errors.Is(err, pdftour.ErrBrowserConnect):
		return hints.ForBrowserConnect(os.Getenv)
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(configSearchPaths(err))
	case errors.Is(err, pdftour.ErrStyleNotFound):
		return hints.ForStyleNotFound(pdftour.DefaultStyleSheet().Names())
	case errors.Is(err, demos.ErrUnknownDemo):
		return hints.ForUnknownDemo(demos.Names())
	case errors.Is(err, pdftour.ErrNotNumeric):
		return hints.ForNotNumeric()
	case errors.Is(err, pdftour.ErrEmbedPage):
		return hints.ForEmbedPage()
	case errors.Is(err, pdftour.ErrImage):
		return hints.ForImage()
	case errors.Is(err, ErrOutputDir):
		return hints.ForOutputDirectory()
	}
	return ""
}

// configSearchPaths returns the paths tried for the config name carried
// by err, if any.
func configSearchPaths(err error) []string {
	var nf *configNotFoundError
	if errors.As(err, &nf) {
		return config.SearchPaths(nf.name)
	}
	return nil
}
