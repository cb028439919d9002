package pdftour

import "errors"

// Sentinel errors for library operations.
var (
	ErrEmptyDocument  = errors.New("document has no content")
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrUnknownBackend = errors.New("unknown renderer backend")

	// Page settings validation errors.
	ErrInvalidPageSize    = errors.New("invalid page size")
	ErrInvalidOrientation = errors.New("invalid orientation")
	ErrInvalidMargin      = errors.New("invalid margin")

	// Style errors.
	ErrStyleNotFound = errors.New("style not found")
	ErrInvalidStyle  = errors.New("invalid style")
	ErrInvalidColor  = errors.New("invalid color")

	// Table errors.
	ErrInvalidTable = errors.New("invalid table")
	ErrNotNumeric   = errors.New("cell value is not numeric")

	// Content errors.
	ErrImage     = errors.New("cannot load image")
	ErrEmbedPage = errors.New("cannot embed PDF page")
)
