package casebook

import "errors"

// Sentinel errors for library operations.
var (
	// Session-level errors abort the run.
	ErrMissingCredentials = errors.New("username and password must be set")
	ErrBrowserConnect     = errors.New("failed to connect to browser")
	ErrAuth               = errors.New("login failed")
	ErrTwoFactor          = errors.New("two-factor authentication required")

	// Per-entry errors are recorded and skipped.
	ErrCapture    = errors.New("page capture failed")
	ErrPageLoad   = errors.New("failed to load page")
	ErrPDFConvert = errors.New("PDF conversion failed")

	// Assembly errors.
	ErrEmptyCasebook = errors.New("no pages captured, nothing to assemble")
	ErrMerge         = errors.New("casebook merge failed")

	// Input validation errors.
	ErrNoEntries      = errors.New("entry list cannot be empty")
	ErrEmptyOutputDir = errors.New("output directory cannot be empty")
)
