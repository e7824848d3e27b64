package main

import (
	"errors"
	"os"

	casebook "github.com/edcworks/go-casebook"
	"github.com/edcworks/go-casebook/internal/config"
	"github.com/edcworks/go-casebook/internal/manifest"
)

// Exit codes for the casebook CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Casebook produced, every entry captured or reused
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or credentials
	ExitIO      = 3 // Manifest or file-system problems
	ExitBrowser = 4 // Browser, login, or capture-session errors
	ExitPartial = 5 // Casebook produced but some entries were skipped
)

// exitCodeFor returns the appropriate exit code for a run outcome.
// It uses errors.Is to check wrapped errors, so callers must use
// fmt.Errorf("%w", err).
func exitCodeFor(err error, report *casebook.RunReport) int {
	if err == nil {
		if report != nil && report.Partial() {
			return ExitPartial
		}
		return ExitSuccess
	}

	// Browser/session errors (exit 4)
	if errors.Is(err, casebook.ErrBrowserConnect) ||
		errors.Is(err, casebook.ErrAuth) ||
		errors.Is(err, casebook.ErrTwoFactor) ||
		errors.Is(err, casebook.ErrEmptyCasebook) ||
		errors.Is(err, casebook.ErrMerge) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrNoManifest) ||
		errors.Is(err, manifest.ErrNotFound) ||
		errors.Is(err, manifest.ErrParse) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrMissingCredentials) ||
		errors.Is(err, config.ErrInvalidTimeout) ||
		errors.Is(err, casebook.ErrMissingCredentials) ||
		errors.Is(err, casebook.ErrNoEntries) ||
		errors.Is(err, casebook.ErrEmptyOutputDir) {
		return ExitUsage
	}

	return ExitGeneral
}
