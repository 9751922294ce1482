package main

import (
	"errors"
	"os"

	folio "github.com/alnah/go-folio"
	"github.com/alnah/go-folio/internal/assets"
	"github.com/alnah/go-folio/internal/config"
	"github.com/alnah/go-folio/internal/dateutil"
)

// Exit codes for the folio CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Command completed
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // Posts unreadable, output not writable, address taken
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, folio.ErrBrowserConnect) ||
		errors.Is(err, folio.ErrPageCreate) ||
		errors.Is(err, folio.ErrPageLoad) ||
		errors.Is(err, folio.ErrScreenshot) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, folio.ErrManifestFetch) ||
		errors.Is(err, folio.ErrPostFetch) ||
		errors.Is(err, folio.ErrNoPosts) ||
		errors.Is(err, folio.ErrBuildOutput) ||
		errors.Is(err, ErrWriteSnapshot) ||
		errors.Is(err, ErrListen) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, folio.ErrInvalidLoadMode) ||
		errors.Is(err, dateutil.ErrInvalidDateFormat) ||
		errors.Is(err, assets.ErrStyleNotFound) ||
		errors.Is(err, assets.ErrScriptNotFound) ||
		errors.Is(err, assets.ErrTemplateSetNotFound) ||
		errors.Is(err, assets.ErrIncompleteTemplateSet) ||
		errors.Is(err, assets.ErrInvalidAssetName) ||
		errors.Is(err, assets.ErrInvalidBasePath) ||
		errors.Is(err, assets.ErrPathTraversal) ||
		errors.Is(err, ErrUnsupportedShell) ||
		errors.Is(err, ErrTooManyArgs) {
		return ExitUsage
	}

	return ExitGeneral
}
