package folio

import (
	"errors"
	"fmt"

	"github.com/alnah/go-folio/internal/pipeline"
)

// Sentinel errors for library operations.
var (
	// ErrManifestFetch indicates the posts manifest could not be fetched.
	ErrManifestFetch = errors.New("failed to fetch manifest")

	// ErrNoPosts indicates the manifest is not a list or lists nothing.
	// It is recoverable: the site stays usable with zero tiles.
	ErrNoPosts = errors.New("no posts found")

	// ErrPostFetch indicates a post document referenced by the manifest
	// could not be fetched.
	ErrPostFetch = errors.New("failed to fetch post")

	// ErrHTMLConversion indicates markdown rendering failed.
	ErrHTMLConversion = pipeline.ErrHTMLConversion

	// ErrInvalidLoadMode indicates an unknown load mode name.
	ErrInvalidLoadMode = errors.New("invalid load mode")

	// ErrTemplateRender indicates a page template failed to parse or execute.
	ErrTemplateRender = errors.New("page template rendering failed")

	// Browser errors, returned by snapshots.
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrScreenshot     = errors.New("failed to capture screenshot")

	// ErrBuildOutput indicates the static build could not write its output.
	ErrBuildOutput = errors.New("failed to write build output")
)

// FetchError reports a failed fetch of one resource. Status holds the HTTP
// status code for non-success responses and is 0 for transport or
// filesystem failures.
type FetchError struct {
	Path   string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("unable to fetch %s (%d)", e.Path, e.Status)
	}
	return fmt.Sprintf("unable to fetch %s: %v", e.Path, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
