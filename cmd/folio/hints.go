package main

import (
	"context"
	"errors"
	"strings"

	folio "github.com/alnah/go-folio"
	"github.com/alnah/go-folio/internal/assets"
	"github.com/alnah/go-folio/internal/config"
	"github.com/alnah/go-folio/internal/hints"
)

// hintFor returns an actionable hint for err, or "".
func hintFor(err error) string {
	switch {
	case errors.Is(err, folio.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(searchedPaths(err))
	case errors.Is(err, folio.ErrNoPosts):
		return hints.ForManifest(folio.DefaultPostsDir + "/" + folio.DefaultManifest)
	case errors.Is(err, folio.ErrManifestFetch), errors.Is(err, folio.ErrPostFetch):
		return hints.ForPostsSource()
	case errors.Is(err, folio.ErrBuildOutput), errors.Is(err, ErrWriteSnapshot):
		return hints.ForOutputDirectory()
	case errors.Is(err, assets.ErrStyleNotFound):
		return hints.ForStyleNotFound(assets.StyleNames())
	}
	return ""
}

// searchedPaths extracts the paths listed after "tried " in a config
// lookup error.
func searchedPaths(err error) []string {
	_, list, ok := strings.Cut(err.Error(), "tried ")
	if !ok {
		return nil
	}
	return strings.Split(list, ", ")
}
