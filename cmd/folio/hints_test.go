package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	folio "github.com/alnah/go-folio"
	"github.com/alnah/go-folio/internal/assets"
	"github.com/alnah/go-folio/internal/config"
)

// ---------------------------------------------------------------------------
// TestHintFor - Actionable hints per error
// ---------------------------------------------------------------------------

func TestHintFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string // substring; empty means no hint
	}{
		{"timeout", fmt.Errorf("loading posts: %w", context.DeadlineExceeded), "--timeout"},
		{"no posts", folio.ErrNoPosts, "index.json"},
		{"manifest fetch", folio.ErrManifestFetch, "--sample"},
		{"build output", folio.ErrBuildOutput, "writable"},
		{"style", fmt.Errorf("loading style: %w", assets.ErrStyleNotFound), "available: default"},
		{"config lookup", fmt.Errorf("%w: tried folio.yaml, /home/u/.config/go-folio/folio.yaml", config.ErrConfigNotFound), "or create /home/u/.config/go-folio/folio.yaml"},
		{"unknown", errors.New("boom"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := hintFor(tt.err)
			if tt.want == "" {
				if got != "" {
					t.Errorf("hintFor() = %q, want none", got)
				}
				return
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("hintFor() = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}

func TestSearchedPaths(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("%w: tried a.yaml, a.yml", config.ErrConfigNotFound)
	if diff := cmp.Diff([]string{"a.yaml", "a.yml"}, searchedPaths(err)); diff != "" {
		t.Errorf("searchedPaths mismatch (-want +got):\n%s", diff)
	}
	if got := searchedPaths(errors.New("other")); got != nil {
		t.Errorf("searchedPaths() = %v, want nil", got)
	}
}
