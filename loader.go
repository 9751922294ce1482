package folio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"path"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-folio/internal/dateutil"
)

// Loader defaults.
const (
	DefaultPostsDir    = "posts"
	DefaultManifest    = "index.json"
	defaultConcurrency = 8
)

// LoadMode selects how manifest entries are aggregated.
type LoadMode string

// Load modes.
const (
	// LoadStrict fetches all documents concurrently; any failure discards
	// the whole batch.
	LoadStrict LoadMode = "strict"

	// LoadPartial fetches concurrently and reports failed entries while
	// keeping the posts that loaded.
	LoadPartial LoadMode = "partial"

	// LoadSequential fetches in manifest order and stops at the first
	// failure. Posts keep manifest order.
	LoadSequential LoadMode = "sequential"
)

// ParseLoadMode converts a mode name (case-insensitive) to a LoadMode.
// An empty name selects LoadStrict.
func ParseLoadMode(s string) (LoadMode, error) {
	switch LoadMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", LoadStrict:
		return LoadStrict, nil
	case LoadPartial:
		return LoadPartial, nil
	case LoadSequential:
		return LoadSequential, nil
	default:
		return "", fmt.Errorf("%w: %q (expected strict, partial or sequential)", ErrInvalidLoadMode, s)
	}
}

// EntryFailure records one manifest entry whose document failed to load.
type EntryFailure struct {
	Entry ManifestEntry
	Path  string
	Err   error
}

// LoadResult is the outcome of one Load.
type LoadResult struct {
	// Posts holds the built records, sorted by publish date descending
	// except in sequential mode.
	Posts []Post

	// Failures lists entries that failed in partial mode.
	Failures []EntryFailure

	// Skipped counts manifest items without a usable file reference.
	Skipped int
}

// Loader reads the manifest and the documents it references.
type Loader struct {
	fetcher     Fetcher
	base        *url.URL
	postsDir    string
	manifest    string
	mode        LoadMode
	timeout     time.Duration
	concurrency int
	logger      *zap.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithBaseURL sets the site root that post paths are resolved against when
// building records. It only affects Post.DocURL and image resolution;
// fetching is the Fetcher's concern. The default is the root path "/";
// an unparseable URL is ignored.
func WithBaseURL(base string) LoaderOption {
	return func(l *Loader) {
		u, err := url.Parse(base)
		if err != nil {
			return
		}
		if !strings.HasSuffix(u.Path, "/") {
			u.Path += "/"
		}
		l.base = u
	}
}

// WithPostsDir sets the directory holding the manifest and documents.
func WithPostsDir(dir string) LoaderOption {
	return func(l *Loader) {
		l.postsDir = strings.Trim(dir, "/")
	}
}

// WithManifest sets the manifest file name inside the posts directory.
func WithManifest(name string) LoaderOption {
	return func(l *Loader) {
		l.manifest = name
	}
}

// WithLoadMode sets the aggregation strategy.
func WithLoadMode(mode LoadMode) LoaderOption {
	return func(l *Loader) {
		l.mode = mode
	}
}

// WithLoadTimeout bounds a whole Load. Zero disables the bound.
func WithLoadTimeout(d time.Duration) LoaderOption {
	return func(l *Loader) {
		l.timeout = d
	}
}

// WithConcurrency limits in-flight document fetches in concurrent modes.
func WithConcurrency(n int) LoaderOption {
	return func(l *Loader) {
		if n > 0 {
			l.concurrency = n
		}
	}
}

// WithLoaderLogger sets the logger for per-entry diagnostics.
func WithLoaderLogger(logger *zap.Logger) LoaderOption {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoader creates a Loader reading through fetcher.
func NewLoader(fetcher Fetcher, opts ...LoaderOption) *Loader {
	l := &Loader{
		fetcher:     fetcher,
		base:        &url.URL{Path: "/"},
		postsDir:    DefaultPostsDir,
		manifest:    DefaultManifest,
		mode:        LoadStrict,
		concurrency: defaultConcurrency,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// ManifestPath returns the manifest fetch path, e.g. "posts/index.json".
func (l *Loader) ManifestPath() string {
	return l.docPath(l.manifest)
}

// Mode returns the configured load mode.
func (l *Loader) Mode() LoadMode {
	return l.mode
}

// Load fetches the manifest and every referenced document.
//
// Errors: ErrManifestFetch when the manifest cannot be fetched, ErrNoPosts
// when it is not a non-empty list, ErrPostFetch when a document fails in
// strict or sequential mode. Sequential failures return the posts loaded so
// far together with the error.
func (l *Loader) Load(ctx context.Context) (*LoadResult, error) {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	raw, err := l.fetcher.Fetch(ctx, l.ManifestPath())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrManifestFetch, err)
	}

	entries, skipped, err := decodeManifest(raw)
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		l.logger.Debug("skipped manifest items without file", zap.Int("count", skipped))
	}
	if len(entries) == 0 {
		return &LoadResult{Skipped: skipped}, nil
	}

	var result *LoadResult
	switch l.mode {
	case LoadSequential:
		result, err = l.loadSequential(ctx, entries)
	case LoadPartial:
		result, err = l.loadConcurrent(ctx, entries, true)
	default:
		result, err = l.loadConcurrent(ctx, entries, false)
	}
	if result != nil {
		result.Skipped = skipped
	}
	return result, err
}

// loadSequential fetches one entry at a time and stops at the first failure.
func (l *Loader) loadSequential(ctx context.Context, entries []ManifestEntry) (*LoadResult, error) {
	result := &LoadResult{Posts: make([]Post, 0, len(entries))}
	for _, entry := range entries {
		post, err := l.loadEntry(ctx, entry)
		if err != nil {
			return result, err
		}
		result.Posts = append(result.Posts, post)
	}
	return result, nil
}

// loadConcurrent fetches every entry concurrently. In strict mode the first
// failure cancels the rest; with tolerate set, failures are collected.
func (l *Loader) loadConcurrent(ctx context.Context, entries []ManifestEntry, tolerate bool) (*LoadResult, error) {
	posts := make([]Post, len(entries))
	errs := make([]error, len(entries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)
	for i, entry := range entries {
		g.Go(func() error {
			post, err := l.loadEntry(gctx, entry)
			if err != nil {
				errs[i] = err
				if tolerate {
					return nil
				}
				return err
			}
			posts[i] = post
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &LoadResult{Posts: make([]Post, 0, len(entries))}
	for i, entry := range entries {
		if errs[i] != nil {
			l.logger.Warn("post failed to load",
				zap.String("file", entry.File),
				zap.Error(errs[i]))
			result.Failures = append(result.Failures, EntryFailure{
				Entry: entry,
				Path:  l.docPath(entry.File),
				Err:   errs[i],
			})
			continue
		}
		result.Posts = append(result.Posts, posts[i])
	}
	SortPosts(result.Posts)
	return result, nil
}

// loadEntry fetches and builds one document.
func (l *Loader) loadEntry(ctx context.Context, entry ManifestEntry) (Post, error) {
	p := l.docPath(entry.File)
	text, err := l.fetcher.Fetch(ctx, p)
	if err != nil {
		return Post{}, fmt.Errorf("%w: %w", ErrPostFetch, err)
	}
	return BuildPost(entry, string(text), p, l.base), nil
}

func (l *Loader) docPath(file string) string {
	file = strings.TrimPrefix(file, "/")
	if l.postsDir == "" {
		return file
	}
	return path.Join(l.postsDir, file)
}

// SortPosts orders posts by publish date, newest first. Posts without a
// parseable date sink to the end; equal keys keep their relative order.
func SortPosts(posts []Post) {
	slices.SortStableFunc(posts, func(a, b Post) int {
		return dateutil.SortKey(b.Published).Compare(dateutil.SortKey(a.Published))
	})
}

// decodeManifest parses the manifest into entries. Items that are not
// objects or lack a string "file" are skipped and counted.
func decodeManifest(raw []byte) ([]ManifestEntry, int, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, 0, fmt.Errorf("%w: manifest is not a list", ErrNoPosts)
	}
	if len(items) == 0 {
		return nil, 0, ErrNoPosts
	}

	entries := make([]ManifestEntry, 0, len(items))
	skipped := 0
	for _, item := range items {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(item, &fields); err != nil || fields == nil {
			skipped++
			continue
		}
		var file string
		if err := json.Unmarshal(fields["file"], &file); err != nil || file == "" {
			skipped++
			continue
		}
		var slug string
		if rawSlug, ok := fields["slug"]; ok {
			_ = json.Unmarshal(rawSlug, &slug)
		}
		entries = append(entries, ManifestEntry{Slug: slug, File: file})
	}
	return entries, skipped, nil
}

// IsRecoverable reports whether a load error leaves the site usable with
// zero posts rather than in a failed state.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrNoPosts)
}
