package folio

import (
	"context"
	"errors"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/google/go-cmp/cmp"
)

// mapFetcher serves documents from memory and fails listed paths.
type mapFetcher struct {
	mu    sync.Mutex
	docs  map[string]string
	fail  map[string]error
	calls []string
}

func (m *mapFetcher) Fetch(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.calls = append(m.calls, path)
	m.mu.Unlock()

	if err, ok := m.fail[path]; ok {
		return nil, &FetchError{Path: path, Err: err}
	}
	doc, ok := m.docs[path]
	if !ok {
		return nil, &FetchError{Path: path, Status: 404}
	}
	return []byte(doc), nil
}

func slugs(posts []Post) []string {
	out := make([]string, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.Slug)
	}
	return out
}

// ---------------------------------------------------------------------------
// TestParseLoadMode - Mode names
// ---------------------------------------------------------------------------

func TestParseLoadMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    LoadMode
		wantErr bool
	}{
		{"", LoadStrict, false},
		{"strict", LoadStrict, false},
		{"Partial", LoadPartial, false},
		{" sequential ", LoadSequential, false},
		{"lazy", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseLoadMode(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidLoadMode) {
					t.Errorf("error = %v, want ErrInvalidLoadMode", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseLoadMode(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestLoader_Load - Manifest handling and aggregation
// ---------------------------------------------------------------------------

func TestLoader_Load_SinglePost(t *testing.T) {
	t.Parallel()

	f := &mapFetcher{docs: map[string]string{
		"posts/index.json": `[{"file":"a.md"}]`,
		"posts/a.md":       "---\ntitle: Alpha\npublished: 2024-01-01\n---\nHello",
	}}

	res, err := NewLoader(f).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(res.Posts) != 1 {
		t.Fatalf("got %d posts, want 1", len(res.Posts))
	}
	p := res.Posts[0]
	if p.Title != "Alpha" || p.Published != "2024-01-01" || p.Content != "Hello" {
		t.Errorf("post = %+v", p)
	}
	if p.DocURL != "/posts/a.md" {
		t.Errorf("DocURL = %q, want /posts/a.md", p.DocURL)
	}
}

func TestLoader_Load_ManifestErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		manifest string
		missing  bool
		wantErr  error
	}{
		{name: "empty list", manifest: `[]`, wantErr: ErrNoPosts},
		{name: "object", manifest: `{"file":"a.md"}`, wantErr: ErrNoPosts},
		{name: "garbage", manifest: `not json`, wantErr: ErrNoPosts},
		{name: "null", manifest: `null`, wantErr: ErrNoPosts},
		{name: "missing manifest", missing: true, wantErr: ErrManifestFetch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			docs := map[string]string{}
			if !tt.missing {
				docs["posts/index.json"] = tt.manifest
			}
			res, err := NewLoader(&mapFetcher{docs: docs}).Load(context.Background())
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if res != nil {
				t.Errorf("result = %+v, want nil", res)
			}
		})
	}
}

func TestLoader_Load_ManifestFetchKeepsStatus(t *testing.T) {
	t.Parallel()

	_, err := NewLoader(&mapFetcher{}).Load(context.Background())
	var fe *FetchError
	if !errors.As(err, &fe) || fe.Status != 404 {
		t.Errorf("error = %v, want *FetchError with 404", err)
	}
}

func TestLoader_Load_SkipsEntriesWithoutFile(t *testing.T) {
	t.Parallel()

	f := &mapFetcher{docs: map[string]string{
		"posts/index.json": `[{"slug":"x"}, 42, "a.md", {"file": 7}, {"file": ""}, {"file":"a.md"}]`,
		"posts/a.md":       "body",
	}}

	res, err := NewLoader(f).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(res.Posts) != 1 {
		t.Errorf("got %d posts, want 1", len(res.Posts))
	}
	if res.Skipped != 5 {
		t.Errorf("Skipped = %d, want 5", res.Skipped)
	}
}

func TestLoader_Load_AllEntriesSkipped(t *testing.T) {
	t.Parallel()

	f := &mapFetcher{docs: map[string]string{"posts/index.json": `[{"slug":"x"}]`}}

	res, err := NewLoader(f).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(res.Posts) != 0 || res.Skipped != 1 {
		t.Errorf("result = %+v", res)
	}
}

func TestLoader_Load_SortsByPublishedDescending(t *testing.T) {
	t.Parallel()

	f := &mapFetcher{docs: map[string]string{
		"posts/index.json": `[
			{"slug":"undated","file":"u.md"},
			{"slug":"old","file":"o.md"},
			{"slug":"junk","file":"j.md"},
			{"slug":"new","file":"n.md"},
			{"slug":"mid","file":"m.md"}
		]`,
		"posts/u.md": "no date",
		"posts/o.md": "---\npublished: 2021-03-04\n---\n",
		"posts/j.md": "---\npublished: someday\n---\n",
		"posts/n.md": "---\npublished: 2024-11-18\n---\n",
		"posts/m.md": "---\npublished: March 5, 2023\n---\n",
	}}

	res, err := NewLoader(f).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// Undated posts keep their relative manifest order at the end.
	want := []string{"new", "mid", "old", "undated", "junk"}
	if diff := cmp.Diff(want, slugs(res.Posts)); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestLoader_Load_StrictFailureDiscardsBatch(t *testing.T) {
	t.Parallel()

	f := &mapFetcher{
		docs: map[string]string{
			"posts/index.json": `[{"file":"a.md"},{"file":"b.md"},{"file":"c.md"}]`,
			"posts/a.md":       "a",
			"posts/c.md":       "c",
		},
	}

	res, err := NewLoader(f, WithLoadMode(LoadStrict)).Load(context.Background())
	if !errors.Is(err, ErrPostFetch) {
		t.Fatalf("error = %v, want ErrPostFetch", err)
	}
	if res != nil {
		t.Errorf("result = %+v, want nil", res)
	}
}

func TestLoader_Load_PartialReportsFailures(t *testing.T) {
	t.Parallel()

	f := &mapFetcher{
		docs: map[string]string{
			"posts/index.json": `[{"slug":"a","file":"a.md"},{"slug":"b","file":"b.md"},{"slug":"c","file":"c.md"}]`,
			"posts/a.md":       "a",
			"posts/c.md":       "c",
		},
		fail: map[string]error{"posts/b.md": errors.New("connection reset")},
	}

	res, err := NewLoader(f, WithLoadMode(LoadPartial)).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "c"}, slugs(res.Posts)); diff != "" {
		t.Errorf("posts mismatch (-want +got):\n%s", diff)
	}
	if len(res.Failures) != 1 {
		t.Fatalf("got %d failures, want 1", len(res.Failures))
	}
	fail := res.Failures[0]
	if fail.Entry.Slug != "b" || fail.Path != "posts/b.md" || !errors.Is(fail.Err, ErrPostFetch) {
		t.Errorf("failure = %+v", fail)
	}
}

func TestLoader_Load_SequentialStopsAtFirstFailure(t *testing.T) {
	t.Parallel()

	f := &mapFetcher{
		docs: map[string]string{
			"posts/index.json": `[{"slug":"old","file":"a.md"},{"slug":"new","file":"b.md"},{"slug":"bad","file":"x.md"},{"slug":"never","file":"c.md"}]`,
			"posts/a.md":       "---\npublished: 2020-01-01\n---\n",
			"posts/b.md":       "---\npublished: 2024-01-01\n---\n",
			"posts/c.md":       "c",
		},
	}

	res, err := NewLoader(f, WithLoadMode(LoadSequential)).Load(context.Background())
	if !errors.Is(err, ErrPostFetch) {
		t.Fatalf("error = %v, want ErrPostFetch", err)
	}
	if res == nil {
		t.Fatal("result is nil, want posts loaded before the failure")
	}
	// Manifest order, unsorted.
	if diff := cmp.Diff([]string{"old", "new"}, slugs(res.Posts)); diff != "" {
		t.Errorf("posts mismatch (-want +got):\n%s", diff)
	}
	for _, call := range f.calls {
		if call == "posts/c.md" {
			t.Error("fetched an entry after the failure")
		}
	}
}

func TestLoader_Load_CustomPaths(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"content/list.json": {Data: []byte(`[{"file":"a.md"}]`)},
		"content/a.md":      {Data: []byte("---\nimage: img/a.png\n---\n")},
	}

	l := NewLoader(NewFSFetcher(fsys),
		WithPostsDir("/content/"),
		WithManifest("list.json"),
		WithBaseURL("https://example.com/me"))

	if got := l.ManifestPath(); got != "content/list.json" {
		t.Errorf("ManifestPath = %q", got)
	}

	res, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := res.Posts[0].Image; got != "https://example.com/me/content/img/a.png" {
		t.Errorf("Image = %q", got)
	}
}

// blockingFetcher serves the manifest and blocks on documents until ctx ends.
type blockingFetcher struct{}

func (blockingFetcher) Fetch(ctx context.Context, path string) ([]byte, error) {
	if path == "posts/index.json" {
		return []byte(`[{"file":"a.md"}]`), nil
	}
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestLoader_Load_Timeout(t *testing.T) {
	t.Parallel()

	_, err := NewLoader(blockingFetcher{}, WithLoadTimeout(20*time.Millisecond)).Load(context.Background())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want context.DeadlineExceeded", err)
	}
	if !errors.Is(err, ErrPostFetch) {
		t.Errorf("error = %v, want ErrPostFetch", err)
	}
}

// ---------------------------------------------------------------------------
// TestSortPosts - Ordering rules
// ---------------------------------------------------------------------------

func TestSortPosts_UndatedSinkRegardlessOfInputOrder(t *testing.T) {
	t.Parallel()

	inputs := [][]Post{
		{{Slug: "u"}, {Slug: "d", Published: "2022-02-02"}},
		{{Slug: "d", Published: "2022-02-02"}, {Slug: "u"}},
		{{Slug: "u", Published: "n/a"}, {Slug: "d", Published: "2022-02-02"}},
	}
	for _, posts := range inputs {
		SortPosts(posts)
		if posts[0].Slug != "d" {
			t.Errorf("first = %q, want dated post first", posts[0].Slug)
		}
	}
}
