package folio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"strings"
)

// MaxDocumentSize bounds the size of any fetched manifest or post.
const MaxDocumentSize = 8 << 20

// Fetcher retrieves a site resource by slash-separated path relative to
// the site root, e.g. "posts/index.json".
type Fetcher interface {
	Fetch(ctx context.Context, path string) ([]byte, error)
}

// Compile-time interface checks.
var (
	_ Fetcher = (*HTTPFetcher)(nil)
	_ Fetcher = (*FSFetcher)(nil)
)

// HTTPFetcher fetches resources from a remote site over HTTP.
type HTTPFetcher struct {
	base   *url.URL
	client *http.Client
}

// NewHTTPFetcher creates an HTTPFetcher rooted at baseURL.
// A nil client uses http.DefaultClient. No timeout is applied beyond the
// client's own and the caller's context.
func NewHTTPFetcher(baseURL string, client *http.Client) (*HTTPFetcher, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPFetcher{base: base, client: client}, nil
}

// Base returns the site root URL.
func (f *HTTPFetcher) Base() *url.URL {
	u := *f.base
	return &u
}

// Fetch GETs path relative to the base URL. Non-2xx responses return a
// *FetchError carrying the status code.
func (f *HTTPFetcher) Fetch(ctx context.Context, p string) ([]byte, error) {
	ref, err := url.Parse(strings.TrimPrefix(p, "/"))
	if err != nil {
		return nil, &FetchError{Path: p, Err: err}
	}
	target := f.base.ResolveReference(ref)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, &FetchError{Path: p, Err: err}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{Path: p, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &FetchError{Path: p, Status: resp.StatusCode}
	}

	return readLimited(p, resp.Body)
}

// FSFetcher reads resources from a filesystem, such as os.DirFS of the
// site root or an embedded sample set.
type FSFetcher struct {
	fsys fs.FS
}

// NewFSFetcher creates an FSFetcher over fsys.
func NewFSFetcher(fsys fs.FS) *FSFetcher {
	return &FSFetcher{fsys: fsys}
}

// Fetch reads path from the filesystem. Paths escaping the root are
// rejected with fs.ErrInvalid.
func (f *FSFetcher) Fetch(ctx context.Context, p string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name := path.Clean(strings.TrimPrefix(p, "/"))
	if !fs.ValidPath(name) {
		return nil, &FetchError{Path: p, Err: fs.ErrInvalid}
	}

	file, err := f.fsys.Open(name)
	if err != nil {
		return nil, &FetchError{Path: p, Err: err}
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, &FetchError{Path: p, Err: err}
	}
	if info.IsDir() {
		return nil, &FetchError{Path: p, Err: fmt.Errorf("%w: is a directory", fs.ErrInvalid)}
	}

	return readLimited(p, file)
}

func readLimited(p string, r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxDocumentSize+1))
	if err != nil {
		return nil, &FetchError{Path: p, Err: err}
	}
	if len(data) > MaxDocumentSize {
		return nil, &FetchError{Path: p, Err: errors.New("document exceeds size limit")}
	}
	return data, nil
}
