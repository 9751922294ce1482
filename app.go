package folio

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// App is the state of one portfolio: its loader, post cache, status,
// renderer, detail panel and lightbox. Apps share nothing, so several can
// run side by side.
type App struct {
	loader   *Loader
	cache    *Cache
	status   *StatusReporter
	renderer *Renderer
	panel    *Panel
	lightbox *Lightbox
	logger   *zap.Logger

	sampleFallback bool
	samplesOnly    bool

	bootMu     sync.Mutex
	stateMu    sync.RWMutex
	usingSamps bool
}

// AppOption configures an App.
type AppOption func(*App)

// WithRenderer sets the renderer. The default has no markdown capability.
func WithRenderer(r *Renderer) AppOption {
	return func(a *App) {
		if r != nil {
			a.renderer = r
		}
	}
}

// WithSampleFallback shows the embedded sample posts when a load fails.
func WithSampleFallback(enabled bool) AppOption {
	return func(a *App) {
		a.sampleFallback = enabled
	}
}

// WithSamplesOnly ignores the loader and always shows the embedded sample
// posts.
func WithSamplesOnly() AppOption {
	return func(a *App) {
		a.samplesOnly = true
	}
}

// WithPanel replaces the detail panel, e.g. to change its close transition.
func WithPanel(p *Panel) AppOption {
	return func(a *App) {
		if p != nil {
			a.panel = p
		}
	}
}

// WithAppLogger sets the logger shared by the status reporter.
func WithAppLogger(logger *zap.Logger) AppOption {
	return func(a *App) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewApp creates an App reading posts through loader. Nothing is loaded
// until Boot.
func NewApp(loader *Loader, opts ...AppOption) *App {
	a := &App{
		loader:   loader,
		cache:    NewCache(),
		renderer: NewRenderer(),
		panel:    NewPanel(DefaultCloseTransition, nil),
		lightbox: &Lightbox{},
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.status = NewStatusReporter(a.logger)
	return a
}

// Boot runs one load, reports progress through the status and replaces
// the cache. The load error is returned for callers that log or exit on
// it; the App stays usable either way. Concurrent calls are serialized.
func (a *App) Boot(ctx context.Context) error {
	a.bootMu.Lock()
	defer a.bootMu.Unlock()

	if a.samplesOnly || a.loader == nil {
		a.status.Set(MsgSamplesOnly, ToneWarn)
		return a.loadSamples(ctx)
	}

	a.status.Set(MsgLoading, ToneInfo)
	res, err := a.loader.Load(ctx)
	if err == nil && len(res.Posts) == 0 && len(res.Failures) > 0 {
		// A tolerant load where nothing succeeded is a failed load.
		err = fmt.Errorf("%w: all %d entries failed: %w", ErrPostFetch, len(res.Failures), res.Failures[0].Err)
		res = nil
	}

	switch {
	case err == nil:
		a.replace(res.Posts, false)
		switch {
		case len(res.Failures) > 0:
			a.status.Set(partialMessage(len(res.Posts), len(res.Failures)), ToneWarn)
		case len(res.Posts) == 0:
			a.status.Set(fmt.Sprintf(msgNoPostsFormat, a.loader.ManifestPath()), ToneWarn)
		default:
			a.status.Set(loadedMessage(len(res.Posts)), ToneOK)
		}
		return nil

	case errors.Is(err, ErrNoPosts):
		a.replace(nil, false)
		a.status.Set(fmt.Sprintf(msgNoPostsFormat, a.loader.ManifestPath()), ToneWarn)
		return err
	}

	a.logger.Error("load failed", zap.Error(err))
	if a.sampleFallback {
		a.status.Set(MsgLoadFallback, ToneError)
		if sampleErr := a.loadSamples(ctx); sampleErr != nil {
			a.status.Set(MsgLoadFailed, ToneError)
		}
		return err
	}

	// Sequential loads keep what loaded before the failure.
	if res != nil && a.loader.Mode() == LoadSequential {
		a.replace(res.Posts, false)
	} else {
		a.replace(nil, false)
	}
	a.status.Set(MsgLoadFailed, ToneError)
	return err
}

// Reload is Boot; a reload replaces every post of the previous load.
func (a *App) Reload(ctx context.Context) error {
	return a.Boot(ctx)
}

// loadSamples fills the cache from the embedded sample site.
func (a *App) loadSamples(ctx context.Context) error {
	loader := NewLoader(NewFSFetcher(SampleFS()), WithLoaderLogger(a.logger))
	res, err := loader.Load(ctx)
	if err != nil {
		a.replace(nil, false)
		return fmt.Errorf("loading samples: %w", err)
	}
	a.replace(res.Posts, true)
	a.status.Set(sampleMessage(len(res.Posts)), ToneOK)
	return nil
}

func (a *App) replace(posts []Post, samples bool) {
	a.stateMu.Lock()
	defer a.stateMu.Unlock()
	for _, slug := range a.cache.Replace(posts) {
		a.logger.Warn("duplicate slug, keeping the later post", zap.String("slug", slug))
	}
	a.usingSamps = samples
}

// UsingSamples reports whether the cache holds the embedded sample posts.
func (a *App) UsingSamples() bool {
	a.stateMu.RLock()
	defer a.stateMu.RUnlock()
	return a.usingSamps
}

// Status returns the current status message.
func (a *App) Status() Status {
	return a.status.Current()
}

// Posts returns the cached posts in display order.
func (a *App) Posts() []Post {
	return a.cache.All()
}

// Post returns the cached post for slug.
func (a *App) Post(slug string) (Post, bool) {
	return a.cache.Get(slug)
}

// Tiles renders the grid from the cache.
func (a *App) Tiles() []Tile {
	return a.renderer.Tiles(a.cache.All())
}

// Detail renders the post for slug. Unknown slugs report false.
func (a *App) Detail(ctx context.Context, slug string) (DetailView, bool) {
	post, ok := a.cache.Get(slug)
	if !ok {
		return DetailView{}, false
	}
	return a.renderer.Detail(ctx, post), true
}

// OpenDetail renders the post for slug into the panel. Unknown slugs are a
// no-op and report false.
func (a *App) OpenDetail(ctx context.Context, slug string) bool {
	view, ok := a.Detail(ctx, slug)
	if !ok {
		return false
	}
	a.panel.Open(view)
	return true
}

// CloseDetail closes the panel and the lightbox. The channel is closed
// once the panel teardown has run.
func (a *App) CloseDetail() <-chan struct{} {
	a.lightbox.Close()
	return a.panel.Close()
}

// Panel returns the detail panel.
func (a *App) Panel() *Panel {
	return a.panel
}

// Lightbox returns the image lightbox.
func (a *App) Lightbox() *Lightbox {
	return a.lightbox
}

// Loader returns the loader, or nil for a samples-only App.
func (a *App) Loader() *Loader {
	return a.loader
}
