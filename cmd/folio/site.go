package main

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"os"

	folio "github.com/alnah/go-folio"
	"github.com/alnah/go-folio/internal/assets"
	"github.com/alnah/go-folio/internal/config"
	"github.com/alnah/go-folio/internal/dateutil"
	"github.com/alnah/go-folio/internal/fileutil"
	"github.com/alnah/go-folio/internal/pipeline"
	"go.uber.org/zap"
)

// site bundles what serve, build and snapshot share.
type site struct {
	cfg   *config.Config
	app   *folio.App
	theme *assets.Theme

	// root and fsys are set when posts are read from a local directory.
	root string
	fsys fs.FS
}

// newSite wires the loader, renderer and theme described by cfg.
// samplesOnly ignores every posts source and shows the embedded sample.
func newSite(cfg *config.Config, samplesOnly bool, logger *zap.Logger) (*site, error) {
	renderer, err := newRenderer(cfg, logger)
	if err != nil {
		return nil, err
	}
	theme, err := loadTheme(cfg)
	if err != nil {
		return nil, err
	}

	s := &site{cfg: cfg, theme: theme}
	appOpts := []folio.AppOption{
		folio.WithRenderer(renderer),
		folio.WithSampleFallback(cfg.Load.SampleFallback),
		folio.WithAppLogger(logger),
	}

	if samplesOnly {
		s.app = folio.NewApp(nil, append(appOpts, folio.WithSamplesOnly())...)
		return s, nil
	}

	loaderOpts, err := loaderOptions(cfg, logger)
	if err != nil {
		return nil, err
	}

	var fetcher folio.Fetcher
	if cfg.Site.BaseURL != "" {
		httpFetcher, err := folio.NewHTTPFetcher(cfg.Site.BaseURL, &http.Client{})
		if err != nil {
			return nil, err
		}
		fetcher = httpFetcher
		loaderOpts = append(loaderOpts, folio.WithBaseURL(cfg.Site.BaseURL))
	} else {
		root := cfg.Site.Root
		if root == "" {
			root = "."
		}
		if !fileutil.DirExists(root) {
			return nil, fmt.Errorf("site directory %s: %w", root, fs.ErrNotExist)
		}
		s.root = root
		s.fsys = os.DirFS(root)
		fetcher = folio.NewFSFetcher(s.fsys)
	}

	s.app = folio.NewApp(folio.NewLoader(fetcher, loaderOpts...), appOpts...)
	return s, nil
}

func loaderOptions(cfg *config.Config, logger *zap.Logger) ([]folio.LoaderOption, error) {
	mode, err := folio.ParseLoadMode(cfg.Load.Mode)
	if err != nil {
		return nil, err
	}
	return []folio.LoaderOption{
		folio.WithPostsDir(cfg.Site.PostsDir),
		folio.WithManifest(cfg.Site.Manifest),
		folio.WithLoadMode(mode),
		folio.WithLoadTimeout(cfg.LoadTimeout()),
		folio.WithLoaderLogger(logger),
	}, nil
}

func newRenderer(cfg *config.Config, logger *zap.Logger) (*folio.Renderer, error) {
	opts := []folio.RendererOption{folio.WithRendererLogger(logger)}
	if cfg.Render.Markdown {
		opts = append(opts, folio.WithMarkdown(pipeline.NewGoldmarkConverter()))
	}
	if cfg.Render.Math {
		opts = append(opts, folio.WithTypesetter(pipeline.NewMathTypesetter(), folio.DefaultTypesetWait))
	}
	if cfg.Render.TOC {
		opts = append(opts, folio.WithTOC(nil))
	}
	if cfg.Render.DateFormat != "" {
		layout, err := dateutil.ParseDateFormat(cfg.Render.DateFormat)
		if err != nil {
			return nil, err
		}
		opts = append(opts, folio.WithDateLayout(layout))
	}
	return folio.NewRenderer(opts...), nil
}

func loadTheme(cfg *config.Config) (*assets.Theme, error) {
	resolver, err := assets.NewAssetResolver(cfg.Theme.AssetPath)
	if err != nil {
		return nil, err
	}
	return assets.LoadTheme(resolver, assets.ThemeNames{
		Style:     cfg.Theme.Style,
		Script:    cfg.Theme.Script,
		Templates: cfg.Theme.Template,
	})
}

// load boots the app and fails unless it ended up with something to
// show: loaded posts or the embedded sample.
func (s *site) load(ctx context.Context) error {
	err := s.app.Boot(ctx)
	if err == nil || s.app.UsingSamples() {
		return nil
	}
	return fmt.Errorf("loading posts: %w", err)
}
