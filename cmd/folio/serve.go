package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"path/filepath"
	"syscall"

	folio "github.com/alnah/go-folio"
	"github.com/alnah/go-folio/internal/config"
	"github.com/alnah/go-folio/internal/hints"
	"github.com/alnah/go-folio/internal/server"
	"github.com/alnah/go-folio/internal/watch"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrListen indicates the server could not bind its address.
var ErrListen = errors.New("failed to listen")

// runServe serves the portfolio until ctx is done. A failed initial load
// does not stop the server: the page status reports it and
// POST /api/reload retries.
func runServe(ctx context.Context, cfg *config.Config, flags *siteFlags, env *Environment, logger *zap.Logger) error {
	s, err := newSite(cfg, flags.source.sample, logger)
	if err != nil {
		return err
	}
	if err := s.app.Boot(ctx); err != nil {
		logger.Warn("initial load failed", zap.Error(err))
	}

	pages, err := folio.NewPages(s.theme, cfg.Site.Title, folio.ServerLinks())
	if err != nil {
		return err
	}
	srv := server.New(s.app, pages, server.Options{
		Site:     s.fsys,
		PostsDir: cfg.Site.PostsDir,
		Logger:   logger,
	})

	ln, err := listen(cfg.Server.Addr)
	if err != nil {
		return err
	}
	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Serving %s on http://%s\n", cfg.Site.Title, ln.Addr())
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Serve(gctx, ln)
	})

	if cfg.Server.Watch {
		if s.root == "" {
			logger.Warn("watch needs a local site directory; ignoring")
		} else {
			dir := filepath.Join(s.root, filepath.FromSlash(cfg.Site.PostsDir))
			w := watch.New([]string{dir}, watch.WithLogger(logger))
			g.Go(func() error {
				if err := w.Run(gctx, reloadOnChange(s.app, logger)); err != nil {
					// Keep serving without live reload.
					logger.Warn("watch stopped", zap.Error(err))
				}
				return nil
			})
		}
	}

	return g.Wait()
}

// reloadOnChange returns a watch callback that reloads app.
func reloadOnChange(app *folio.App, logger *zap.Logger) func(context.Context, []string) {
	return func(ctx context.Context, paths []string) {
		logger.Info("posts changed, reloading", zap.Int("files", len(paths)))
		if err := app.Reload(ctx); err != nil {
			logger.Warn("reload failed", zap.Error(err))
		}
	}
}

// listen binds addr, adding a hint when it is already taken.
func listen(addr string) (net.Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err == nil {
		return ln, nil
	}
	if errors.Is(err, syscall.EADDRINUSE) {
		return nil, fmt.Errorf("%w: %w%s", ErrListen, err, hints.ForAddressInUse(addr))
	}
	return nil, fmt.Errorf("%w: %w", ErrListen, err)
}
