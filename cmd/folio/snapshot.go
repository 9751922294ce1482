package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"

	folio "github.com/alnah/go-folio"
	"github.com/alnah/go-folio/internal/config"
	"github.com/alnah/go-folio/internal/fileutil"
	"github.com/alnah/go-folio/internal/server"
	"go.uber.org/zap"
)

// ErrWriteSnapshot indicates a captured PNG could not be written.
var ErrWriteSnapshot = errors.New("failed to write snapshot")

// capture is one page to screenshot.
type capture struct {
	file string // Name under the snapshot directory
	path string // URL path on the preview server
}

// runSnapshot serves the portfolio on a loopback port and captures the
// grid, plus every detail page with --details, as PNG files.
func runSnapshot(ctx context.Context, cfg *config.Config, flags *siteFlags, env *Environment, logger *zap.Logger) error {
	s, err := newSite(cfg, flags.source.sample, logger)
	if err != nil {
		return err
	}
	if err := s.load(ctx); err != nil {
		return err
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

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrListen, err)
	}
	srvCtx, stopServer := context.WithCancel(ctx)
	served := make(chan error, 1)
	go func() { served <- srv.Serve(srvCtx, ln) }()
	defer func() {
		stopServer()
		<-served
	}()

	shotter := folio.NewSnapshotter(
		folio.WithViewport(cfg.Snapshot.Width, cfg.Snapshot.Height),
		folio.WithFullPage(flags.snapshot.fullPage),
		folio.WithSnapshotTimeout(cfg.SnapshotTimeout()),
	)
	defer func() {
		if err := shotter.Close(); err != nil {
			logger.Warn("closing browser", zap.Error(err))
		}
	}()

	if err := os.MkdirAll(cfg.Snapshot.Dir, fileutil.DirPermissions); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteSnapshot, err)
	}

	base := "http://" + ln.Addr().String()
	targets := snapshotTargets(s.app.Posts(), cfg.Snapshot.Details)
	for _, t := range targets {
		png, err := shotter.Capture(ctx, base+t.path)
		if err != nil {
			return fmt.Errorf("capturing %s: %w", t.path, err)
		}
		out := filepath.Join(cfg.Snapshot.Dir, t.file)
		if err := os.WriteFile(out, png, fileutil.FilePermissions); err != nil {
			return fmt.Errorf("%w: %w", ErrWriteSnapshot, err)
		}
		logger.Debug("captured", zap.String("path", t.path), zap.String("file", out))
	}

	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Captured %d snapshot(s) in %s\n", len(targets), cfg.Snapshot.Dir)
	}
	return nil
}

// snapshotTargets lists the grid and, with details, one page per post.
func snapshotTargets(posts []folio.Post, details bool) []capture {
	targets := []capture{{file: "index.png", path: "/"}}
	if !details {
		return targets
	}
	dirs := folio.PageDirs(posts)
	for _, p := range posts {
		targets = append(targets, capture{
			file: dirs[p.Slug] + ".png",
			path: "/p/" + url.PathEscape(p.Slug),
		})
	}
	return targets
}
