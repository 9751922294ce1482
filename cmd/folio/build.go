package main

import (
	"context"
	"fmt"
	"time"

	folio "github.com/alnah/go-folio"
	"github.com/alnah/go-folio/internal/config"
	"go.uber.org/zap"
)

// runBuild writes the portfolio as static files to cfg.Output.Dir.
func runBuild(ctx context.Context, cfg *config.Config, flags *siteFlags, env *Environment, logger *zap.Logger) error {
	start := env.Now()

	s, err := newSite(cfg, flags.source.sample, logger)
	if err != nil {
		return err
	}
	if err := s.load(ctx); err != nil {
		return err
	}

	report, err := folio.Build(ctx, s.app, folio.BuildOptions{
		OutDir:    cfg.Output.Dir,
		Title:     cfg.Site.Title,
		Theme:     s.theme,
		InlineCSS: flags.inlineCSS,
		SiteDir:   s.root,
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Built %d pages (%d posts) in %s\n", report.Pages, len(report.Posts), report.OutDir)
	}
	if flags.common.verbose {
		fmt.Fprintf(env.Stdout, "Status: %s\n", s.app.Status().Message)
		fmt.Fprintf(env.Stdout, "Took %s\n", env.Now().Sub(start).Round(time.Millisecond))
	}
	return nil
}
