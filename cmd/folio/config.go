package main

import (
	"errors"
	"fmt"

	"github.com/alnah/go-folio/internal/config"
	"github.com/alnah/go-folio/internal/fileutil"
)

// ErrTooManyArgs indicates more than one site directory was given.
var ErrTooManyArgs = errors.New("too many arguments")

// resolveConfig loads the config file, then applies environment
// variables, flags and the optional site directory argument, and
// validates the result.
func resolveConfig(flags *siteFlags, positional []string, env *Environment) (*config.Config, error) {
	if len(positional) > 1 {
		return nil, fmt.Errorf("%w: expected at most one site directory, got %d", ErrTooManyArgs, len(positional))
	}

	envCfg := loadEnvConfig()
	warnUnknownEnvVars(env.Stderr)

	name := flags.common.config
	if name == "" {
		name = envCfg.ConfigPath
	}

	var cfg *config.Config
	switch {
	case name != "":
		loaded, err := config.LoadConfig(name)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	case env.Config != nil:
		c := *env.Config
		cfg = &c
	default:
		cfg = config.DefaultConfig()
	}

	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)
	if len(positional) == 1 {
		if fileutil.IsURL(positional[0]) {
			cfg.Site.BaseURL = positional[0]
		} else {
			cfg.Site.Root = positional[0]
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeFlags applies flags set on the command line over cfg (CLI wins).
func mergeFlags(f *siteFlags, cfg *config.Config) {
	setIf(&cfg.Site.BaseURL, f.source.baseURL)
	setIf(&cfg.Site.PostsDir, f.source.postsDir)
	setIf(&cfg.Site.Manifest, f.source.manifest)
	setIf(&cfg.Load.Mode, f.source.mode)
	setIf(&cfg.Load.Timeout, f.source.timeout)
	if f.changed["fallback"] {
		cfg.Load.SampleFallback = f.source.fallback
	}

	if f.changed["no-markdown"] {
		cfg.Render.Markdown = !f.render.noMarkdown
	}
	if f.changed["math"] {
		cfg.Render.Math = f.render.math
	}
	if f.changed["toc"] {
		cfg.Render.TOC = f.render.toc
	}
	setIf(&cfg.Render.DateFormat, f.render.dateFormat)

	setIf(&cfg.Theme.Style, f.theme.style)
	setIf(&cfg.Theme.Template, f.theme.template)
	setIf(&cfg.Theme.Script, f.theme.script)
	setIf(&cfg.Theme.AssetPath, f.theme.assetPath)

	setIf(&cfg.Server.Addr, f.addr)
	if f.changed["watch"] {
		cfg.Server.Watch = f.watch
	}
	setIf(&cfg.Output.Dir, f.output)

	if f.snapshot.width > 0 {
		cfg.Snapshot.Width = f.snapshot.width
	}
	if f.snapshot.height > 0 {
		cfg.Snapshot.Height = f.snapshot.height
	}
	setIf(&cfg.Snapshot.Dir, f.snapshot.output)
	setIf(&cfg.Snapshot.Timeout, f.snapshot.timeout)
	if f.changed["details"] {
		cfg.Snapshot.Details = f.snapshot.details
	}
}
