package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alnah/go-folio/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath     string // FOLIO_CONFIG: config file name or path
	Root           string // FOLIO_SITE: local site directory
	BaseURL        string // FOLIO_BASE_URL: remote site root
	PostsDir       string // FOLIO_POSTS_DIR: posts directory inside the site
	Mode           string // FOLIO_MODE: strict, partial, sequential
	Timeout        string // FOLIO_TIMEOUT: load timeout
	SampleFallback *bool  // FOLIO_SAMPLE_FALLBACK: fall back to the sample
	Style          string // FOLIO_STYLE: stylesheet name
	AssetPath      string // FOLIO_ASSET_PATH: custom asset directory
	Addr           string // FOLIO_ADDR: listen address
	OutputDir      string // FOLIO_OUTPUT_DIR: build directory
}

// knownEnvVars lists valid FOLIO_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"FOLIO_CONFIG":          true,
	"FOLIO_SITE":            true,
	"FOLIO_BASE_URL":        true,
	"FOLIO_POSTS_DIR":       true,
	"FOLIO_MODE":            true,
	"FOLIO_TIMEOUT":         true,
	"FOLIO_SAMPLE_FALLBACK": true,
	"FOLIO_STYLE":           true,
	"FOLIO_ASSET_PATH":      true,
	"FOLIO_ADDR":            true,
	"FOLIO_OUTPUT_DIR":      true,
	"FOLIO_CONTAINER":       true, // read by doctor
}

// loadEnvConfig reads configuration from environment variables.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("FOLIO_CONFIG"),
		Root:       os.Getenv("FOLIO_SITE"),
		BaseURL:    os.Getenv("FOLIO_BASE_URL"),
		PostsDir:   os.Getenv("FOLIO_POSTS_DIR"),
		Mode:       os.Getenv("FOLIO_MODE"),
		Timeout:    os.Getenv("FOLIO_TIMEOUT"),
		Style:      os.Getenv("FOLIO_STYLE"),
		AssetPath:  os.Getenv("FOLIO_ASSET_PATH"),
		Addr:       os.Getenv("FOLIO_ADDR"),
		OutputDir:  os.Getenv("FOLIO_OUTPUT_DIR"),
	}

	// Unparseable booleans are ignored
	if v := os.Getenv("FOLIO_SAMPLE_FALLBACK"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.SampleFallback = &b
		}
	}

	return cfg
}

// warnUnknownEnvVars prints warnings for unrecognized FOLIO_* variables.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "FOLIO_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies set environment variables over cfg.
// Precedence: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeFlags).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	setIf(&cfg.Site.Root, env.Root)
	setIf(&cfg.Site.BaseURL, env.BaseURL)
	setIf(&cfg.Site.PostsDir, env.PostsDir)
	setIf(&cfg.Load.Mode, env.Mode)
	setIf(&cfg.Load.Timeout, env.Timeout)
	if env.SampleFallback != nil {
		cfg.Load.SampleFallback = *env.SampleFallback
	}
	setIf(&cfg.Theme.Style, env.Style)
	setIf(&cfg.Theme.AssetPath, env.AssetPath)
	setIf(&cfg.Server.Addr, env.Addr)
	setIf(&cfg.Output.Dir, env.OutputDir)
}

// setIf overwrites *dst with v when v is not empty.
func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
