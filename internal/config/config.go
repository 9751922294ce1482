package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-folio/internal/dateutil"
	"github.com/alnah/go-folio/internal/fileutil"
	"github.com/alnah/go-folio/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxTitleLength    = 200
	MaxURLLength      = 2048 // Browser limit
	MaxPathLength     = 4096
	MaxNameLength     = 100 // Style, template and script names
	MaxAddrLength     = 255
	MaxDurationLength = 20 // "1m30s"
)

// Load modes.
const (
	ModeStrict     = "strict"
	ModePartial    = "partial"
	ModeSequential = "sequential"
)

// Snapshot viewport bounds in CSS pixels.
const (
	MinViewport = 200
	MaxViewport = 8192
)

// Config holds all configuration for the portfolio site.
type Config struct {
	Site     SiteConfig     `yaml:"site"`
	Load     LoadingConfig  `yaml:"load"`
	Render   RenderConfig   `yaml:"render"`
	Theme    ThemeConfig    `yaml:"theme"`
	Server   ServerConfig   `yaml:"server"`
	Output   OutputConfig   `yaml:"output"`
	Snapshot SnapshotConfig `yaml:"snapshot"`
}

// SiteConfig defines where posts come from and how the site is titled.
type SiteConfig struct {
	Title    string `yaml:"title"`
	Root     string `yaml:"root"`     // Local site directory (default: ".")
	BaseURL  string `yaml:"baseURL"`  // Remote site root; empty = read Root from disk
	PostsDir string `yaml:"postsDir"` // Local posts directory (default: "posts")
	Manifest string `yaml:"manifest"` // Manifest file inside the posts directory (default: "index.json")
}

// LoadingConfig defines how the manifest entries are aggregated.
type LoadingConfig struct {
	Mode           string `yaml:"mode"`           // "strict", "partial", "sequential" (default: "strict")
	Timeout        string `yaml:"timeout"`        // Bound on a whole load, e.g. "30s" (empty = none)
	SampleFallback bool   `yaml:"sampleFallback"` // Show the embedded sample when loading fails
}

// RenderConfig defines detail body rendering.
type RenderConfig struct {
	Markdown   bool   `yaml:"markdown"`   // false = bodies shown as plain text
	Math       bool   `yaml:"math"`       // Mark $...$ and $$...$$ for client typesetting
	TOC        bool   `yaml:"toc"`        // Table of contents on long posts
	DateFormat string `yaml:"dateFormat"` // Label format, e.g. "MMM YYYY" (empty = raw value)
}

// ThemeConfig selects theme assets.
type ThemeConfig struct {
	Style     string `yaml:"style"`     // Stylesheet name (default: "default")
	Template  string `yaml:"template"`  // Template set name (default: "default")
	Script    string `yaml:"script"`    // Client script name (default: "site")
	AssetPath string `yaml:"assetPath"` // Custom asset directory (empty = embedded only)
}

// ServerConfig defines the HTTP server.
type ServerConfig struct {
	Addr  string `yaml:"addr"`  // Listen address (default: "127.0.0.1:8080")
	Watch bool   `yaml:"watch"` // Reload when the posts directory changes
}

// OutputConfig defines static build output.
type OutputConfig struct {
	Dir string `yaml:"dir"` // Build directory (default: "public")
}

// SnapshotConfig defines preview screenshots.
type SnapshotConfig struct {
	Dir     string `yaml:"dir"` // PNG directory (default: "snapshots")
	Width   int    `yaml:"width"`
	Height  int    `yaml:"height"`
	Timeout string `yaml:"timeout"`
	Details bool   `yaml:"details"` // Also capture every detail page
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Site: SiteConfig{
			Title:    "Portfolio",
			Root:     ".",
			PostsDir: "posts",
			Manifest: "index.json",
		},
		Load: LoadingConfig{
			Mode:           ModeStrict,
			SampleFallback: false,
		},
		Render: RenderConfig{
			Markdown: true,
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8080",
		},
		Output: OutputConfig{
			Dir: "public",
		},
		Snapshot: SnapshotConfig{
			Dir:     "snapshots",
			Width:   1280,
			Height:  800,
			Timeout: "30s",
		},
	}
}

// Validate checks field lengths and enumerated values.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	checks := []struct {
		field string
		value string
		max   int
	}{
		{"site.title", c.Site.Title, MaxTitleLength},
		{"site.root", c.Site.Root, MaxPathLength},
		{"site.baseURL", c.Site.BaseURL, MaxURLLength},
		{"site.postsDir", c.Site.PostsDir, MaxPathLength},
		{"site.manifest", c.Site.Manifest, MaxPathLength},
		{"load.mode", c.Load.Mode, MaxNameLength},
		{"load.timeout", c.Load.Timeout, MaxDurationLength},
		{"render.dateFormat", c.Render.DateFormat, dateutil.MaxDateFormatLength},
		{"theme.style", c.Theme.Style, MaxNameLength},
		{"theme.template", c.Theme.Template, MaxNameLength},
		{"theme.script", c.Theme.Script, MaxNameLength},
		{"theme.assetPath", c.Theme.AssetPath, MaxPathLength},
		{"server.addr", c.Server.Addr, MaxAddrLength},
		{"output.dir", c.Output.Dir, MaxPathLength},
		{"snapshot.dir", c.Snapshot.Dir, MaxPathLength},
		{"snapshot.timeout", c.Snapshot.Timeout, MaxDurationLength},
	}
	for _, chk := range checks {
		if err := validateFieldLength(chk.field, chk.value, chk.max); err != nil {
			return err
		}
	}

	if c.Load.Mode != "" {
		switch strings.ToLower(c.Load.Mode) {
		case ModeStrict, ModePartial, ModeSequential:
			// valid
		default:
			return fmt.Errorf("%w: load.mode %q (must be strict, partial, or sequential)", ErrInvalidValue, c.Load.Mode)
		}
	}

	if _, err := parseDuration("load.timeout", c.Load.Timeout); err != nil {
		return err
	}
	if _, err := parseDuration("snapshot.timeout", c.Snapshot.Timeout); err != nil {
		return err
	}

	if c.Site.BaseURL != "" {
		u, err := url.Parse(c.Site.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%w: site.baseURL %q (must be an absolute http or https URL)", ErrInvalidValue, c.Site.BaseURL)
		}
	}

	if strings.Contains(filepath.ToSlash(c.Site.Manifest), "..") {
		return fmt.Errorf("%w: site.manifest %q must stay inside the posts directory", ErrInvalidValue, c.Site.Manifest)
	}

	if c.Render.DateFormat != "" {
		if _, err := dateutil.ParseDateFormat(c.Render.DateFormat); err != nil {
			return fmt.Errorf("render.dateFormat: %w", err)
		}
	}

	if err := validateViewport("snapshot.width", c.Snapshot.Width); err != nil {
		return err
	}
	if err := validateViewport("snapshot.height", c.Snapshot.Height); err != nil {
		return err
	}

	return nil
}

// LoadTimeout returns load.timeout as a duration (0 = unbounded).
// Call Validate first; an invalid value yields 0.
func (c *Config) LoadTimeout() time.Duration {
	d, _ := parseDuration("load.timeout", c.Load.Timeout)
	return d
}

// SnapshotTimeout returns snapshot.timeout as a duration (0 = renderer default).
func (c *Config) SnapshotTimeout() time.Duration {
	d, _ := parseDuration("snapshot.timeout", c.Snapshot.Timeout)
	return d
}

func parseDuration(field, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q: %v", ErrInvalidValue, field, value, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%w: %s must not be negative, got %s", ErrInvalidValue, field, value)
	}
	return d, nil
}

// validateViewport accepts 0 (renderer default) or a size within bounds.
func validateViewport(field string, v int) error {
	if v == 0 {
		return nil
	}
	if v < MinViewport || v > MaxViewport {
		return fmt.Errorf("%w: %s must be between %d and %d, got %d", ErrInvalidValue, field, MinViewport, MaxViewport, v)
	}
	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Fields absent from the file keep their DefaultConfig values.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-folio/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "go-folio", name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
