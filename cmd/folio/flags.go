package main

import (
	"errors"
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// sourceFlags select where posts come from and how they are aggregated.
type sourceFlags struct {
	baseURL  string
	postsDir string
	manifest string
	mode     string
	timeout  string
	sample   bool // Show only the embedded sample
	fallback bool // Fall back to the sample when loading fails
}

// renderFlags control detail body rendering.
type renderFlags struct {
	noMarkdown bool
	math       bool
	toc        bool
	dateFormat string
}

// themeFlags select theme assets.
type themeFlags struct {
	style     string
	template  string
	script    string
	assetPath string
}

// snapshotFlags hold preview capture settings.
type snapshotFlags struct {
	output   string
	width    int
	height   int
	timeout  string
	fullPage bool
	details  bool
}

// siteFlags holds all flags for serve, build and snapshot. Each command
// registers the groups it uses.
type siteFlags struct {
	common    commonFlags
	source    sourceFlags
	render    renderFlags
	theme     themeFlags
	addr      string
	watch     bool
	output    string
	inlineCSS bool
	snapshot  snapshotFlags

	changed map[string]bool // Flags set on the command line
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs")
}

func addSourceFlags(fs *flag.FlagSet, f *sourceFlags) {
	fs.StringVar(&f.baseURL, "base-url", "", "load posts from a remote site root")
	fs.StringVar(&f.postsDir, "posts", "", "posts directory inside the site")
	fs.StringVar(&f.manifest, "manifest", "", "manifest file inside the posts directory")
	fs.StringVarP(&f.mode, "mode", "m", "", "load mode: strict, partial, sequential")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "bound on a whole load (e.g. 30s)")
	fs.BoolVar(&f.sample, "sample", false, "show only the embedded sample")
	fs.BoolVar(&f.fallback, "fallback", false, "show the embedded sample when loading fails")
}

func addRenderFlags(fs *flag.FlagSet, f *renderFlags) {
	fs.BoolVar(&f.noMarkdown, "no-markdown", false, "show post bodies as plain text")
	fs.BoolVar(&f.math, "math", false, "typeset inline and display math")
	fs.BoolVar(&f.toc, "toc", false, "add a table of contents to long posts")
	fs.StringVar(&f.dateFormat, "date-format", "", "date label format (e.g. \"MMM YYYY\")")
}

func addThemeFlags(fs *flag.FlagSet, f *themeFlags) {
	fs.StringVar(&f.style, "style", "", "stylesheet name")
	fs.StringVar(&f.template, "template", "", "template set name")
	fs.StringVar(&f.script, "script", "", "client script name")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
}

func addSnapshotFlags(fs *flag.FlagSet, f *snapshotFlags) {
	fs.IntVar(&f.width, "width", 0, "viewport width in pixels")
	fs.IntVar(&f.height, "height", 0, "viewport height in pixels")
	fs.StringVar(&f.timeout, "snapshot-timeout", "", "bound on each capture (e.g. 30s)")
	fs.BoolVar(&f.fullPage, "full-page", false, "capture the whole scrollable page")
	fs.BoolVar(&f.details, "details", false, "also capture every detail page")
}

// newSiteFlagSet registers the flags of cmd into f.
// Shared by parsing and shell completion.
func newSiteFlagSet(cmd string, f *siteFlags) *flag.FlagSet {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)

	addCommonFlags(fs, &f.common)
	addSourceFlags(fs, &f.source)
	addRenderFlags(fs, &f.render)
	addThemeFlags(fs, &f.theme)

	switch cmd {
	case "serve":
		fs.StringVarP(&f.addr, "addr", "a", "", "listen address (e.g. 127.0.0.1:8080)")
		fs.BoolVarP(&f.watch, "watch", "w", false, "reload when the posts directory changes")
	case "build":
		fs.StringVarP(&f.output, "output", "o", "", "build directory")
		fs.BoolVar(&f.inlineCSS, "inline-css", false, "inline the stylesheet into every page")
	case "snapshot":
		fs.StringVarP(&f.snapshot.output, "output", "o", "", "directory for PNG files")
		addSnapshotFlags(fs, &f.snapshot)
	}
	return fs
}

// parseSiteFlags parses args for cmd. Usage goes to w on -h or a bad flag.
func parseSiteFlags(cmd string, args []string, w io.Writer) (*siteFlags, []string, error) {
	f := &siteFlags{changed: make(map[string]bool)}
	fs := newSiteFlagSet(cmd, f)
	fs.SetOutput(w)
	fs.Usage = func() { printCommandUsage(w, cmd) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	fs.Visit(func(fl *flag.Flag) { f.changed[fl.Name] = true })
	return f, fs.Args(), nil
}

// isHelpRequest reports whether a parse error is a -h/--help request.
func isHelpRequest(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
