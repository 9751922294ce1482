// Package folio renders a personal portfolio from markdown posts.
//
// # Quick Start
//
// Point a loader at a site, boot an app, and render the grid:
//
//	loader := folio.NewLoader(folio.NewFSFetcher(os.DirFS("site")))
//	app := folio.NewApp(loader, folio.WithRenderer(folio.NewRenderer(
//	    folio.WithMarkdown(pipeline.NewGoldmarkConverter()),
//	)))
//	if err := app.Boot(ctx); err != nil {
//	    log.Print(err) // status already reports it; the app stays usable
//	}
//
//	pages, err := folio.NewPages(nil, "Portfolio", folio.ServerLinks())
//	html, err := pages.RenderIndex(ctx, app)
//
// # Site Layout
//
// A site is a directory (or URL) holding a manifest and the posts it lists:
//
//	site/
//	├── posts/
//	│   ├── index.json      [{"slug": "skyforge", "file": "skyforge.md"}, ...]
//	│   └── skyforge.md
//	└── assets/
//	    └── skyforge-cover.svg
//
// Each post may start with a metadata block:
//
//	---
//	title: Skyforge Render Engine
//	image: ../assets/skyforge-cover.svg
//	published: 2024-11-18
//	github: https://github.com/example/skyforge
//	---
//
// The image is resolved against the post's own URL.
//
// # Loading
//
// Load modes decide what happens when a post fails to fetch:
//
//   - LoadStrict (default): fetched concurrently, one failure discards all.
//   - LoadPartial: fetched concurrently, failures listed in LoadResult.
//   - LoadSequential: fetched in manifest order, stops at the first failure.
//
// Loaded posts are sorted newest first; posts without a parseable date
// sink to the end. Each load replaces the previous posts as a whole.
//
// # Rendering
//
// Markdown and math typesetting are optional capabilities of a Renderer.
// Without markdown, bodies are shown as plain text. Rendered bodies get
// captioned figures for images with alt or title text, scrollable table
// wrappers and lightbox markers.
//
// # Browser Requirements
//
// Snapshots require Chrome/Chromium. The go-rod library automatically
// downloads a managed Chromium instance on first run (~/.cache/rod/browser/).
// Use ROD_BROWSER_BIN to specify a custom Chrome binary.
package folio
