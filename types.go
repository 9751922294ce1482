package folio

import "github.com/alnah/go-folio/internal/frontmatter"

// Placeholders shown when a post lacks a value.
const (
	UntitledTitle      = "Untitled build"
	TileDateFallback   = "Markdown-sourced"
	DetailDateFallback = "Captured in-game"
)

// ManifestEntry references one post document in the manifest.
// File is required; entries without it are skipped.
type ManifestEntry struct {
	Slug string `json:"slug,omitempty"`
	File string `json:"file"`
}

// Post is the normalized record built from one manifest entry.
// Posts are values and are never modified after BuildPost returns.
type Post struct {
	Slug       string
	Title      string
	Image      string // Fully resolved URL, or empty
	Published  string // Raw frontmatter value, or empty
	GitHub     string
	Content    string // Trimmed body without the metadata block
	SourcePath string // Fetch path of the document, e.g. "posts/a.md"
	DocURL     string // SourcePath resolved against the site base
	Meta       frontmatter.Meta
}

// Tone is the severity of a status message.
type Tone string

// Status tones.
const (
	ToneInfo  Tone = "info"
	ToneWarn  Tone = "warn"
	ToneOK    Tone = "ok"
	ToneError Tone = "error"
)

// Status is the single current status message.
type Status struct {
	Message string `json:"message"`
	Tone    Tone   `json:"tone"`
}

// Tile is the render model of a grid preview.
type Tile struct {
	Slug      string
	Title     string
	Label     string // Publish date or TileDateFallback
	Cover     string // Image URL, or empty
	AriaLabel string
}
