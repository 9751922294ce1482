// Package pipeline implements the markdown-to-HTML stages used for post bodies
// and page assembly.
//
// Post bodies flow through:
//   - Markdown preprocessing (line normalization, ==highlight== syntax)
//   - Markdown to HTML conversion via Goldmark (GFM, footnotes, chroma classes)
//   - Relative URL rewriting against the source document's URL
//   - Decoration: captioned figures, scrollable tables, lightbox attributes
//   - Optional math typesetting markup and table of contents
//
// Every decoration step is idempotent: running it on its own output changes
// nothing. Page-level CSS injection lives here too so templates stay free of
// user-supplied style content.
package pipeline
