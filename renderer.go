package folio

import (
	"context"
	"html"
	"html/template"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-folio/internal/dateutil"
	"github.com/alnah/go-folio/internal/pipeline"
)

// DefaultTypesetWait bounds how long Detail waits for the typesetter.
const DefaultTypesetWait = 2 * time.Second

// MarkdownRenderer converts a markdown body to an HTML fragment.
type MarkdownRenderer interface {
	Render(ctx context.Context, markdown string) (string, error)
}

// Typesetter rewrites math notation in an HTML fragment.
type Typesetter interface {
	Typeset(ctx context.Context, htmlContent string) (string, error)
}

// Compile-time interface checks.
var (
	_ MarkdownRenderer     = (*pipeline.GoldmarkConverter)(nil)
	_ Typesetter           = (*pipeline.MathTypesetter)(nil)
	_ pipeline.TOCInjector = (*pipeline.TOCInjection)(nil)
)

// DetailView is the render model of an expanded post.
type DetailView struct {
	Slug     string
	Title    string
	Label    string // Publish date or DetailDateFallback
	Hero     string // Image URL, or empty
	GitHub   string // External link, or empty (link hidden)
	Body     template.HTML
	Rendered bool // False when the body is shown as plain text
}

// Renderer turns posts into tiles and detail views. Markdown rendering and
// typesetting are optional; without them bodies degrade to plain text and
// untypeset markup.
type Renderer struct {
	markdown    MarkdownRenderer
	typesetter  Typesetter
	typesetWait time.Duration
	toc         pipeline.TOCInjector
	tocData     *pipeline.TOCData
	dateLayout  string
	logger      *zap.Logger
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithMarkdown sets the markdown capability. Nil disables rendering.
func WithMarkdown(m MarkdownRenderer) RendererOption {
	return func(r *Renderer) {
		r.markdown = m
	}
}

// WithTypesetter sets the math capability and how long Detail waits for
// it. A non-positive wait uses DefaultTypesetWait.
func WithTypesetter(t Typesetter, wait time.Duration) RendererOption {
	return func(r *Renderer) {
		r.typesetter = t
		if wait > 0 {
			r.typesetWait = wait
		}
	}
}

// WithTOC enables a table of contents for rendered bodies with enough
// headings. Nil data uses pipeline.DefaultTOCData.
func WithTOC(data *pipeline.TOCData) RendererOption {
	return func(r *Renderer) {
		if data == nil {
			data = pipeline.DefaultTOCData()
		}
		r.toc = pipeline.NewTOCInjection()
		r.tocData = data
	}
}

// WithDateLayout sets a Go time layout for date labels. Dates that do not
// parse are shown raw.
func WithDateLayout(layout string) RendererOption {
	return func(r *Renderer) {
		r.dateLayout = layout
	}
}

// WithRendererLogger sets the logger for degraded-render diagnostics.
func WithRendererLogger(logger *zap.Logger) RendererOption {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRenderer creates a Renderer. With no options it has no markdown or
// math capability.
func NewRenderer(opts ...RendererOption) *Renderer {
	r := &Renderer{
		typesetWait: DefaultTypesetWait,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Tiles builds one tile per post, preserving order.
func (r *Renderer) Tiles(posts []Post) []Tile {
	tiles := make([]Tile, 0, len(posts))
	for _, p := range posts {
		tiles = append(tiles, r.Tile(p))
	}
	return tiles
}

// Tile builds the preview of one post.
func (r *Renderer) Tile(p Post) Tile {
	return Tile{
		Slug:      p.Slug,
		Title:     p.Title,
		Label:     r.label(p.Published, TileDateFallback),
		Cover:     p.Image,
		AriaLabel: "Open " + p.Title,
	}
}

// Detail renders the expanded view of a post. It never fails: a markdown
// failure falls back to plain text, a typesetting failure or timeout keeps
// the untypeset markup. Both are logged.
func (r *Renderer) Detail(ctx context.Context, p Post) DetailView {
	view := DetailView{
		Slug:   p.Slug,
		Title:  p.Title,
		Label:  r.label(p.Published, DetailDateFallback),
		Hero:   p.Image,
		GitHub: p.GitHub,
	}

	body, ok := r.renderBody(ctx, p)
	if !ok {
		view.Body = template.HTML(plainBody(p.Content)) //nolint:gosec // escaped by plainBody
		return view
	}
	view.Body = template.HTML(body) //nolint:gosec // produced by the markdown pipeline without raw HTML
	view.Rendered = true
	return view
}

// renderBody runs the markdown pipeline. ok is false when no markdown
// capability is configured or it failed.
func (r *Renderer) renderBody(ctx context.Context, p Post) (string, bool) {
	if r.markdown == nil {
		return "", false
	}

	body, err := r.markdown.Render(ctx, p.Content)
	if err != nil {
		r.logger.Warn("markdown render failed, showing plain text",
			zap.String("slug", p.Slug), zap.Error(err))
		return "", false
	}

	if base := docBase(p.DocURL); base != nil {
		if rewritten, err := pipeline.RewriteRelativeURLs(body, base); err == nil {
			body = rewritten
		} else {
			r.logger.Debug("relative URL rewrite failed", zap.String("slug", p.Slug), zap.Error(err))
		}
	}

	if r.toc != nil {
		if withTOC, err := r.toc.InjectTOC(ctx, body, r.tocData); err == nil {
			body = withTOC
		}
	}

	body = r.typeset(ctx, p.Slug, body)

	if decorated, err := pipeline.Decorate(body); err == nil {
		body = decorated
	} else {
		r.logger.Debug("body decoration failed", zap.String("slug", p.Slug), zap.Error(err))
	}
	return body, true
}

// typeset runs the typesetter in its own goroutine and waits at most
// typesetWait. The untypeset body is returned on failure or timeout.
func (r *Renderer) typeset(ctx context.Context, slug, body string) string {
	if r.typesetter == nil {
		return body
	}

	ctx, cancel := context.WithTimeout(ctx, r.typesetWait)
	defer cancel()

	type result struct {
		html string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		out, err := r.typesetter.Typeset(ctx, body)
		done <- result{html: out, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			r.logger.Warn("typesetting failed", zap.String("slug", slug), zap.Error(res.err))
			return body
		}
		return res.html
	case <-ctx.Done():
		r.logger.Warn("typesetting timed out", zap.String("slug", slug), zap.Error(ctx.Err()))
		return body
	}
}

func (r *Renderer) label(published, fallback string) string {
	if published == "" {
		return fallback
	}
	return dateutil.FormatPublished(published, r.dateLayout)
}

// plainBody shows text unrendered.
func plainBody(text string) string {
	return `<pre class="plain">` + html.EscapeString(text) + `</pre>`
}

func docBase(docURL string) *url.URL {
	if docURL == "" {
		return nil
	}
	u, err := url.Parse(docURL)
	if err != nil {
		return nil
	}
	return u
}
