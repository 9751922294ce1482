package folio

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"net/url"
	"strings"

	"github.com/alnah/go-folio/internal/assets"
	"github.com/alnah/go-folio/internal/pipeline"
)

// Theme asset file names, as referenced by the page templates.
const (
	StyleFile  = "style.css"
	ScriptFile = "site.js"
)

// PageLinks maps pages and assets to URLs. The server and the static build
// lay pages out differently; templates only go through these.
type PageLinks struct {
	Home     string                   // Index page URL
	Assets   string                   // Prefix of theme asset URLs, ending in "/"
	Detail   func(slug string) string // Detail page URL
	Fragment func(slug string) string // Detail fragment URL
}

// ServerLinks returns the URL layout served by the HTTP server.
func ServerLinks() PageLinks {
	return PageLinks{
		Home:   "/",
		Assets: "/theme/",
		Detail: func(slug string) string {
			return "/p/" + url.PathEscape(slug)
		},
		Fragment: func(slug string) string {
			return "/p/" + url.PathEscape(slug) + "/fragment"
		},
	}
}

// IndexData is the data of the index template.
type IndexData struct {
	Title     string
	Status    Status
	Tiles     []Tile
	InlineCSS bool
}

// DetailData is the data of the detail page template.
type DetailData struct {
	Title     string
	Detail    DetailView
	InlineCSS bool
}

// Pages renders the index, detail page and detail fragment of a theme.
type Pages struct {
	tmpl      *template.Template
	title     string
	css       string
	script    string
	inlineCSS bool
	injector  pipeline.CSSInjector
}

// PagesOption configures Pages.
type PagesOption func(*Pages)

// WithInlineCSS embeds the stylesheet in each page instead of linking it.
func WithInlineCSS() PagesOption {
	return func(p *Pages) {
		p.inlineCSS = true
	}
}

// NewPages parses the theme templates with links bound in. A nil theme
// uses the embedded default theme.
func NewPages(theme *assets.Theme, title string, links PageLinks, opts ...PagesOption) (*Pages, error) {
	if theme == nil {
		var err error
		theme, err = assets.LoadTheme(nil, assets.ThemeNames{})
		if err != nil {
			return nil, err
		}
	}
	if theme.Templates == nil {
		return nil, fmt.Errorf("%w: theme has no templates", ErrTemplateRender)
	}

	funcs := template.FuncMap{
		"asset":       func(name string) string { return links.Assets + name },
		"home":        func() string { return links.Home },
		"detailURL":   links.Detail,
		"fragmentURL": links.Fragment,
	}

	tmpl, err := template.New("index").Funcs(funcs).Parse(theme.Templates.Index)
	if err != nil {
		return nil, fmt.Errorf("%w: index: %v", ErrTemplateRender, err)
	}
	if _, err := tmpl.New("fragment").Parse(theme.Templates.Fragment); err != nil {
		return nil, fmt.Errorf("%w: fragment: %v", ErrTemplateRender, err)
	}
	if _, err := tmpl.New("detail").Parse(theme.Templates.Detail); err != nil {
		return nil, fmt.Errorf("%w: detail: %v", ErrTemplateRender, err)
	}

	p := &Pages{
		tmpl:     tmpl,
		title:    title,
		css:      theme.CSS,
		script:   theme.Script,
		injector: &pipeline.CSSInjection{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// CSS returns the theme stylesheet.
func (p *Pages) CSS() string { return p.css }

// Script returns the theme client script.
func (p *Pages) Script() string { return p.script }

// Index writes the grid page.
func (p *Pages) Index(ctx context.Context, w io.Writer, status Status, tiles []Tile) error {
	return p.execute(ctx, w, "index", IndexData{
		Title:     p.title,
		Status:    status,
		Tiles:     tiles,
		InlineCSS: p.inlineCSS,
	})
}

// Detail writes the standalone page of one post.
func (p *Pages) Detail(ctx context.Context, w io.Writer, view DetailView) error {
	return p.execute(ctx, w, "detail", DetailData{
		Title:     p.title,
		Detail:    view,
		InlineCSS: p.inlineCSS,
	})
}

// Fragment writes the panel content of one post.
func (p *Pages) Fragment(ctx context.Context, w io.Writer, view DetailView) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := p.tmpl.ExecuteTemplate(w, "fragment", view); err != nil {
		return fmt.Errorf("%w: fragment: %v", ErrTemplateRender, err)
	}
	return nil
}

// RenderIndex renders the index page of app.
func (p *Pages) RenderIndex(ctx context.Context, app *App) (string, error) {
	var buf strings.Builder
	if err := p.Index(ctx, &buf, app.Status(), app.Tiles()); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (p *Pages) execute(ctx context.Context, w io.Writer, name string, data any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := p.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrTemplateRender, name, err)
	}

	out := buf.String()
	if p.inlineCSS {
		out = p.injector.InjectCSS(ctx, out, p.css)
	}
	_, err := io.WriteString(w, out)
	return err
}
