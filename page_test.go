package folio

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-folio/internal/assets"
)

func newTestPages(t *testing.T, opts ...PagesOption) *Pages {
	t.Helper()
	p, err := NewPages(nil, "My Portfolio", ServerLinks(), opts...)
	if err != nil {
		t.Fatalf("NewPages: %v", err)
	}
	return p
}

// ---------------------------------------------------------------------------
// TestPages - Template rendering
// ---------------------------------------------------------------------------

func TestPages_Index(t *testing.T) {
	t.Parallel()

	p := newTestPages(t)
	var buf strings.Builder
	err := p.Index(context.Background(), &buf,
		Status{Message: "Loaded 1 project.", Tone: ToneOK},
		[]Tile{{Slug: "sky forge", Title: "Skyforge", Label: "2024-11-18", Cover: "/assets/c.svg", AriaLabel: "Open Skyforge"}},
	)
	if err != nil {
		t.Fatalf("Index: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"<title>My Portfolio</title>",
		`href="/theme/style.css"`,
		`src="/theme/site.js"`,
		`data-tone="ok"`,
		"Loaded 1 project.",
		`class="tile"`,
		`data-fragment="/p/sky%20forge/fragment"`,
		`aria-label="Open Skyforge"`,
		"2024-11-18",
		"/assets/c.svg",
		`id="detailOverlay"`,
		`id="lightbox"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("index missing %q", want)
		}
	}
}

func TestPages_Index_EscapesTitles(t *testing.T) {
	t.Parallel()

	p := newTestPages(t)
	var buf strings.Builder
	if err := p.Index(context.Background(), &buf, Status{}, []Tile{{Slug: "x", Title: "<script>"}}); err != nil {
		t.Fatalf("Index: %v", err)
	}
	if strings.Contains(buf.String(), "<h3><a href=\"/p/x\"><script>") {
		t.Error("tile title not escaped")
	}
}

func TestPages_Fragment(t *testing.T) {
	t.Parallel()

	p := newTestPages(t)

	tests := []struct {
		name    string
		view    DetailView
		want    []string
		notWant []string
	}{
		{
			name:    "rendered with link",
			view:    DetailView{Slug: "a", Title: "Alpha", Label: "2024", GitHub: "https://github.com/x/a", Body: "<p>Hi</p>", Rendered: true},
			want:    []string{"Alpha", "<p>Hi</p>", `href="https://github.com/x/a"`},
			notWant: []string{"detail__content--plain"},
		},
		{
			name:    "plain without link",
			view:    DetailView{Slug: "b", Title: "Beta", Body: `<pre class="plain">x</pre>`},
			want:    []string{"detail__content--plain", `<pre class="plain">x</pre>`},
			notWant: []string{"detail__github"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf strings.Builder
			if err := p.Fragment(context.Background(), &buf, tt.view); err != nil {
				t.Fatalf("Fragment: %v", err)
			}
			out := buf.String()
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("fragment missing %q:\n%s", w, out)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(out, w) {
					t.Errorf("fragment should not contain %q", w)
				}
			}
		})
	}
}

func TestPages_Detail(t *testing.T) {
	t.Parallel()

	p := newTestPages(t)
	var buf strings.Builder
	if err := p.Detail(context.Background(), &buf, DetailView{Slug: "a", Title: "Alpha"}); err != nil {
		t.Fatalf("Detail: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "<title>Alpha · My Portfolio</title>") {
		t.Errorf("detail page title missing:\n%s", out)
	}
	if !strings.Contains(out, `<a href="/">My Portfolio</a>`) {
		t.Error("home link missing")
	}
}

func TestPages_InlineCSS(t *testing.T) {
	t.Parallel()

	p := newTestPages(t, WithInlineCSS())
	var buf strings.Builder
	if err := p.Index(context.Background(), &buf, Status{}, nil); err != nil {
		t.Fatalf("Index: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, `href="/theme/style.css"`) {
		t.Error("stylesheet still linked")
	}
	if !strings.Contains(out, "<style>") {
		t.Error("stylesheet not inlined")
	}
}

func TestNewPages_BadTemplate(t *testing.T) {
	t.Parallel()

	theme := &assets.Theme{Templates: &assets.TemplateSet{
		Name:     "broken",
		Index:    "{{.Title",
		Detail:   "",
		Fragment: "",
	}}
	if _, err := NewPages(theme, "x", ServerLinks()); !errors.Is(err, ErrTemplateRender) {
		t.Errorf("error = %v, want ErrTemplateRender", err)
	}
}

func TestPages_ContextCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf strings.Builder
	if err := newTestPages(t).Index(ctx, &buf, Status{}, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
