package folio

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/alnah/go-folio/internal/assets"
	"github.com/alnah/go-folio/internal/fileutil"
	"github.com/alnah/go-folio/internal/pipeline"
)

// BuildOptions configures a static build.
type BuildOptions struct {
	OutDir    string
	Title     string
	Theme     *assets.Theme // Nil uses the embedded default theme
	InlineCSS bool

	// SiteDir is the local site root holding the posts directory and
	// any assets the posts reference. It is copied into OutDir so
	// relative images resolve. Empty skips the copy.
	SiteDir string

	Logger *zap.Logger
}

// BuildReport summarizes a build.
type BuildReport struct {
	OutDir string
	Pages  int
	Posts  map[string]string // Slug to page directory under OutDir
}

// Build writes the portfolio of app as static files:
//
//	index.html
//	p/<slug>/index.html
//	p/<slug>/fragment.html
//	theme/style.css, theme/site.js
//
// plus a copy of the site directory (or the embedded samples when app
// shows them). app should be booted.
func Build(ctx context.Context, app *App, opts BuildOptions) (*BuildReport, error) {
	if opts.OutDir == "" {
		return nil, fmt.Errorf("%w: output directory is empty", ErrBuildOutput)
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	theme := opts.Theme
	if theme == nil {
		var err error
		theme, err = assets.LoadTheme(nil, assets.ThemeNames{})
		if err != nil {
			return nil, err
		}
	}

	posts := app.Posts()
	dirs := PageDirs(posts)

	var pageOpts []PagesOption
	if opts.InlineCSS {
		pageOpts = append(pageOpts, WithInlineCSS())
	}
	indexPages, err := NewPages(theme, opts.Title, staticLinks(dirs, ""), pageOpts...)
	if err != nil {
		return nil, err
	}
	detailPages, err := NewPages(theme, opts.Title, staticLinks(dirs, "../../"), pageOpts...)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(opts.OutDir, fileutil.DirPermissions); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBuildOutput, err)
	}

	report := &BuildReport{OutDir: opts.OutDir, Posts: dirs}

	if opts.SiteDir != "" && !app.UsingSamples() {
		if err := fileutil.CopyDir(opts.SiteDir, opts.OutDir); err != nil {
			return nil, fmt.Errorf("%w: copying site: %v", ErrBuildOutput, err)
		}
	}
	if app.UsingSamples() {
		if err := fileutil.CopyFS(SampleFS(), opts.OutDir); err != nil {
			return nil, fmt.Errorf("%w: copying samples: %v", ErrBuildOutput, err)
		}
	}

	themeDir := filepath.Join(opts.OutDir, "theme")
	if err := writeOutput(filepath.Join(themeDir, StyleFile), theme.CSS); err != nil {
		return nil, err
	}
	if err := writeOutput(filepath.Join(themeDir, ScriptFile), theme.Script); err != nil {
		return nil, err
	}

	tiles := app.Tiles()
	for i := range tiles {
		tiles[i].Cover = pipeline.RebaseRootPath(tiles[i].Cover, "")
	}
	var index strings.Builder
	if err := indexPages.Index(ctx, &index, app.Status(), tiles); err != nil {
		return nil, err
	}
	if err := writeOutput(filepath.Join(opts.OutDir, "index.html"), index.String()); err != nil {
		return nil, err
	}
	report.Pages++

	for _, post := range posts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		view, _ := app.Detail(ctx, post.Slug)
		dir := filepath.Join(opts.OutDir, "p", dirs[post.Slug])

		// The page sits two levels down; the fragment is shown inside the index.
		pageView, err := rebaseView(view, "../../")
		if err != nil {
			return nil, err
		}
		fragmentView, err := rebaseView(view, "")
		if err != nil {
			return nil, err
		}

		var page, fragment strings.Builder
		if err := detailPages.Detail(ctx, &page, pageView); err != nil {
			return nil, err
		}
		if err := detailPages.Fragment(ctx, &fragment, fragmentView); err != nil {
			return nil, err
		}
		if err := writeOutput(filepath.Join(dir, "index.html"), page.String()); err != nil {
			return nil, err
		}
		if err := writeOutput(filepath.Join(dir, "fragment.html"), fragment.String()); err != nil {
			return nil, err
		}
		report.Pages++
		logger.Debug("wrote post", zap.String("slug", post.Slug), zap.String("dir", dir))
	}

	return report, nil
}

// rebaseView makes the root-relative image and link URLs of view relative
// to a page located prefix away from the output root.
func rebaseView(view DetailView, prefix string) (DetailView, error) {
	view.Hero = pipeline.RebaseRootPath(view.Hero, prefix)
	if view.Rendered {
		body, err := pipeline.RebaseRootURLs(string(view.Body), prefix)
		if err != nil {
			return DetailView{}, fmt.Errorf("%w: %v", ErrBuildOutput, err)
		}
		view.Body = template.HTML(body) //nolint:gosec // rebased copy of a rendered body
	}
	return view, nil
}

// staticLinks lays pages out for a static host. prefix leads from the
// rendering page back to the output root.
func staticLinks(dirs map[string]string, prefix string) PageLinks {
	home := prefix
	if home == "" {
		home = "./"
	}
	return PageLinks{
		Home:   home,
		Assets: prefix + "theme/",
		Detail: func(slug string) string {
			return prefix + "p/" + dirs[slug] + "/"
		},
		Fragment: func(slug string) string {
			return prefix + "p/" + dirs[slug] + "/fragment.html"
		},
	}
}

// PageDirs maps each slug to a safe, unique directory name.
func PageDirs(posts []Post) map[string]string {
	dirs := make(map[string]string, len(posts))
	used := make(map[string]bool, len(posts))
	for _, p := range posts {
		if _, ok := dirs[p.Slug]; ok {
			continue
		}
		base := sanitizeSlug(p.Slug)
		name := base
		for n := 2; used[name]; n++ {
			name = base + "-" + strconv.Itoa(n)
		}
		used[name] = true
		dirs[p.Slug] = name
	}
	return dirs
}

// sanitizeSlug lowercases s and keeps ASCII letters and digits, collapsing
// everything else into single dashes.
func sanitizeSlug(s string) string {
	s = strings.TrimSuffix(strings.ToLower(s), ".md")
	var b strings.Builder
	dash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	out := strings.TrimSuffix(b.String(), "-")
	if out == "" {
		return "post"
	}
	return out
}

func writeOutput(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), fileutil.DirPermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrBuildOutput, err)
	}
	if err := os.WriteFile(path, []byte(content), fs.FileMode(fileutil.FilePermissions)); err != nil {
		return fmt.Errorf("%w: %v", ErrBuildOutput, err)
	}
	return nil
}
