package pipeline

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// RewriteRelativeURLs resolves relative image and link references in a
// rendered post body against the URL of the post's source document, so
// images stored alongside posts keep working wherever the body is shown.
// If base is nil, returns the HTML unchanged.
//
// Rewrites:
//   - img[src]
//   - a[href] (not anchors)
//
// Leaves alone absolute URLs, protocol-relative URLs, data: URIs,
// fragment-only anchors and root-relative paths.
func RewriteRelativeURLs(htmlContent string, base *url.URL) (string, error) {
	if base == nil {
		return htmlContent, nil
	}
	return transformHTML(htmlContent, func(root *html.Node) {
		for _, img := range collectElements(root, atom.Img) {
			rewriteURLAttr(img, "src", base)
		}
		for _, a := range collectElements(root, atom.A) {
			rewriteURLAttr(a, "href", base)
		}
	})
}

// ResolveReference resolves ref against base, returning ref unchanged when
// it is not relative or cannot be parsed.
func ResolveReference(base *url.URL, ref string) string {
	if base == nil || !isRelativeRef(ref) {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(u).String()
}

// RebaseRootURLs rewrites root-relative image and link references in a
// rendered body so they resolve from a page located prefix away from the
// site root, e.g. "../../" for a page two directories deep. Other
// references are left alone.
func RebaseRootURLs(htmlContent, prefix string) (string, error) {
	return transformHTML(htmlContent, func(root *html.Node) {
		for _, img := range collectElements(root, atom.Img) {
			rebaseURLAttr(img, "src", prefix)
		}
		for _, a := range collectElements(root, atom.A) {
			rebaseURLAttr(a, "href", prefix)
		}
	})
}

// RebaseRootPath returns ref relative to prefix when ref is a root-relative
// path ("/assets/a.png" becomes prefix+"assets/a.png"). Anything else,
// including protocol-relative URLs, is returned unchanged.
func RebaseRootPath(ref, prefix string) string {
	if !strings.HasPrefix(ref, "/") || strings.HasPrefix(ref, "//") {
		return ref
	}
	rel := strings.TrimPrefix(ref, "/")
	if rel == "" && prefix == "" {
		return "./"
	}
	return prefix + rel
}

func rebaseURLAttr(n *html.Node, key, prefix string) {
	val, ok := getAttr(n, key)
	if !ok {
		return
	}
	if rebased := RebaseRootPath(val, prefix); rebased != val {
		setAttr(n, key, rebased)
	}
}

func rewriteURLAttr(n *html.Node, key string, base *url.URL) {
	val, ok := getAttr(n, key)
	if !ok {
		return
	}
	if resolved := ResolveReference(base, val); resolved != val {
		setAttr(n, key, resolved)
	}
}

// isRelativeRef returns true if the reference should be resolved.
func isRelativeRef(ref string) bool {
	if ref == "" {
		return false
	}
	if strings.HasPrefix(ref, "#") || strings.HasPrefix(ref, "/") {
		return false
	}
	u, err := url.Parse(ref)
	if err != nil {
		return false
	}
	return u.Scheme == ""
}
