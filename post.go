package folio

import (
	"net/url"
	"strings"

	"github.com/alnah/go-folio/internal/frontmatter"
)

// BuildPost normalizes a manifest entry and its raw document text into a
// Post. sourcePath is the path the document was fetched from and base is
// the site root it is relative to; the document's image is resolved against
// the document URL, so images may live next to the post files. A nil base
// leaves relative references unresolved.
//
// BuildPost is pure: no I/O, no errors. Missing fields take placeholders.
func BuildPost(entry ManifestEntry, text, sourcePath string, base *url.URL) Post {
	meta, content := frontmatter.Parse(text)
	docURL := resolveDocURL(base, sourcePath)

	post := Post{
		Slug:       firstNonEmpty(entry.Slug, meta.Get("title"), sourcePath),
		Title:      firstNonEmpty(meta.Get("title"), UntitledTitle),
		Published:  meta.Get("published"),
		GitHub:     meta.Get("github"),
		Content:    strings.TrimSpace(content),
		SourcePath: sourcePath,
		Meta:       meta,
	}
	if docURL != nil {
		post.DocURL = docURL.String()
	}
	if image := meta.Get("image"); image != "" {
		post.Image = resolveAgainst(docURL, image)
	}
	return post
}

// resolveDocURL returns sourcePath resolved against base, or nil when
// either is unusable.
func resolveDocURL(base *url.URL, sourcePath string) *url.URL {
	if base == nil {
		return nil
	}
	ref, err := url.Parse(sourcePath)
	if err != nil {
		return nil
	}
	return base.ResolveReference(ref)
}

// resolveAgainst resolves ref per RFC 3986. An unparseable ref or a nil
// base returns ref unchanged.
func resolveAgainst(base *url.URL, ref string) string {
	if base == nil {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(u).String()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
