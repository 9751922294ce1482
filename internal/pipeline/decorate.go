package pipeline

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Class names and processed markers written into post bodies.
// The markers make every step safe to run more than once.
const (
	FigureClass      = "figure"
	TableScrollClass = "table-scroll"

	attrCaptioned = "data-captioned"
	attrWrapped   = "data-wrapped"
	attrLightbox  = "data-lightbox"
	attrCaption   = "data-caption"
)

// Decorate applies all presentation post-processing to a rendered body:
// captioned figures, scrollable tables and lightbox attributes.
func Decorate(htmlContent string) (string, error) {
	return transformHTML(htmlContent, func(root *html.Node) {
		captionImages(root)
		wrapTables(root)
		markLightbox(root)
	})
}

// imageCaption returns the caption for an image: its title, else its alt text.
func imageCaption(img *html.Node) string {
	if title, _ := getAttr(img, "title"); strings.TrimSpace(title) != "" {
		return strings.TrimSpace(title)
	}
	alt, _ := getAttr(img, "alt")
	return strings.TrimSpace(alt)
}

// captionImages wraps every image carrying a title or alt text in a
// <figure> with a <figcaption>. Images already inside a figure, or already
// marked as captioned, are skipped.
func captionImages(root *html.Node) {
	for _, img := range collectElements(root, atom.Img) {
		if _, done := getAttr(img, attrCaptioned); done {
			continue
		}
		if hasAncestor(img, atom.Figure) {
			continue
		}
		caption := imageCaption(img)
		if caption == "" {
			continue
		}
		setAttr(img, attrCaptioned, "true")

		figure := newElement(atom.Figure, html.Attribute{Key: "class", Val: FigureClass})
		figcaption := newElement(atom.Figcaption)
		figcaption.AppendChild(&html.Node{Type: html.TextNode, Data: caption})

		// Wrap the outermost inline ancestor (e.g. a link around the image).
		target := img
		for target.Parent != nil && isInline(target.Parent) {
			target = target.Parent
		}
		parent := target.Parent
		if parent == nil {
			continue
		}

		if parent.Type == html.ElementNode && parent.DataAtom == atom.P && parent.Parent != nil {
			hoistFromParagraph(parent, target, figure)
		} else {
			parent.InsertBefore(figure, target)
			parent.RemoveChild(target)
			figure.AppendChild(target)
		}
		figure.AppendChild(figcaption)
	}
}

// hoistFromParagraph moves target into figure and places the figure after p,
// splitting p so no block element ends up inside a paragraph. Paragraph
// halves left with only whitespace are dropped.
func hoistFromParagraph(p, target, figure *html.Node) {
	after := newElement(atom.P)
	for s := target.NextSibling; s != nil; {
		next := s.NextSibling
		p.RemoveChild(s)
		after.AppendChild(s)
		s = next
	}
	p.RemoveChild(target)
	figure.AppendChild(target)

	grand := p.Parent
	grand.InsertBefore(figure, p.NextSibling)
	if !onlyBlankChildren(after) {
		grand.InsertBefore(after, figure.NextSibling)
	}
	if onlyBlankChildren(p) {
		grand.RemoveChild(p)
	}
}

// isInline reports whether n is an inline phrasing element that may wrap an image.
func isInline(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch n.DataAtom {
	case atom.A, atom.Span, atom.Em, atom.Strong, atom.B, atom.I, atom.Picture:
		return true
	}
	return false
}

// wrapTables puts every table in a horizontally scrollable container.
// Tables already wrapped are skipped.
func wrapTables(root *html.Node) {
	for _, table := range collectElements(root, atom.Table) {
		if _, done := getAttr(table, attrWrapped); done {
			continue
		}
		parent := table.Parent
		if parent == nil {
			continue
		}
		setAttr(table, attrWrapped, "true")
		if parent.Type == html.ElementNode && parent.DataAtom == atom.Div && hasClass(parent, TableScrollClass) {
			continue
		}

		wrapper := newElement(atom.Div, html.Attribute{Key: "class", Val: TableScrollClass})
		parent.InsertBefore(wrapper, table)
		parent.RemoveChild(table)
		wrapper.AppendChild(table)
	}
}

// markLightbox tags every image so the client opens it in the lightbox,
// carrying the caption along.
func markLightbox(root *html.Node) {
	for _, img := range collectElements(root, atom.Img) {
		setAttr(img, attrLightbox, "true")
		if caption := imageCaption(img); caption != "" {
			setAttr(img, attrCaption, caption)
		}
	}
}
