package pipeline

import (
	"context"
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"
)

// CSSInjector defines the contract for CSS injection into HTML.
type CSSInjector interface {
	InjectCSS(ctx context.Context, htmlContent, cssContent string) string
}

// CSSInjection injects CSS as a <style> block into HTML content.
type CSSInjection struct{}

// InjectCSS inserts a <style> block into HTML content.
// Tries </head> first, then <body>, then prepends to the HTML.
// CSS content is sanitized so it cannot close the style element.
func (s *CSSInjection) InjectCSS(ctx context.Context, htmlContent, cssContent string) string {
	if cssContent == "" {
		return htmlContent
	}

	if ctx.Err() != nil {
		return htmlContent
	}

	styleBlock := "<style>" + sanitizeCSS(cssContent) + "</style>"
	lowerHTML := strings.ToLower(htmlContent)

	if idx := strings.Index(lowerHTML, "</head>"); idx != -1 {
		return htmlContent[:idx] + styleBlock + htmlContent[idx:]
	}

	if idx := strings.Index(lowerHTML, "<body"); idx != -1 {
		closeIdx := strings.Index(htmlContent[idx:], ">")
		if closeIdx != -1 {
			insertPos := idx + closeIdx + 1
			return htmlContent[:insertPos] + styleBlock + htmlContent[insertPos:]
		}
	}

	return styleBlock + htmlContent
}

// sanitizeCSS escapes "</" so a stylesheet cannot terminate its <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

// TOCData holds TOC configuration for a post body.
type TOCData struct {
	Title       string
	MinDepth    int // Minimum heading level (default: 2)
	MaxDepth    int // Maximum heading level (default: 3)
	MinHeadings int // Bodies with fewer matching headings get no TOC
}

// DefaultTOCData returns the settings used for long posts.
func DefaultTOCData() *TOCData {
	return &TOCData{Title: "Contents", MinDepth: 2, MaxDepth: 3, MinHeadings: 3}
}

// TOCInjector defines the contract for TOC injection into a post body.
type TOCInjector interface {
	InjectTOC(ctx context.Context, body string, data *TOCData) (string, error)
}

type headingInfo struct {
	Level int
	ID    string
	Text  string
}

// headingPattern matches h1-h6 tags with an id attribute.
// Captures: 1=level, 2=id, 3=inner HTML (may contain inline tags)
var headingPattern = regexp.MustCompile(`(?is)<h([1-6])[^>]*\bid="([^"]*)"[^>]*>(.*?)</h[1-6]>`)

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// tocMarker identifies a body that already carries a TOC.
const tocMarker = `<nav class="toc">`

// stripHTMLTags removes tags, decodes entities and trims whitespace.
// Entities are decoded so the text is not double-escaped in the TOC.
func stripHTMLTags(s string) string {
	s = htmlTagPattern.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	return strings.TrimSpace(s)
}

// extractHeadings returns headings between minDepth and maxDepth.
// Headings without IDs are skipped.
func extractHeadings(htmlContent string, minDepth, maxDepth int) []headingInfo {
	matches := headingPattern.FindAllStringSubmatch(htmlContent, -1)
	if len(matches) == 0 {
		return nil
	}

	var headings []headingInfo
	for _, m := range matches {
		level, _ := strconv.Atoi(m[1])
		if level < minDepth || level > maxDepth {
			continue
		}
		headings = append(headings, headingInfo{
			Level: level,
			ID:    m[2],
			Text:  stripHTMLTags(m[3]),
		})
	}
	return headings
}

// depthState normalizes heading levels into nesting depths: the first
// heading is depth 1 and skipped levels collapse to a direct child.
type depthState struct {
	minLevelSeen int
	lastDepth    int
}

func (d *depthState) next(level int) int {
	if d.minLevelSeen == 0 {
		d.minLevelSeen = level
	}

	depth := level - d.minLevelSeen + 1
	if depth < 1 {
		depth = 1
	}
	if d.lastDepth > 0 && depth > d.lastDepth+1 {
		depth = d.lastDepth + 1
	}
	d.lastDepth = depth
	return depth
}

// generateTOC renders headings as an indented list of anchors.
func generateTOC(headings []headingInfo, title string) string {
	if len(headings) == 0 {
		return ""
	}

	var buf strings.Builder
	buf.WriteString(tocMarker)

	if title != "" {
		buf.WriteString(`<p class="toc-title">`)
		buf.WriteString(html.EscapeString(title))
		buf.WriteString(`</p>`)
	}

	buf.WriteString(`<ol class="toc-list">`)

	var depths depthState
	for _, h := range headings {
		depth := depths.next(h.Level)

		buf.WriteString(`<li class="toc-item"`)
		if depth > 1 {
			fmt.Fprintf(&buf, ` data-depth="%d"`, depth)
		}
		buf.WriteString(`><a href="#`)
		buf.WriteString(html.EscapeString(h.ID))
		buf.WriteString(`">`)
		buf.WriteString(html.EscapeString(h.Text))
		buf.WriteString(`</a></li>`)
	}

	buf.WriteString(`</ol></nav>`)
	return buf.String()
}

// TOCInjection implements TOCInjector.
type TOCInjection struct{}

// NewTOCInjection creates a new TOC injector.
func NewTOCInjection() *TOCInjection {
	return &TOCInjection{}
}

// InjectTOC prepends a table of contents to a post body when it has at
// least data.MinHeadings headings in range. A nil data, a short body or a
// body that already has a TOC is returned unchanged.
func (t *TOCInjection) InjectTOC(ctx context.Context, body string, data *TOCData) (string, error) {
	if data == nil {
		return body, nil
	}

	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	if strings.Contains(body, tocMarker) {
		return body, nil
	}

	headings := extractHeadings(body, data.MinDepth, data.MaxDepth)
	if len(headings) == 0 || len(headings) < data.MinHeadings {
		return body, nil
	}

	return generateTOC(headings, data.Title) + body, nil
}

// Compile-time interface checks.
var (
	_ CSSInjector = (*CSSInjection)(nil)
	_ TOCInjector = (*TOCInjection)(nil)
)
