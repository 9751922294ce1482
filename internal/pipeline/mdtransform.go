package pipeline

import (
	"regexp"
	"strings"
)

// Highlight placeholders use Unicode Private Use Area characters.
// They pass through Goldmark unchanged and are turned into <mark> tags
// after conversion, so the converter never needs html.WithUnsafe.
const (
	MarkStartPlaceholder = "\uE000" // U+E000: Private Use Area start
	MarkEndPlaceholder   = "\uE001" // U+E001: Private Use Area end
)

var (
	crlfOrCR           = regexp.MustCompile(`\r\n?`)
	multipleBlankLines = regexp.MustCompile(`\n{3,}`)
	highlightPattern   = regexp.MustCompile(`==([^=\n]+?)==`)
	fencePattern       = regexp.MustCompile("(?m)^(```|~~~)")
)

// PreprocessMarkdown normalizes post bodies before conversion:
// line endings become \n, runs of blank lines collapse to one,
// and ==text== outside code fences becomes a highlight placeholder.
func PreprocessMarkdown(content string) string {
	content = crlfOrCR.ReplaceAllString(content, "\n")
	content = convertHighlights(content)
	return multipleBlankLines.ReplaceAllString(content, "\n\n")
}

// convertHighlights rewrites ==text== to placeholders, leaving fenced code
// blocks untouched.
func convertHighlights(content string) string {
	if !strings.Contains(content, "==") {
		return content
	}

	lines := strings.SplitAfter(content, "\n")
	inFence := false
	for i, line := range lines {
		if fencePattern.MatchString(line) {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		lines[i] = highlightPattern.ReplaceAllString(line, MarkStartPlaceholder+"$1"+MarkEndPlaceholder)
	}
	return strings.Join(lines, "")
}

// ConvertMarkPlaceholders turns highlight placeholders into <mark> tags.
// Called on converter output, the second half of the ==highlight== feature.
func ConvertMarkPlaceholders(content string) string {
	return strings.ReplaceAll(
		strings.ReplaceAll(content, MarkStartPlaceholder, "<mark>"),
		MarkEndPlaceholder, "</mark>",
	)
}
