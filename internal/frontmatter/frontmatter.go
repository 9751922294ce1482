// Package frontmatter splits a leading "---" metadata block from a document.
//
// The block grammar is deliberately flat: one "key: value" pair per line,
// split on the first colon. It is not YAML; values are never typed, quoted
// strings keep their quotes, and nested structures are not recognized.
//
//	---
//	title: Skyforge Render Engine
//	image: ../assets/skyforge-cover.svg
//	published: 2024-11-18
//	---
//	Body text...
//
// Documents without a well-formed block (including an unclosed one) are
// returned untouched as content. Parsing never fails.
package frontmatter

import "strings"

// Delimiter is the marker line that opens and closes a metadata block.
const Delimiter = "---"

// Meta holds metadata keys and values. Duplicate keys keep the last value.
type Meta map[string]string

// Get returns the value for key, or "" if absent.
func (m Meta) Get(key string) string {
	return m[key]
}

// Parse extracts the metadata block from the head of text.
// It returns empty (non-nil) metadata and the original text when no block
// is found. Both \n and \r\n line endings are accepted.
func Parse(text string) (Meta, string) {
	first, rest, found := cutLine(text)
	if !found || !isDelimiter(first) {
		return Meta{}, text
	}

	var block []string
	for {
		line, next, more := cutLine(rest)
		if isDelimiter(line) {
			if !more {
				next = ""
			}
			return parseBlock(block), next
		}
		if !more {
			// Unclosed block: treat the whole document as content.
			return Meta{}, text
		}
		block = append(block, line)
		rest = next
	}
}

// parseBlock converts block lines into metadata.
// Blank lines and lines without a colon are skipped.
func parseBlock(lines []string) Meta {
	meta := make(Meta, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		meta[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return meta
}

// cutLine splits s at the first line break. The returned line has its
// terminator (\n or \r\n) removed. found reports whether a break existed;
// when false, line is all of s and rest is empty.
func cutLine(s string) (line, rest string, found bool) {
	idx := strings.IndexByte(s, '\n')
	if idx == -1 {
		return s, "", false
	}
	return strings.TrimSuffix(s[:idx], "\r"), s[idx+1:], true
}

// isDelimiter reports whether line is a "---" marker, ignoring trailing blanks.
func isDelimiter(line string) bool {
	return strings.TrimRight(line, " \t\r") == Delimiter
}
