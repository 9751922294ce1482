package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrUnbalancedMath indicates a display math block that is never closed.
var ErrUnbalancedMath = errors.New("unbalanced math delimiter")

// MathClass marks typeset math spans. Client-side renderers pick these up.
const MathClass = "math"

// MathTypesetter marks TeX math in a rendered body so a client-side engine
// can typeset it. $$...$$ becomes <span class="math display"> and $...$
// becomes <span class="math inline">. Text inside code, pre, script, style
// and existing math spans is left alone.
type MathTypesetter struct{}

// NewMathTypesetter creates a MathTypesetter.
func NewMathTypesetter() *MathTypesetter {
	return &MathTypesetter{}
}

// Typeset rewrites math delimiters in htmlContent. An unclosed $$ fails the
// whole body with ErrUnbalancedMath; a lone $ or an escaped \$ is ordinary
// text.
func (m *MathTypesetter) Typeset(ctx context.Context, htmlContent string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !strings.Contains(htmlContent, "$") {
		return htmlContent, nil
	}

	var firstErr error
	out, err := transformHTML(htmlContent, func(root *html.Node) {
		for _, text := range mathCandidates(root) {
			if err := typesetText(text); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrHTMLConversion, err)
	}
	if firstErr != nil {
		return "", firstErr
	}
	return out, nil
}

// mathCandidates collects text nodes containing "$" outside skipped elements.
func mathCandidates(root *html.Node) []*html.Node {
	var out []*html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && skipMath(n) {
			return
		}
		if n.Type == html.TextNode && strings.Contains(n.Data, "$") {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}

func skipMath(n *html.Node) bool {
	switch n.DataAtom {
	case atom.Code, atom.Pre, atom.Script, atom.Style, atom.Textarea:
		return true
	case atom.Span:
		return hasClass(n, MathClass)
	}
	return false
}

// mathSegment is either plain text or a math expression.
type mathSegment struct {
	text    string
	math    bool
	display bool
}

// splitMath splits s into text and math segments.
func splitMath(s string) ([]mathSegment, error) {
	var segs []mathSegment
	var plain strings.Builder

	flush := func() {
		if plain.Len() > 0 {
			segs = append(segs, mathSegment{text: plain.String()})
			plain.Reset()
		}
	}

	for i := 0; i < len(s); {
		switch {
		case s[i] == '\\' && i+1 < len(s) && s[i+1] == '$':
			plain.WriteString(`\$`)
			i += 2
		case strings.HasPrefix(s[i:], "$$"):
			end := strings.Index(s[i+2:], "$$")
			if end == -1 {
				return nil, fmt.Errorf("%w: $$ at offset %d", ErrUnbalancedMath, i)
			}
			flush()
			segs = append(segs, mathSegment{text: strings.TrimSpace(s[i+2 : i+2+end]), math: true, display: true})
			i += end + 4
		case s[i] == '$':
			end := inlineClose(s, i)
			if end == -1 {
				plain.WriteByte('$')
				i++
				continue
			}
			flush()
			segs = append(segs, mathSegment{text: s[i+1 : end], math: true})
			i = end + 1
		default:
			plain.WriteByte(s[i])
			i++
		}
	}
	flush()
	return segs, nil
}

// inlineClose returns the index of the $ closing the inline expression that
// opens at start, or -1. The opener must not be followed by a space and the
// closer must not be preceded by a space or followed by a digit, so prices
// such as "$5 or $10" stay text.
func inlineClose(s string, start int) int {
	if start+1 >= len(s) || isSpaceByte(s[start+1]) || s[start+1] == '$' {
		return -1
	}
	for j := start + 1; j < len(s); j++ {
		if s[j] == '\n' {
			return -1
		}
		if s[j] != '$' || s[j-1] == '\\' {
			continue
		}
		if isSpaceByte(s[j-1]) || (j+1 < len(s) && s[j+1] >= '0' && s[j+1] <= '9') {
			continue
		}
		return j
	}
	return -1
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// typesetText replaces a text node with its text and math segments.
func typesetText(n *html.Node) error {
	segs, err := splitMath(n.Data)
	if err != nil {
		return err
	}
	hasMath := false
	for _, s := range segs {
		if s.math {
			hasMath = true
			break
		}
	}
	if !hasMath {
		return nil
	}

	parent := n.Parent
	for _, s := range segs {
		if !s.math {
			parent.InsertBefore(&html.Node{Type: html.TextNode, Data: s.text}, n)
			continue
		}
		class := MathClass + " inline"
		if s.display {
			class = MathClass + " display"
		}
		span := newElement(atom.Span, html.Attribute{Key: "class", Val: class})
		span.AppendChild(&html.Node{Type: html.TextNode, Data: s.text})
		parent.InsertBefore(span, n)
	}
	parent.RemoveChild(n)
	return nil
}
