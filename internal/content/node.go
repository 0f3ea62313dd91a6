// Package content turns a stored article body into a displayable document.
//
// Rendering is split in three stages. The Extractor splits the raw body into
// an ordered sequence of text and image nodes. Format turns each text node
// into a tree of blocks and inlines. Renderers (HTML, terminal) walk the tree
// and are the only place where text is escaped, so no author input can reach
// the output as markup.
//
// Everything in this package is a pure function of its input except Viewer,
// which holds the state of one overlay viewer.
package content

import (
	"regexp"
	"strings"
)

// Default values used by DefaultExtractor.
const (
	DefaultPlaceholderAlt = "Gambar artikel"
	DefaultCaptionLabel   = "Keterangan:"
)

var imageDirective = regexp.MustCompile(`!\[([^\]]*)\]\(([^)]+)\)`)

// Node is one unit of an article body: a TextNode or an ImageNode.
type Node interface {
	node()
}

// TextNode is a contiguous run of raw markup between image directives.
type TextNode struct {
	Raw string
}

// ImageNode is an image directive with its optional caption line.
type ImageNode struct {
	URL     string
	Alt     string
	Caption string // empty when no caption line followed the directive
}

func (TextNode) node()  {}
func (ImageNode) node() {}

// HasCaption reports whether a caption line was attached to the image.
func (n ImageNode) HasCaption() bool { return n.Caption != "" }

// Extractor splits article bodies into nodes.
type Extractor struct {
	// PlaceholderAlt replaces an empty alt text.
	PlaceholderAlt string
	// CaptionLabels are stripped (case-insensitively) from the start of a caption.
	CaptionLabels []string
}

// DefaultExtractor uses the placeholder and label the admin editor inserts.
var DefaultExtractor = &Extractor{
	PlaceholderAlt: DefaultPlaceholderAlt,
	CaptionLabels:  []string{DefaultCaptionLabel},
}

// NewExtractor builds an extractor, falling back to the defaults for empty values.
func NewExtractor(placeholderAlt string, captionLabels []string) *Extractor {
	if placeholderAlt == "" {
		placeholderAlt = DefaultPlaceholderAlt
	}
	if len(captionLabels) == 0 {
		captionLabels = []string{DefaultCaptionLabel}
	}
	return &Extractor{PlaceholderAlt: placeholderAlt, CaptionLabels: captionLabels}
}

// Extract scans body left to right and returns its nodes in source order.
// Malformed directives are not matched and stay inside the surrounding text.
func (e *Extractor) Extract(body string) []Node {
	var nodes []Node
	last := 0

	for _, loc := range imageDirective.FindAllStringSubmatchIndex(body, -1) {
		start, end := loc[0], loc[1]
		// The previous caption line swallowed this directive.
		if start < last {
			continue
		}

		if start > last {
			if text := body[last:start]; strings.TrimSpace(text) != "" {
				nodes = append(nodes, TextNode{Raw: text})
			}
		}

		img := ImageNode{
			URL: body[loc[4]:loc[5]],
			Alt: body[loc[2]:loc[3]],
		}
		if img.Alt == "" {
			img.Alt = e.PlaceholderAlt
		}
		if caption, captionEnd, ok := captionAfter(body, end); ok {
			img.Caption = e.stripLabel(caption)
			end = captionEnd
		}
		nodes = append(nodes, img)
		last = end
	}

	if last < len(body) {
		if text := body[last:]; strings.TrimSpace(text) != "" {
			nodes = append(nodes, TextNode{Raw: text})
		}
	}
	return nodes
}

// captionAfter looks for a `*caption*` line directly after the directive
// ending at pos. It returns the caption text and the offset just past it.
func captionAfter(body string, pos int) (string, int, bool) {
	i := pos
	for i < len(body) && (body[i] == ' ' || body[i] == '\t' || body[i] == '\r') {
		i++
	}
	if i >= len(body) || body[i] != '\n' {
		return "", 0, false
	}
	i++

	lineEnd := strings.IndexByte(body[i:], '\n')
	if lineEnd < 0 {
		lineEnd = len(body)
	} else {
		lineEnd += i
	}

	line := strings.TrimRight(body[i:lineEnd], " \t\r")
	indent := len(line) - len(strings.TrimLeft(line, " \t"))
	line = line[indent:]
	if len(line) < 3 || line[0] != '*' || line[len(line)-1] != '*' {
		return "", 0, false
	}
	inner := line[1 : len(line)-1]
	if strings.Contains(inner, "*") {
		return "", 0, false
	}
	// A directive on the next line is an image of its own, never a caption.
	if imageDirective.MatchString(inner) {
		return "", 0, false
	}
	return inner, i + indent + len(line), true
}

func (e *Extractor) stripLabel(caption string) string {
	caption = strings.TrimSpace(caption)
	for _, label := range e.CaptionLabels {
		if len(caption) >= len(label) && strings.EqualFold(caption[:len(label)], label) {
			return strings.TrimSpace(caption[len(label):])
		}
	}
	return caption
}

// Serialize writes nodes back into article markup. Text nodes are emitted
// verbatim; image nodes become a directive plus a caption line when set.
// Extracting the result yields the same node sequence.
func (e *Extractor) Serialize(nodes []Node) string {
	var b strings.Builder
	for _, n := range nodes {
		switch n := n.(type) {
		case TextNode:
			b.WriteString(n.Raw)
		case ImageNode:
			alt := n.Alt
			if alt == e.PlaceholderAlt {
				alt = ""
			}
			b.WriteString("![")
			b.WriteString(alt)
			b.WriteString("](")
			b.WriteString(n.URL)
			b.WriteString(")")
			if n.HasCaption() {
				b.WriteString("\n*")
				b.WriteString(n.Caption)
				b.WriteString("*")
			}
		}
	}
	return b.String()
}

// ImageURLs returns the URL of every image directive in body, in order.
func ImageURLs(body string) []string {
	var urls []string
	for _, m := range imageDirective.FindAllStringSubmatch(body, -1) {
		urls = append(urls, m[2])
	}
	return urls
}
