package content

import (
	"regexp"
	"strconv"
	"strings"
)

// Block is a block-level element of a formatted document.
type Block interface {
	block()
}

// Heading is a `## ` (level 2) or `### ` (level 3) line.
type Heading struct {
	Level   int
	Content []Inline
}

// Paragraph groups consecutive plain lines; each line keeps its own break.
type Paragraph struct {
	Lines [][]Inline
}

// List is a run of consecutive `- ` or `N. ` items.
type List struct {
	Ordered bool
	Start   int // first number of an ordered list
	Items   [][]Inline
}

// Blockquote groups consecutive `> ` lines.
type Blockquote struct {
	Lines [][]Inline
}

// Divider is a `---` line.
type Divider struct{}

// Figure is an image with the caption that should be displayed under it.
type Figure struct {
	URL     string
	Alt     string
	Caption string // empty means no caption is shown
}

func (Heading) block()    {}
func (Paragraph) block()  {}
func (List) block()       {}
func (Blockquote) block() {}
func (Divider) block()    {}
func (Figure) block()     {}

// Inline is a span inside a block.
type Inline interface {
	inline()
}

// Text is literal text. Renderers escape it.
type Text struct {
	Value string
}

// Strong is `**bold**` text.
type Strong struct {
	Children []Inline
}

// Emphasis is `*italic*` text.
type Emphasis struct {
	Children []Inline
}

// Link is `[label](href)`.
type Link struct {
	Href     string
	Children []Inline
}

func (Text) inline()     {}
func (Strong) inline()   {}
func (Emphasis) inline() {}
func (Link) inline()     {}

var orderedItem = regexp.MustCompile(`^(\d+)\. (.*)$`)

// Format turns the raw markup of a text node into blocks. It never fails:
// anything it does not recognise is kept as literal text.
func Format(raw string) []Block {
	f := &formatter{}
	for _, line := range strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n") {
		f.line(line)
	}
	f.flush()
	return f.blocks
}

type formatter struct {
	blocks    []Block
	paragraph [][]Inline
	list      *List
	quote     [][]Inline
}

func (f *formatter) line(line string) {
	switch {
	case strings.TrimSpace(line) == "":
		f.flush()
	case strings.HasPrefix(line, "### "):
		f.flush()
		f.blocks = append(f.blocks, Heading{Level: 3, Content: parseInline(line[4:])})
	case strings.HasPrefix(line, "## "):
		f.flush()
		f.blocks = append(f.blocks, Heading{Level: 2, Content: parseInline(line[3:])})
	case strings.HasPrefix(line, "> "):
		f.flushParagraph()
		f.flushList()
		f.quote = append(f.quote, parseInline(line[2:]))
	case strings.TrimRight(line, " \t") == "---":
		f.flush()
		f.blocks = append(f.blocks, Divider{})
	case orderedItem.MatchString(line):
		m := orderedItem.FindStringSubmatch(line)
		f.listItem(true, m[1], m[2])
	case strings.HasPrefix(line, "- "):
		f.listItem(false, "", line[2:])
	default:
		f.flushList()
		f.flushQuote()
		f.paragraph = append(f.paragraph, parseInline(line))
	}
}

func (f *formatter) listItem(ordered bool, number, text string) {
	f.flushParagraph()
	f.flushQuote()
	if f.list != nil && f.list.Ordered != ordered {
		f.flushList()
	}
	if f.list == nil {
		f.list = &List{Ordered: ordered}
		if ordered {
			f.list.Start = listStart(number)
		}
	}
	f.list.Items = append(f.list.Items, parseInline(text))
}

// maxListStart caps the first number of an ordered list.
const maxListStart = 999999999

// listStart parses the number of the first ordered item. Numbers too large
// for an int are clamped instead of restarting the list at 1.
func listStart(number string) int {
	n, err := strconv.Atoi(number)
	if err != nil || n > maxListStart {
		return maxListStart
	}
	return n
}

func (f *formatter) flush() {
	f.flushParagraph()
	f.flushList()
	f.flushQuote()
}

func (f *formatter) flushParagraph() {
	if len(f.paragraph) > 0 {
		f.blocks = append(f.blocks, Paragraph{Lines: f.paragraph})
		f.paragraph = nil
	}
}

func (f *formatter) flushList() {
	if f.list != nil {
		f.blocks = append(f.blocks, *f.list)
		f.list = nil
	}
}

func (f *formatter) flushQuote() {
	if len(f.quote) > 0 {
		f.blocks = append(f.blocks, Blockquote{Lines: f.quote})
		f.quote = nil
	}
}

type inlineRule struct {
	re    *regexp.Regexp
	build func(m []string) Inline
}

// inlineRules is filled in init because the rule builders recurse into
// parseInline. Earlier rules win when two matches start at the same offset.
var inlineRules []inlineRule

func init() {
	inlineRules = []inlineRule{
		{
			re: regexp.MustCompile(`\*\*\*(.+?)\*\*\*`),
			build: func(m []string) Inline {
				return Strong{Children: []Inline{Emphasis{Children: parseInline(m[1])}}}
			},
		},
		{
			re:    regexp.MustCompile(`\*\*(.+?)\*\*`),
			build: func(m []string) Inline { return Strong{Children: parseInline(m[1])} },
		},
		{
			re:    regexp.MustCompile(`\*([^*]+)\*`),
			build: func(m []string) Inline { return Emphasis{Children: parseInline(m[1])} },
		},
		{
			re:    regexp.MustCompile(`\[([^\]]+)\]\(([^)\s]+)\)`),
			build: func(m []string) Inline { return Link{Href: m[2], Children: parseInline(m[1])} },
		},
	}
}

// parseInline applies the leftmost matching rule repeatedly. Unmatched
// markers stay in the output as text.
func parseInline(s string) []Inline {
	var out []Inline
	for s != "" {
		var (
			loc  []int
			rule *inlineRule
		)
		for i := range inlineRules {
			l := inlineRules[i].re.FindStringSubmatchIndex(s)
			if l != nil && (loc == nil || l[0] < loc[0]) {
				loc, rule = l, &inlineRules[i]
			}
		}
		if loc == nil {
			out = appendText(out, s)
			break
		}
		if loc[0] > 0 {
			out = appendText(out, s[:loc[0]])
		}
		m := make([]string, len(loc)/2)
		for i := range m {
			if loc[2*i] >= 0 {
				m[i] = s[loc[2*i]:loc[2*i+1]]
			}
		}
		out = append(out, rule.build(m))
		s = s[loc[1]:]
	}
	return out
}

func appendText(out []Inline, s string) []Inline {
	if n := len(out); n > 0 {
		if t, ok := out[n-1].(Text); ok {
			out[n-1] = Text{Value: t.Value + s}
			return out
		}
	}
	return append(out, Text{Value: s})
}

// PlainText flattens inlines into their visible text.
func PlainText(inlines []Inline) string {
	var b strings.Builder
	writePlain(&b, inlines)
	return b.String()
}

func writePlain(b *strings.Builder, inlines []Inline) {
	for _, in := range inlines {
		switch in := in.(type) {
		case Text:
			b.WriteString(in.Value)
		case Strong:
			writePlain(b, in.Children)
		case Emphasis:
			writePlain(b, in.Children)
		case Link:
			writePlain(b, in.Children)
		}
	}
}
