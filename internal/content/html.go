package content

import (
	"html"
	"html/template"
	"regexp"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// htmlPolicy is applied to the rendered output. It allows exactly the
// elements the renderer emits.
var htmlPolicy = newHTMLPolicy()

func newHTMLPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("div", "p", "br", "h2", "h3", "strong", "em", "ul", "ol", "li",
		"blockquote", "hr", "figure", "figcaption")
	p.AllowAttrs("class").Matching(regexp.MustCompile(`^[a-z- ]+$`)).Globally()
	p.AllowAttrs("start").Matching(bluemonday.Integer).OnElements("ol")
	p.AllowAttrs("href").OnElements("a")
	p.AllowAttrs("target").Matching(regexp.MustCompile(`^_blank$`)).OnElements("a")
	p.AllowAttrs("rel").Matching(regexp.MustCompile(`^[a-z ]+$`)).OnElements("a")
	p.AllowAttrs("src", "alt").OnElements("img")
	p.AllowAttrs("loading").Matching(regexp.MustCompile(`^lazy$`)).OnElements("img")
	p.AllowAttrs("data-overlay").Matching(regexp.MustCompile(`^figure$`)).OnElements("img")
	p.AllowAttrs("data-overlay-alt").OnElements("img")
	p.AllowURLSchemes("http", "https", "mailto")
	p.AllowRelativeURLs(true)
	return p
}

// RenderHTML renders the document as an HTML fragment. Text is escaped
// while the tree is written and the result is then passed through an
// allow-list sanitizer.
func RenderHTML(doc Document) template.HTML {
	var b strings.Builder
	b.WriteString(`<div class="article-content">`)
	for _, blk := range doc.Blocks {
		writeBlock(&b, blk)
	}
	b.WriteString(`</div>`)
	return template.HTML(htmlPolicy.Sanitize(b.String()))
}

// HTML parses body and renders it in one step.
func (e *Extractor) HTML(body string) template.HTML {
	return RenderHTML(e.Parse(body))
}

func writeBlock(b *strings.Builder, blk Block) {
	switch blk := blk.(type) {
	case Heading:
		tag := "h" + strconv.Itoa(blk.Level)
		b.WriteString("<" + tag + ` class="article-heading">`)
		writeInlines(b, blk.Content)
		b.WriteString("</" + tag + ">")
	case Paragraph:
		b.WriteString(`<p class="article-paragraph">`)
		writeLines(b, blk.Lines)
		b.WriteString("</p>")
	case List:
		tag := "ul"
		if blk.Ordered {
			tag = "ol"
		}
		b.WriteString("<" + tag + ` class="article-list"`)
		if blk.Ordered && blk.Start > 1 {
			b.WriteString(` start="` + strconv.Itoa(blk.Start) + `"`)
		}
		b.WriteString(">")
		for _, item := range blk.Items {
			b.WriteString("<li>")
			writeInlines(b, item)
			b.WriteString("</li>")
		}
		b.WriteString("</" + tag + ">")
	case Blockquote:
		b.WriteString(`<blockquote class="article-quote">`)
		writeLines(b, blk.Lines)
		b.WriteString("</blockquote>")
	case Divider:
		b.WriteString(`<hr class="article-divider"/>`)
	case Figure:
		src := html.EscapeString(blk.URL)
		alt := html.EscapeString(blk.Alt)
		b.WriteString(`<figure class="article-figure">`)
		b.WriteString(`<img src="` + src + `" alt="` + alt + `" loading="lazy"`)
		b.WriteString(` data-overlay="figure" data-overlay-alt="` + alt + `"/>`)
		if blk.Caption != "" {
			b.WriteString(`<figcaption>`)
			b.WriteString(html.EscapeString(blk.Caption))
			b.WriteString(`</figcaption>`)
		}
		b.WriteString(`</figure>`)
	}
}

func writeLines(b *strings.Builder, lines [][]Inline) {
	for i, line := range lines {
		if i > 0 {
			b.WriteString("<br/>")
		}
		writeInlines(b, line)
	}
}

func writeInlines(b *strings.Builder, inlines []Inline) {
	for _, in := range inlines {
		switch in := in.(type) {
		case Text:
			b.WriteString(html.EscapeString(in.Value))
		case Strong:
			b.WriteString("<strong>")
			writeInlines(b, in.Children)
			b.WriteString("</strong>")
		case Emphasis:
			b.WriteString("<em>")
			writeInlines(b, in.Children)
			b.WriteString("</em>")
		case Link:
			b.WriteString(`<a href="` + html.EscapeString(in.Href) + `" target="_blank" rel="noopener noreferrer external">`)
			writeInlines(b, in.Children)
			b.WriteString("</a>")
		}
	}
}
