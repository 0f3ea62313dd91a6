package content

// Document is an assembled article: formatted text blocks and figures in
// source order.
type Document struct {
	Blocks []Block
}

// Figures returns the figures of the document in order.
func (d Document) Figures() []Figure {
	var figs []Figure
	for _, b := range d.Blocks {
		if f, ok := b.(Figure); ok {
			figs = append(figs, f)
		}
	}
	return figs
}

// Assemble formats every text node and turns every image node into a
// Figure. The figure caption is the explicit caption, or the alt text when
// the alt is not the placeholder.
func (e *Extractor) Assemble(nodes []Node) Document {
	var doc Document
	for _, n := range nodes {
		switch n := n.(type) {
		case TextNode:
			doc.Blocks = append(doc.Blocks, Format(n.Raw)...)
		case ImageNode:
			caption := n.Caption
			if caption == "" && n.Alt != e.PlaceholderAlt {
				caption = n.Alt
			}
			doc.Blocks = append(doc.Blocks, Figure{URL: n.URL, Alt: n.Alt, Caption: caption})
		}
	}
	return doc
}

// Parse extracts and assembles body in one step.
func (e *Extractor) Parse(body string) Document {
	return e.Assemble(e.Extract(body))
}
