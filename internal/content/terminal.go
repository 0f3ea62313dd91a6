package content

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	strongStyle  = lipgloss.NewStyle().Bold(true)
	emStyle      = lipgloss.NewStyle().Italic(true)
	linkStyle    = lipgloss.NewStyle().Underline(true).Foreground(lipgloss.Color("39"))
	quoteStyle   = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderForeground(lipgloss.Color("240")).
			PaddingLeft(1).
			Italic(true)
	figureStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)
	captionStyle = lipgloss.NewStyle().Faint(true).Italic(true)
)

// RenderTerminal renders the document for a terminal of the given width.
// Figures are numbered from 1 so a viewer can open them by index.
func RenderTerminal(doc Document, width int) string {
	if width <= 0 {
		width = 80
	}
	wrap := lipgloss.NewStyle().Width(width)

	var parts []string
	figure := 0
	for _, blk := range doc.Blocks {
		switch blk := blk.(type) {
		case Heading:
			prefix := strings.Repeat("#", blk.Level) + " "
			parts = append(parts, headingStyle.Render(prefix+PlainText(blk.Content)))
		case Paragraph:
			parts = append(parts, wrap.Render(terminalLines(blk.Lines)))
		case List:
			var items []string
			for i, item := range blk.Items {
				bullet := "•"
				if blk.Ordered {
					bullet = fmt.Sprintf("%d.", blk.Start+i)
				}
				items = append(items, bullet+" "+terminalInlines(item))
			}
			parts = append(parts, wrap.Render(strings.Join(items, "\n")))
		case Blockquote:
			parts = append(parts, quoteStyle.Width(width-2).Render(terminalLines(blk.Lines)))
		case Divider:
			parts = append(parts, strings.Repeat("─", width))
		case Figure:
			figure++
			label := fmt.Sprintf("[gambar %d] %s", figure, blk.Alt)
			if blk.Caption != "" {
				label += "\n" + captionStyle.Render(blk.Caption)
			}
			parts = append(parts, figureStyle.Render(label))
		}
	}
	return strings.Join(parts, "\n\n")
}

func terminalLines(lines [][]Inline) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = terminalInlines(line)
	}
	return strings.Join(out, "\n")
}

func terminalInlines(inlines []Inline) string {
	var b strings.Builder
	for _, in := range inlines {
		switch in := in.(type) {
		case Text:
			b.WriteString(in.Value)
		case Strong:
			b.WriteString(strongStyle.Render(terminalInlines(in.Children)))
		case Emphasis:
			b.WriteString(emStyle.Render(terminalInlines(in.Children)))
		case Link:
			b.WriteString(linkStyle.Render(terminalInlines(in.Children)))
			b.WriteString(" (" + in.Href + ")")
		}
	}
	return b.String()
}
