// Package tui renders an article in the terminal with the same figure
// overlay the web page offers.
package tui

import (
	"fmt"
	"strings"

	"github.com/amanah-profile-site/internal/content"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).MarginBottom(1)
	footerStyle = lipgloss.NewStyle().Faint(true)
	overlayBox  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(1, 2)
	overlayHint = lipgloss.NewStyle().Faint(true).Italic(true)
)

// chrome is the number of rows taken by the title and footer.
const chrome = 4

// Model is a scrollable article preview. Number keys open the matching
// figure in a viewer overlay; esc closes it.
type Model struct {
	title   string
	doc     content.Document
	figures []content.Figure
	viewer  *content.Viewer

	width  int
	height int
	vp     viewport.Model
}

// NewModel builds a preview for the given document.
func NewModel(title string, doc content.Document) Model {
	m := Model{
		title:   title,
		doc:     doc,
		figures: doc.Figures(),
		viewer:  &content.Viewer{},
		width:   80,
		height:  24,
	}
	m.vp = viewport.New(m.width, m.bodyHeight())
	m.layout()
	return m
}

// Run starts the preview on the alternate screen and blocks until quit.
func Run(title string, doc content.Document) error {
	_, err := tea.NewProgram(NewModel(title, doc), tea.WithAltScreen()).Run()
	return err
}

// Viewer exposes the overlay state.
func (m Model) Viewer() *content.Viewer { return m.viewer }

// Offset returns the first visible body line.
func (m Model) Offset() int { return m.vp.YOffset }

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil
	case tea.KeyMsg:
		key := msg.String()
		if m.viewer.IsOpen() {
			switch key {
			case "esc", "enter", " ":
				m.viewer.Close()
			case "q", "ctrl+c":
				return m, tea.Quit
			default:
				m.openFigure(key)
			}
			return m, nil
		}
		switch key {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "home", "g":
			m.vp.GotoTop()
			return m, nil
		case "end", "G":
			m.vp.GotoBottom()
			return m, nil
		}
		if m.openFigure(key) {
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

// openFigure opens figure N for keys "1" through "9".
func (m *Model) openFigure(key string) bool {
	if len(key) != 1 || key[0] < '1' || key[0] > '9' {
		return false
	}
	idx := int(key[0] - '1')
	if idx >= len(m.figures) {
		return false
	}
	m.viewer.OpenFigure(m.figures[idx])
	return true
}

// layout re-renders the document for the current width and keeps the
// scroll position inside the new content.
func (m *Model) layout() {
	m.vp.Width = m.width
	m.vp.Height = m.bodyHeight()
	m.vp.SetContent(content.RenderTerminal(m.doc, m.width))
	m.vp.SetYOffset(m.vp.YOffset)
}

func (m Model) bodyHeight() int {
	h := m.height - chrome
	if h < 1 {
		h = 1
	}
	return h
}

func (m Model) View() string {
	if img, ok := m.viewer.Current(); ok {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.overlay(img))
	}
	return titleStyle.Render(m.title) + "\n" + m.vp.View() + "\n\n" + m.footer()
}

func (m Model) overlay(img content.ViewedImage) string {
	alt := img.Alt
	if alt == "" {
		alt = "(tanpa keterangan)"
	}
	box := overlayBox
	if m.width > 8 {
		box = box.MaxWidth(m.width - 4)
	}
	return box.Render(lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(alt),
		img.Src,
		"",
		overlayHint.Render("esc untuk menutup"),
	))
}

func (m Model) footer() string {
	left := "↑/↓ gulir • 1-9 buka gambar • q keluar"
	right := fmt.Sprintf("%d gambar • %3.f%% ", len(m.figures), m.vp.ScrollPercent()*100)
	space := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if space < 1 {
		space = 1
	}
	return footerStyle.Render(left + strings.Repeat(" ", space) + right)
}
