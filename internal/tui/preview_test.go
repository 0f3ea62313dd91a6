package tui

import (
	"fmt"
	"strings"
	"testing"

	"github.com/amanah-profile-site/internal/content"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

func sampleDoc() content.Document {
	body := "Pembukaan kegiatan.\n\n" +
		"![Warga berkumpul](/uploads/artikel/a.jpg)\n*Keterangan: Warga berkumpul di balai*\n\n" +
		"Penutup.\n\n" +
		"![Panen](/uploads/artikel/b.jpg)"
	return content.DefaultExtractor.Parse(body)
}

func TestPreview_OpenAndCloseFigure(t *testing.T) {
	m := press(t, NewModel("Kerja Bakti", sampleDoc()), tea.WindowSizeMsg{Width: 80, Height: 40})

	assert.Contains(t, m.View(), "Kerja Bakti")
	assert.Contains(t, m.View(), "[gambar 1] Warga berkumpul")
	assert.False(t, m.Viewer().IsOpen())

	m = press(t, m, runeKey("2"))
	img, ok := m.Viewer().Current()
	require.True(t, ok)
	assert.Equal(t, "/uploads/artikel/b.jpg", img.Src)
	assert.Equal(t, "Panen", img.Alt)
	assert.Contains(t, m.View(), "/uploads/artikel/b.jpg")

	// opening another figure replaces the shown one
	m = press(t, m, runeKey("1"))
	img, _ = m.Viewer().Current()
	assert.Equal(t, "/uploads/artikel/a.jpg", img.Src)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.Viewer().IsOpen())
}

func TestPreview_IgnoresMissingFigure(t *testing.T) {
	m := press(t, NewModel("x", sampleDoc()), runeKey("9"))
	assert.False(t, m.Viewer().IsOpen())
}

func TestPreview_QuitKeys(t *testing.T) {
	m := NewModel("x", sampleDoc())

	_, cmd := m.Update(runeKey("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	// esc closes the overlay before it quits
	m = press(t, m, runeKey("1"))
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, cmd)
}

func TestPreview_Scroll(t *testing.T) {
	var paras []string
	for i := 0; i < 30; i++ {
		paras = append(paras, fmt.Sprintf("Paragraf %d.", i))
	}
	doc := content.DefaultExtractor.Parse(strings.Join(paras, "\n\n"))

	m := press(t, NewModel("x", doc), tea.WindowSizeMsg{Width: 60, Height: 10})
	assert.Equal(t, 0, m.Offset())

	m = press(t, m, runeKey("k"))
	assert.Equal(t, 0, m.Offset(), "cannot scroll above the top")

	m = press(t, m, runeKey("j"), tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 2, m.Offset())

	m = press(t, m, runeKey("G"))
	bottom := m.Offset()
	assert.Greater(t, bottom, 2)
	m = press(t, m, runeKey("j"))
	assert.Equal(t, bottom, m.Offset(), "cannot scroll past the end")
	assert.Contains(t, m.View(), "Paragraf 29.")

	// growing the window clamps the offset
	m = press(t, m, tea.WindowSizeMsg{Width: 60, Height: 200})
	assert.Equal(t, 0, m.Offset())
}

func TestPreview_PageKeys(t *testing.T) {
	var paras []string
	for i := 0; i < 30; i++ {
		paras = append(paras, fmt.Sprintf("Paragraf %d.", i))
	}
	doc := content.DefaultExtractor.Parse(strings.Join(paras, "\n\n"))

	// 10 rows less the title and footer leaves a 6 line page
	m := press(t, NewModel("x", doc), tea.WindowSizeMsg{Width: 60, Height: 10})

	m = press(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	assert.Equal(t, 6, m.Offset())

	m = press(t, m, runeKey("f"))
	assert.Equal(t, 12, m.Offset())

	m = press(t, m, runeKey("b"))
	assert.Equal(t, 6, m.Offset())

	m = press(t, m, runeKey("g"))
	assert.Equal(t, 0, m.Offset())

	// space closes an open figure instead of paging
	m = press(t, m, runeKey("1"), tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	assert.Equal(t, 0, m.Offset())
}
