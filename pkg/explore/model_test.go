package explore

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/nsfid/nsfid/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testModel(t *testing.T) Model {
	t.Helper()
	m := newModel(&exploreData{files: sampleFiles()})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return updated.(Model)
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "f1":
			msg = tea.KeyMsg{Type: tea.KeyF1}
		case "f7":
			msg = tea.KeyMsg{Type: tea.KeyF7}
		case "ctrl+r":
			msg = tea.KeyMsg{Type: tea.KeyCtrlR}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		updated, _ := m.Update(msg)
		m = updated.(Model)
	}
	return m
}

func TestModel_InitialState(t *testing.T) {
	m := testModel(t)

	assert.Equal(t, paneFiles, m.focus)
	assert.Len(t, m.files.rows, 5)
	require.NotNil(t, m.details.file)
	assert.Equal(t, "a.nsf", m.details.file.Name)

	view := ansi.Strip(m.View())
	assert.Contains(t, view, "Filters")
	assert.Contains(t, view, "Files (5/5)")
	assert.Contains(t, view, "5 files | 5 shown")
}

func TestModel_LoadingView(t *testing.T) {
	m := newModel(&exploreData{})
	assert.Equal(t, "Loading...", m.View())
}

func TestModel_Navigation(t *testing.T) {
	m := press(t, testModel(t), "j", "j")
	assert.Equal(t, "c.sid", m.files.selectedFile().Name)
	assert.Equal(t, "c.sid", m.details.file.Name)

	m = press(t, m, "G")
	assert.Equal(t, "e.nsf", m.details.file.Name)

	m = press(t, m, "g")
	assert.Equal(t, "a.nsf", m.details.file.Name)
}

func TestModel_FocusCycle(t *testing.T) {
	m := press(t, testModel(t), "tab")
	assert.Equal(t, paneDetails, m.focus)
	m = press(t, m, "tab")
	assert.Equal(t, paneFilters, m.focus)

	m = press(t, m, "f7")
	assert.False(t, m.showFilters)
	assert.Equal(t, paneFiles, m.focus)
	m = press(t, m, "tab", "tab")
	assert.Equal(t, paneFiles, m.focus, "hidden filter pane is skipped")
}

func TestModel_ToggleFilter(t *testing.T) {
	m := press(t, testModel(t), "f1")
	require.Equal(t, paneFilters, m.focus)

	// Item 0 is the Driver header, item 1 the most frequent driver.
	m = press(t, m, "j", "x")
	assert.Len(t, m.files.rows, 3)
	for _, f := range m.files.rows {
		assert.Contains(t, f.Drivers, "Hubbard")
	}
	assert.Contains(t, ansi.Strip(m.View()), "Files (3/5)")

	m = press(t, m, "ctrl+r")
	assert.Len(t, m.files.rows, 5)
}

func TestModel_CollapseFacet(t *testing.T) {
	m := press(t, testModel(t), "f1")
	before := len(m.filters.items)
	m = press(t, m, "x")
	assert.Len(t, m.filters.items, before-2)
	m = press(t, m, "x")
	assert.Len(t, m.filters.items, before)
}

func TestModel_Sort(t *testing.T) {
	m := press(t, testModel(t), "S")
	assert.Equal(t, "e.nsf", m.files.rows[0].Name)

	m = press(t, m, "S", "s")
	assert.Equal(t, sortByDriver, m.files.sortBy)
	assert.Equal(t, "d.sid", m.files.rows[0].Name, "unidentified sorts first")
}

func TestModel_DetailsHits(t *testing.T) {
	m := press(t, testModel(t), "j", "d")
	require.Equal(t, "b.nsf", m.details.file.Name)
	assert.Equal(t, 0, m.details.hitCursor)

	m.details.file.Hits = []*hitRow{
		{Driver: "Galway", Offset: 0x10, Snippet: types.Snippet{Matching: []byte{0x4C}}},
		{Driver: "Hubbard", Signature: 1, Offset: 0x20},
	}
	m = press(t, m, "l")
	assert.Equal(t, "Hubbard", m.details.selectedHit().Driver)
	m = press(t, m, "l")
	assert.Equal(t, 1, m.details.hitCursor, "stays on last hit")
	m = press(t, m, "h")
	assert.Equal(t, "Galway", m.details.selectedHit().Driver)

	view := ansi.Strip(m.View())
	assert.Contains(t, view, "Hit 1/2")
	assert.Contains(t, view, "16 (0x10)")
}

func TestModel_HelpOverlay(t *testing.T) {
	m := press(t, testModel(t), "?")
	assert.True(t, m.showHelp)
	assert.Contains(t, ansi.Strip(m.View()), "reverse sort")

	m = press(t, m, "q")
	assert.False(t, m.showHelp)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestHexDump(t *testing.T) {
	lines := hexDump(0x12, types.Snippet{
		Before:   []byte{0x01, 0x02},
		Matching: []byte{0xA9, 0x00},
		After:    []byte{0x8D},
	})
	require.Len(t, lines, 1)
	line := ansi.Strip(lines[0])
	assert.True(t, strings.HasPrefix(line, "  00000010 "), line)
	assert.Contains(t, line, " 01 02 A9 00 8D")

	assert.Equal(t, []string{"  (no snippet stored)"}, hexDump(0, types.Snippet{}))
}
