package explore

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// filterPane is the left-side facet tree.
type filterPane struct {
	facets    *facetState
	collapsed map[facetID]bool
	items     []filterItem // flattened tree
	cursor    int
	offset    int
	width     int
	height    int
	focused   bool
}

type filterItem struct {
	Header   bool
	Label    string
	FacetID  facetID
	ValueIdx int // index into facets.Values[FacetID]
}

func newFilterPane(facets *facetState) filterPane {
	fp := filterPane{
		facets:    facets,
		collapsed: make(map[facetID]bool),
	}
	fp.rebuildItems()
	return fp
}

// rebuildItems flattens the facet tree, skipping facets with no values.
func (fp *filterPane) rebuildItems() {
	fp.items = fp.items[:0]
	for _, def := range facetDefs {
		values := fp.facets.Values[def.ID]
		if len(values) == 0 {
			continue
		}
		fp.items = append(fp.items, filterItem{Header: true, Label: def.Label, FacetID: def.ID})
		if fp.collapsed[def.ID] {
			continue
		}
		for i, v := range values {
			fp.items = append(fp.items, filterItem{Label: v.Value, FacetID: def.ID, ValueIdx: i})
		}
	}
	if fp.cursor >= len(fp.items) {
		fp.cursor = max(0, len(fp.items)-1)
	}
}

func (fp filterPane) Update(msg tea.Msg) (filterPane, tea.Cmd) {
	if !fp.focused {
		return fp, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return fp, nil
	}
	switch {
	case keyMatches(keyMsg, defaultKeys.Up):
		fp.cursor = max(fp.cursor-1, 0)
	case keyMatches(keyMsg, defaultKeys.Down):
		fp.cursor = max(0, min(fp.cursor+1, len(fp.items)-1))
	case keyMatches(keyMsg, defaultKeys.Home):
		fp.cursor = 0
	case keyMatches(keyMsg, defaultKeys.End):
		fp.cursor = max(0, len(fp.items)-1)
	case keyMatches(keyMsg, defaultKeys.PageDown):
		fp.cursor = max(0, min(fp.cursor+fp.visibleRows(), len(fp.items)-1))
	case keyMatches(keyMsg, defaultKeys.PageUp):
		fp.cursor = max(fp.cursor-fp.visibleRows(), 0)
	case keyMatches(keyMsg, defaultKeys.ToggleFilter):
		fp.toggleCurrent()
	case keyMatches(keyMsg, defaultKeys.ResetFilter):
		fp.facets.resetAll()
	}
	fp.ensureVisible()
	return fp, nil
}

// toggleCurrent collapses a facet header or flips a value's selection.
func (fp *filterPane) toggleCurrent() {
	if fp.cursor < 0 || fp.cursor >= len(fp.items) {
		return
	}
	item := fp.items[fp.cursor]
	if item.Header {
		fp.collapsed[item.FacetID] = !fp.collapsed[item.FacetID]
		fp.rebuildItems()
		return
	}
	values := fp.facets.Values[item.FacetID]
	if item.ValueIdx < len(values) {
		values[item.ValueIdx].Selected = !values[item.ValueIdx].Selected
	}
}

func (fp filterPane) View() string {
	if fp.width <= 0 || fp.height <= 0 {
		return ""
	}

	inner := fp.width - 2
	var lines []string
	end := min(fp.offset+fp.visibleRows(), len(fp.items))
	for i := fp.offset; i < end; i++ {
		item := fp.items[i]

		var line string
		if item.Header {
			arrow := "▾"
			if fp.collapsed[item.FacetID] {
				arrow = "▸"
			}
			line = facetLabelStyle.Render(fmt.Sprintf(" %s %s", arrow, item.Label))
		} else {
			v := fp.facets.Values[item.FacetID][item.ValueIdx]
			label := truncateString(v.Value, inner-12)
			count := facetCountStyle.Render(fmt.Sprintf("(%d)", v.Count))
			if v.Selected {
				line = fmt.Sprintf("   %s %s %s", facetSelectedStyle.Render("+"), facetSelectedStyle.Render(label), count)
			} else {
				line = fmt.Sprintf("     %s %s", label, count)
			}
		}

		if i == fp.cursor && fp.focused {
			line = selectedRowStyle.Width(inner).Render(ansi.Strip(line))
		}
		lines = append(lines, padRight(line, inner))
	}
	for len(lines) < fp.visibleRows() {
		lines = append(lines, strings.Repeat(" ", inner))
	}

	return paneFrame(" Filters ", strings.Join(lines, "\n"), fp.width, fp.height, fp.focused)
}

func (fp filterPane) visibleRows() int {
	return max(1, fp.height-4) // title + border
}

func (fp *filterPane) ensureVisible() {
	if fp.cursor < fp.offset {
		fp.offset = fp.cursor
	}
	if fp.cursor >= fp.offset+fp.visibleRows() {
		fp.offset = fp.cursor - fp.visibleRows() + 1
	}
}

func (fp *filterPane) setSize(w, h int) {
	fp.width = w
	fp.height = h
}

// paneFrame renders a titled, bordered pane.
func paneFrame(title, body string, width, height int, focused bool) string {
	border := inactiveBorderStyle
	if focused {
		border = activeBorderStyle
	}
	content := border.
		Width(width - 2).
		Height(height - 3).
		Render(body)
	return lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), content)
}

func keyMatches(msg tea.KeyMsg, binding key.Binding) bool {
	return key.Matches(msg, binding)
}

func truncateString(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	return ansi.Truncate(s, maxLen, "...")
}

func padRight(s string, width int) string {
	visLen := lipgloss.Width(s)
	if visLen >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visLen)
}
