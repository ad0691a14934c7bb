package explore

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
)

type sortField int

const (
	sortByName sortField = iota
	sortByDriver
	sortByHits
	sortBySize
	sortFieldCount
)

var sortFieldNames = [sortFieldCount]string{"Name", "Driver", "Hits", "Size"}

// filesPane is the top-right table of stored files.
type filesPane struct {
	rows    []*fileRow // filtered
	allRows []*fileRow
	cursor  int
	offset  int
	width   int
	height  int
	focused bool
	sortBy  sortField
	sortAsc bool
}

func newFilesPane(rows []*fileRow) filesPane {
	fp := filesPane{
		allRows: rows,
		rows:    rows,
		sortAsc: true,
	}
	fp.sort()
	return fp
}

func (fp *filesPane) setFilteredRows(rows []*fileRow) {
	fp.rows = rows
	fp.sort()
	if fp.cursor >= len(fp.rows) {
		fp.cursor = max(0, len(fp.rows)-1)
	}
	fp.ensureVisible()
}

func (fp filesPane) selectedFile() *fileRow {
	if fp.cursor < 0 || fp.cursor >= len(fp.rows) {
		return nil
	}
	return fp.rows[fp.cursor]
}

func (fp filesPane) Update(msg tea.Msg) (filesPane, tea.Cmd) {
	if !fp.focused {
		return fp, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return fp, nil
	}
	last := max(0, len(fp.rows)-1)
	switch {
	case keyMatches(keyMsg, defaultKeys.Up):
		fp.cursor = max(fp.cursor-1, 0)
	case keyMatches(keyMsg, defaultKeys.Down):
		fp.cursor = min(fp.cursor+1, last)
	case keyMatches(keyMsg, defaultKeys.Home):
		fp.cursor = 0
	case keyMatches(keyMsg, defaultKeys.End):
		fp.cursor = last
	case keyMatches(keyMsg, defaultKeys.PageDown):
		fp.cursor = min(fp.cursor+fp.visibleRows(), last)
	case keyMatches(keyMsg, defaultKeys.PageUp):
		fp.cursor = max(fp.cursor-fp.visibleRows(), 0)
	case keyMatches(keyMsg, defaultKeys.SortNext):
		fp.sortBy = (fp.sortBy + 1) % sortFieldCount
		fp.sort()
	case keyMatches(keyMsg, defaultKeys.SortReverse):
		fp.sortAsc = !fp.sortAsc
		fp.sort()
	}
	fp.ensureVisible()
	return fp, nil
}

// sort orders rows by the current field. Ties keep the stored order.
func (fp *filesPane) sort() {
	var less func(a, b *fileRow) bool
	switch fp.sortBy {
	case sortByName:
		less = func(a, b *fileRow) bool { return a.Name < b.Name }
	case sortByDriver:
		less = func(a, b *fileRow) bool { return firstDriver(a) < firstDriver(b) }
	case sortByHits:
		less = func(a, b *fileRow) bool { return len(a.Hits) < len(b.Hits) }
	case sortBySize:
		less = func(a, b *fileRow) bool { return a.Size < b.Size }
	}
	rows := fp.rows
	sort.SliceStable(rows, func(i, j int) bool {
		if fp.sortAsc {
			return less(rows[i], rows[j])
		}
		return less(rows[j], rows[i])
	})
}

func firstDriver(f *fileRow) string {
	if len(f.Drivers) == 0 {
		return ""
	}
	return f.Drivers[0]
}

func (fp filesPane) View() string {
	if fp.width <= 0 || fp.height <= 0 {
		return ""
	}

	contentWidth := fp.width - 4
	colDrivers := min(28, contentWidth/3)
	colSize := 9
	colStatus := 4
	colName := max(10, contentWidth-colDrivers-colSize-colStatus-4)

	indicator := func(f sortField) string {
		if fp.sortBy != f {
			return ""
		}
		if fp.sortAsc {
			return " ^"
		}
		return " v"
	}

	var lines []string
	header := fmt.Sprintf(" %-*s %-*s %*s %-*s",
		colName, "Name"+indicator(sortByName),
		colDrivers, "Drivers"+indicator(sortByDriver),
		colSize, "Size"+indicator(sortBySize),
		colStatus, "ID",
	)
	lines = append(lines, headerRowStyle.Render(truncateString(header, contentWidth)))
	lines = append(lines, strings.Repeat("─", contentWidth))

	end := min(fp.offset+fp.visibleRows(), len(fp.rows))
	for i := fp.offset; i < end; i++ {
		row := fp.rows[i]
		line := fmt.Sprintf(" %-*s %-*s %*s %s",
			colName, truncateString(row.Name, colName),
			colDrivers, truncateString(strings.Join(row.Drivers, ", "), colDrivers),
			colSize, humanize.IBytes(uint64(max(row.Size, 0))),
			renderStatus(row.Identified),
		)
		if i == fp.cursor && fp.focused {
			line = selectedRowStyle.Width(contentWidth).Render(ansi.Strip(line))
		}
		lines = append(lines, padRight(line, contentWidth))
	}
	for len(lines) < fp.visibleRows()+2 {
		lines = append(lines, strings.Repeat(" ", contentWidth))
	}

	title := fmt.Sprintf(" Files (%d/%d) [sort: %s] ", len(fp.rows), len(fp.allRows), sortFieldNames[fp.sortBy])
	return paneFrame(title, strings.Join(lines, "\n"), fp.width, fp.height, fp.focused)
}

func (fp filesPane) visibleRows() int {
	return max(1, fp.height-6) // title + border + header + separator
}

func (fp *filesPane) ensureVisible() {
	if fp.cursor < fp.offset {
		fp.offset = fp.cursor
	}
	if fp.cursor >= fp.offset+fp.visibleRows() {
		fp.offset = fp.cursor - fp.visibleRows() + 1
	}
}

func (fp *filesPane) setSize(w, h int) {
	fp.width = w
	fp.height = h
}
