package explore

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/nsfid/nsfid/pkg/types"
)

const hexBytesPerLine = 16

// detailsPane shows the hits of the selected file.
type detailsPane struct {
	file      *fileRow
	hitCursor int
	offset    int // scroll offset
	width     int
	height    int
	focused   bool
}

func (dp *detailsPane) setFile(f *fileRow) {
	dp.file = f
	dp.hitCursor = 0
	dp.offset = 0
}

func (dp detailsPane) selectedHit() *hitRow {
	if dp.file == nil || dp.hitCursor < 0 || dp.hitCursor >= len(dp.file.Hits) {
		return nil
	}
	return dp.file.Hits[dp.hitCursor]
}

func (dp detailsPane) Update(msg tea.Msg) (detailsPane, tea.Cmd) {
	if !dp.focused {
		return dp, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return dp, nil
	}
	switch {
	case keyMatches(keyMsg, defaultKeys.Up):
		dp.offset = max(dp.offset-1, 0)
	case keyMatches(keyMsg, defaultKeys.Down):
		dp.offset++
	case keyMatches(keyMsg, defaultKeys.Left):
		if dp.hitCursor > 0 {
			dp.hitCursor--
			dp.offset = 0
		}
	case keyMatches(keyMsg, defaultKeys.Right):
		if dp.file != nil && dp.hitCursor < len(dp.file.Hits)-1 {
			dp.hitCursor++
			dp.offset = 0
		}
	case keyMatches(keyMsg, defaultKeys.Home):
		dp.offset = 0
	case keyMatches(keyMsg, defaultKeys.PageDown):
		dp.offset += dp.visibleRows()
	case keyMatches(keyMsg, defaultKeys.PageUp):
		dp.offset = max(0, dp.offset-dp.visibleRows())
	}
	return dp, nil
}

func (dp detailsPane) View() string {
	if dp.width <= 0 || dp.height <= 0 {
		return ""
	}

	contentWidth := dp.width - 4
	lines := dp.contentLines(contentWidth)

	offset := min(dp.offset, max(0, len(lines)-1))
	lines = lines[offset:]
	if len(lines) > dp.visibleRows() {
		lines = lines[:dp.visibleRows()]
	}
	for i, line := range lines {
		lines[i] = padRight(truncateString(line, contentWidth), contentWidth)
	}
	for len(lines) < dp.visibleRows() {
		lines = append(lines, strings.Repeat(" ", contentWidth))
	}

	return paneFrame(" Details ", strings.Join(lines, "\n"), dp.width, dp.height, dp.focused)
}

func (dp detailsPane) contentLines(width int) []string {
	f := dp.file
	if f == nil {
		return []string{"  No file selected"}
	}

	field := func(label, value string) string {
		return fmt.Sprintf("  %s %s", fieldLabelStyle.Render(label), fieldValueStyle.Render(value))
	}

	lines := []string{
		field("File:", f.Name),
		field("Source:", f.Source),
		field("Blob:", f.BlobID.Hex()[:12]+"..."),
		field("Size:", fmt.Sprintf("%s (%d bytes)", humanize.IBytes(uint64(max(f.Size, 0))), f.Size)),
		fmt.Sprintf("  %s %s", fieldLabelStyle.Render("Identified:"), renderStatus(f.Identified)),
		"",
	}

	h := dp.selectedHit()
	if h == nil {
		return append(lines, "  No driver matched")
	}

	lines = append(lines,
		"  "+headerRowStyle.Render(fmt.Sprintf("Hit %d/%d (h/l to navigate)", dp.hitCursor+1, len(f.Hits))),
		"  "+strings.Repeat("─", max(0, min(40, width-4))),
		field("Driver:", h.Driver),
		field("Signature:", fmt.Sprintf("%d", h.Signature+1)),
		field("Offset:", fmt.Sprintf("%d (0x%X)", h.Offset, h.Offset)),
		"",
	)
	return append(lines, hexDump(h.Offset, h.Snippet)...)
}

// hexDump renders a snippet as offset-prefixed hex rows. Bytes at and
// after the hit offset up to the end of Matching are highlighted.
func hexDump(hitOffset int64, s types.Snippet) []string {
	data := make([]byte, 0, len(s.Before)+len(s.Matching)+len(s.After))
	data = append(data, s.Before...)
	data = append(data, s.Matching...)
	data = append(data, s.After...)
	if len(data) == 0 {
		return []string{"  (no snippet stored)"}
	}

	start := hitOffset - int64(len(s.Before))
	matchFrom := len(s.Before)
	matchTo := matchFrom + len(s.Matching)

	var lines []string
	for row := 0; row < len(data); row += hexBytesPerLine {
		var b strings.Builder
		fmt.Fprintf(&b, "  %08X ", start+int64(row))
		for i := row; i < row+hexBytesPerLine; i++ {
			if i >= len(data) {
				b.WriteString("   ")
				continue
			}
			cell := fmt.Sprintf(" %02X", data[i])
			if i >= matchFrom && i < matchTo {
				b.WriteString(snippetMatchStyle.Render(cell))
			} else {
				b.WriteString(snippetContextStyle.Render(cell))
			}
		}
		lines = append(lines, b.String())
	}
	return lines
}

func (dp detailsPane) visibleRows() int {
	return max(1, dp.height-4)
}

func (dp *detailsPane) setSize(w, h int) {
	dp.width = w
	dp.height = h
}
