package explore

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type focusedPane int

const (
	paneFilters focusedPane = iota
	paneFiles
	paneDetails
)

// Model is the root Bubble Tea model for browsing stored results.
type Model struct {
	data    *exploreData
	filters filterPane
	files   filesPane
	details detailsPane

	focus       focusedPane
	showHelp    bool
	helpOffset  int
	showFilters bool

	width  int
	height int
}

// New loads stored results from a scan database or datastore directory.
func New(datastorePath string) (Model, error) {
	data, err := loadData(datastorePath)
	if err != nil {
		return Model{}, err
	}
	return newModel(data), nil
}

func newModel(data *exploreData) Model {
	m := Model{
		data:        data,
		filters:     newFilterPane(buildFacets(data.files)),
		files:       newFilesPane(append([]*fileRow(nil), data.files...)),
		showFilters: true,
	}
	m.setFocus(paneFiles)
	m.details.setFile(m.files.selectedFile())
	return m
}

// Close releases the underlying store.
func (m Model) Close() error {
	return m.data.close()
}

func (m Model) Init() tea.Cmd {
	return tea.SetWindowTitle("nsfid explore")
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil

	case tea.MouseMsg:
		if m.showHelp || msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		m.handleMouseClick(msg.X, msg.Y)
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			m.updateHelp(msg)
			return m, nil
		}

		switch {
		case keyMatches(msg, defaultKeys.ForceQuit), keyMatches(msg, defaultKeys.Quit):
			return m, tea.Quit
		case keyMatches(msg, defaultKeys.ToggleHelp):
			m.showHelp = true
			m.helpOffset = 0
			return m, nil
		case keyMatches(msg, defaultKeys.ToggleFilters):
			m.showFilters = !m.showFilters
			if !m.showFilters && m.focus == paneFilters {
				m.setFocus(paneFiles)
			}
			m.updateLayout()
			return m, nil
		case keyMatches(msg, defaultKeys.FocusFilters):
			if m.showFilters {
				m.setFocus(paneFilters)
			}
			return m, nil
		case keyMatches(msg, defaultKeys.FocusFiles):
			m.setFocus(paneFiles)
			return m, nil
		case keyMatches(msg, defaultKeys.FocusDetails):
			m.setFocus(paneDetails)
			return m, nil
		case keyMatches(msg, defaultKeys.NextPane):
			m.cycleFocus()
			return m, nil
		}

		var cmd tea.Cmd
		switch m.focus {
		case paneFilters:
			m.filters, cmd = m.filters.Update(msg)
			m.applyFilters()
		case paneFiles:
			prev := m.files.selectedFile()
			m.files, cmd = m.files.Update(msg)
			if f := m.files.selectedFile(); f != prev {
				m.details.setFile(f)
			}
		case paneDetails:
			m.details, cmd = m.details.Update(msg)
		}
		return m, cmd
	}

	return m, nil
}

func (m *Model) updateHelp(msg tea.KeyMsg) {
	switch {
	case keyMatches(msg, defaultKeys.Quit),
		keyMatches(msg, defaultKeys.ForceQuit),
		keyMatches(msg, defaultKeys.ToggleHelp),
		msg.String() == "esc":
		m.showHelp = false
	case keyMatches(msg, defaultKeys.Down):
		m.helpOffset++
	case keyMatches(msg, defaultKeys.Up):
		m.helpOffset = max(m.helpOffset-1, 0)
	}
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	var main string
	data := lipgloss.JoinVertical(lipgloss.Left, m.files.View(), m.details.View())
	if m.showFilters {
		main = lipgloss.JoinHorizontal(lipgloss.Top, m.filters.View(), data)
	} else {
		main = data
	}
	return lipgloss.JoinVertical(lipgloss.Left, main, m.renderStatusBar())
}

// layout returns the pane geometry for the current window size.
func (m Model) layout() (filtersWidth, filesHeight, contentHeight int) {
	contentHeight = m.height - 2 // status bar + padding
	if m.showFilters {
		filtersWidth = min(m.width*30/100, 40)
	}
	filesHeight = contentHeight * 45 / 100
	return filtersWidth, filesHeight, contentHeight
}

func (m *Model) updateLayout() {
	filtersWidth, filesHeight, contentHeight := m.layout()
	dataWidth := m.width - filtersWidth
	m.filters.setSize(filtersWidth, contentHeight)
	m.files.setSize(dataWidth, filesHeight)
	m.details.setSize(dataWidth, contentHeight-filesHeight)
	m.files.ensureVisible()
	m.filters.ensureVisible()
}

func (m Model) renderStatusBar() string {
	left := statusBarStyle.Render(fmt.Sprintf(" %d files | %d shown", len(m.data.files), len(m.files.rows)))

	hints := [][2]string{
		{"j/k", "nav"}, {"tab", "pane"}, {"h/l", "hit"}, {"x", "toggle"},
		{"s", "sort"}, {"F7", "filters"}, {"?", "help"}, {"q", "quit"},
	}
	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = helpKeyStyle.Render(h[0]) + ":" + helpDescStyle.Render(h[1])
	}
	right := strings.Join(parts, "  ")

	gap := max(0, m.width-lipgloss.Width(left)-lipgloss.Width(right))
	return left + strings.Repeat(" ", gap) + right
}

func (m Model) renderHelp() string {
	var lines []string
	for _, b := range helpBindings() {
		h := b.Help()
		lines = append(lines, fmt.Sprintf("  %-10s %s", helpKeyStyle.Render(h.Key), helpDescStyle.Render(h.Desc)))
	}
	offset := min(m.helpOffset, max(0, len(lines)-1))
	height := max(1, m.height*80/100-4)
	lines = lines[offset:min(offset+height, len(lines))]

	box := modalStyle.
		Width(max(20, m.width*60/100)).
		Render(strings.Join(lines, "\n"))
	view := lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(" Help (q to close) "), box)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, view)
}

func (m *Model) setFocus(p focusedPane) {
	m.focus = p
	m.filters.focused = p == paneFilters
	m.files.focused = p == paneFiles
	m.details.focused = p == paneDetails
}

func (m *Model) cycleFocus() {
	next := (m.focus + 1) % 3
	if next == paneFilters && !m.showFilters {
		next = paneFiles
	}
	m.setFocus(next)
}

func (m *Model) handleMouseClick(x, y int) {
	filtersWidth, filesHeight, contentHeight := m.layout()
	if y >= contentHeight {
		return
	}

	switch {
	case x < filtersWidth:
		m.setFocus(paneFilters)
		idx := y - 2 + m.filters.offset // title + border
		if idx >= m.filters.offset && idx < len(m.filters.items) {
			m.filters.cursor = idx
			m.filters.toggleCurrent()
			m.applyFilters()
		}
	case y < filesHeight:
		m.setFocus(paneFiles)
		idx := y - 4 + m.files.offset // title + border + header + separator
		if idx >= m.files.offset && idx < len(m.files.rows) {
			m.files.cursor = idx
			m.details.setFile(m.files.selectedFile())
		}
	default:
		m.setFocus(paneDetails)
	}
}

// applyFilters recomputes the visible files and facet counts.
func (m *Model) applyFilters() {
	facets := m.filters.facets
	filtered := make([]*fileRow, 0, len(m.data.files))
	for _, f := range m.data.files {
		if facets.matchesFile(f) {
			filtered = append(filtered, f)
		}
	}
	prev := m.files.selectedFile()
	m.files.setFilteredRows(filtered)
	facets.updateCounts(m.data.files)

	if f := m.files.selectedFile(); f != prev {
		m.details.setFile(f)
	}
}
