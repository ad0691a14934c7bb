package explore

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary   = lipgloss.Color("#3a7bd5") // blue
	colorSecondary = lipgloss.Color("10")      // green
	colorMatch     = lipgloss.Color("#D4AF37") // gold
	colorMuted     = lipgloss.Color("8")       // gray
	colorWarn      = lipgloss.Color("11")      // yellow
	colorAccent    = lipgloss.Color("#11C3DB") // cyan
	colorHighlight = lipgloss.Color("15")      // white
)

var (
	activeBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary)

	inactiveBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorMuted)
)

var titleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight).
	Background(colorPrimary).
	Padding(0, 1)

var (
	selectedRowStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("17")).
				Foreground(colorHighlight)

	headerRowStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent)
)

// Hex dump styles
var (
	snippetMatchStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorMatch)
	snippetContextStyle = lipgloss.NewStyle().Foreground(colorMuted)
)

var (
	identifiedStyle   = lipgloss.NewStyle().Foreground(colorSecondary).Bold(true)
	unidentifiedStyle = lipgloss.NewStyle().Foreground(colorWarn)
)

var statusBarStyle = lipgloss.NewStyle().Foreground(colorMuted)

var (
	helpKeyStyle  = lipgloss.NewStyle().Foreground(colorAccent)
	helpDescStyle = lipgloss.NewStyle().Foreground(colorMuted)
)

var (
	facetLabelStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	facetSelectedStyle = lipgloss.NewStyle().Foreground(colorSecondary)
	facetCountStyle    = lipgloss.NewStyle().Foreground(colorMuted)
)

var (
	fieldLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	fieldValueStyle = lipgloss.NewStyle().Foreground(colorHighlight)
)

var modalStyle = lipgloss.NewStyle().
	Border(lipgloss.DoubleBorder()).
	BorderForeground(colorPrimary).
	Padding(1, 2)

// renderStatus returns a short styled identification status.
func renderStatus(identified bool) string {
	if identified {
		return identifiedStyle.Render("yes")
	}
	return unidentifiedStyle.Render("no")
}
