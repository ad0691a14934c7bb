package report

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// styles holds color formatters for human output.
type styles struct {
	heading      *color.Color
	driver       *color.Color
	unidentified *color.Color
	count        *color.Color
	meta         *color.Color
}

// newStyles creates color formatters. enabled=false disables all colors.
func newStyles(enabled bool) *styles {
	s := &styles{
		heading:      color.New(color.Bold),
		driver:       color.New(color.Bold, color.FgHiBlue),
		unidentified: color.New(color.FgYellow),
		count:        color.New(color.FgHiGreen),
		meta:         color.New(color.FgHiBlack),
	}

	if !enabled {
		s.heading.DisableColor()
		s.driver.DisableColor()
		s.unidentified.DisableColor()
		s.count.DisableColor()
		s.meta.DisableColor()
	} else {
		s.heading.EnableColor()
		s.driver.EnableColor()
		s.unidentified.EnableColor()
		s.count.EnableColor()
		s.meta.EnableColor()
	}

	return s
}

// ColorEnabled resolves a --color mode. "auto" enables color only when out
// is a terminal and NO_COLOR is unset.
func ColorEnabled(mode string, out *os.File) (bool, error) {
	switch mode {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "auto", "":
		if os.Getenv("NO_COLOR") != "" || out == nil {
			return false, nil
		}
		return term.IsTerminal(int(out.Fd())), nil
	default:
		return false, fmt.Errorf("unknown color mode: %s", mode)
	}
}
