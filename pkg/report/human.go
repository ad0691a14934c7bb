package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nsfid/nsfid/pkg/registry"
	"github.com/nsfid/nsfid/pkg/types"
)

// Column widths of the listing; names are cut to one less than the width.
const (
	nameWidth   = 58
	driverWidth = 28
)

// Options control what the human report lists.
type Options struct {
	// ListIdentified prints one line per reported driver of each file.
	ListIdentified bool

	// ListUnidentified prints files no driver matched.
	ListUnidentified bool

	// Verbose appends the matching signature to drivers with alternatives.
	Verbose bool

	// Color enables ANSI colors.
	Color bool
}

// Human writes the classic nsfid listing: one line per identified driver,
// then a driver table and file tallies.
type Human struct {
	w      io.Writer
	opts   Options
	styles *styles
}

// NewHuman creates a human report writer.
func NewHuman(w io.Writer, opts Options) *Human {
	return &Human{w: w, opts: opts, styles: newStyles(opts.Color)}
}

// Header describes the run before any file is listed.
func (h *Human) Header(configPath string, fileTypes []string, scanFilter registry.NameSet) {
	if configPath != "" {
		fmt.Fprintf(h.w, "Reading configuration file %s\n", configPath)
	}
	if len(fileTypes) == 0 {
		fmt.Fprintln(h.w, "Scanning all filetypes")
	} else {
		fmt.Fprintf(h.w, "Scanning filetypes %s\n", strings.Join(fileTypes, ", "))
	}
	if !scanFilter.Empty() {
		fmt.Fprintf(h.w, "Scanning for drivers %s\n", strings.Join(scanFilter.Names(), ", "))
	}
	fmt.Fprintln(h.w)
}

// File lists one scanned file. view decides which drivers are shown.
func (h *Human) File(result *types.Result, view View) {
	if !result.Identified {
		if h.opts.ListUnidentified {
			fmt.Fprintf(h.w, "%s %s\n", pad(result.Name, nameWidth), h.styles.unidentified.Sprint("*Unidentified*"))
		}
		return
	}
	if !h.opts.ListIdentified {
		return
	}

	for i, hit := range view.ReportableHits(result) {
		name := result.Name
		if i > 0 {
			name = ""
		}
		line := pad(name, nameWidth) + " " + h.styles.driver.Sprint(hit.Driver)
		if h.opts.Verbose && showSignature(view, hit.Driver) {
			line += h.styles.meta.Sprintf("   (id %d)", hit.Signature)
		}
		fmt.Fprintln(h.w, line)
	}
}

// Summary prints the driver table (only when something was identified)
// and the file tallies.
func (h *Human) Summary(found []registry.DriverCount, totals registry.Totals) {
	if totals.Identified > 0 {
		fmt.Fprintf(h.w, "\n%s\n", h.styles.heading.Sprint("Found drivers:"))
		for _, d := range found {
			fmt.Fprintf(h.w, "%s %s\n", pad(d.Name, driverWidth), h.styles.count.Sprint(d.Files))
		}
	}

	fmt.Fprintf(h.w, "\nFiles examined:  %d\n", totals.Scanned)
	fmt.Fprintf(h.w, "Identified:      %d\n", totals.Identified)
	fmt.Fprintf(h.w, "Unidentified:    %d\n", totals.Unidentified)
	if totals.Failed > 0 {
		fmt.Fprintf(h.w, "Unreadable:      %d\n", totals.Failed)
	}
}

// Finish prints the summary.
func (h *Human) Finish(found []registry.DriverCount, totals registry.Totals) error {
	h.Summary(found, totals)
	return nil
}

// showSignature reports whether a driver has alternatives worth telling
// apart. Unknown counts are shown.
func showSignature(view View, driver string) bool {
	n := view.Alternatives(driver)
	return n == 0 || n > 1
}

// pad left-aligns s in a field of width, cutting it to width-1 bytes.
func pad(s string, width int) string {
	if len(s) > width-1 {
		s = s[:width-1]
	}
	return fmt.Sprintf("%-*s", width, s)
}
