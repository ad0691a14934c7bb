package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nsfid/nsfid/pkg/explore"
	"github.com/spf13/cobra"
)

var exploreDatastore string

var exploreCmd = &cobra.Command{
	Use:   "explore",
	Short: "Interactively browse stored scan results",
	Long: `Launch a terminal UI over a scan database.

Panes:
  - Filters: facets by driver, identification status and source
  - Files: sortable table of stored files
  - Details: hits of the selected file with a hex snippet`,
	RunE: runExplore,
}

func init() {
	exploreCmd.Flags().StringVar(&exploreDatastore, "datastore", "nsfid.db", "Path to the scan database or datastore directory")
}

func runExplore(cmd *cobra.Command, args []string) error {
	model, err := explore.New(exploreDatastore)
	if err != nil {
		return fmt.Errorf("loading datastore: %w", err)
	}
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running explore TUI: %w", err)
	}
	return nil
}
