package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/lister-cli/internal/adapters/driving/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui [dir]",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for Lister.

The TUI browses the entries of a directory (the current directory by
default) in the persisted layout.

Controls:
  ↑/k, ↓/j - Navigate entries
  g        - Toggle linear/grid layout
  ?        - Toggle help
  q        - Quit`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	if layoutService == nil {
		return errors.New("layout service not configured")
	}

	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	model, err := tui.New(layoutService, dir)
	if err != nil {
		return fmt.Errorf("starting TUI: %w", err)
	}

	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}

	return nil
}
