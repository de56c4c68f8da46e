package cli

import (
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lister-cli/internal/core/domain"
)

var layoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "Manage the list layout preference",
	Long: `View and change how the list view arranges its entries.

Available layouts:
  linear - one entry per row (default)
  grid   - entries packed into columns`,
	RunE: runLayoutShow,
}

var layoutShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current layout",
	RunE:  runLayoutShow,
}

var layoutSetCmd = &cobra.Command{
	Use:   "set <linear|grid>",
	Short: "Set the layout",
	Args:  cobra.ExactArgs(1),
	RunE:  runLayoutSet,
}

var layoutWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow layout changes until interrupted",
	Long: `Subscribe to the layout preference and print every change as it is
persisted, including changes made by other lister commands. Stop with ctrl-c.`,
	RunE: runLayoutWatch,
}

func init() {
	layoutCmd.AddCommand(layoutShowCmd)
	layoutCmd.AddCommand(layoutSetCmd)
	layoutCmd.AddCommand(layoutWatchCmd)
	rootCmd.AddCommand(layoutCmd)
}

func runLayoutShow(cmd *cobra.Command, _ []string) error {
	if layoutService == nil {
		return errors.New("layout service not configured")
	}

	isLinear, err := layoutService.Current(cmd.Context())
	if err != nil {
		return err
	}

	cmd.Printf("Layout: %s\n", domain.LayoutFromBool(isLinear).Description())
	return nil
}

func runLayoutSet(cmd *cobra.Command, args []string) error {
	if layoutService == nil {
		return errors.New("layout service not configured")
	}

	layout, err := domain.ParseLayout(args[0])
	if err != nil {
		return errors.New("invalid layout (expected linear or grid)")
	}

	if err := layoutService.SaveLayoutPreferences(cmd.Context(), layout.IsLinear()); err != nil {
		return err
	}

	cmd.Printf("Layout set to %s\n", layout)
	return nil
}

func runLayoutWatch(cmd *cobra.Command, _ []string) error {
	if layoutService == nil {
		return errors.New("layout service not configured")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sub, err := layoutService.IsLinearLayout(ctx)
	if err != nil {
		return err
	}
	defer sub.Close()

	for isLinear := range sub.Updates() {
		cmd.Printf("%s\n", domain.LayoutFromBool(isLinear))
	}

	return sub.Err()
}
