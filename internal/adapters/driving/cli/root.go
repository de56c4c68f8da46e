// Package cli provides the cobra command surface for Lister.
//
// The root command owns the application lifecycle: it opens the preference
// store exactly once before any command runs, threads the single store
// handle into the services, and closes it when the command finishes.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lister-cli/internal/adapters/driven/storage/file"
	"github.com/custodia-labs/lister-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/lister-cli/internal/core/ports/driven"
	"github.com/custodia-labs/lister-cli/internal/core/services"
	"github.com/custodia-labs/lister-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Store backends selectable via --store.
const (
	storeBackendFile   = "file"
	storeBackendSQLite = "sqlite"
)

// Persistent flags.
var (
	flagVerbose   bool
	flagConfigDir string
	flagStore     string
)

// Process-wide wiring. prefStore is the single handle to the preference
// container; every service gets a reference to it, never its own copy.
var (
	prefStore     driven.PreferenceStore
	layoutService *services.LayoutService
)

var rootCmd = &cobra.Command{
	Use:   "lister",
	Short: "Browse directories as a list",
	Long: `Lister is a small terminal application that browses the entries of a
directory. The list renders in a linear or grid layout; the choice is a
persisted preference shared by the CLI and the TUI.`,
	SilenceUsage:      true,
	PersistentPreRunE: initServices,
	RunE:              runTUI,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false,
		"enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "",
		"preference directory (default ~/.lister)")
	rootCmd.PersistentFlags().StringVar(&flagStore, "store", storeBackendFile,
		"preference store backend (file or sqlite)")
}

// initServices opens the preference store and builds the services once per
// process. A service injected via SetLayoutService (tests) wins.
func initServices(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(flagVerbose)

	if layoutService != nil {
		return nil
	}

	var (
		store driven.PreferenceStore
		err   error
	)
	switch flagStore {
	case storeBackendFile:
		store, err = file.NewPreferenceStore(flagConfigDir)
	case storeBackendSQLite:
		store, err = sqlite.NewPreferenceStore(flagConfigDir)
	default:
		return fmt.Errorf("unknown store backend %q (expected file or sqlite)", flagStore)
	}
	if err != nil {
		return fmt.Errorf("opening preference store: %w", err)
	}

	logger.Debug("preference store open at %s", store.Path())
	prefStore = store
	layoutService = services.NewLayoutService(store)
	return nil
}

// SetLayoutService injects a layout service, bypassing store construction.
// Used by tests.
func SetLayoutService(s *services.LayoutService) {
	layoutService = s
}

// Execute runs the root command and releases the preference store.
func Execute() {
	err := rootCmd.Execute()
	if prefStore != nil {
		if closeErr := prefStore.Close(); closeErr != nil {
			logger.Warn("closing preference store: %v", closeErr)
		}
	}
	if err != nil {
		os.Exit(1)
	}
}
