package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lister-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/lister-cli/internal/core/services"
)

// execute runs the root command with args against an injected in-memory
// service and returns captured output.
func execute(t *testing.T, service *services.LayoutService, args ...string) (string, error) {
	t.Helper()

	prev := layoutService
	layoutService = service
	t.Cleanup(func() { layoutService = prev })

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func newTestService(t *testing.T) *services.LayoutService {
	t.Helper()
	store := memory.NewPreferenceStore()
	t.Cleanup(func() { store.Close() })
	return services.NewLayoutService(store)
}

func TestLayoutShow_Default(t *testing.T) {
	service := newTestService(t)

	out, err := execute(t, service, "layout", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "Linear (one entry per row)")
}

func TestLayoutSet_ThenShow(t *testing.T) {
	service := newTestService(t)

	out, err := execute(t, service, "layout", "set", "grid")
	require.NoError(t, err)
	assert.Contains(t, out, "Layout set to grid")

	out, err = execute(t, service, "layout", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Grid (entries packed into columns)")
}

func TestLayoutSet_InvalidInput(t *testing.T) {
	service := newTestService(t)

	_, err := execute(t, service, "layout", "set", "tiles")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid layout")
}

func TestLayout_DefaultsToShow(t *testing.T) {
	service := newTestService(t)

	out, err := execute(t, service, "layout")

	require.NoError(t, err)
	assert.Contains(t, out, "Layout:")
}

func TestVersionCommand(t *testing.T) {
	service := newTestService(t)

	out, err := execute(t, service, "version")

	require.NoError(t, err)
	assert.Contains(t, out, "lister version")
}
