package tui

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lister-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/lister-cli/internal/core/services"
)

// newTestModel builds a model over a temp directory with a few entries.
func newTestModel(t *testing.T) *Model {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "alpha.txt"), []byte("a"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "beta.txt"), []byte("b"), 0600))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0700))

	store := memory.NewPreferenceStore()
	t.Cleanup(func() { store.Close() })
	service := services.NewLayoutService(store)

	model, err := New(service, dir)
	require.NoError(t, err)
	t.Cleanup(func() {
		model.cancel()
		model.sub.Close()
	})
	return model
}

func TestNew_ReadsEntries(t *testing.T) {
	model := newTestModel(t)

	require.Len(t, model.entries, 3)
	assert.True(t, model.isLinear, "default layout is linear")
}

func TestNew_MissingDirectory(t *testing.T) {
	store := memory.NewPreferenceStore()
	defer store.Close()
	service := services.NewLayoutService(store)

	_, err := New(service, filepath.Join(t.TempDir(), "nope"))

	assert.Error(t, err)
}

func TestUpdate_Navigation(t *testing.T) {
	model := newTestModel(t)

	_, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	assert.Equal(t, 1, model.selected)

	_, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	_, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	assert.Equal(t, 2, model.selected, "selection stops at the last entry")

	_, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	assert.Equal(t, 1, model.selected)
}

func TestUpdate_LayoutMsgSwitchesRendering(t *testing.T) {
	model := newTestModel(t)

	_, cmd := model.Update(layoutMsg(false))
	require.NotNil(t, cmd, "keeps listening on the stream")
	assert.False(t, model.isLinear)
	assert.Contains(t, model.View(), "grid layout")

	_, _ = model.Update(layoutMsg(true))
	assert.True(t, model.isLinear)
	assert.Contains(t, model.View(), "linear layout")
}

func TestUpdate_ToggleLayoutPersists(t *testing.T) {
	model := newTestModel(t)

	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'g'}})
	require.NotNil(t, cmd)

	// Running the command performs the save; failures would surface as a
	// saveFailedMsg.
	msg := cmd()
	assert.Nil(t, msg)

	// The new value comes back through the subscription, not the keypress
	assert.True(t, model.isLinear, "layout unchanged until the stream emits")
}

func TestUpdate_SaveFailureIsDisplayed(t *testing.T) {
	model := newTestModel(t)

	_, _ = model.Update(saveFailedMsg{err: os.ErrPermission})

	assert.Contains(t, model.View(), "permission denied")
}

func TestUpdate_QuitClosesSubscription(t *testing.T) {
	model := newTestModel(t)

	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestView_LinearListsOnePerRow(t *testing.T) {
	model := newTestModel(t)
	model.isLinear = true

	view := model.View()

	assert.Contains(t, view, "alpha.txt")
	assert.Contains(t, view, "beta.txt")
	assert.Contains(t, view, "subdir/")
}

func TestView_GridUsesColumns(t *testing.T) {
	model := newTestModel(t)
	model.isLinear = false
	model.width = 80

	view := model.View()

	assert.Contains(t, view, "alpha.txt")
	assert.Contains(t, view, "grid layout")
}
