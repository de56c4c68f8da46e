package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lister-cli/internal/core/domain"
	"github.com/custodia-labs/lister-cli/internal/core/ports/driven"
)

const emitTimeout = 5 * time.Second

// newTestStore opens a store in a fresh temp directory.
func newTestStore(t *testing.T) *PreferenceStore {
	t.Helper()
	store, err := NewPreferenceStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

// recvUpdate waits for the next watch emission.
func recvUpdate(t *testing.T, ch <-chan driven.Update) driven.Update {
	t.Helper()
	select {
	case u, ok := <-ch:
		require.True(t, ok, "watch closed unexpectedly")
		return u
	case <-time.After(emitTimeout):
		t.Fatal("timed out waiting for update")
		return driven.Update{}
	}
}

func TestNewPreferenceStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "prefs")

	store, err := NewPreferenceStore(dir)
	require.NoError(t, err)
	defer store.Close()

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, filepath.Join(dir, "layout_preferences.toml"), store.Path())
}

func TestPreferenceStore_MissingFileIsEmptyState(t *testing.T) {
	store := newTestStore(t)

	snap, err := store.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap)
}

func TestPreferenceStore_EditPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	store, err := NewPreferenceStore(dir)
	require.NoError(t, err)

	err = store.Edit(context.Background(), func(prefs driven.Snapshot) {
		prefs["is_linear_layout"] = false
	})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// The value survives the process-lifetime boundary
	reopened, err := NewPreferenceStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	snap, err := reopened.Snapshot(context.Background())
	require.NoError(t, err)
	v, ok := snap.Bool("is_linear_layout")
	require.True(t, ok)
	assert.False(t, v)
}

func TestPreferenceStore_EditIsAtomicOnDisk(t *testing.T) {
	store := newTestStore(t)

	err := store.Edit(context.Background(), func(prefs driven.Snapshot) {
		prefs["is_linear_layout"] = true
	})
	require.NoError(t, err)

	// No temp files left behind after the rename
	entries, err := os.ReadDir(filepath.Dir(store.Path()))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "layout_preferences.toml", entries[0].Name())
}

func TestPreferenceStore_WatchEmitsCurrentThenEdits(t *testing.T) {
	store := newTestStore(t)

	updates := store.Watch(context.Background())

	first := recvUpdate(t, updates)
	require.NoError(t, first.Err)
	assert.Empty(t, first.Snapshot)

	err := store.Edit(context.Background(), func(prefs driven.Snapshot) {
		prefs["is_linear_layout"] = false
	})
	require.NoError(t, err)

	second := recvUpdate(t, updates)
	require.NoError(t, second.Err)
	v, ok := second.Snapshot.Bool("is_linear_layout")
	require.True(t, ok)
	assert.False(t, v)
}

func TestPreferenceStore_WatchSeesExternalWrites(t *testing.T) {
	store := newTestStore(t)

	updates := store.Watch(context.Background())
	recvUpdate(t, updates)

	// Simulate another tool rewriting the container file
	err := os.WriteFile(store.Path(), []byte("is_linear_layout = false\n"), 0600)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		select {
		case u, ok := <-updates:
			if !ok || u.Err != nil {
				return false
			}
			v, exists := u.Snapshot.Bool("is_linear_layout")
			return exists && !v
		default:
			return false
		}
	}, emitTimeout, 20*time.Millisecond)
}

func TestPreferenceStore_CorruptFileFailsWithoutRecovery(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "layout_preferences.toml")
	require.NoError(t, os.WriteFile(path, []byte("not [valid toml"), 0600))

	// Opening a corrupt container fails outright
	_, err := NewPreferenceStore(dir)
	assert.ErrorIs(t, err, domain.ErrCorruptData)
}

func TestPreferenceStore_CorruptExternalWriteSignalsWatchers(t *testing.T) {
	store := newTestStore(t)

	updates := store.Watch(context.Background())
	recvUpdate(t, updates)

	err := os.WriteFile(store.Path(), []byte("not [valid toml"), 0600)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		select {
		case u, ok := <-updates:
			return ok && errors.Is(u.Err, domain.ErrCorruptData)
		default:
			return false
		}
	}, emitTimeout, 20*time.Millisecond)
}

func TestPreferenceStore_CloseEndsWatchesAndRejectsEdits(t *testing.T) {
	store, err := NewPreferenceStore(t.TempDir())
	require.NoError(t, err)

	updates := store.Watch(context.Background())
	recvUpdate(t, updates)

	require.NoError(t, store.Close())

	require.Eventually(t, func() bool {
		select {
		case _, ok := <-updates:
			return !ok
		default:
			return false
		}
	}, emitTimeout, 10*time.Millisecond)

	err = store.Edit(context.Background(), func(prefs driven.Snapshot) {
		prefs["is_linear_layout"] = true
	})
	assert.ErrorIs(t, err, domain.ErrStoreClosed)

	// Closing twice is safe
	assert.NoError(t, store.Close())
}

func TestPreferenceStore_EditHonoursContext(t *testing.T) {
	store := newTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.Edit(ctx, func(prefs driven.Snapshot) {
		prefs["is_linear_layout"] = true
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPreferenceStore_UnrelatedKeysSurviveEdits(t *testing.T) {
	store := newTestStore(t)

	err := store.Edit(context.Background(), func(prefs driven.Snapshot) {
		prefs["theme"] = "dark"
	})
	require.NoError(t, err)

	err = store.Edit(context.Background(), func(prefs driven.Snapshot) {
		prefs["is_linear_layout"] = false
	})
	require.NoError(t, err)

	snap, err := store.Snapshot(context.Background())
	require.NoError(t, err)

	theme, ok := snap.String("theme")
	require.True(t, ok)
	assert.Equal(t, "dark", theme)
}
