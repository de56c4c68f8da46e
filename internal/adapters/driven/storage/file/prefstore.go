package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sync"

	"github.com/fsnotify/fsnotify"
	observer "github.com/imkira/go-observer/v2"
	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/lister-cli/internal/core/domain"
	"github.com/custodia-labs/lister-cli/internal/core/ports/driven"
	"github.com/custodia-labs/lister-cli/internal/logger"
)

// prefsFileName is the fixed name of the preference container file.
const prefsFileName = "layout_preferences.toml"

// Ensure PreferenceStore implements the interface.
var _ driven.PreferenceStore = (*PreferenceStore)(nil)

// PreferenceStore is a file-based implementation of driven.PreferenceStore
// using TOML. One instance owns the container file for the process lifetime.
type PreferenceStore struct {
	mu        sync.Mutex
	filePath  string
	prop      observer.Property[driven.Update]
	watcher   *fsnotify.Watcher
	done      chan struct{}
	closeOnce sync.Once
}

// NewPreferenceStore opens the preference container in configDir.
// If configDir is empty, defaults to ~/.lister.
func NewPreferenceStore(configDir string) (*PreferenceStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".lister")
	}

	// Ensure directory exists
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	s := &PreferenceStore{
		filePath: filepath.Join(configDir, prefsFileName),
		done:     make(chan struct{}),
	}

	snap, err := s.load()
	if err != nil {
		return nil, err
	}
	s.prop = observer.NewProperty(driven.Update{Snapshot: snap})

	// Watch the directory, not the file: the container may not exist yet,
	// and the rename on persist swaps the file's inode.
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := watcher.Add(configDir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watching %s: %w", configDir, err)
	}
	s.watcher = watcher

	go s.watchLoop()

	return s, nil
}

// Snapshot returns the current container state.
func (s *PreferenceStore) Snapshot(_ context.Context) (driven.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Edit applies fn to a copy of the current state and persists the result
// atomically via temp file and rename.
func (s *PreferenceStore) Edit(ctx context.Context, fn func(prefs driven.Snapshot)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	select {
	case <-s.done:
		return domain.ErrStoreClosed
	default:
	}

	snap, err := s.load()
	if err != nil {
		return err
	}

	next := snap.Clone()
	fn(next)

	if err := s.persist(next); err != nil {
		return err
	}

	s.publish(driven.Update{Snapshot: next})
	return nil
}

// Watch returns a subscription emitting the current state and every
// subsequent change, including changes made by external writers.
func (s *PreferenceStore) Watch(ctx context.Context) <-chan driven.Update {
	ch := make(chan driven.Update)
	stream := s.prop.Observe()

	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case <-s.done:
				return
			case ch <- stream.Value():
			}

			select {
			case <-ctx.Done():
				return
			case <-s.done:
				return
			case <-stream.Changes():
				stream.Next()
			}
		}
	}()

	return ch
}

// Path returns the container file path.
func (s *PreferenceStore) Path() string {
	return s.filePath
}

// Close stops the file watcher and ends all watch subscriptions.
func (s *PreferenceStore) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		err = s.watcher.Close()
	})
	return err
}

// load reads the container file. A missing file is the container's empty
// state, not an error.
func (s *PreferenceStore) load() (driven.Snapshot, error) {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return driven.Snapshot{}, nil
		}
		return nil, fmt.Errorf("%w: reading %s: %w", domain.ErrStoreIO, s.filePath, err)
	}

	var loaded map[string]any
	if err := toml.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %w", domain.ErrCorruptData, s.filePath, err)
	}
	if loaded == nil {
		loaded = make(map[string]any)
	}

	return driven.Snapshot(loaded), nil
}

// persist writes the snapshot to a temp file in the container directory and
// renames it into place (caller must hold lock).
func (s *PreferenceStore) persist(snap driven.Snapshot) error {
	data, err := toml.Marshal(map[string]any(snap))
	if err != nil {
		return fmt.Errorf("encoding preferences: %w", err)
	}

	dir := filepath.Dir(s.filePath)
	tmp, err := os.CreateTemp(dir, ".layout_preferences-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: creating temp file: %w", domain.ErrStoreIO, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("%w: writing %s: %w", domain.ErrStoreIO, tmpPath, err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("%w: setting permissions on %s: %w", domain.ErrStoreIO, tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: closing %s: %w", domain.ErrStoreIO, tmpPath, err)
	}

	if err := os.Rename(tmpPath, s.filePath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: replacing %s: %w", domain.ErrStoreIO, s.filePath, err)
	}

	return nil
}

// publish pushes an update to watchers, suppressing duplicates so an edit
// followed by its own fsnotify event emits once.
func (s *PreferenceStore) publish(u driven.Update) {
	if u.Err == nil {
		current := s.prop.Value()
		if current.Err == nil && reflect.DeepEqual(current.Snapshot, u.Snapshot) {
			return
		}
	}
	s.prop.Update(u)
}

// watchLoop reloads the container when the file changes on disk and
// forwards failures to watchers as error updates.
func (s *PreferenceStore) watchLoop() {
	for {
		select {
		case <-s.done:
			return

		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != s.filePath {
				continue
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) &&
				!event.Op.Has(fsnotify.Rename) && !event.Op.Has(fsnotify.Remove) {
				continue
			}
			logger.Debug("preference file changed on disk: %s", event)
			s.reload()

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.publish(driven.Update{
				Err: fmt.Errorf("%w: watching %s: %w", domain.ErrStoreIO, s.filePath, err),
			})
		}
	}
}

// reload reads the container and broadcasts the result.
func (s *PreferenceStore) reload() {
	s.mu.Lock()
	snap, err := s.load()
	s.mu.Unlock()

	if err != nil {
		s.publish(driven.Update{Err: err})
		return
	}
	s.publish(driven.Update{Snapshot: snap})
}
