package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	observer "github.com/imkira/go-observer/v2"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/lister-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/lister-cli/internal/core/domain"
	"github.com/custodia-labs/lister-cli/internal/core/ports/driven"
)

// dbFileName is the fixed name of the preference container database.
const dbFileName = "layout_preferences.db"

// Ensure PreferenceStore implements the interface.
var _ driven.PreferenceStore = (*PreferenceStore)(nil)

// PreferenceStore is a SQLite-based implementation of driven.PreferenceStore.
type PreferenceStore struct {
	mu        sync.Mutex
	db        *sql.DB
	path      string
	prop      observer.Property[driven.Update]
	done      chan struct{}
	closeOnce sync.Once
}

// NewPreferenceStore opens the preference container database in configDir.
// If configDir is empty, defaults to ~/.lister.
func NewPreferenceStore(configDir string) (*PreferenceStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		configDir = filepath.Join(home, ".lister")
	}

	// Ensure directory exists
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	dbPath := filepath.Join(configDir, dbFileName)

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &PreferenceStore{
		db:   db,
		path: dbPath,
		done: make(chan struct{}),
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	snap, err := s.loadSnapshot(context.Background())
	if err != nil {
		db.Close()
		return nil, err
	}
	s.prop = observer.NewProperty(driven.Update{Snapshot: snap})

	return s, nil
}

// Snapshot returns the current container state.
func (s *PreferenceStore) Snapshot(ctx context.Context) (driven.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadSnapshot(ctx)
}

// Edit applies fn to a copy of the current state and persists the result in
// one transaction.
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

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: beginning transaction: %w", domain.ErrStoreIO, err)
	}
	defer tx.Rollback() //nolint:errcheck

	snap, err := scanPreferences(tx.QueryContext(ctx, "SELECT key, value FROM preferences"))
	if err != nil {
		return err
	}

	next := snap.Clone()
	fn(next)

	if _, err := tx.ExecContext(ctx, "DELETE FROM preferences"); err != nil {
		return fmt.Errorf("%w: clearing preferences: %w", domain.ErrStoreIO, err)
	}
	for key, value := range next {
		encoded, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("encoding preference %s: %w", key, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO preferences (key, value) VALUES (?, ?)
		`, key, string(encoded)); err != nil {
			return fmt.Errorf("%w: saving preference %s: %w", domain.ErrStoreIO, key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: committing transaction: %w", domain.ErrStoreIO, err)
	}

	s.prop.Update(driven.Update{Snapshot: next.Clone()})
	return nil
}

// Watch returns a subscription emitting the current state and every change
// made through this store instance.
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

// Path returns the database file path.
func (s *PreferenceStore) Path() string {
	return s.path
}

// Close closes the database connection and ends all watch subscriptions.
func (s *PreferenceStore) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		err = s.db.Close()
	})
	return err
}

// loadSnapshot reads all preferences (caller must hold lock or be in setup).
func (s *PreferenceStore) loadSnapshot(ctx context.Context) (driven.Snapshot, error) {
	return scanPreferences(s.db.QueryContext(ctx, "SELECT key, value FROM preferences"))
}

// scanPreferences decodes key/value rows into a snapshot.
func scanPreferences(rows *sql.Rows, queryErr error) (driven.Snapshot, error) {
	if queryErr != nil {
		return nil, fmt.Errorf("%w: querying preferences: %w", domain.ErrStoreIO, queryErr)
	}
	defer rows.Close()

	snap := driven.Snapshot{}
	for rows.Next() {
		var key, encoded string
		if err := rows.Scan(&key, &encoded); err != nil {
			return nil, fmt.Errorf("%w: scanning preference: %w", domain.ErrStoreIO, err)
		}

		var value any
		if err := json.Unmarshal([]byte(encoded), &value); err != nil {
			return nil, fmt.Errorf("%w: decoding preference %s: %w", domain.ErrCorruptData, key, err)
		}
		snap[key] = value
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating preferences: %w", domain.ErrStoreIO, err)
	}

	return snap, nil
}

// migrate runs all pending migrations.
func (s *PreferenceStore) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(
			"INSERT INTO schema_migrations (version) VALUES (?)", version,
		); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}
