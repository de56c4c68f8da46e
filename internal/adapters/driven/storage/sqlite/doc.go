// Package sqlite provides a SQLite-based implementation of
// driven.PreferenceStore.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO, enabling easy cross-compilation. The container is a single
// preferences table of key/value pairs, with values JSON-encoded.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory.
//
// # Data Location
//
// By default, the database is stored at ~/.lister/layout_preferences.db
//
// # Thread Safety
//
// Edits are serialized by a mutex on top of SQLite's own transactional
// locking in WAL mode. Watch notification is in-process only: external
// writers to the same database file are not observed.
package sqlite
