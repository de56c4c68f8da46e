package driven

import "context"

// Snapshot is a point-in-time view of a preference container's contents.
// Snapshots passed to subscribers must not be mutated; Edit hands callers
// their own copy.
type Snapshot map[string]any

// Bool retrieves a boolean entry.
// Returns the value and a boolean indicating if the key exists and is a bool.
func (s Snapshot) Bool(key string) (bool, bool) {
	val, ok := s[key]
	if !ok {
		return false, false
	}
	b, ok := val.(bool)
	return b, ok
}

// String retrieves a string entry.
// Returns the value and a boolean indicating if the key exists and is a string.
func (s Snapshot) String(key string) (string, bool) {
	val, ok := s[key]
	if !ok {
		return "", false
	}
	str, ok := val.(string)
	return str, ok
}

// Clone returns an independent copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	copied := make(Snapshot, len(s))
	for k, v := range s {
		copied[k] = v
	}
	return copied
}

// Update is a single emission from a PreferenceStore watch subscription.
// Exactly one of Snapshot or Err carries meaning: a failed read emits a nil
// snapshot and a non-nil error, and the subscription stays open so later
// state changes still reach the subscriber.
type Update struct {
	// Snapshot is the container state that triggered the emission.
	Snapshot Snapshot

	// Err signals a failed read. Errors wrapping domain.ErrStoreIO are
	// the recoverable I/O category; anything else is fatal to consumers.
	Err error
}

// PreferenceStore provides durable access to a named preference container.
// Implementations handle persistence (TOML file, SQLite) and serialize
// concurrent transactional edits so no two writes interleave partially.
type PreferenceStore interface {
	// Snapshot returns the current container state.
	// An absent container yields an empty snapshot, not an error.
	Snapshot(ctx context.Context) (Snapshot, error)

	// Edit applies fn to a copy of the current state and persists the
	// result atomically: either the whole new state becomes visible to
	// subsequent reads or nothing changes. Blocks the caller until the
	// transaction completes. Failures propagate unhandled.
	Edit(ctx context.Context, fn func(prefs Snapshot)) error

	// Watch returns a subscription emitting one Update per container
	// state change, beginning with the current state. The channel closes
	// when ctx is cancelled or the store is closed; cancellation detaches
	// the subscriber without side effects on stored values.
	Watch(ctx context.Context) <-chan Update

	// Path returns the container's storage location.
	Path() string

	// Close releases the container and closes all watch channels.
	Close() error
}
