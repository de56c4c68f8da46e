package memory

import (
	"context"
	"sync"

	observer "github.com/imkira/go-observer/v2"

	"github.com/custodia-labs/lister-cli/internal/core/domain"
	"github.com/custodia-labs/lister-cli/internal/core/ports/driven"
)

// Ensure PreferenceStore implements the interface.
var _ driven.PreferenceStore = (*PreferenceStore)(nil)

// PreferenceStore is an in-memory implementation of driven.PreferenceStore
// for testing. Edits are serialized by a mutex and broadcast to watchers
// through an observer property, matching the durable adapters' semantics
// without touching disk.
type PreferenceStore struct {
	mu        sync.Mutex
	values    driven.Snapshot
	prop      observer.Property[driven.Update]
	done      chan struct{}
	closeOnce sync.Once
}

// NewPreferenceStore creates a new in-memory preference store.
func NewPreferenceStore() *PreferenceStore {
	return &PreferenceStore{
		values: driven.Snapshot{},
		prop:   observer.NewProperty(driven.Update{Snapshot: driven.Snapshot{}}),
		done:   make(chan struct{}),
	}
}

// Snapshot returns the current container state.
func (s *PreferenceStore) Snapshot(_ context.Context) (driven.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values.Clone(), nil
}

// Edit applies fn to a copy of the current state and makes the result
// visible atomically.
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

	next := s.values.Clone()
	fn(next)
	s.values = next
	s.prop.Update(driven.Update{Snapshot: next.Clone()})
	return nil
}

// Watch returns a subscription emitting the current state and every
// subsequent change.
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

// Path returns the container's storage location.
func (s *PreferenceStore) Path() string {
	return ":memory:"
}

// Close releases the store and ends all watch subscriptions.
func (s *PreferenceStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)
	})
	return nil
}
