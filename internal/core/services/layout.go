package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/custodia-labs/lister-cli/internal/core/domain"
	"github.com/custodia-labs/lister-cli/internal/core/ports/driven"
	"github.com/custodia-labs/lister-cli/internal/core/ports/driving"
	"github.com/custodia-labs/lister-cli/internal/logger"
)

// Ensure LayoutService implements the interface.
var _ driving.LayoutService = (*LayoutService)(nil)

// keyIsLinearLayout scopes the layout flag inside the preference container.
// Every read and write goes through this one key so lookups agree.
const keyIsLinearLayout = "is_linear_layout"

// LayoutService manages the persisted list layout preference.
type LayoutService struct {
	store driven.PreferenceStore
}

// NewLayoutService creates a new layout service.
func NewLayoutService(store driven.PreferenceStore) *LayoutService {
	return &LayoutService{
		store: store,
	}
}

// SaveLayoutPreferences persists the layout flag in a single transactional
// edit. Storage failures propagate to the caller; retry policy is theirs.
func (s *LayoutService) SaveLayoutPreferences(ctx context.Context, isLinearLayout bool) error {
	err := s.store.Edit(ctx, func(prefs driven.Snapshot) {
		prefs[keyIsLinearLayout] = isLinearLayout
	})
	if err != nil {
		return fmt.Errorf("save layout preferences: %w", err)
	}
	return nil
}

// Current returns the present value of the layout flag. An absent key or a
// recoverable I/O failure maps to the default (linear).
func (s *LayoutService) Current(ctx context.Context) (bool, error) {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrStoreIO) {
			logger.Warn("reading layout preferences failed, using defaults: %v", err)
			return domain.DefaultLayoutPreferences().IsLinearLayout, nil
		}
		return false, fmt.Errorf("read layout preferences: %w", err)
	}
	return mapSnapshot(snap), nil
}

// IsLinearLayout subscribes to the layout flag. The first emission reflects
// the current persisted state; absent values map to the default (linear).
// I/O-category read failures are logged and recovered by substituting the
// container's empty state; any other failure terminates the subscription.
func (s *LayoutService) IsLinearLayout(ctx context.Context) (driving.LayoutSubscription, error) {
	ctx, cancel := context.WithCancel(ctx)
	updates := s.store.Watch(ctx)

	sub := &layoutSubscription{
		ch:     make(chan bool),
		cancel: cancel,
	}

	go func() {
		defer close(sub.ch)
		for u := range updates {
			if u.Err != nil {
				if !errors.Is(u.Err, domain.ErrStoreIO) {
					sub.setErr(u.Err)
					return
				}
				logger.Warn("reading layout preferences failed, using defaults: %v", u.Err)
				u.Snapshot = driven.Snapshot{}
			}

			select {
			case sub.ch <- mapSnapshot(u.Snapshot):
			case <-ctx.Done():
				return
			}
		}
	}()

	return sub, nil
}

// mapSnapshot looks up the layout flag, substituting the default when the
// key is absent.
func mapSnapshot(snap driven.Snapshot) bool {
	if v, ok := snap.Bool(keyIsLinearLayout); ok {
		return v
	}
	return domain.DefaultLayoutPreferences().IsLinearLayout
}

// Ensure layoutSubscription implements the interface.
var _ driving.LayoutSubscription = (*layoutSubscription)(nil)

// layoutSubscription is a live view of the layout flag backed by a store
// watch.
type layoutSubscription struct {
	ch     chan bool
	cancel context.CancelFunc

	mu  sync.Mutex
	err error
}

// Updates returns the stream of flag values.
func (l *layoutSubscription) Updates() <-chan bool {
	return l.ch
}

// Err reports the failure that terminated the stream, if any.
func (l *layoutSubscription) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Close detaches the subscriber. The stored value is unaffected.
func (l *layoutSubscription) Close() {
	l.cancel()
}

func (l *layoutSubscription) setErr(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.err = err
}
