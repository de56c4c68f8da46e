package driving

import "context"

// LayoutService manages the persisted list layout preference.
type LayoutService interface {
	// SaveLayoutPreferences persists the layout flag in a single
	// transactional update. Returns once the transaction completes;
	// storage failures propagate to the caller unretried.
	SaveLayoutPreferences(ctx context.Context, isLinearLayout bool) error

	// IsLinearLayout subscribes to the layout flag. The first emission is
	// the current persisted value, or true when nothing has been written.
	// The subscription stays live across recoverable store failures and
	// ends when ctx is cancelled, the store closes, or a non-recoverable
	// failure occurs.
	IsLinearLayout(ctx context.Context) (LayoutSubscription, error)

	// Current returns the present value of the layout flag with the same
	// default mapping as the subscription.
	Current(ctx context.Context) (bool, error)
}

// LayoutSubscription is a live view of the layout flag.
type LayoutSubscription interface {
	// Updates returns the stream of flag values. Closed when the
	// subscription ends.
	Updates() <-chan bool

	// Err reports why the stream terminated. Nil after cancellation or
	// store shutdown; non-nil only for a non-recoverable read failure.
	// Valid once Updates is closed.
	Err() error

	// Close detaches the subscriber. Safe to call more than once.
	Close()
}
