package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entry does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Preference Store Errors.

	// ErrStoreIO indicates an I/O failure while reading or writing the
	// preference store. Read paths recover from this category by falling
	// back to defaults; write paths propagate it to the caller.
	ErrStoreIO = errors.New("preference store I/O failure")

	// ErrCorruptData indicates the preference store contents could not be
	// decoded. Never recovered: masking it would hide real corruption.
	ErrCorruptData = errors.New("preference store data corrupt")

	// ErrStoreClosed indicates the preference store has been closed.
	ErrStoreClosed = errors.New("preference store closed")
)
