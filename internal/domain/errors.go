package domain

import "errors"

var (
	ErrDuplicateEntry = errors.New("duplicate entry")
	// ErrStoreUnavailable marks failures of the backing store, as opposed to a missing record.
	ErrStoreUnavailable = errors.New("session store unavailable")
)
