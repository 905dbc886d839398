package bindable

import "errors"

var (
	// ErrInvalidArgument is wrapped by constructor errors caused by a missing
	// comparator or hash function.
	ErrInvalidArgument = errors.New("bindable: invalid argument")

	// ErrCancelled is returned by Wait.Result when the wait was cancelled
	// before its predicate held.
	ErrCancelled = errors.New("bindable: wait cancelled")

	// ErrPending is returned by Wait.Result while the wait is unresolved.
	ErrPending = errors.New("bindable: wait pending")
)
