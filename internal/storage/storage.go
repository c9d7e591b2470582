package storage

import "errors"

var (
	// ErrUnavailable means the underlying engine could not be opened.
	// It is sticky: once a store handle fails to open, every later call
	// on that store fails the same way for the process lifetime.
	ErrUnavailable = errors.New("storage unavailable")

	// ErrTransactionFailed wraps a read/write that failed mid-flight.
	ErrTransactionFailed = errors.New("transaction failed")

	// ErrValidation means caller-supplied data violated a precondition;
	// nothing was written.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is returned by keyed lookups; most callers translate it
	// into a default record or an idempotent no-op rather than a failure.
	ErrNotFound = errors.New("record not found")
)
