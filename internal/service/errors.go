package service

import "errors"

var (
	// ErrNotAuthenticated is returned when no usable session exists,
	// neither remote nor cached.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrSessionExpired marks a cached session past its expiry. The cache
	// has already been purged when this is returned.
	ErrSessionExpired = errors.New("cached session expired")

	// ErrUnknownOperationType marks a queued operation whose type the
	// dispatcher does not recognise. Never retried.
	ErrUnknownOperationType = errors.New("unknown operation type")
)
