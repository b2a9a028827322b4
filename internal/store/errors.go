package store

import "errors"

var (
	// ErrQueueEmpty is returned by Dequeue when no operations are pending.
	ErrQueueEmpty = errors.New("operation queue is empty")

	// ErrNotFound is returned when a requested record does not exist in
	// the local store. Callers treat it as a cache miss, not a failure.
	ErrNotFound = errors.New("record not found in local store")

	// ErrSessionNotFound is returned when no session is cached locally.
	ErrSessionNotFound = errors.New("local session not found")
)
