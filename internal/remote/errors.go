package remote

import "errors"

var (
	// ErrBadRequest maps 400 responses that are not validation failures.
	ErrBadRequest = errors.New("bad request")
	// ErrUnauthorized maps 401 responses; the cached session is stale.
	ErrUnauthorized = errors.New("client unauthorized")
	// ErrForbidden maps 403 responses (e.g. rejected license key).
	ErrForbidden = errors.New("access forbidden")
	// ErrNotFound maps 404 responses.
	ErrNotFound = errors.New("remote record not found")
	// ErrConflict maps 409 responses (duplicate key, constraint hit).
	ErrConflict = errors.New("remote conflict")
	// ErrValidation marks payloads rejected before leaving the process or
	// by the backend's schema checks (422). Never retried, never queued.
	ErrValidation = errors.New("record validation failed")
	// ErrUnavailable marks transport failures and 5xx responses; the
	// caller may retry or queue the write.
	ErrUnavailable = errors.New("remote unavailable")
	// ErrInvalidCredentials marks rejected sign-in attempts.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
