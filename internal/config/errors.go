package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidRemoteConfigs indicates invalid hosted backend settings
	// (for example, a missing base URL).
	ErrInvalidRemoteConfigs = errors.New("invalid remote configuration")
	// ErrInvalidStorageConfigs indicates invalid local storage settings
	// (for example, empty DSN or unsupported in-memory DSN).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidObjectStoreConfigs indicates a partially configured object
	// store (endpoint set but credentials or bucket missing).
	ErrInvalidObjectStoreConfigs = errors.New("invalid object store configuration")
)
