package config

import (
	"strings"
	"time"
)

// Defaults applied by validate for optional settings.
const (
	defaultRequestTimeout = 15 * time.Second
	defaultSyncInterval   = 5 * time.Minute
	defaultProbeInterval  = 30 * time.Second
	defaultSignedURLTTL   = 15 * time.Minute
)

// validate checks that the final merged [StructuredConfig] satisfies all
// invariants before it is used at startup, and fills in defaults for the
// optional interval settings.
//
// Returns nil if the configuration is valid, or a sentinel error otherwise.
func (cfg *StructuredConfig) validate() error {
	if cfg.Remote.BaseURL == "" {
		return ErrInvalidRemoteConfigs
	}

	if cfg.Storage.DB.DSN == "" || strings.Contains(cfg.Storage.DB.DSN, "memory") {
		return ErrInvalidStorageConfigs
	}

	if cfg.Remote.RequestTimeout <= 0 {
		cfg.Remote.RequestTimeout = defaultRequestTimeout
	}
	if cfg.Workers.SyncInterval <= 0 {
		cfg.Workers.SyncInterval = defaultSyncInterval
	}
	if cfg.Workers.ProbeInterval <= 0 {
		cfg.Workers.ProbeInterval = defaultProbeInterval
	}
	if cfg.ObjectStore.SignedURLTTL <= 0 {
		cfg.ObjectStore.SignedURLTTL = defaultSignedURLTTL
	}

	// Object storage stays optional: with no endpoint configured the
	// uploader runs against a no-op store and only the queues are active.
	if cfg.ObjectStore.Endpoint != "" {
		if cfg.ObjectStore.AccessKey == "" || cfg.ObjectStore.SecretKey == "" || cfg.ObjectStore.Bucket == "" {
			return ErrInvalidObjectStoreConfigs
		}
	}

	return nil
}
