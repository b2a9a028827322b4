package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for taxoclient.
// It aggregates all sub-configurations and is populated by merging values
// from environment variables, CLI flags, and an optional JSON file.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// Remote holds the hosted backend endpoint and credentials used by the
	// remote CRUD and auth adapters.
	Remote Remote `envPrefix:"REMOTE_"`

	// ObjectStore holds the S3-compatible storage settings used by the
	// upload engine.
	ObjectStore ObjectStore `envPrefix:"S3_"`

	// Storage holds configuration for the local persistence layer.
	Storage Storage `envPrefix:"STORAGE_"`

	// Workers holds background job settings (sync interval, connectivity
	// probing).
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the TAXO_CONFIG environment variable or the CLI
	// --config flag.
	JSONFilePath string `env:"TAXO_CONFIG"`
}

// Remote holds connection settings for the hosted backend.
type Remote struct {
	// BaseURL is the root endpoint of the hosted backend
	// (e.g. "https://api.example.org").
	// Env: REMOTE_BASE_URL
	BaseURL string `env:"BASE_URL"`

	// APIKey is the project API key attached to every request alongside
	// the per-user bearer token.
	// Env: REMOTE_API_KEY
	APIKey string `env:"API_KEY"`

	// RequestTimeout is the maximum duration of a single outbound request
	// (e.g. "15s"). This is the only per-call timeout the sync engine
	// relies on.
	// Env: REMOTE_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// ObjectStore holds S3-compatible storage settings.
type ObjectStore struct {
	// Endpoint is the storage host in "host:port" form.
	// Env: S3_ENDPOINT
	Endpoint string `env:"ENDPOINT"`

	// AccessKey is the storage access key id.
	// Env: S3_ACCESS_KEY
	AccessKey string `env:"ACCESS_KEY"`

	// SecretKey is the storage secret key.
	// Env: S3_SECRET_KEY
	SecretKey string `env:"SECRET_KEY"`

	// UseSSL toggles TLS for storage connections.
	// Env: S3_USE_SSL
	UseSSL bool `env:"USE_SSL"`

	// Bucket is the default namespace for sequencing artifacts.
	// Env: S3_BUCKET
	Bucket string `env:"BUCKET"`

	// SignedURLTTL is the lifetime of generated download links.
	// Env: S3_SIGNED_URL_TTL
	SignedURLTTL time.Duration `env:"SIGNED_URL_TTL"`
}

// Storage groups the configuration for the local persistence layer.
type Storage struct {
	// DB holds the local database settings.
	DB DB `envPrefix:"DB_"`
}

// DB holds connection settings for the local SQLite database that backs the
// table mirror, the auth cache, and both durable queues.
type DB struct {
	// DSN is the SQLite file path (e.g. "~/.taxoclient/local.db").
	// Env: STORAGE_DB_DSN
	DSN string `env:"DSN"`
}

// Workers holds configuration for background worker processes.
type Workers struct {
	// SyncInterval defines how often the periodic sync job runs while the
	// client is online.
	// Env: WORKERS_SYNC_INTERVAL
	SyncInterval time.Duration `env:"SYNC_INTERVAL"`

	// ProbeInterval defines how often the network status observer checks
	// backend reachability.
	// Env: WORKERS_PROBE_INTERVAL
	ProbeInterval time.Duration `env:"PROBE_INTERVAL"`
}

// GetConfig loads, merges, and validates the application configuration from
// all available sources in the following priority order (last source wins
// for non-zero fields):
//  1. Environment variables
//  2. CLI flags (flagCfg, assembled by the CLI layer; may be nil)
//  3. JSON file (path resolved from sources 1 and 2)
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetConfig(flagCfg *StructuredConfig) (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags(flagCfg).
		withJSON().
		build()
}
