package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"REMOTE_BASE_URL", "REMOTE_API_KEY", "REMOTE_REQUEST_TIMEOUT",
		"S3_ENDPOINT", "S3_ACCESS_KEY", "S3_SECRET_KEY", "S3_USE_SSL", "S3_BUCKET",
		"STORAGE_DB_DSN", "WORKERS_SYNC_INTERVAL", "WORKERS_PROBE_INTERVAL", "TAXO_CONFIG",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestGetConfig_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("REMOTE_BASE_URL", "https://api.taxo.test")
	t.Setenv("REMOTE_REQUEST_TIMEOUT", "20s")
	t.Setenv("STORAGE_DB_DSN", "/tmp/taxo-local.db")
	t.Setenv("WORKERS_SYNC_INTERVAL", "1m")

	cfg, err := GetConfig(nil)
	require.NoError(t, err)

	assert.Equal(t, "https://api.taxo.test", cfg.Remote.BaseURL)
	assert.Equal(t, 20*time.Second, cfg.Remote.RequestTimeout)
	assert.Equal(t, "/tmp/taxo-local.db", cfg.Storage.DB.DSN)
	assert.Equal(t, time.Minute, cfg.Workers.SyncInterval)
	// defaults fill the rest
	assert.Equal(t, defaultProbeInterval, cfg.Workers.ProbeInterval)
	assert.Equal(t, defaultSignedURLTTL, cfg.ObjectStore.SignedURLTTL)
}

func TestGetConfig_FlagsOverrideEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("REMOTE_BASE_URL", "https://env.taxo.test")
	t.Setenv("STORAGE_DB_DSN", "/tmp/env.db")

	flagCfg := &StructuredConfig{
		Remote: Remote{BaseURL: "https://flags.taxo.test"},
	}

	cfg, err := GetConfig(flagCfg)
	require.NoError(t, err)

	assert.Equal(t, "https://flags.taxo.test", cfg.Remote.BaseURL)
	assert.Equal(t, "/tmp/env.db", cfg.Storage.DB.DSN)
}

func TestGetConfig_JSONFile(t *testing.T) {
	clearEnv(t)

	jsonCfg := StructuredJSONConfig{}
	jsonCfg.Remote.BaseURL = "https://json.taxo.test"
	jsonCfg.Remote.RequestTimeout = Duration(45 * time.Second)
	jsonCfg.Storage.DB.DSN = "/tmp/json.db"
	jsonCfg.Workers.SyncInterval = Duration(2 * time.Minute)

	payload, err := json.Marshal(jsonCfg)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, payload, 0o600))

	cfg, err := GetConfig(&StructuredConfig{JSONFilePath: path})
	require.NoError(t, err)

	assert.Equal(t, "https://json.taxo.test", cfg.Remote.BaseURL)
	assert.Equal(t, 45*time.Second, cfg.Remote.RequestTimeout)
	assert.Equal(t, "/tmp/json.db", cfg.Storage.DB.DSN)
	assert.Equal(t, 2*time.Minute, cfg.Workers.SyncInterval)
}

func TestGetConfig_MissingRemoteURL(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORAGE_DB_DSN", "/tmp/taxo.db")

	_, err := GetConfig(nil)
	assert.ErrorIs(t, err, ErrInvalidRemoteConfigs)
}

func TestGetConfig_InMemoryDSNRejected(t *testing.T) {
	clearEnv(t)
	t.Setenv("REMOTE_BASE_URL", "https://api.taxo.test")
	t.Setenv("STORAGE_DB_DSN", ":memory:")

	_, err := GetConfig(nil)
	assert.ErrorIs(t, err, ErrInvalidStorageConfigs)
}

func TestGetConfig_PartialObjectStoreRejected(t *testing.T) {
	clearEnv(t)
	t.Setenv("REMOTE_BASE_URL", "https://api.taxo.test")
	t.Setenv("STORAGE_DB_DSN", "/tmp/taxo.db")
	t.Setenv("S3_ENDPOINT", "storage.taxo.test:9000")

	_, err := GetConfig(nil)
	assert.ErrorIs(t, err, ErrInvalidObjectStoreConfigs)
}

func TestDuration_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Duration
	}{
		{name: "string form", in: `"1h30m"`, want: 90 * time.Minute},
		{name: "numeric nanoseconds", in: `1000000000`, want: time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			require.NoError(t, json.Unmarshal([]byte(tt.in), &d))
			assert.Equal(t, tt.want, time.Duration(d))
		})
	}
}
