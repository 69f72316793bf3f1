package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"APP_PORT", "STORE_DRIVER", "LEDGER_MAX_RETRIES", "SWEEP_INTERVAL", "APP_TIMEZONE", "CACHE_TTL", "REDIS_HOST", "REDIS_PORT"} {
		t.Setenv(k, "")
	}

	cfg := Load(filepath.Join(t.TempDir(), "missing.env"))

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "postgres", cfg.StoreDriver)
	assert.Equal(t, 8, cfg.LedgerMaxRetries)
	assert.Equal(t, time.Minute, cfg.SweepInterval)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.Equal(t, time.UTC, cfg.Timezone)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr())
}

func TestLoad_FromEnvFile(t *testing.T) {
	for _, k := range []string{"APP_PORT", "STORE_DRIVER", "LEDGER_MAX_RETRIES", "SWEEP_INTERVAL"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}

	path := filepath.Join(t.TempDir(), ".env")
	content := "APP_PORT=9090\nSTORE_DRIVER=Memory\nLEDGER_MAX_RETRIES=3\nSWEEP_INTERVAL=15s\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg := Load(path)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "memory", cfg.StoreDriver)
	assert.Equal(t, 3, cfg.LedgerMaxRetries)
	assert.Equal(t, 15*time.Second, cfg.SweepInterval)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("LEDGER_MAX_RETRIES", "many")
	t.Setenv("SWEEP_INTERVAL", "soon")
	t.Setenv("APP_TIMEZONE", "Mars/Olympus")

	cfg := Load(filepath.Join(t.TempDir(), "missing.env"))

	assert.Equal(t, 8, cfg.LedgerMaxRetries)
	assert.Equal(t, time.Minute, cfg.SweepInterval)
	assert.Equal(t, time.UTC, cfg.Timezone)
}
