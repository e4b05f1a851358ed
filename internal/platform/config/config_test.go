package config_test

import (
	"testing"
	"time"

	"github.com/SscSPs/pricing_engine/internal/platform/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Memory(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "Memory")
	t.Setenv("LOCAL_CURRENCY_CODE", "bob")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, ,http://b.test")
	t.Setenv("RATE_CACHE_TTL", "not-a-duration")
	t.Setenv("RECALC_WORKERS", "0")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, config.StorageDriverMemory, cfg.StorageDriver)
	assert.Equal(t, "BOB", cfg.LocalCurrencyCode)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 10*time.Minute, cfg.RateCacheTTL)
	assert.Equal(t, 1, cfg.RecalcWorkers)
	assert.Equal(t, 500, cfg.RecalcChunkSize)
}

func TestLoadConfig_PostgresNeedsURL(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("PGSQL_URL", "")

	_, err := config.LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PGSQL_URL")
}

func TestLoadConfig_UnknownDriver(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "sqlite")

	_, err := config.LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown STORAGE_DRIVER")
}
