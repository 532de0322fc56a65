package config_test

import (
	"testing"
	"time"

	"github.com/SscSPs/ledger_engine/internal/platform/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("RATE_CACHE_TTL", "")
	t.Setenv("REDIS_URL", "")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 5*time.Minute, cfg.RateCacheTTL)
	assert.Equal(t, 10*time.Second, cfg.EFRISTimeout)
	assert.Empty(t, cfg.RedisURL)
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("RATE_CACHE_TTL", "30s")
	t.Setenv("EFRIS_TIMEOUT", "not-a-duration")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("RATE_LIMIT", "10-S")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.RateCacheTTL)
	assert.Equal(t, 10*time.Second, cfg.EFRISTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "10-S", cfg.RateLimit)
}
