package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	assert := assert.New(t)
	t.Setenv("AUTH_JWT_SECRET", "test-secret")

	cfg, err := Load("does-not-exist.env")
	require.NoError(t, err)

	assert.Equal("development", cfg.Env)
	assert.Equal("localhost", cfg.Server.Host)
	assert.Equal(3000, cfg.Server.Port)
	assert.Equal("test-secret", cfg.Auth.Jwt.Secret)
	assert.Equal(24*time.Hour, cfg.Auth.Jwt.Expiry)
	assert.Equal(100, cfg.RateLimit.MaxRequests)
	assert.Equal(24*time.Hour, cfg.Scheduler.SweepInterval)
	assert.Equal(90*24*time.Hour, cfg.Scheduler.LogRetention)
	assert.Empty(cfg.DB.Url)
}

func TestLoadOverrides(t *testing.T) {
	assert := assert.New(t)
	t.Setenv("AUTH_JWT_SECRET", "test-secret")
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("SCHEDULER_RETRY_BATCH_SIZE", "10")
	t.Setenv("DATABASE_URL", "postgres://finvault:pw@localhost:5432/finvault")

	cfg, err := Load("does-not-exist.env")
	require.NoError(t, err)

	assert.Equal(8080, cfg.Server.Port)
	assert.Equal(10, cfg.Scheduler.RetryBatchSize)
	assert.NotEmpty(cfg.DB.Url)
}
