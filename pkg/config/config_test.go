package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, 2, cfg.Scheduler.SessionsPerWeek)
	assert.Equal(t, 4, cfg.Scheduler.MaxDailySessions)
	assert.Equal(t, 50, cfg.Scheduler.MaxAttempts)
	assert.Equal(t, 5*time.Minute, cfg.Scheduler.LeaseTTL)
	assert.Equal(t, 24*time.Hour, cfg.Scheduler.JobResultTTL)
	assert.Equal(t, 20000, cfg.Export.MaxRows)
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SCHEDULER_SESSIONS_PER_WEEK", "3")
	t.Setenv("SCHEDULER_RANDOM_SEED", "99")
	t.Setenv("SCHEDULER_LEASE_TTL", "bogus")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("RATE_LIMIT_RPS", "0.5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Scheduler.SessionsPerWeek)
	assert.Equal(t, int64(99), cfg.Scheduler.RandomSeed)
	assert.Equal(t, 5*time.Minute, cfg.Scheduler.LeaseTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 0.5, cfg.RateLimit.RequestsPerSecond)
}

func TestLoadRejectsDevSecretInProduction(t *testing.T) {
	t.Setenv("ENV", EnvProduction)
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", "a-real-secret")
	_, err = Load()
	assert.NoError(t, err)
}

func TestLoadRejectsNonPositiveAttempts(t *testing.T) {
	t.Setenv("SCHEDULER_MAX_ATTEMPTS", "0")
	_, err := Load()
	assert.Error(t, err)
}
