package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("BACKEND_URL", "https://api.example.com/")
	t.Setenv("SESSION_SECRET", "s3cret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", cfg.Backend.BaseURL)
	assert.Equal(t, time.Duration(0), cfg.Backend.Timeout)
	assert.Equal(t, 8, cfg.PageSize)
	assert.Equal(t, FailurePolicyLogout, cfg.FailurePolicy)
	assert.Equal(t, 12*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "hms_session", cfg.Session.CookieName)
	assert.False(t, cfg.DB.Enabled())
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 90*24*time.Hour, cfg.Worker.AuditRetention)
	assert.Equal(t, 5*time.Minute, cfg.Worker.SweepInterval)
}

func TestLoad_ZeroInterval(t *testing.T) {
	setRequired(t)
	t.Setenv("SWEEP_INTERVAL", "0s")

	_, err := Load()
	assert.ErrorContains(t, err, "intervals")
}

func TestLoad_MissingBackend(t *testing.T) {
	t.Setenv("BACKEND_URL", "")
	t.Setenv("SESSION_SECRET", "s3cret")

	_, err := Load()
	assert.ErrorContains(t, err, "BACKEND_URL")
}

func TestLoad_InvalidFailurePolicy(t *testing.T) {
	setRequired(t)
	t.Setenv("FAILURE_POLICY", "panic")

	_, err := Load()
	assert.ErrorContains(t, err, "FAILURE_POLICY")
}

func TestLoad_IncompleteDatabase(t *testing.T) {
	setRequired(t)
	t.Setenv("DB_HOST", "db")

	_, err := Load()
	assert.ErrorContains(t, err, "DB_USER")
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PAGE_SIZE", "-3")
	t.Setenv("FAILURE_POLICY", "Transient")
	t.Setenv("BACKEND_TIMEOUT", "15s")
	t.Setenv("ALLOWED_ORIGINS", " https://a.example.com , ,https://b.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.PageSize)
	assert.Equal(t, FailurePolicyTransient, cfg.FailurePolicy)
	assert.Equal(t, 15*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORS.AllowedOrigins)
}
