package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Failure policies decide what an unrecognised backend failure does to the
// session.
const (
	// FailurePolicyLogout clears the session on any unknown backend failure.
	FailurePolicyLogout = "logout"
	// FailurePolicyTransient keeps the session and shows a retryable notice.
	FailurePolicyTransient = "transient"
)

// Config holds all application configuration loaded from environment variables.
// It is the single source of truth for runtime parameters.
type Config struct {
	Port          string
	Env           string
	PageSize      int
	FailurePolicy string

	Backend BackendConfig
	Session SessionConfig
	Redis   RedisConfig
	DB      DatabaseConfig
	Worker  WorkerConfig
	CORS    CORSConfig
}

// BackendConfig points the console at the hospital-management REST API.
type BackendConfig struct {
	BaseURL string
	// Timeout of zero means requests are never cut short by the console.
	Timeout time.Duration
}

// SessionConfig controls the browser session cookie and its server-side TTL.
type SessionConfig struct {
	CookieName   string
	CookieSecure bool
	Secret       string
	TTL          time.Duration
}

// RedisConfig contains Redis connection parameters.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// DatabaseConfig contains PostgreSQL connection parameters for the audit
// trail. An empty Host disables auditing.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// Enabled reports whether a database has been configured.
func (c DatabaseConfig) Enabled() bool {
	return c.Host != ""
}

// WorkerConfig contains interval configuration for background workers.
type WorkerConfig struct {
	WorkspaceIdle      time.Duration
	SweepInterval      time.Duration
	AuditRetention     time.Duration
	AuditPruneInterval time.Duration
}

// CORSConfig lists browser origins allowed to call the JSON API.
type CORSConfig struct {
	AllowedOrigins []string
}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	// Server
	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("ENV", "development")
	cfg.PageSize = getEnvInt("PAGE_SIZE", 8)
	cfg.FailurePolicy = strings.ToLower(getEnv("FAILURE_POLICY", FailurePolicyLogout))

	// Backend
	cfg.Backend.BaseURL = strings.TrimSuffix(getEnv("BACKEND_URL", ""), "/")

	// Session
	cfg.Session = SessionConfig{
		CookieName:   getEnv("SESSION_COOKIE", "hms_session"),
		CookieSecure: getEnvBool("COOKIE_SECURE", false),
		Secret:       getEnv("SESSION_SECRET", ""),
	}

	// Redis
	cfg.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", "redis"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}

	// Database (audit trail, optional)
	cfg.DB = DatabaseConfig{
		Host:     getEnv("DB_HOST", ""),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", ""),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", ""),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	cfg.CORS.AllowedOrigins = splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:5173"))

	// Durations
	var err error
	if cfg.Backend.Timeout, err = parseDurationEnv("BACKEND_TIMEOUT", "0s"); err != nil {
		return nil, fmt.Errorf("invalid BACKEND_TIMEOUT: %w", err)
	}
	if cfg.Session.TTL, err = parseDurationEnv("SESSION_TTL", "12h"); err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
	}
	if cfg.Worker.WorkspaceIdle, err = parseDurationEnv("WORKSPACE_IDLE", "30m"); err != nil {
		return nil, fmt.Errorf("invalid WORKSPACE_IDLE: %w", err)
	}
	if cfg.Worker.SweepInterval, err = parseDurationEnv("SWEEP_INTERVAL", "5m"); err != nil {
		return nil, fmt.Errorf("invalid SWEEP_INTERVAL: %w", err)
	}
	if cfg.Worker.AuditRetention, err = parseDurationEnv("AUDIT_RETENTION", "2160h"); err != nil {
		return nil, fmt.Errorf("invalid AUDIT_RETENTION: %w", err)
	}
	if cfg.Worker.AuditPruneInterval, err = parseDurationEnv("AUDIT_PRUNE_INTERVAL", "24h"); err != nil {
		return nil, fmt.Errorf("invalid AUDIT_PRUNE_INTERVAL: %w", err)
	}
	if cfg.Worker.SweepInterval == 0 || cfg.Worker.AuditPruneInterval == 0 {
		return nil, errors.New("worker intervals must be greater than zero")
	}

	if cfg.Backend.BaseURL == "" {
		return nil, errors.New("BACKEND_URL must be set to the hospital backend origin")
	}
	if cfg.Session.Secret == "" {
		return nil, errors.New("SESSION_SECRET must be set for cookie signing")
	}
	if cfg.FailurePolicy != FailurePolicyLogout && cfg.FailurePolicy != FailurePolicyTransient {
		return nil, fmt.Errorf("FAILURE_POLICY must be %q or %q", FailurePolicyLogout, FailurePolicyTransient)
	}
	if cfg.DB.Enabled() && (cfg.DB.User == "" || cfg.DB.Name == "") {
		return nil, errors.New("database configuration incomplete: ensure DB_USER and DB_NAME are set when DB_HOST is")
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 8
	}

	return cfg, nil
}

// IsProduction reports whether the console runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt returns the value of an environment variable as an integer or a default if empty/invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// parseDurationEnv reads an environment variable and parses it as time.Duration.
// If the variable is empty, it falls back to the provided default value.
func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be >= 0")
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
