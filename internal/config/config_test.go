package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	vars := map[string]string{
		"BETIS_PRIMARY__ENV":                 "test",
		"BETIS_SERVER__PORT":                 "8080",
		"BETIS_SERVER__READ_TIMEOUT":         "30",
		"BETIS_SERVER__WRITE_TIMEOUT":        "30",
		"BETIS_SERVER__IDLE_TIMEOUT":         "60",
		"BETIS_SERVER__CORS_ALLOWED_ORIGINS": "http://localhost:3000,https://betis-escocia.com",
		"BETIS_DATABASE__HOST":               "localhost",
		"BETIS_DATABASE__PORT":               "5432",
		"BETIS_DATABASE__USER":               "postgres",
		"BETIS_DATABASE__PASSWORD":           "postgres",
		"BETIS_DATABASE__NAME":               "betis",
		"BETIS_DATABASE__SSL_MODE":           "disable",
		"BETIS_DATABASE__MAX_OPEN_CONNS":     "10",
		"BETIS_DATABASE__MAX_IDLE_CONNS":     "5",
		"BETIS_DATABASE__CONN_MAX_LIFETIME":  "300",
		"BETIS_DATABASE__CONN_MAX_IDLE_TIME": "60",
		"BETIS_REDIS__ADDRESS":               "localhost:6379",
		"BETIS_AUTH__SECRET_KEY":             "sk_test_123",
		"BETIS_INTEGRATION__ADMIN_EMAILS":    "junta@betis-escocia.com,secretaria@betis-escocia.com",
	}
	for k, v := range vars {
		t.Setenv(k, v)
	}
	t.Setenv("BETIS_INTEGRATION__FOOTBALL_DATA_CACHE_TTL", "2m")
}

func TestLoadConfig(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "test", cfg.Primary.Env)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, []string{"http://localhost:3000", "https://betis-escocia.com"}, cfg.Server.CORSAllowedOrigins)
	assert.Equal(t, []string{"junta@betis-escocia.com", "secretaria@betis-escocia.com"}, cfg.Integration.AdminEmails)
	assert.Equal(t, 2*time.Minute, cfg.Integration.FootballDataCacheTTL)
}

func TestLoadConfig_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.NotNil(t, cfg.Observability)
	assert.Equal(t, ServiceName, cfg.Observability.ServiceName)
	assert.Equal(t, "test", cfg.Observability.Environment)
	assert.Equal(t, "admin", cfg.Auth.AdminRole)
	assert.Equal(t, 90, cfg.Integration.FootballDataTeamID)
	assert.Equal(t, "PD", cfg.Integration.FootballDataLeague)
	assert.Equal(t, time.Minute, cfg.Flags.CacheTTL)
	assert.Equal(t, 10, cfg.RateLimit.RequestsPerMinute)
}

func TestLoadConfig_MissingRequired(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("BETIS_AUTH__SECRET_KEY", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SecretKey")
}

func TestLoadConfig_InvalidEnv(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("BETIS_PRIMARY__ENV", "moon")

	_, err := LoadConfig()
	require.Error(t, err)
}

func TestObservabilityConfig_Validate(t *testing.T) {
	cfg := DefaultObservabilityConfig()
	require.NoError(t, cfg.Validate())

	cfg.Logging.Level = "verbose"
	assert.Error(t, cfg.Validate())

	cfg = DefaultObservabilityConfig()
	cfg.Logging.Format = "xml"
	assert.Error(t, cfg.Validate())

	cfg = DefaultObservabilityConfig()
	cfg.Logging.SlowQueryThreshold = -time.Second
	assert.Error(t, cfg.Validate())
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "server.read_timeout", envKey("BETIS_SERVER__READ_TIMEOUT"))
	assert.Equal(t, "integration.resend_api_key", envKey("BETIS_INTEGRATION__RESEND_API_KEY"))
}
