// Package config manages environment variables.
//
// It reads variables from the `.env` file (when present) and the process
// environment, loads them into structured Go types and validates that the
// required values are present so they can be reused across the application
// runtime.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Validate required values so the app fails fast on bad/missing config.
//   - Provide sane defaults for optional config blocks (observability, flags,
//     rate limiting, integrations).
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists it is loaded into the
	// process env before any value is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix every configuration variable carries.
//
// Nesting uses a double underscore:
//
//	BETIS_SERVER__PORT            -> server.port
//	BETIS_DATABASE__SSL_MODE      -> database.ssl_mode
//	BETIS_INTEGRATION__RESEND_API_KEY -> integration.resend_api_key
const EnvPrefix = "BETIS_"

// ServiceName identifies this service in logs, traces and APM dashboards.
const ServiceName = "betis-escocia-api"

// Config is the root configuration object for the application.
//
// Observability, Flags and RateLimit are pointers because they are optional;
// when they are not provided defaults are injected at load time.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Redis         RedisConfig          `koanf:"redis" validate:"required"`
	Auth          AuthConfig           `koanf:"auth" validate:"required"`
	Integration   IntegrationConfig    `koanf:"integration"`
	Flags         *FlagsConfig         `koanf:"flags"`
	RateLimit     *RateLimitConfig     `koanf:"rate_limit"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required,oneof=local development staging production test"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are expressed in seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`
}

// DatabaseConfig contains PostgreSQL connection parameters and pool tuning.
//
// ScopedRoles switches on per-request `SET LOCAL ROLE` (anon, authenticated,
// service_role) so row-level security policies apply the same way they do
// behind the hosted Supabase data API.
type DatabaseConfig struct {
	Host            string `koanf:"host" validate:"required"`
	Port            int    `koanf:"port" validate:"required"`
	User            string `koanf:"user" validate:"required"`
	Password        string `koanf:"password" validate:"required"`
	Name            string `koanf:"name" validate:"required"`
	SSLMode         string `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int    `koanf:"max_open_conns" validate:"required"`
	MaxIdleConns    int    `koanf:"max_idle_conns" validate:"required"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time" validate:"required"`
	ScopedRoles     bool   `koanf:"scoped_roles"`
}

// RedisConfig contains Redis connection details ("host:port").
type RedisConfig struct {
	Address  string `koanf:"address" validate:"required"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

// AuthConfig stores Clerk settings.
//
// AdminRole is the value of the `role` key in the user's public metadata
// (exposed in the session token under `metadata`) that grants admin access.
type AuthConfig struct {
	SecretKey string `koanf:"secret_key" validate:"required"`
	AdminRole string `koanf:"admin_role"`
}

// IntegrationConfig holds credentials and endpoints of third-party APIs.
// Every integration is optional: an empty key disables the feature and the
// corresponding client logs instead of calling out.
type IntegrationConfig struct {
	ResendAPIKey string   `koanf:"resend_api_key"`
	EmailFrom    string   `koanf:"email_from"`
	AdminEmails  []string `koanf:"admin_emails"`
	SiteURL      string   `koanf:"site_url"`

	OneSignalAppID   string `koanf:"onesignal_app_id"`
	OneSignalAPIKey  string `koanf:"onesignal_api_key"`
	OneSignalBaseURL string `koanf:"onesignal_base_url"`

	FootballDataAPIKey    string        `koanf:"football_data_api_key"`
	FootballDataBaseURL   string        `koanf:"football_data_base_url"`
	FootballDataTeamID    int           `koanf:"football_data_team_id"`
	FootballDataLeague    string        `koanf:"football_data_league"`
	FootballDataCacheTTL  time.Duration `koanf:"football_data_cache_ttl"`
	MatchSyncCron         string        `koanf:"match_sync_cron"`
	StandingsRefreshEvery time.Duration `koanf:"standings_refresh_every"`
}

// FlagsConfig controls feature-flag resolution.
//
// Overrides has the form "rsvp=true,trivia=false" and always wins.
// When FlagsmithEnvKey is set, remote flags are fetched and cached.
type FlagsConfig struct {
	Overrides       string        `koanf:"overrides"`
	FlagsmithEnvKey string        `koanf:"flagsmith_env_key"`
	FlagsmithAPIURL string        `koanf:"flagsmith_api_url"`
	CacheTTL        time.Duration `koanf:"cache_ttl"`
}

// RateLimitConfig limits public write endpoints (RSVP, contact) per client IP.
type RateLimitConfig struct {
	RequestsPerMinute int           `koanf:"requests_per_minute" validate:"min=1"`
	Burst             int           `koanf:"burst" validate:"min=1"`
	ExpiresIn         time.Duration `koanf:"expires_in"`
}

// LoadConfig loads configuration from environment variables, unmarshals it
// into the Config structs, validates it and applies defaults.
func LoadConfig() (*Config, error) {
	return loadFrom(env.Provider(EnvPrefix, ".", envKey))
}

// envKey turns BETIS_SERVER__READ_TIMEOUT into server.read_timeout.
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

func loadFrom(provider koanf.Provider) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(provider, nil); err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	mainConfig := &Config{}
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	mainConfig.applyDefaults()

	validate := validator.New()
	if err := validate.Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// Service name and environment are forced so telemetry stays consistent.
	mainConfig.Observability.ServiceName = ServiceName
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}

func (c *Config) applyDefaults() {
	if c.Observability == nil {
		c.Observability = DefaultObservabilityConfig()
	}
	if c.Flags == nil {
		c.Flags = &FlagsConfig{}
	}
	if c.Flags.CacheTTL == 0 {
		c.Flags.CacheTTL = time.Minute
	}
	if c.Flags.FlagsmithAPIURL == "" {
		c.Flags.FlagsmithAPIURL = "https://edge.api.flagsmith.com/api/v1"
	}
	if c.RateLimit == nil {
		c.RateLimit = &RateLimitConfig{RequestsPerMinute: 10, Burst: 5, ExpiresIn: 5 * time.Minute}
	}
	if c.Auth.AdminRole == "" {
		c.Auth.AdminRole = "admin"
	}

	in := &c.Integration
	if in.EmailFrom == "" {
		in.EmailFrom = "Peña Bética Escocesa <no-reply@betis-escocia.com>"
	}
	if in.OneSignalBaseURL == "" {
		in.OneSignalBaseURL = "https://api.onesignal.com"
	}
	if in.FootballDataBaseURL == "" {
		in.FootballDataBaseURL = "https://api.football-data.org/v4"
	}
	if in.FootballDataTeamID == 0 {
		in.FootballDataTeamID = 90 // Real Betis
	}
	if in.FootballDataLeague == "" {
		in.FootballDataLeague = "PD"
	}
	if in.FootballDataCacheTTL == 0 {
		in.FootballDataCacheTTL = 10 * time.Minute
	}
	if in.StandingsRefreshEvery == 0 {
		in.StandingsRefreshEvery = 30 * time.Minute
	}
}

// IsLocal reports whether the service runs on a developer machine.
func (c *Config) IsLocal() bool {
	return c.Primary.Env == "local"
}
