package config

import (
	"fmt"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for alvo-engine.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets (passwords) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"0.0.0.0"`
	Port     string `yaml:"port" env:"PORT" env-default:"3000"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// MaxBodyBytes caps request body size. Photo and document payloads arrive
	// base64-inlined, so the ceiling is generous.
	MaxBodyBytes int64 `yaml:"max_body_bytes" env:"MAX_BODY_BYTES" env-default:"52428800"`

	// CORSAllowedOriginsStr is a comma-separated list of allowed origins.
	// "*" allows any origin.
	CORSAllowedOriginsStr string `yaml:"cors_allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-default:"*"`

	// CORSAllowedOrigins is the parsed list from CORSAllowedOriginsStr (not from config file).
	CORSAllowedOrigins []string `yaml:"-"`

	// MigrationsPath is the directory containing golang-migrate SQL files.
	MigrationsPath string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"migrations"`

	// UIDir is the directory of built frontend assets served at /.
	UIDir string `yaml:"ui_dir" env:"UI_DIR" env-default:"./ui/dist"`

	// Database configuration (PostgreSQL)
	Database DatabaseConfig `yaml:"database"`

	// Redis configuration (optional, used to cache geography lookups)
	Redis RedisConfig `yaml:"redis"`

	// Geo holds the IBGE localidades service settings
	Geo GeoConfig `yaml:"geo"`
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"alvo"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"alvo_engine"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"25"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
}

// RedisConfig holds Redis configuration. Leave Host empty to run without a cache.
type RedisConfig struct {
	Host     string `yaml:"host" env:"REDIS_HOST" env-default:""`
	Port     int    `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password string `yaml:"-" env:"REDIS_PASSWORD"` // Secret - not in YAML
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

// GeoConfig holds settings for the IBGE localidades reference service.
type GeoConfig struct {
	// BaseURL is the IBGE localidades API root.
	BaseURL string `yaml:"base_url" env:"GEO_BASE_URL" env-default:"https://servicodados.ibge.gov.br/api/v1/localidades"`
	// CacheTTLMinutes is how long state/municipality lists are cached in Redis.
	CacheTTLMinutes int `yaml:"cache_ttl_minutes" env:"GEO_CACHE_TTL_MINUTES" env-default:"1440"`
}

// Load reads configuration from config.yaml with environment variable overrides.
// The version parameter is injected at build time and set on the returned Config.
// Environment variables override YAML values. Secrets (PGPASSWORD, REDIS_PASSWORD)
// must come from environment variables (yaml:"-" fields).
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
		return nil, fmt.Errorf("failed to read config.yaml: %w", err)
	}

	cfg.CORSAllowedOrigins = parseOrigins(cfg.CORSAllowedOriginsStr)

	return cfg, nil
}

// parseOrigins splits the comma-separated origin list, trimming whitespace and
// dropping empty entries.
func parseOrigins(value string) []string {
	var origins []string
	for _, o := range strings.Split(value, ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// ConnectionString returns a PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// Addr returns the Redis host:port address.
func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
