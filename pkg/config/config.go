// Package config loads application configuration from the environment.
//
// Values are resolved in order: built-in defaults, a `.env` file when present,
// then process environment variables. The result is validated before use so the
// binary fails fast on a bad deployment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Storage drivers
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig       `koanf:"app" validate:"required"`
	Server    ServerConfig    `koanf:"server" validate:"required"`
	Database  DatabaseConfig  `koanf:"database" validate:"required"`
	Redis     RedisConfig     `koanf:"redis"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	OTEL      OTELConfig      `koanf:"otel"`
	Seed      SeedConfig      `koanf:"seed"`
}

// AppConfig holds runtime environment settings
type AppConfig struct {
	Env            string   `koanf:"env" validate:"required,oneof=development staging production test"`
	StorageDriver  string   `koanf:"storage_driver" validate:"required,oneof=postgres memory"`
	AllowedOrigins []string `koanf:"allowed_origins"`
	LogLevel       string   `koanf:"log_level" validate:"oneof=debug info warn error"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host                string `koanf:"host"`
	Port                int    `koanf:"port" validate:"min=1,max=65535"`
	ReadTimeoutSeconds  int    `koanf:"read_timeout_seconds" validate:"min=1"`
	WriteTimeoutSeconds int    `koanf:"write_timeout_seconds" validate:"min=1"`
	IdleTimeoutSeconds  int    `koanf:"idle_timeout_seconds" validate:"min=1"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host                string `koanf:"host" validate:"required"`
	Port                int    `koanf:"port" validate:"min=1,max=65535"`
	User                string `koanf:"user" validate:"required"`
	Password            string `koanf:"password"`
	Database            string `koanf:"name" validate:"required"`
	SSLMode             string `koanf:"ssl_mode" validate:"oneof=disable require verify-ca verify-full"`
	MaxOpenConns        int    `koanf:"max_open_conns" validate:"min=1"`
	MaxIdleConns        int    `koanf:"max_idle_conns" validate:"min=0"`
	ConnMaxLifetimeMins int    `koanf:"conn_max_lifetime_minutes" validate:"min=1"`
	QueryTimeoutSeconds int    `koanf:"query_timeout_seconds" validate:"min=1"`
	RunMigrations       bool   `koanf:"run_migrations"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

// RateLimitConfig holds the per-client request budget
type RateLimitConfig struct {
	Enabled       bool `koanf:"enabled"`
	Requests      int  `koanf:"requests" validate:"min=1"`
	WindowSeconds int  `koanf:"window_seconds" validate:"min=1"`
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string `koanf:"service_name"`
	ServiceVersion string `koanf:"service_version"`
	Endpoint       string `koanf:"endpoint"`
	Enabled        bool   `koanf:"enabled"`
}

// SeedConfig controls fixture loading
type SeedConfig struct {
	// Reset truncates every table before seeding
	Reset bool `koanf:"reset"`
	// OnStartup loads the fixtures when the API starts, used with the memory driver
	OnStartup bool `koanf:"on_startup"`
}

// envKeys maps the supported environment variables to koanf key paths.
var envKeys = map[string]string{
	"APP_ENV":                      "app.env",
	"STORAGE_DRIVER":               "app.storage_driver",
	"ALLOWED_ORIGINS":              "app.allowed_origins",
	"LOG_LEVEL":                    "app.log_level",
	"SERVER_HOST":                  "server.host",
	"SERVER_PORT":                  "server.port",
	"SERVER_READ_TIMEOUT_SECONDS":  "server.read_timeout_seconds",
	"SERVER_WRITE_TIMEOUT_SECONDS": "server.write_timeout_seconds",
	"SERVER_IDLE_TIMEOUT_SECONDS":  "server.idle_timeout_seconds",
	"DB_HOST":                      "database.host",
	"DB_PORT":                      "database.port",
	"DB_USER":                      "database.user",
	"DB_PASSWORD":                  "database.password",
	"DB_NAME":                      "database.name",
	"DB_SSLMODE":                   "database.ssl_mode",
	"DB_MAX_OPEN_CONNS":            "database.max_open_conns",
	"DB_MAX_IDLE_CONNS":            "database.max_idle_conns",
	"DB_CONN_MAX_LIFETIME_MINUTES": "database.conn_max_lifetime_minutes",
	"DB_QUERY_TIMEOUT_SECONDS":     "database.query_timeout_seconds",
	"DB_RUN_MIGRATIONS":            "database.run_migrations",
	"REDIS_HOST":                   "redis.host",
	"REDIS_PORT":                   "redis.port",
	"REDIS_PASSWORD":               "redis.password",
	"REDIS_DB":                     "redis.db",
	"RATE_LIMIT_ENABLED":           "rate_limit.enabled",
	"RATE_LIMIT_REQUESTS":          "rate_limit.requests",
	"RATE_LIMIT_WINDOW_SECONDS":    "rate_limit.window_seconds",
	"OTEL_SERVICE_NAME":            "otel.service_name",
	"OTEL_SERVICE_VERSION":         "otel.service_version",
	"OTEL_ENDPOINT":                "otel.endpoint",
	"OTEL_ENABLED":                 "otel.enabled",
	"RESET_DB":                     "seed.reset",
	"SEED_ON_STARTUP":              "seed.on_startup",
}

// Default returns the configuration used when no environment overrides are set
func Default() *Config {
	return &Config{
		App: AppConfig{
			Env:            "development",
			StorageDriver:  StoragePostgres,
			AllowedOrigins: []string{"*"},
			LogLevel:       "info",
		},
		Server: ServerConfig{
			Host:                "0.0.0.0",
			Port:                8080,
			ReadTimeoutSeconds:  15,
			WriteTimeoutSeconds: 15,
			IdleTimeoutSeconds:  60,
		},
		Database: DatabaseConfig{
			Host:                "localhost",
			Port:                5432,
			User:                "postgres",
			Database:            "mechanic_finder",
			SSLMode:             "disable",
			MaxOpenConns:        25,
			MaxIdleConns:        5,
			ConnMaxLifetimeMins: 5,
			QueryTimeoutSeconds: 5,
			RunMigrations:       true,
		},
		Redis: RedisConfig{
			Host: "",
			Port: 6379,
		},
		RateLimit: RateLimitConfig{
			Enabled:       true,
			Requests:      100,
			WindowSeconds: 60,
		},
		OTEL: OTELConfig{
			ServiceName:    "mechanic-finder",
			ServiceVersion: "1.0.0",
		},
	}
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.ProviderWithValue("", ".", func(key, value string) (string, interface{}) {
		path, ok := envKeys[key]
		if !ok {
			return "", nil
		}
		if path == "app.allowed_origins" {
			return path, splitList(value)
		}
		return path, value
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// IsDevelopment reports whether error details may be exposed to clients
func (c *AppConfig) IsDevelopment() bool {
	return c.Env == "development"
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// QueryTimeout returns the per-query deadline
func (c *DatabaseConfig) QueryTimeout() time.Duration {
	return time.Duration(c.QueryTimeoutSeconds) * time.Second
}

// Enabled reports whether a Redis host is configured
func (c *RedisConfig) Enabled() bool {
	return c.Host != ""
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Window returns the rate limit window
func (c *RateLimitConfig) Window() time.Duration {
	return time.Duration(c.WindowSeconds) * time.Second
}
