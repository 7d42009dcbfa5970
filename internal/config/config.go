package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	ErrMissingEnvironmentVariables = errors.New("missing required environment variables")
	ErrUnknownStorageDriver        = errors.New("unknown storage driver")
	ErrNoTransport                 = errors.New("neither telegram nor http transport is configured")
)

// Storage drivers.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env              string   `mapstructure:"env"`      // current application environment (local, dev, production etc)
	TelegramAPIToken string   `mapstructure:"-"`        // Telegram API token loaded from environment, bot disabled when empty
	Storage          Storage  `mapstructure:"storage"`  // state store selection
	DB               DB       `mapstructure:"database"` // database configuration section
	HTTP             HTTP     `mapstructure:"http"`     // HTTP API section
	Registry         Registry `mapstructure:"registry"` // registry bootstrap options
	Audit            Audit    `mapstructure:"audit"`    // invariant audit job
}

// Storage selects where registry state lives.
type Storage struct {
	Driver     string `mapstructure:"driver"`      // memory, postgres or sqlite
	SQLitePath string `mapstructure:"sqlite_path"` // database file for the sqlite driver
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // database connection string loaded from environment
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

// HTTP contains HTTP API parameters.
type HTTP struct {
	Addr      string `mapstructure:"addr"` // listen address
	JWTSecret string `mapstructure:"-"`    // HS256 secret loaded from environment, API disabled when empty
}

// Registry contains registry bootstrap parameters.
type Registry struct {
	Owner             string `mapstructure:"owner"`               // identity that creates the registry on first start
	LegacyGrantResult bool   `mapstructure:"legacy_grant_result"` // report InvalidCaller after a successful educator grant
}

// Audit contains the invariant audit schedule.
type Audit struct {
	Schedule string `mapstructure:"schedule"` // cron spec
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

// Load reads configuration from .env, config files and environment variables.
func Load() (*Config, error) {
	// Populate the process environment from .env when present.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	// Initialize Viper instance and base config options.
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	// Set default values for configuration keys.
	v.SetDefault("env", "local")
	v.SetDefault("storage.driver", DriverMemory)
	v.SetDefault("storage.sqlite_path", "data/registry.db")
	v.SetDefault("database.max_connections", 20)
	v.SetDefault("database.max_conn_lifetime", "30s")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("registry.owner", "")
	v.SetDefault("registry.legacy_grant_result", false)
	v.SetDefault("audit.schedule", "@every 1h")

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("http_jwt_secret", "HTTP_JWT_SECRET")
	_ = v.BindEnv("env", "APP_ENV")
	_ = v.BindEnv("storage.driver", "STORAGE_DRIVER")
	_ = v.BindEnv("registry.owner", "REGISTRY_OWNER")

	// Try to read configuration file if present.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	// Unmarshal configuration into strongly typed struct.
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Load sensitive values from environment variables.
	cfg.TelegramAPIToken = v.GetString("telegram_api_token")
	cfg.HTTP.JWTSecret = v.GetString("http_jwt_secret")
	cfg.DB.URL = v.GetString("database_url")

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case DriverMemory, DriverSQLite:
	case DriverPostgres:
		if c.DB.URL == "" {
			return ErrMissingEnvironmentVariables
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStorageDriver, c.Storage.Driver)
	}

	if c.TelegramAPIToken == "" && c.HTTP.JWTSecret == "" {
		return ErrNoTransport
	}

	return nil
}
