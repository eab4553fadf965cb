// Package config handles application configuration loading and validation using Viper.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	PlayFab  PlayFabConfig  `mapstructure:"playfab"`
	Database DatabaseConfig `mapstructure:"database"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Fetch    FetchConfig    `mapstructure:"fetch"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig contains HTTP read-API server configuration.
type ServerConfig struct {
	Port        int    `mapstructure:"port"`
	Environment string `mapstructure:"environment"`
}

// PlayFabConfig contains PlayFab Server API connection and authentication settings.
type PlayFabConfig struct {
	TitleID   string `mapstructure:"title_id"`
	SecretKey string `mapstructure:"secret_key"`
}

// DatabaseConfig selects and configures the storage backend.
// Driver is "sqlite" (default) or "postgres".
type DatabaseConfig struct {
	Driver   string         `mapstructure:"driver"`
	SQLite   SQLiteConfig   `mapstructure:"sqlite"`
	Postgres PostgresConfig `mapstructure:"postgres"`
}

// SQLiteConfig contains the SQLite database file location.
type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

// PostgresConfig contains PostgreSQL database connection and pool settings.
type PostgresConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Database        string `mapstructure:"database"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"ssl_mode"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

// CacheConfig contains Redis response cache settings for the read API.
type CacheConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	Password   string `mapstructure:"password"`
	DB         int    `mapstructure:"db"`
	TTLSeconds int    `mapstructure:"ttl_seconds"`
}

// FetchConfig contains leaderboard fetch pipeline settings.
type FetchConfig struct {
	PageSize        int    `mapstructure:"page_size"`
	PageDelayMS     int    `mapstructure:"page_delay_ms"`
	StatisticPrefix string `mapstructure:"statistic_prefix"`
}

// LoggingConfig contains application logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// Load reads configuration from file and environment variables. The config
// file is optional when no explicit path is given; environment variables and
// defaults alone are enough to run.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/fits-tracker/")
	}

	setDefaults(v)

	// Bind specific environment variables (explicit bindings for 12-factor app compliance)
	_ = v.BindEnv("server.port", "SERVER_PORT")
	_ = v.BindEnv("server.environment", "SERVER_ENVIRONMENT")

	_ = v.BindEnv("playfab.title_id", "PLAYFAB_TITLE_ID")
	_ = v.BindEnv("playfab.secret_key", "PLAYFAB_SECRET_KEY", "PLAYFAB_DEV_SECRET_KEY")

	_ = v.BindEnv("database.driver", "DB_DRIVER")
	_ = v.BindEnv("database.sqlite.path", "DB_PATH")
	_ = v.BindEnv("database.postgres.host", "POSTGRES_HOST")
	_ = v.BindEnv("database.postgres.port", "POSTGRES_PORT")
	_ = v.BindEnv("database.postgres.database", "POSTGRES_DB")
	_ = v.BindEnv("database.postgres.user", "POSTGRES_USER")
	_ = v.BindEnv("database.postgres.password", "POSTGRES_PASSWORD")
	_ = v.BindEnv("database.postgres.ssl_mode", "POSTGRES_SSL_MODE")

	_ = v.BindEnv("cache.enabled", "REDIS_ENABLED")
	_ = v.BindEnv("cache.host", "REDIS_HOST")
	_ = v.BindEnv("cache.port", "REDIS_PORT")
	_ = v.BindEnv("cache.password", "REDIS_PASSWORD")
	_ = v.BindEnv("cache.db", "REDIS_DB")
	_ = v.BindEnv("cache.ttl_seconds", "REDIS_TTL_SECONDS")

	_ = v.BindEnv("fetch.page_size", "FETCH_PAGE_SIZE")
	_ = v.BindEnv("fetch.page_delay_ms", "FETCH_PAGE_DELAY_MS")
	_ = v.BindEnv("fetch.statistic_prefix", "FETCH_STATISTIC_PREFIX")

	_ = v.BindEnv("logging.level", "LOG_LEVEL")
	_ = v.BindEnv("logging.format", "LOG_FORMAT")
	_ = v.BindEnv("logging.output", "LOG_OUTPUT")

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound || configPath != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults registers documented defaults.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.environment", "production")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.sqlite.path", "data/fits.db")
	v.SetDefault("database.postgres.port", 5432)
	v.SetDefault("database.postgres.ssl_mode", "disable")
	v.SetDefault("database.postgres.max_open_conns", 10)
	v.SetDefault("database.postgres.max_idle_conns", 5)
	v.SetDefault("database.postgres.conn_max_lifetime", 300)
	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.port", 6379)
	v.SetDefault("cache.ttl_seconds", 300)
	v.SetDefault("fetch.page_size", 100)
	v.SetDefault("fetch.page_delay_ms", 1000)
	v.SetDefault("fetch.statistic_prefix", "DailyChallenge")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.PlayFab.TitleID == "" {
		return fmt.Errorf("playfab.title_id is required")
	}
	if c.Fetch.PageSize < 1 || c.Fetch.PageSize > 100 {
		return fmt.Errorf("fetch.page_size must be between 1 and 100, got %d", c.Fetch.PageSize)
	}
	if c.Fetch.PageDelayMS < 0 {
		return fmt.Errorf("fetch.page_delay_ms must not be negative")
	}
	switch c.Database.Driver {
	case "sqlite":
		if c.Database.SQLite.Path == "" {
			return fmt.Errorf("database.sqlite.path is required")
		}
	case "postgres":
		if c.Database.Postgres.Host == "" {
			return fmt.Errorf("database.postgres.host is required")
		}
		if c.Database.Postgres.Database == "" {
			return fmt.Errorf("database.postgres.database is required")
		}
		if c.Database.Postgres.User == "" {
			return fmt.Errorf("database.postgres.user is required")
		}
	default:
		return fmt.Errorf("database.driver must be sqlite or postgres, got %q", c.Database.Driver)
	}
	if c.Cache.Enabled && c.Cache.Host == "" {
		return fmt.Errorf("cache.host is required when cache is enabled")
	}
	return nil
}

// PageDelay returns the configured inter-page delay.
func (c *FetchConfig) PageDelay() time.Duration {
	return time.Duration(c.PageDelayMS) * time.Millisecond
}

// CacheTTL returns the configured cache entry lifetime.
func (c *CacheConfig) CacheTTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}
