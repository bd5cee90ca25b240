// Package config loads server configuration from config.toml and the
// environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Log      LogConfig
	Admin    AdminConfig
}

// ServerConfig holds HTTP listener settings
type ServerConfig struct {
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds the SQLite file location
type DatabaseConfig struct {
	Path string
}

// CacheConfig sizes the per-user transaction cache
type CacheConfig struct {
	Capacity int // number of users whose lists are kept
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string // debug, info, warn, error
}

// AdminConfig configures the tokens that guard the admin RPCs.
// An empty Secret disables the admin service.
type AdminConfig struct {
	Secret   string
	TokenTTL time.Duration
	Issuer   string
}

// Enabled reports whether admin RPCs should be served.
func (a AdminConfig) Enabled() bool {
	return a.Secret != ""
}

// Load reads configuration.
//
// Priority (highest to lowest):
// 1. Environment variables with FINANCERY_ prefix (e.g., FINANCERY_DATABASE_PATH)
// 2. config.toml in . or /etc/financery
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/financery")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("FINANCERY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Port:            v.GetInt("server.port"),
			ReadTimeout:     v.GetDuration("server.read_timeout"),
			WriteTimeout:    v.GetDuration("server.write_timeout"),
			ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		},
		Database: DatabaseConfig{
			Path: v.GetString("database.path"),
		},
		Cache: CacheConfig{
			Capacity: v.GetInt("cache.capacity"),
		},
		Log: LogConfig{
			Level: v.GetString("log.level"),
		},
		Admin: AdminConfig{
			Secret:   v.GetString("admin.secret"),
			TokenTTL: v.GetDuration("admin.token_ttl"),
			Issuer:   v.GetString("admin.issuer"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 15 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "./data/financery.db"
	}
	if cfg.Cache.Capacity == 0 {
		cfg.Cache.Capacity = 3
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Admin.TokenTTL == 0 {
		cfg.Admin.TokenTTL = 24 * time.Hour
	}
	if cfg.Admin.Issuer == "" {
		cfg.Admin.Issuer = "financery"
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Cache.Capacity < 1 {
		return fmt.Errorf("cache.capacity must be at least 1, got %d", c.Cache.Capacity)
	}
	if strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Admin.TokenTTL < 0 {
		return fmt.Errorf("admin.token_ttl must be positive")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}
	return nil
}

// Addr returns the listen address for the server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}
