/*
config.go - Service configuration

PURPOSE:
  Loads server, database, logging, bank-holiday and calendar settings from
  an optional YAML file and LEAVE_-prefixed environment variables, on top of
  built-in defaults.

PRECEDENCE (lowest to highest):
  1. Defaults (setDefaults)
  2. YAML file, when present
  3. Environment: LEAVE_SERVER_PORT, LEAVE_DATABASE_PATH, LEAVE_HOLIDAYS_SOURCE, ...
  4. Command-line flags applied by cmd/server

SEE ALSO:
  - logging/logging.go: Builds the zap logger from LoggerConfig
  - cmd/server/main.go: Flag overrides and wiring
*/
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/warp/leave-engine/generic"
	"github.com/warp/leave-engine/holidays"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "LEAVE"

// Holiday source names.
const (
	SourceComputed = "computed"
	SourceGovUK    = "govuk"
	SourceStore    = "store"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Logger   LoggerConfig   `mapstructure:"logger"`
	Holidays HolidayConfig  `mapstructure:"holidays"`
	Calendar CalendarConfig `mapstructure:"calendar"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, or file path
	Format     string `mapstructure:"format"`      // json or console
}

// HolidayConfig selects where bank holidays come from.
type HolidayConfig struct {
	Region       string        `mapstructure:"region"`
	Source       string        `mapstructure:"source"`
	GovUKURL     string        `mapstructure:"govuk_url"`
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
	// SyncInterval is how often the govuk source is copied into the store.
	// Zero disables the background sync.
	SyncInterval time.Duration `mapstructure:"sync_interval"`
}

// CalendarConfig controls how instants become calendar dates.
type CalendarConfig struct {
	Timezone string `mapstructure:"timezone"`
}

// Load reads configuration from configPath (may be empty or missing) and the
// environment.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			v.SetConfigFile(configPath)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173", "http://localhost:8080"})

	v.SetDefault("database.path", "leave.db")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.output_path", "stdout")
	v.SetDefault("logger.format", "json")

	v.SetDefault("holidays.region", holidays.RegionEnglandAndWales)
	v.SetDefault("holidays.source", SourceComputed)
	v.SetDefault("holidays.govuk_url", holidays.DefaultGovUKURL)
	v.SetDefault("holidays.fetch_timeout", 10*time.Second)
	v.SetDefault("holidays.sync_interval", 24*time.Hour)

	v.SetDefault("calendar.timezone", "Europe/London")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("database.path is required")
	}

	switch c.Holidays.Source {
	case SourceComputed, SourceGovUK, SourceStore:
	default:
		return fmt.Errorf("holidays.source %q must be one of computed, govuk, store", c.Holidays.Source)
	}
	if c.Holidays.SyncInterval < 0 {
		return fmt.Errorf("holidays.sync_interval must not be negative")
	}
	if !holidays.KnownRegion(c.Holidays.Region) {
		return fmt.Errorf("holidays.region %q: %w", c.Holidays.Region, generic.ErrRegionUnknown)
	}

	if _, err := generic.LoadLocation(c.Calendar.Timezone); err != nil {
		return fmt.Errorf("calendar.timezone: %w", err)
	}
	return nil
}

// Location resolves Calendar.Timezone.
func (c *Config) Location() *time.Location {
	loc, err := generic.LoadLocation(c.Calendar.Timezone)
	if err != nil {
		return generic.DefaultLocation
	}
	return loc
}
