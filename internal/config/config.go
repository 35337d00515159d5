// Package config handles loading and validating the application configuration
// from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Database      DatabaseConfig      `yaml:"database"`
	Ebay          EbayConfig          `yaml:"ebay"`
	Source        SourceConfig        `yaml:"source"`
	Schedule      ScheduleConfig      `yaml:"schedule"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// ServerConfig defines the Echo HTTP server settings.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// DatabaseConfig defines PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
	PoolSize int    `yaml:"pool_size"`
}

// DSN returns a PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		d.Host, d.Port, d.Name, d.User, d.Password, d.SSLMode,
	)
}

// EbayConfig defines eBay API settings for both API generations: the
// legacy XML Trading API and the REST Inventory API.
type EbayConfig struct {
	// Trading API (XML).
	TradingURL         string `yaml:"trading_url"`
	AuthToken          string `yaml:"auth_token"`
	SiteID             string `yaml:"site_id"`
	CompatibilityLevel string `yaml:"compatibility_level"`

	// Inventory API (REST) + OAuth.
	AppID        string `yaml:"app_id"`
	CertID       string `yaml:"cert_id"`
	TokenURL     string `yaml:"token_url"`
	InventoryURL string `yaml:"inventory_url"`
	Marketplace  string `yaml:"marketplace"`

	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig defines Trading API rate governance settings. The
// minimum inter-call spacing is fixed in the governor; only the daily
// quota is configurable.
type RateLimitConfig struct {
	DailyLimit int64 `yaml:"daily_limit"`
}

// SourceConfig defines the source marketplace feed settings.
type SourceConfig struct {
	Endpoint string        `yaml:"endpoint"`
	APIKey   string        `yaml:"api_key"`
	Timeout  time.Duration `yaml:"timeout"`
}

// ScheduleConfig defines cron intervals.
type ScheduleConfig struct {
	SyncInterval time.Duration `yaml:"sync_interval"`
}

// NotificationsConfig defines notification targets.
type NotificationsConfig struct {
	Discord DiscordConfig `yaml:"discord"`
}

// DiscordConfig defines Discord webhook settings.
type DiscordConfig struct {
	Enabled    bool   `yaml:"enabled"`
	WebhookURL string `yaml:"webhook_url"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the YAML content.
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyDatabaseDefaults(&cfg.Database)
	applyEbayDefaults(&cfg.Ebay)
	applySourceDefaults(&cfg.Source)
	applyScheduleDefaults(&cfg.Schedule)
	applyLoggingDefaults(&cfg.Logging)
}

func applyServerDefaults(s *ServerConfig) {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 8080
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 30 * time.Second
	}
}

func applyDatabaseDefaults(d *DatabaseConfig) {
	if d.Port == 0 {
		d.Port = 5432
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}
	if d.PoolSize == 0 {
		d.PoolSize = 10
	}
}

func applyEbayDefaults(e *EbayConfig) {
	if e.TradingURL == "" {
		e.TradingURL = "https://api.ebay.com/ws/api.dll"
	}
	if e.SiteID == "" {
		e.SiteID = "0"
	}
	if e.CompatibilityLevel == "" {
		e.CompatibilityLevel = "967"
	}
	if e.TokenURL == "" {
		e.TokenURL = "https://api.ebay.com/identity/v1/oauth2/token"
	}
	if e.InventoryURL == "" {
		e.InventoryURL = "https://api.ebay.com/sell/inventory/v1"
	}
	if e.Marketplace == "" {
		e.Marketplace = "EBAY_US"
	}
	if e.RateLimit.DailyLimit == 0 {
		e.RateLimit.DailyLimit = 5000
	}
}

func applySourceDefaults(s *SourceConfig) {
	if s.Timeout == 0 {
		s.Timeout = 30 * time.Second
	}
}

func applyScheduleDefaults(s *ScheduleConfig) {
	if s.SyncInterval == 0 {
		s.SyncInterval = 15 * time.Minute
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

func validate(cfg *Config) error {
	var errs []error

	if cfg.Database.Host == "" {
		errs = append(errs, fmt.Errorf("database.host is required"))
	}
	if cfg.Database.Name == "" {
		errs = append(errs, fmt.Errorf("database.name is required"))
	}
	if cfg.Database.User == "" {
		errs = append(errs, fmt.Errorf("database.user is required"))
	}

	if cfg.Ebay.AuthToken == "" {
		errs = append(errs, fmt.Errorf("ebay.auth_token is required for Trading API calls"))
	}
	if cfg.Source.Endpoint == "" {
		errs = append(errs, fmt.Errorf("source.endpoint is required"))
	}

	return errors.Join(errs...)
}
