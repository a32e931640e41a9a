// Package config provides configuration management for the bonkboard service
package config

import (
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds the application configuration
type Config struct {
	Url         string        `envconfig:"URL" default:"https://api.coingecko.com/api/v3"` // CoinGecko API base URL
	Assets      string        `envconfig:"ASSETS" default:"solana,bonk"`                   // Comma-separated CoinGecko coin ids, in display order
	Interval    time.Duration `envconfig:"INTERVAL" default:"60s"`                         // Time between two polling cycles
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"10s"`                     // Per-request client timeout
	Addr        string        `envconfig:"ADDR" default:":8080"`                           // Dashboard listen address
	GamesFile   string        `envconfig:"GAMES_FILE"`                                     // Optional game catalog override
	LogLevel    string        `envconfig:"LOG_LEVEL" default:"info"`
	LogPretty   bool          `envconfig:"LOG_PRETTY" default:"false"`

	envFiles []string // loaded into the environment before it is processed
}

// Option is a function that modifies Config
type Option func(*Config) error

// WithEnvFile loads configuration from a .env file. The file is read before
// the environment is processed, whatever the option's position.
func WithEnvFile(path string) Option {
	return func(c *Config) error {
		c.envFiles = append(c.envFiles, path)
		return nil
	}
}

// WithAddr sets the dashboard listen address
func WithAddr(addr string) Option {
	return func(c *Config) error {
		c.Addr = addr
		return nil
	}
}

// WithInterval sets the polling interval
func WithInterval(d time.Duration) Option {
	return func(c *Config) error {
		if d <= 0 {
			return fmt.Errorf("interval must be positive, got %s", d)
		}
		c.Interval = d
		return nil
	}
}

// validate performs validation on the config values
func (c *Config) validate() error {
	if c.Url == "" {
		return fmt.Errorf("CoinGecko URL is required")
	}
	if _, err := url.ParseRequestURI(c.Url); err != nil {
		return fmt.Errorf("invalid CoinGecko URL: %s", c.Url)
	}

	if strings.TrimSpace(c.Assets) == "" {
		return fmt.Errorf("no assets specified")
	}
	for _, asset := range strings.Split(c.Assets, ",") {
		if strings.TrimSpace(asset) == "" {
			return fmt.Errorf("empty asset in list")
		}
	}

	if c.Interval <= 0 {
		return fmt.Errorf("interval must be positive, got %s", c.Interval)
	}

	return nil
}

// NewConfig creates a new validated Config instance
func NewConfig(opts ...Option) (*Config, error) {
	var cfg Config

	// Collect env files first so their values are in the environment
	var pre Config
	for _, opt := range opts {
		_ = opt(&pre)
	}
	for _, path := range pre.envFiles {
		if err := godotenv.Load(path); err != nil {
			log.Printf("⚠️ Warning: failed to load env file: %v", err)
		}
	}

	// Process environment variables
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	// Apply user options last so they take precedence
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			log.Printf("⚠️ Warning: option application failed: %v", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// AssetList returns the tracked assets as a slice
func (c *Config) AssetList() []string {
	parts := strings.Split(c.Assets, ",")
	assets := make([]string, 0, len(parts))

	for _, p := range parts {
		assets = append(assets, strings.TrimSpace(p))
	}

	return assets
}
