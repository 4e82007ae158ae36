package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
// The discord token is deliberately not part of it; secrets come
// from the environment
type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Bot          BotConfig          `yaml:"bot"`
	Lookup       LookupConfig       `yaml:"lookup"`
	Housekeeping HousekeepingConfig `yaml:"housekeeping"`
}

// ServerConfig holds the snapshot API configuration
type ServerConfig struct {
	Port int `yaml:"port"`
}

// BotConfig holds the chat command configuration
type BotConfig struct {
	Prefix           string        `yaml:"prefix"`
	MessageCacheSize int           `yaml:"message_cache_size"`
	MaxReminder      time.Duration `yaml:"max_reminder"`
}

// LookupConfig limits the outbound lookup requests (ip geolocation,
// url shortening) so third party APIs do not rate limit us
type LookupConfig struct {
	Requests int           `yaml:"requests"`
	Window   time.Duration `yaml:"window"`
}

// HousekeepingConfig drives the periodic cache statistics log
type HousekeepingConfig struct {
	Interval time.Duration `yaml:"interval"`
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyDefaults()

	return &cfg, nil
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 5005
	}
	if c.Bot.Prefix == "" {
		c.Bot.Prefix = "!"
	}
	if c.Bot.MessageCacheSize == 0 {
		c.Bot.MessageCacheSize = 200
	}
	if c.Bot.MaxReminder == 0 {
		c.Bot.MaxReminder = 7 * 24 * time.Hour
	}
	// ip-api.com allows 45 requests per minute on the free tier
	if c.Lookup.Requests == 0 {
		c.Lookup.Requests = 45
	}
	if c.Lookup.Window == 0 {
		c.Lookup.Window = time.Minute
	}
	if c.Housekeeping.Interval == 0 {
		c.Housekeeping.Interval = time.Hour
	}
}

// DefaultConfig returns a configuration with all defaults
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}
