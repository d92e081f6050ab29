// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration. Values here are the startup
// defaults; the auto-engage flag and classifier credential can be changed at
// runtime through the settings API.
type Config struct {
	Port             string
	AllowedOrigin    string
	DBPath           string
	ClassifierURL    string
	ClassifierAPIKey string
	AutoEngage       bool
	RequestTimeout   time.Duration
	SnapshotInterval time.Duration
	Journal          JournalConfig
}

// JournalConfig controls NDJSON engagement journaling.
type JournalConfig struct {
	Enabled       bool
	Dir           string
	GlobalEnabled bool
	GlobalPath    string
	QueueSize     int
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	queueSize := getEnvInt("JOURNAL_QUEUE_SIZE", 1000)
	if queueSize <= 0 {
		queueSize = 1000
	}

	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		AllowedOrigin:    getEnv("ALLOWED_ORIGIN", "*"),
		DBPath:           getEnv("DB_PATH", "./data/honeyguard.db"),
		ClassifierURL:    getEnv("CLASSIFIER_URL", "http://127.0.0.1:8000"),
		ClassifierAPIKey: getEnv("CLASSIFIER_API_KEY", ""),
		AutoEngage:       getEnvBool("AUTO_ENGAGE_ENABLED", false),
		RequestTimeout:   getEnvDuration("CLASSIFIER_TIMEOUT", 30*time.Second),
		SnapshotInterval: getEnvDuration("SNAPSHOT_INTERVAL", 30*time.Second),
		Journal: JournalConfig{
			Enabled:       getEnvBool("JOURNAL_ENABLED", true),
			Dir:           getEnv("JOURNAL_DIR", "./data/journal"),
			GlobalEnabled: getEnvBool("JOURNAL_GLOBAL_ENABLED", false),
			GlobalPath:    getEnv("JOURNAL_GLOBAL_PATH", "./data/journal/all.ndjson"),
			QueueSize:     queueSize,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.ClassifierURL == "" {
		return fmt.Errorf("CLASSIFIER_URL cannot be empty")
	}
	if c.Journal.Enabled && c.Journal.Dir == "" {
		return fmt.Errorf("JOURNAL_DIR cannot be empty")
	}
	if c.Journal.GlobalEnabled && c.Journal.GlobalPath == "" {
		return fmt.Errorf("JOURNAL_GLOBAL_PATH cannot be empty")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AllowedOrigin == "*" ||
		strings.Contains(c.AllowedOrigin, "localhost") ||
		strings.Contains(c.AllowedOrigin, "127.0.0.1")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
