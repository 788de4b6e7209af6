package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"chorechampions/internal/validation"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

// Storage backends for the persisted state blob
const (
	StoreSQL    = "sql"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

// Config holds application configuration
type Config struct {
	ServerPort     string `toml:"port" env:"PORT"`
	DatabaseType   string `toml:"db_type" env:"DB_TYPE"`
	DatabasePath   string `toml:"db_path" env:"DB_PATH"`
	DatabaseURL    string `toml:"database_url" env:"DATABASE_URL"`
	MigrationsPath string `toml:"migrations_path" env:"MIGRATIONS_PATH"`
	StoreType      string `toml:"store_type" env:"STORE_TYPE"`
	RedisURL       string `toml:"redis_url" env:"REDIS_URL"`
	SeedFile       string `toml:"seed_file" env:"SEED_FILE"`

	ParentPassword  string        `toml:"parent_password" env:"PARENT_PASSWORD"`
	SessionSecret   string        `toml:"session_secret" env:"SESSION_SECRET"`
	SessionDuration time.Duration `toml:"session_duration" env:"SESSION_DURATION"`

	GeminiAPIKey   string        `toml:"gemini_api_key" env:"GEMINI_API_KEY"`
	GeminiModel    string        `toml:"gemini_model" env:"GEMINI_MODEL"`
	GeminiBaseURL  string        `toml:"gemini_base_url" env:"GEMINI_BASE_URL"`
	JudgeTimeout   time.Duration `toml:"judge_timeout" env:"JUDGE_TIMEOUT"`
	TeachBackDelay time.Duration `toml:"teachback_delay" env:"TEACHBACK_DELAY"`

	DailyRollover bool `toml:"daily_rollover" env:"DAILY_ROLLOVER"`

	AWSRegion    string `toml:"aws_region" env:"AWS_REGION"`
	SESFromEmail string `toml:"ses_from_email" env:"SES_FROM_EMAIL"`
	SESFromName  string `toml:"ses_from_name" env:"SES_FROM_NAME"`
	ParentEmail  string `toml:"parent_email" env:"PARENT_EMAIL"`

	Debug bool `toml:"debug" env:"DEBUG"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		ServerPort:      "8080",
		DatabaseType:    "sqlite",
		DatabasePath:    "./chorechampions.db",
		MigrationsPath:  "./migrations",
		StoreType:       StoreSQL,
		ParentPassword:  "admin123",
		SessionDuration: 24 * time.Hour,
		GeminiModel:     "gemini-1.5-flash",
		GeminiBaseURL:   "https://generativelanguage.googleapis.com",
		JudgeTimeout:    20 * time.Second,
		TeachBackDelay:  2 * time.Second,
		DailyRollover:   true,
		AWSRegion:       "us-east-1",
		SESFromName:     "Chore Champions",
	}
}

// Load builds the configuration from defaults, then the optional TOML file
// named by CONFIG_FILE, then environment variables
func Load() (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(getEnv("CONFIG_FILE", "./chorechampions.toml")); err != nil {
		return nil, err
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFile decodes a TOML file over the current values. A missing file is not an error.
func (c *Config) loadFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to stat config: %w", err)
	}
	if _, err := toml.DecodeFile(path, c); err != nil {
		return fmt.Errorf("failed to decode config: %w", err)
	}
	return nil
}

// Validate checks that the selected backends have what they need
func (c *Config) Validate() error {
	c.DatabaseType = strings.ToLower(strings.TrimSpace(c.DatabaseType))
	c.StoreType = strings.ToLower(strings.TrimSpace(c.StoreType))

	switch c.StoreType {
	case StoreSQL:
		switch c.DatabaseType {
		case "sqlite", "sqlite3":
			if c.DatabasePath == "" {
				return fmt.Errorf("DB_PATH is required for sqlite")
			}
		case "postgres", "postgresql", "mysql":
			if c.DatabaseURL == "" {
				return fmt.Errorf("DATABASE_URL is required for %s", c.DatabaseType)
			}
		default:
			return fmt.Errorf("unsupported database type: %s", c.DatabaseType)
		}
	case StoreRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when STORE_TYPE=redis")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unsupported store type: %s", c.StoreType)
	}

	if c.ParentPassword == "" {
		return fmt.Errorf("PARENT_PASSWORD must not be empty")
	}
	if c.SessionDuration <= 0 {
		return fmt.Errorf("SESSION_DURATION must be positive")
	}

	// Notification addresses are optional; when set they must be well formed
	if c.SESFromEmail != "" {
		if err := validation.ValidateEmail(c.SESFromEmail); err != nil {
			return fmt.Errorf("invalid SES_FROM_EMAIL: %w", err)
		}
	}
	if c.ParentEmail != "" {
		if err := validation.ValidateEmail(c.ParentEmail); err != nil {
			return fmt.Errorf("invalid PARENT_EMAIL: %w", err)
		}
	}
	return nil
}

// DatabaseDSN returns the connection string for the configured database
func (c *Config) DatabaseDSN() string {
	if c.DatabaseType == "sqlite" || c.DatabaseType == "sqlite3" {
		return c.DatabasePath
	}
	return c.DatabaseURL
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
