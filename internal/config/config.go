package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/kovacsd/petcare/pkg/clients/registry"
)

// Config represents the full application configuration surface.
type Config struct {
	Server   ServerConfig
	Backend  BackendConfig
	Auth     AuthConfig
	Registry RegistryConfig
	Reminder ReminderConfig
	Owner    string
	LogLevel string
}

// ServerConfig holds options for the local UI facade.
type ServerConfig struct {
	Port string
}

// BackendConfig points at the remote pets API.
type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
}

// AuthConfig holds credential acquisition settings. Either a static token or
// the OAuth2 client-credentials triple is used.
type AuthConfig struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
	Audience     string
	StaticToken  string
}

// RegistryConfig selects and points at the horse registry schema.
type RegistryConfig struct {
	Schema  string
	BaseURL string
}

// ReminderConfig holds the vaccination-expiry reminder settings.
type ReminderConfig struct {
	CronSchedule string
	WindowDays   int
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Missing .env files are acceptable when configuration comes from the
		// environment directly.
		_ = godotenv.Load()
	}

	timeout, err := time.ParseDuration(getenvWithDefault("BACKEND_TIMEOUT", "15s"))
	if err != nil {
		return nil, fmt.Errorf("invalid BACKEND_TIMEOUT: %w", err)
	}

	windowDays, err := strconv.Atoi(getenvWithDefault("REMINDER_WINDOW_DAYS", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid REMINDER_WINDOW_DAYS: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Backend: BackendConfig{
			BaseURL: os.Getenv("BACKEND_HOST"),
			Timeout: timeout,
		},
		Auth: AuthConfig{
			TokenURL:     os.Getenv("AUTH_TOKEN_URL"),
			ClientID:     os.Getenv("AUTH_CLIENT_ID"),
			ClientSecret: os.Getenv("AUTH_CLIENT_SECRET"),
			Audience:     os.Getenv("AUTH_AUDIENCE"),
			StaticToken:  os.Getenv("AUTH_STATIC_TOKEN"),
		},
		Registry: RegistryConfig{
			Schema:  getenvWithDefault("REGISTRY_SCHEMA", registry.SchemaMLOSZ),
			BaseURL: os.Getenv("REGISTRY_HOST"),
		},
		Reminder: ReminderConfig{
			CronSchedule: getenvWithDefault("REMINDER_CRON_SCHEDULE", "0 8 * * *"),
			WindowDays:   windowDays,
		},
		Owner:    os.Getenv("PET_OWNER"),
		LogLevel: getenvWithDefault("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if c.Backend.BaseURL == "" {
		return errors.New("BACKEND_HOST must be provided")
	}

	switch c.Registry.Schema {
	case registry.SchemaMLOSZ, registry.SchemaLegacy:
	default:
		return fmt.Errorf("REGISTRY_SCHEMA must be %q or %q", registry.SchemaMLOSZ, registry.SchemaLegacy)
	}

	if c.Auth.TokenURL != "" {
		switch {
		case c.Auth.ClientID == "":
			return errors.New("AUTH_CLIENT_ID must be provided with AUTH_TOKEN_URL")
		case c.Auth.ClientSecret == "":
			return errors.New("AUTH_CLIENT_SECRET must be provided with AUTH_TOKEN_URL")
		}
	}

	if c.Reminder.WindowDays <= 0 {
		return errors.New("REMINDER_WINDOW_DAYS must be positive")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
