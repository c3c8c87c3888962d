package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// AppConfig holds application configuration
type AppConfig struct {
	ServerURL             string `yaml:"server_url" json:"server_url"`
	RequestTimeoutSeconds int    `yaml:"request_timeout_seconds" json:"request_timeout_seconds"`
	OTPCooldownSeconds    int    `yaml:"otp_cooldown_seconds" json:"otp_cooldown_seconds"`
	DestructionSeconds    int    `yaml:"destruction_seconds" json:"destruction_seconds"`
	WatermarkEnabled      bool   `yaml:"watermark_enabled" json:"watermark_enabled"`
	DatabasePath          string `yaml:"database_path" json:"database_path"`
	UITheme               string `yaml:"ui_theme" json:"ui_theme"`
}

// DefaultConfig returns default application configuration
func DefaultConfig() *AppConfig {
	return &AppConfig{
		ServerURL:             "http://localhost:8000",
		RequestTimeoutSeconds: 30,
		OTPCooldownSeconds:    60,
		DestructionSeconds:    4,
		WatermarkEnabled:      true,
		DatabasePath:          defaultDatabasePath(),
		UITheme:               "light",
	}
}

// Load reads configuration, starting from defaults, then an optional YAML
// file, then environment variables (a .env file is honored when present).
// Later sources win.
func Load(path string) (*AppConfig, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// Missing .env is fine; explicit environment still applies
	_ = godotenv.Load()
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides fields from BAR_* environment variables
func (c *AppConfig) applyEnv() {
	if v := os.Getenv("BAR_SERVER_URL"); v != "" {
		c.ServerURL = v
	}
	if v := os.Getenv("BAR_REQUEST_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RequestTimeoutSeconds = n
		}
	}
	if v := os.Getenv("BAR_OTP_COOLDOWN_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.OTPCooldownSeconds = n
		}
	}
	if v := os.Getenv("BAR_DATABASE_PATH"); v != "" {
		c.DatabasePath = v
	}
	if v := os.Getenv("BAR_WATERMARK_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.WatermarkEnabled = b
		}
	}
}

// Validate checks the configuration for usable values
func (c *AppConfig) Validate() error {
	if c.ServerURL == "" {
		return fmt.Errorf("server_url must not be empty")
	}
	if c.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("request_timeout_seconds must be positive")
	}
	if c.DestructionSeconds <= 0 {
		return fmt.Errorf("destruction_seconds must be positive")
	}
	if c.OTPCooldownSeconds < 0 {
		return fmt.Errorf("otp_cooldown_seconds must not be negative")
	}
	return nil
}

// RequestTimeout returns the HTTP request timeout as a duration
func (c *AppConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// OTPCooldown returns the advisory OTP-request cooldown as a duration
func (c *AppConfig) OTPCooldown() time.Duration {
	return time.Duration(c.OTPCooldownSeconds) * time.Second
}

// DestructionDuration returns how long the destruction notice is shown
func (c *AppConfig) DestructionDuration() time.Duration {
	return time.Duration(c.DestructionSeconds) * time.Second
}

func defaultDatabasePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "bar-access.db"
	}
	return filepath.Join(dir, "bar-access-app", "local.db")
}
