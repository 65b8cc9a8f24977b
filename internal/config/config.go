// internal/config/config.go

// Package config resolves bot configuration from an optional YAML file
// and the process environment. Credentials and the authorized identity
// come from the environment only; the file carries non-secret tunables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the config file read when no --config flag is given.
const DefaultFile = "nutrition-bot.yaml"

// Config is the resolved runtime configuration.
type Config struct {
	TelegramToken    string
	GeminiAPIKey     string
	AuthorizedUserID int64

	DBPath        string
	Model         string
	Timezone      string
	HealthAddr    string
	ClarifyRounds int
	RefineWindow  time.Duration
}

// fileConfig is the YAML shape of the optional config file.
type fileConfig struct {
	DBPath              string `yaml:"db_path"`
	Model               string `yaml:"model"`
	Timezone            string `yaml:"timezone"`
	HealthAddr          string `yaml:"health_addr"`
	ClarificationRounds int    `yaml:"clarification_rounds"`
	RefineWindowMinutes int    `yaml:"refine_window_minutes"`
}

// Default returns a Config populated with sensible defaults. The three
// required credentials are left empty.
func Default() *Config {
	return &Config{
		DBPath:        "nutrition_data.db",
		Model:         "gemini-1.5-flash",
		ClarifyRounds: 3,
		RefineWindow:  10 * time.Minute,
	}
}

// Load resolves configuration in order: defaults, then the YAML file at
// path when it exists, then environment variables. Returns an error when
// any of TELEGRAM_TOKEN, GEMINI_API_KEY or AUTHORIZED_USER_ID is missing;
// the caller treats that as startup-fatal.
func Load(path string) (*Config, error) {
	cfg, err := LoadLocal(path)
	if err != nil {
		return nil, err
	}

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is not set")
	}
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set")
	}

	return cfg, nil
}

// LoadLocal resolves everything except the Telegram and Gemini
// credentials. Commands that only read the local database use this so
// they run without API keys in the environment.
func LoadLocal(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.applyFile(path); err != nil {
		return nil, err
	}

	cfg.DBPath = getEnv("NUTRITION_DB_PATH", cfg.DBPath)
	cfg.Model = getEnv("GEMINI_MODEL", cfg.Model)
	cfg.Timezone = getEnv("BOT_TIMEZONE", cfg.Timezone)
	cfg.HealthAddr = getEnv("HEALTH_ADDR", cfg.HealthAddr)

	rawID := os.Getenv("AUTHORIZED_USER_ID")
	if rawID == "" {
		return nil, fmt.Errorf("AUTHORIZED_USER_ID is not set")
	}
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("AUTHORIZED_USER_ID must be a positive integer, got %q", rawID)
	}
	cfg.AuthorizedUserID = id

	return cfg, nil
}

// applyFile overlays the YAML file at path onto c. A missing file is not
// an error; a malformed one is.
func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}

	if fc.DBPath != "" {
		c.DBPath = fc.DBPath
	}
	if fc.Model != "" {
		c.Model = fc.Model
	}
	if fc.Timezone != "" {
		c.Timezone = fc.Timezone
	}
	if fc.HealthAddr != "" {
		c.HealthAddr = fc.HealthAddr
	}
	if fc.ClarificationRounds > 0 {
		c.ClarifyRounds = fc.ClarificationRounds
	}
	if fc.RefineWindowMinutes > 0 {
		c.RefineWindow = time.Duration(fc.RefineWindowMinutes) * time.Minute
	}
	return nil
}

// Location resolves the configured timezone, falling back to the
// server's local zone when none is set.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
