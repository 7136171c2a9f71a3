// Package config loads environment variables and provides a typed Config used across the bot.
// It applies sensible defaults so the binary can run locally with minimal setup.
// For the required Telegram credential, use ValidateBotReady.
package config

import (
	"fmt"
	"os"
)

type Config struct {
	// Telegram
	TelegramToken string

	// Google Sheets mirror (optional; empty disables the remote store)
	SheetID         string
	GoogleCredsJSON string

	// Worksheet holding the account mirror.
	SheetName string

	// Redis (optional ephemeral cache, cleared by /clear)
	RedisURL string

	// Storage
	DataDir string

	// HTTP sidecar (health/status/metrics)
	HTTPAddr string
}

// Load reads environment variables and applies defaults. It doesn't fail if
// optional credentials are missing; absent SHEET_ID or GOOGLE_CREDS_JSON
// disables the sheet mirror and the bot runs local-only.
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")

	cfg.SheetID = os.Getenv("SHEET_ID")
	cfg.GoogleCredsJSON = os.Getenv("GOOGLE_CREDS_JSON")
	cfg.SheetName = os.Getenv("SHEET_NAME")
	if cfg.SheetName == "" {
		cfg.SheetName = "Master_Accounts"
	}

	cfg.RedisURL = os.Getenv("REDIS_URL")
	if cfg.RedisURL == "" {
		cfg.RedisURL = "redis://localhost:6379"
	}

	cfg.DataDir = os.Getenv("DATA_DIR")
	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}

	cfg.HTTPAddr = os.Getenv("HTTP_ADDR")
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}

	return cfg, nil
}

// ValidateBotReady checks the required Telegram credential.
func (c *Config) ValidateBotReady() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("missing telegram env: require TELEGRAM_TOKEN")
	}
	return nil
}

// SheetEnabled reports whether the remote mirror is configured. Both the
// document id and the service-account credentials are needed.
func (c *Config) SheetEnabled() bool {
	return c.SheetID != "" && c.GoogleCredsJSON != ""
}
