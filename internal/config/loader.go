package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Load loads config from the default path (~/.honeypot/config.json). A
// missing file is not an error: the honeypot can run entirely on defaults
// plus environment variables.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	path := filepath.Join(home, ".honeypot", "config.json")
	if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
		cfg := DefaultConfig()
		applyEnvOverrides(cfg)
		expandDataDir(cfg)
		return cfg, nil
	}
	return LoadFromFile(path)
}

// LoadFromFile loads config from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file %s: %w", path, err)
	}
	defer f.Close()
	return LoadFromReader(f)
}

// LoadFromReader loads config from an io.Reader, applying defaults and env
// overrides.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()

	if err := json.NewDecoder(r).Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyEnvOverrides(cfg)
	expandDataDir(cfg)

	return cfg, nil
}

// applyEnvOverrides applies HONEYPOT_-prefixed environment variable
// overrides, plus the bare names the original deployment scripts expect.
func applyEnvOverrides(cfg *Config) {
	// Legacy name from the original deployment; the HONEYPOT_ name below
	// takes precedence when both are set.
	if val := os.Getenv("API_KEY"); val != "" {
		cfg.Channels.Webhook.APIKey = val
	}

	envMap := map[string]*string{
		"HONEYPOT_PROVIDER_NAME":    &cfg.Provider.Name,
		"HONEYPOT_PROVIDER_APIKEY":  &cfg.Provider.APIKey,
		"HONEYPOT_PROVIDER_BASEURL": &cfg.Provider.BaseURL,
		"HONEYPOT_PROVIDER_MODEL":   &cfg.Provider.Model,
		"HONEYPOT_CALLBACK_URL":     &cfg.Callback.URL,
		"HONEYPOT_CALLBACK_APIKEY":  &cfg.Callback.APIKey,
		"HONEYPOT_DATA_DIR":         &cfg.DataDir,
		"HONEYPOT_TELEGRAM_TOKEN":   &cfg.Channels.Telegram.Token,
		"HONEYPOT_DISCORD_TOKEN":    &cfg.Channels.Discord.Token,
		"HONEYPOT_SLACK_BOT_TOKEN":  &cfg.Channels.Slack.BotToken,
		"HONEYPOT_SLACK_APP_TOKEN":  &cfg.Channels.Slack.AppToken,
		"HONEYPOT_WEBHOOK_APIKEY":   &cfg.Channels.Webhook.APIKey,
	}
	for env, ptr := range envMap {
		if val := os.Getenv(env); val != "" {
			*ptr = val
		}
	}
}

// expandDataDir expands a leading ~ in the data dir path.
func expandDataDir(cfg *Config) {
	d := cfg.DataDir
	if len(d) >= 2 && d[0] == '~' && d[1] == '/' {
		home, err := os.UserHomeDir()
		if err == nil {
			cfg.DataDir = filepath.Join(home, d[2:])
		}
	}
}
