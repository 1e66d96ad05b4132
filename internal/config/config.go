// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for
// tubechat.
//
// Configuration lives in ~/.tubechat/config.toml, with sensible defaults,
// environment variable overrides, and validation.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/morganforge/tubechat/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete tubechat configuration.
type Config struct {
	Version string `toml:"version"`

	// API is the chat backend configuration
	API APIConfig `toml:"api"`

	// TFL is the transit status API configuration
	TFL TFLConfig `toml:"tfl"`

	// Storage is the conversation persistence configuration
	Storage StorageConfig `toml:"storage"`

	// Chat controls submission behavior
	Chat ChatConfig `toml:"chat"`

	// UI is the terminal UI configuration
	UI UIConfig `toml:"ui"`
}

// APIConfig contains chat backend settings.
type APIConfig struct {
	// BaseURL is the backend base URL
	BaseURL string `toml:"base_url"`
	// TimeoutSecs bounds non-streaming requests
	TimeoutSecs int `toml:"timeout_secs"`
}

// TFLConfig contains transit status API settings.
type TFLConfig struct {
	// BaseURL is the public TfL API base URL
	BaseURL string `toml:"base_url"`
	// RefreshSecs is how often the status view refreshes
	RefreshSecs int `toml:"refresh_secs"`
	// CacheEnabled mirrors fetched statuses to the last-known cache
	CacheEnabled bool `toml:"cache_enabled"`
}

// StorageConfig contains conversation persistence settings.
type StorageConfig struct {
	// Dir overrides the snapshot directory (empty = ~/.tubechat/conversations)
	Dir string `toml:"dir"`
	// RestoreWindowMins is how recent a snapshot must be to restore at startup
	RestoreWindowMins int `toml:"restore_window_mins"`
}

// ChatConfig contains submission behavior settings.
type ChatConfig struct {
	// StreamingMode forces the streaming path for every query
	StreamingMode bool `toml:"streaming_mode"`
}

// UIConfig contains terminal UI settings.
type UIConfig struct {
	// Theme is the UI theme: "dark", "light", "auto"
	Theme string `toml:"theme"`
	// CompactMode uses a more compact layout
	CompactMode bool `toml:"compact_mode"`
	// ShowSteps displays pipeline step progress while streaming
	ShowSteps bool `toml:"show_steps"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1.0.0",

		API: APIConfig{
			BaseURL:     "http://localhost:8000",
			TimeoutSecs: 30,
		},

		TFL: TFLConfig{
			BaseURL:      "https://api.tfl.gov.uk",
			RefreshSecs:  60,
			CacheEnabled: true,
		},

		Storage: StorageConfig{
			RestoreWindowMins: 60,
		},

		Chat: ChatConfig{
			StreamingMode: false,
		},

		UI: UIConfig{
			Theme:       "dark",
			CompactMode: false,
			ShowSteps:   true,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the tubechat configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".tubechat"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file, falling back to defaults
// when no file exists. Environment overrides are applied last.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	if _, statErr := os.Stat(path); statErr != nil {
		cfg := Default()
		cfg.ApplyEnvOverrides()
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid config: %w", err)
		}
		return cfg, nil
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from a specific TOML file with full
// validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	cfg.ApplyEnvOverrides()
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ApplyEnvOverrides applies environment variable overrides to the config.
//
//	TUBECHAT_API_URL       backend base URL
//	TUBECHAT_TFL_URL       TfL API base URL
//	TUBECHAT_STREAMING     "1"/"true" forces streaming mode
//	TUBECHAT_THEME         UI theme
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("TUBECHAT_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("TUBECHAT_TFL_URL"); v != "" {
		c.TFL.BaseURL = v
	}
	if v := os.Getenv("TUBECHAT_STREAMING"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Chat.StreamingMode = b
		}
	}
	if v := os.Getenv("TUBECHAT_THEME"); v != "" {
		c.UI.Theme = v
	}
}

// fillDefaults fills in any missing values with defaults.
func (c *Config) fillDefaults() {
	defaults := Default()

	if c.Version == "" {
		c.Version = defaults.Version
	}
	if c.API.BaseURL == "" {
		c.API.BaseURL = defaults.API.BaseURL
	}
	if c.API.TimeoutSecs == 0 {
		c.API.TimeoutSecs = defaults.API.TimeoutSecs
	}
	if c.TFL.BaseURL == "" {
		c.TFL.BaseURL = defaults.TFL.BaseURL
	}
	if c.TFL.RefreshSecs == 0 {
		c.TFL.RefreshSecs = defaults.TFL.RefreshSecs
	}
	if c.Storage.RestoreWindowMins == 0 {
		c.Storage.RestoreWindowMins = defaults.Storage.RestoreWindowMins
	}
	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if err := validateURL(c.API.BaseURL); err != nil {
		return fmt.Errorf("api.base_url: %w", err)
	}
	if err := validateURL(c.TFL.BaseURL); err != nil {
		return fmt.Errorf("tfl.base_url: %w", err)
	}
	if c.API.TimeoutSecs < 1 || c.API.TimeoutSecs > 300 {
		return errors.New("api.timeout_secs must be between 1 and 300")
	}
	if c.TFL.RefreshSecs < 10 {
		return errors.New("tfl.refresh_secs must be at least 10")
	}
	if c.Storage.RestoreWindowMins < 1 {
		return errors.New("storage.restore_window_mins must be at least 1")
	}
	switch c.UI.Theme {
	case "dark", "light", "auto":
	default:
		return fmt.Errorf("ui.theme must be dark, light, or auto (got %q)", c.UI.Theme)
	}
	return nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("scheme must be http or https")
	}
	if u.Host == "" {
		return errors.New("missing host")
	}
	return nil
}

// =============================================================================
// SAVE
// =============================================================================

// Save writes the configuration to the default config path atomically.
func (c *Config) Save() error {
	if err := EnsureConfigDir(); err != nil {
		return err
	}
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the configuration to a specific path atomically.
func (c *Config) SaveTo(path string) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return util.AtomicWriteFile(path, buf.Bytes(), 0600)
}

// =============================================================================
// FIELD ACCESS
// =============================================================================

// Get returns a config value by dotted key, for the CLI config command.
func (c *Config) Get(key string) (string, error) {
	switch normalizeKey(key) {
	case "api.base_url":
		return c.API.BaseURL, nil
	case "api.timeout_secs":
		return strconv.Itoa(c.API.TimeoutSecs), nil
	case "tfl.base_url":
		return c.TFL.BaseURL, nil
	case "tfl.refresh_secs":
		return strconv.Itoa(c.TFL.RefreshSecs), nil
	case "tfl.cache_enabled":
		return strconv.FormatBool(c.TFL.CacheEnabled), nil
	case "storage.dir":
		return c.Storage.Dir, nil
	case "storage.restore_window_mins":
		return strconv.Itoa(c.Storage.RestoreWindowMins), nil
	case "chat.streaming_mode":
		return strconv.FormatBool(c.Chat.StreamingMode), nil
	case "ui.theme":
		return c.UI.Theme, nil
	case "ui.compact_mode":
		return strconv.FormatBool(c.UI.CompactMode), nil
	case "ui.show_steps":
		return strconv.FormatBool(c.UI.ShowSteps), nil
	default:
		return "", fmt.Errorf("unknown config key %q", key)
	}
}

// Set updates a config value by dotted key and validates the result.
func (c *Config) Set(key, value string) error {
	key = normalizeKey(key)
	switch key {
	case "api.base_url":
		c.API.BaseURL = value
	case "api.timeout_secs":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s must be an integer: %w", key, err)
		}
		c.API.TimeoutSecs = n
	case "tfl.base_url":
		c.TFL.BaseURL = value
	case "tfl.refresh_secs":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s must be an integer: %w", key, err)
		}
		c.TFL.RefreshSecs = n
	case "tfl.cache_enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s must be a boolean: %w", key, err)
		}
		c.TFL.CacheEnabled = b
	case "storage.dir":
		c.Storage.Dir = value
	case "storage.restore_window_mins":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s must be an integer: %w", key, err)
		}
		c.Storage.RestoreWindowMins = n
	case "chat.streaming_mode":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s must be a boolean: %w", key, err)
		}
		c.Chat.StreamingMode = b
	case "ui.theme":
		c.UI.Theme = value
	case "ui.compact_mode":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s must be a boolean: %w", key, err)
		}
		c.UI.CompactMode = b
	case "ui.show_steps":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s must be a boolean: %w", key, err)
		}
		c.UI.ShowSteps = b
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return c.Validate()
}

// Keys returns all settable config keys, for help output.
func Keys() []string {
	return []string{
		"api.base_url",
		"api.timeout_secs",
		"tfl.base_url",
		"tfl.refresh_secs",
		"tfl.cache_enabled",
		"storage.dir",
		"storage.restore_window_mins",
		"chat.streaming_mode",
		"ui.theme",
		"ui.compact_mode",
		"ui.show_steps",
	}
}

// SnapshotDir resolves the conversation snapshot directory.
func (c *Config) SnapshotDir() (string, error) {
	if c.Storage.Dir != "" {
		return c.Storage.Dir, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "conversations"), nil
}

// CachePath resolves the TfL status cache path.
func (c *Config) CachePath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "status_cache.db"), nil
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
