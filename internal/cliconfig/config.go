// Package cliconfig holds the CLI-facing configuration for deckstore:
// defaults, TOML file loading, environment overrides, and flag precedence.
// Precedence is flags > environment > file > defaults.
package cliconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DefaultServiceURL is the default endpoint of the deck API.
const DefaultServiceURL = "https://api.deckforge.io"

// Config holds CLI configuration for deckstore.
type Config struct {
	// DataDir is where the local deck store and session file live.
	DataDir string

	// ServiceURL is the base URL of the deck API.
	ServiceURL string

	// CatalogURL is the base URL of the card catalog API. Defaults to
	// ServiceURL.
	CatalogURL string

	// CatalogPath, when set, points at a YAML card catalog file used instead
	// of the catalog API. Useful offline and in tests.
	CatalogPath string

	// HTTPTimeout is the per-request timeout for remote calls.
	HTTPTimeout time.Duration

	// WatchStore enables the local store change watcher.
	WatchStore bool

	// Debug enables debug-level logging.
	Debug bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		ServiceURL:  DefaultServiceURL,
		HTTPTimeout: 15 * time.Second,
		DataDir:     defaultDataDir(),
	}
}

func defaultDataDir() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".deckstore")
	}
	return ""
}

// Validate checks the configuration for errors and sets derived defaults.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data-dir is required")
	}

	if c.ServiceURL == "" {
		c.ServiceURL = DefaultServiceURL
	}
	c.ServiceURL = trimTrailingSlash(c.ServiceURL)

	if c.CatalogURL == "" {
		c.CatalogURL = c.ServiceURL
	}
	c.CatalogURL = trimTrailingSlash(c.CatalogURL)

	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http timeout must be positive")
	}

	return nil
}

func trimTrailingSlash(s string) string {
	if len(s) > 0 && s[len(s)-1] == '/' {
		return s[:len(s)-1]
	}
	return s
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
// Used for environment variables that come as strings.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
