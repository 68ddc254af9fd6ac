package deckstore

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DefaultServiceURL is the default endpoint of the deck API.
const DefaultServiceURL = "https://api.deckforge.io"

// Config holds the configuration for a Store instance.
type Config struct {
	// DataDir is the directory holding the local deck document and the
	// persisted session. Required; SetDefaults fills in ~/.deckstore.
	DataDir string

	// ServiceURL is the base URL of the deck API.
	ServiceURL string

	// CatalogURL is the base URL of the card catalog API. Defaults to
	// ServiceURL.
	CatalogURL string

	// CatalogPath, when set, loads the card catalog from a YAML file
	// instead of the catalog API. Useful offline and in tests.
	CatalogPath string

	// HTTPTimeout is the per-request timeout used when no custom HTTP
	// client is injected.
	HTTPTimeout time.Duration

	// WatchStore enables the local store change watcher. Change
	// notifications are delivered through the EventHandler.
	WatchStore bool
}

// SetDefaults fills in default values for unset fields.
func (c *Config) SetDefaults() {
	if c.DataDir == "" {
		if h, err := os.UserHomeDir(); err == nil {
			c.DataDir = filepath.Join(h, ".deckstore")
		}
	}
	if c.ServiceURL == "" {
		c.ServiceURL = DefaultServiceURL
	}
	if c.CatalogURL == "" {
		c.CatalogURL = c.ServiceURL
	}
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = 15 * time.Second
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("deckstore: DataDir is required")
	}
	if c.ServiceURL == "" {
		return fmt.Errorf("deckstore: ServiceURL is required")
	}
	return nil
}
