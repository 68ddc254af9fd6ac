package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (DECKSTORE_*).
// It respects flags that have been explicitly set (changed map).
// Returns an error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("data-dir", os.Getenv("DECKSTORE_DATA_DIR"), &cfg.DataDir)
	s.setString("service-url", os.Getenv("DECKSTORE_SERVICE_URL"), &cfg.ServiceURL)
	s.setString("catalog-url", os.Getenv("DECKSTORE_CATALOG_URL"), &cfg.CatalogURL)
	s.setString("catalog", os.Getenv("DECKSTORE_CATALOG_PATH"), &cfg.CatalogPath)

	if err := s.setDuration("timeout", os.Getenv("DECKSTORE_HTTP_TIMEOUT"), &cfg.HTTPTimeout); err != nil {
		return err
	}

	s.setBoolFromString("watch", os.Getenv("DECKSTORE_WATCH_STORE"), &cfg.WatchStore)
	s.setBoolFromString("debug", os.Getenv("DECKSTORE_DEBUG"), &cfg.Debug)

	return nil
}
