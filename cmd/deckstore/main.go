package main

import (
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	logAdapter "github.com/deckforge/deckstore/internal/adapters/log"
	"github.com/deckforge/deckstore/internal/cliconfig"
	"github.com/deckforge/deckstore/pkg/deckstore"
)

const helpDescription = `
Manage your decks from the terminal, online or offline.

Decks live in a local file until you log in; logging in moves them to your
account so they follow you across devices. Failed moves stay local and are
retried on the next login.

Configure via file ($HOME/.deckstore/config.toml), environment (DECKSTORE_*),
or flags.
`

var exampleUsage = strings.TrimSpace(`
  deckstore list
  deckstore save hog-cycle.yaml
  deckstore login --account <id> --token <token>
  deckstore delete local_1724831000000_a1b2c3d4
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	log := cliconfig.Logger()

	root := &cobra.Command{
		Use:     "deckstore",
		Short:   "Manage your decks from the terminal, online or offline",
		Long:    strings.TrimSpace(helpDescription),
		Example: exampleUsage,
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load config file first (default $HOME/.deckstore/config.toml),
			// then environment, then flag overrides.
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			changed := map[string]bool{}
			cmd.Root().PersistentFlags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}

			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			if cfg.Debug {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			} else {
				zerolog.SetGlobalLevel(zerolog.InfoLevel)
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.deckstore/config.toml)")
	root.PersistentFlags().StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "directory for local decks and session")
	root.PersistentFlags().StringVar(&cfg.ServiceURL, "service-url", cfg.ServiceURL, fmt.Sprintf("base service URL (defaults to %s)", cliconfig.DefaultServiceURL))
	root.PersistentFlags().StringVar(&cfg.CatalogURL, "catalog-url", cfg.CatalogURL, "card catalog URL (defaults to service URL)")
	root.PersistentFlags().StringVar(&cfg.CatalogPath, "catalog", cfg.CatalogPath, "path to a YAML card catalog file (offline mode)")
	root.PersistentFlags().DurationVar(&cfg.HTTPTimeout, "timeout", cfg.HTTPTimeout, "HTTP timeout")
	root.PersistentFlags().BoolVar(&cfg.WatchStore, "watch", cfg.WatchStore, "watch the local store for outside changes")
	root.PersistentFlags().BoolVar(&cfg.Debug, "debug", cfg.Debug, "enable debug logging")

	openStore := func(extra ...deckstore.Option) (*deckstore.Store, error) {
		opts := append([]deckstore.Option{
			deckstore.WithLogger(logAdapter.NewZerologAdapterWithLogger(log)),
		}, extra...)
		return deckstore.New(deckstore.Config{
			DataDir:     cfg.DataDir,
			ServiceURL:  cfg.ServiceURL,
			CatalogURL:  cfg.CatalogURL,
			CatalogPath: cfg.CatalogPath,
			HTTPTimeout: cfg.HTTPTimeout,
			WatchStore:  cfg.WatchStore,
		}, opts...)
	}

	root.AddCommand(
		newListCmd(openStore, &cfg),
		newSaveCmd(openStore),
		newDeleteCmd(openStore),
		newLoginCmd(openStore),
		newLogoutCmd(openStore),
		newStatusCmd(openStore),
	)

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("deckstore")
		os.Exit(1)
	}
}
