package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/deckforge/deckstore/internal/cliconfig"
	"github.com/deckforge/deckstore/pkg/deckstore"
)

type storeOpener func(extra ...deckstore.Option) (*deckstore.Store, error)

func newListCmd(open storeOpener, cfg *cliconfig.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the decks of the current backend",
		Long: `List the decks of the current backend. With --watch, keep running and
re-print the listing whenever another process changes the local store.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			changes := make(chan struct{}, 1)
			var extra []deckstore.Option
			if cfg.WatchStore {
				extra = append(extra, deckstore.WithEventHandler(&storeChangeNotifier{ch: changes}))
			}

			store, err := open(extra...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if err := printDecks(cmd, store, out); err != nil {
				return err
			}
			if !cfg.WatchStore {
				return nil
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			if err := store.Start(ctx); err != nil {
				return err
			}
			defer store.Close()

			for {
				select {
				case <-ctx.Done():
					return nil
				case <-changes:
					fmt.Fprintln(out)
					if err := printDecks(cmd, store, out); err != nil {
						return err
					}
				}
			}
		},
	}
}

func printDecks(cmd *cobra.Command, store *deckstore.Store, out io.Writer) error {
	decks, err := store.Decks(cmd.Context())
	if err != nil {
		return err
	}
	if len(decks) == 0 {
		fmt.Fprintln(out, "no decks")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tELIXIR\tORIGIN\tUPDATED")
	for _, d := range decks {
		updated := ""
		if !d.UpdatedAt.IsZero() {
			updated = d.UpdatedAt.Local().Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%s\t%s\t%.1f\t%s\t%s\n",
			d.ID, d.Name, d.AverageElixir, d.Origin, updated)
	}
	return w.Flush()
}

// storeChangeNotifier forwards watcher events to the list loop.
type storeChangeNotifier struct {
	deckstore.BaseEventHandler
	ch chan struct{}
}

func (n *storeChangeNotifier) OnStoreChange() {
	select {
	case n.ch <- struct{}{}:
	default:
	}
}

// deckFile is the YAML shape of a deck draft on disk. Cards are named;
// evolutions name the cards whose evolution slot is used.
type deckFile struct {
	Name       string   `yaml:"name"`
	Cards      []string `yaml:"cards"`
	Evolutions []string `yaml:"evolutions"`
}

func newSaveCmd(open storeOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "save <deck.yaml>",
		Short: "Validate and save a deck described in a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := open()
			if err != nil {
				return err
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var df deckFile
			if err := yaml.Unmarshal(data, &df); err != nil {
				return fmt.Errorf("parse deck file: %w", err)
			}

			draft, err := resolveDraft(cmd, store, df)
			if err != nil {
				return err
			}

			saved, err := store.SaveDeck(cmd.Context(), draft)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %q as %s (%.1f elixir, %s)\n",
				saved.Name, saved.ID, saved.AverageElixir, saved.Origin)
			return nil
		},
	}
}

// resolveDraft turns card names into catalog references.
func resolveDraft(cmd *cobra.Command, store *deckstore.Store, df deckFile) (*deckstore.Deck, error) {
	if len(df.Cards) > deckstore.NumSlots {
		return nil, fmt.Errorf("deck file names %d cards, a deck has %d slots", len(df.Cards), deckstore.NumSlots)
	}

	evolved := make(map[string]bool, len(df.Evolutions))
	for _, name := range df.Evolutions {
		evolved[name] = true
	}

	draft := &deckstore.Deck{Name: df.Name}
	for i, name := range df.Cards {
		card, err := store.Catalog().CardByName(cmd.Context(), name)
		if err != nil {
			return nil, err
		}
		draft.Slots[i] = deckstore.Slot{Card: card, Evolution: evolved[name]}
	}
	return draft, nil
}

func newDeleteCmd(open storeOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <deck-id>",
		Short: "Delete a deck by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := open()
			if err != nil {
				return err
			}

			id := deckstore.ParseID(args[0])
			if err := store.DeleteDeck(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", id)
			return nil
		},
	}
}

func newLoginCmd(open storeOpener) *cobra.Command {
	var (
		account   string
		token     string
		expiresIn time.Duration
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Install a session token and move local decks to your account",
		Long: `Install a session produced by the account login flow and run the
local-to-account deck migration. Decks that fail to move stay local and are
retried on the next login.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := open()
			if err != nil {
				return err
			}

			summary, err := store.Login(cmd.Context(), deckstore.Session{
				AccountID: account,
				Token:     token,
				ExpiresAt: time.Now().Add(expiresIn),
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "logged in as %s\n", account)
			if summary.MigratedCount > 0 {
				fmt.Fprintf(out, "moved %d deck(s) to your account\n", summary.MigratedCount)
			}
			for _, f := range summary.Failures {
				fmt.Fprintf(out, "deck %q stayed local: %v\n", f.DeckName, f.Err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "account id")
	cmd.Flags().StringVar(&token, "token", "", "session token from the login flow")
	cmd.Flags().DurationVar(&expiresIn, "expires-in", time.Hour, "session lifetime")
	_ = cmd.MarkFlagRequired("account")
	_ = cmd.MarkFlagRequired("token")
	return cmd
}

func newLogoutCmd(open storeOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the session and return to the local store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := open()
			if err != nil {
				return err
			}
			if err := store.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "logged out; account decks stay on the server")
			return nil
		},
	}
}

func newStatusCmd(open storeOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show session state and deck count",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := open()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "state: %s\n", store.State())
			if session, ok := store.Session(); ok {
				fmt.Fprintf(out, "account: %s (expires %s)\n",
					session.AccountID, session.ExpiresAt.Local().Format(time.RFC822))
			}

			decks, err := store.Decks(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "decks: %d of %d\n", len(decks), deckstore.MaxDecksPerUser)
			return nil
		},
	}
}
