// Package migrate implements the login-time migration: a one-shot drain of
// the local deck store into the server store, run exactly once per login
// transition.
//
// The coordinator tolerates partial failure. Each local deck maps to at most
// one remote create call per run, a failed deck stays local and is retried on
// the next login, and login itself never blocks on migration success.
package migrate

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/deckforge/deckstore/internal/domain"
	"github.com/deckforge/deckstore/internal/ports"
	"github.com/deckforge/deckstore/internal/store"
	"github.com/deckforge/deckstore/internal/validate"
)

// defaultConcurrency bounds the per-deck create calls running in parallel.
// The creates are independent, unordered operations against distinct future
// identifiers.
const defaultConcurrency = 4

// Coordinator drains the local store into the remote store on login.
type Coordinator struct {
	facade      *store.Facade
	logger      ports.Logger
	concurrency int
}

// New creates a migration coordinator over the given facade.
func New(facade *store.Facade, logger ports.Logger) *Coordinator {
	return &Coordinator{
		facade:      facade,
		logger:      logger,
		concurrency: defaultConcurrency,
	}
}

// result is the outcome of one deck's migration attempt.
type result struct {
	deck *domain.Deck
	err  error
}

// Run executes the login migration. On return the session is Authenticated
// regardless of per-deck outcomes; the summary reports what moved and what
// stayed local. Running again after a fully successful run is a no-op.
func (c *Coordinator) Run(ctx context.Context) (domain.MigrationSummary, error) {
	local := c.facade.LocalStore()
	remote := c.facade.RemoteStore()

	// Snapshot the local listing at the moment of login.
	snapshot, err := local.List(ctx)
	if err != nil && !isLocalUnavailable(err) {
		return domain.MigrationSummary{}, err
	}

	if len(snapshot) == 0 {
		if err := c.facade.LoginDirect(); err != nil {
			return domain.MigrationSummary{}, err
		}
		return domain.MigrationSummary{}, nil
	}

	if err := c.facade.BeginMigration(); err != nil {
		return domain.MigrationSummary{}, err
	}

	// The server cap may already be partly consumed; decks beyond the
	// remaining allowance fail without spending their one create call.
	allowance := len(snapshot)
	remoteCount, countErr := remote.Count(ctx)
	if countErr != nil {
		c.logger.Warn("could not read server deck count, migrating nothing",
			ports.Err(countErr),
		)
		allowance = 0
	} else if remaining := domain.MaxDecksPerUser - remoteCount; remaining < allowance {
		allowance = remaining
		if allowance < 0 {
			allowance = 0
		}
	}

	results := make([]result, len(snapshot))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, deck := range snapshot {
		i, deck := i, deck
		g.Go(func() error {
			results[i] = c.migrateOne(gctx, remote, deck, i < allowance, countErr)
			return nil
		})
	}
	// Workers never return errors; failures are collected, not thrown.
	_ = g.Wait()

	// Clear the local store only for decks that actually reached the server.
	summary := domain.MigrationSummary{}
	for _, r := range results {
		if r.err == nil {
			if err := local.Delete(ctx, r.deck.ID); err != nil {
				// The deck exists on both backends now; the next login will
				// attempt it again and the server will reject the duplicate.
				c.logger.Error("migrated deck not removed from local store",
					ports.String("deck", r.deck.Name),
					ports.Err(err),
				)
			}
			summary.MigratedCount++
			continue
		}

		c.logger.Warn("deck failed to migrate, staying local",
			ports.String("deck", r.deck.Name),
			ports.Err(r.err),
		)
		summary.FailedCount++
		summary.Failures = append(summary.Failures, domain.MigrationFailure{
			DeckName: r.deck.Name,
			Err:      r.err,
		})
	}

	// Login is successful once the session is Authenticated; migration
	// failures are reported, not fatal.
	if err := c.facade.CompleteMigration(); err != nil {
		return summary, err
	}

	c.logger.Info("migration finished",
		ports.Int("migrated", summary.MigratedCount),
		ports.Int("failed", summary.FailedCount),
	)
	return summary, nil
}

// migrateOne attempts a single deck: re-run save validation, then spend the
// deck's one remote create call. No retries within a run.
func (c *Coordinator) migrateOne(ctx context.Context, remote ports.DeckStore, deck *domain.Deck, allowed bool, countErr error) result {
	if !allowed {
		if countErr != nil {
			return result{deck: deck, err: countErr}
		}
		return result{deck: deck, err: domain.ErrDeckLimitExceeded}
	}

	valid, err := validate.ForSave(deck)
	if err != nil {
		return result{deck: deck, err: err}
	}

	if _, err := remote.Create(ctx, valid); err != nil {
		return result{deck: deck, err: err}
	}
	return result{deck: deck}
}

func isLocalUnavailable(err error) bool {
	return errors.Is(err, domain.ErrStorageUnavailable)
}
