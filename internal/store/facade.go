// Package store implements the unified storage facade: one logical deck
// collection whose backing store depends on authentication state.
//
// Callers go through the facade exclusively. It consults the session state,
// picks the matching adapter, re-runs save validation on every mutation, tags
// every returned record with its origin, and translates backend failures into
// the stable domain error vocabulary. Backend choice happens here and nowhere
// else.
package store

import (
	"context"

	"github.com/deckforge/deckstore/internal/domain"
	"github.com/deckforge/deckstore/internal/ports"
	"github.com/deckforge/deckstore/internal/validate"
)

// Facade routes deck operations to the local or remote adapter according to
// the current session state.
type Facade struct {
	local  ports.DeckStore
	remote ports.DeckStore
	logger ports.Logger

	session *sessionMachine
	writes  *keyedMutex
}

// New creates a facade over the two adapters. The authenticated query is the
// injected authentication-state signal from the external auth collaborator;
// it fixes the initial state only, after which transitions are explicit
// (BeginMigration, CompleteMigration, Logout).
func New(local, remote ports.DeckStore, authenticated func() bool, logger ports.Logger, emitter StateEmitter) *Facade {
	initial := StateAnonymous
	if authenticated != nil && authenticated() {
		initial = StateAuthenticated
	}
	return &Facade{
		local:   local,
		remote:  remote,
		logger:  logger,
		session: newSessionMachine(initial, logger, emitter),
		writes:  newKeyedMutex(),
	}
}

// State returns the current session state.
func (f *Facade) State() SessionState {
	return f.session.State()
}

// LocalStore exposes the local adapter to the migration coordinator, the
// only other writer of the local blob.
func (f *Facade) LocalStore() ports.DeckStore {
	return f.local
}

// RemoteStore exposes the remote adapter to the migration coordinator.
func (f *Facade) RemoteStore() ports.DeckStore {
	return f.remote
}

// BeginMigration enters the Migrating critical section. Called by the
// migration coordinator only, at the moment of login.
func (f *Facade) BeginMigration() error {
	return f.session.TransitionTo(StateMigrating, "login with local decks")
}

// CompleteMigration leaves the Migrating critical section.
func (f *Facade) CompleteMigration() error {
	return f.session.TransitionTo(StateAuthenticated, "migration finished")
}

// LoginDirect transitions straight to Authenticated, used when the local
// store was empty at login and there is nothing to migrate.
func (f *Facade) LoginDirect() error {
	return f.session.TransitionTo(StateAuthenticated, "login with empty local store")
}

// Logout returns to Anonymous. No data moves: server decks remain
// server-side, and residual local records become active again. Refused with
// domain.ErrMigrationInProgress while migration is in flight.
func (f *Facade) Logout() error {
	return f.session.TransitionTo(StateAnonymous, "logout")
}

// GetAllDecks returns the decks of the currently live backend, tagged with
// their origin. The facade never merges both listings: mixing is a
// presentation concern for the moment right after login, served by the
// migration summary instead.
func (f *Facade) GetAllDecks(ctx context.Context) ([]*domain.Deck, error) {
	adapter, origin, err := f.liveAdapter()
	if err != nil {
		return nil, err
	}

	decks, err := adapter.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, d := range decks {
		d.Origin = origin
	}
	return decks, nil
}

// SaveDeck validates a draft, enforces the deck cap against the live
// backend, creates the deck there, and tags its origin.
func (f *Facade) SaveDeck(ctx context.Context, draft *domain.Deck) (*domain.Deck, error) {
	adapter, origin, err := f.liveAdapter()
	if err != nil {
		return nil, err
	}

	valid, err := validate.ForSave(draft)
	if err != nil {
		return nil, err
	}

	// The cap is checked before the create reaches storage; the backends
	// re-assert it as defense in depth.
	count, err := adapter.Count(ctx)
	if err != nil {
		return nil, err
	}
	if count >= domain.MaxDecksPerUser {
		return nil, domain.ErrDeckLimitExceeded
	}

	created, err := adapter.Create(ctx, valid)
	if err != nil {
		return nil, err
	}
	created.Origin = origin
	return created, nil
}

// UpdateDeck re-validates and replaces the named deck on the backend owning
// its identifier. Mutations on the same identifier are serialized.
func (f *Facade) UpdateDeck(ctx context.Context, id domain.DeckID, deck *domain.Deck) (*domain.Deck, error) {
	adapter, origin, err := f.adapterForID(id)
	if err != nil {
		return nil, err
	}

	// Mutations never trust that callers only submit already-valid decks.
	valid, err := validate.ForSave(deck)
	if err != nil {
		return nil, err
	}

	unlock := f.writes.Lock(id.Value)
	defer unlock()

	updated, err := adapter.Update(ctx, id, valid)
	if err != nil {
		return nil, err
	}
	updated.Origin = origin
	return updated, nil
}

// DeleteDeck removes the named deck from the backend owning its identifier.
func (f *Facade) DeleteDeck(ctx context.Context, id domain.DeckID) error {
	adapter, _, err := f.adapterForID(id)
	if err != nil {
		return err
	}

	unlock := f.writes.Lock(id.Value)
	defer unlock()

	return adapter.Delete(ctx, id)
}

// liveAdapter returns the adapter matching the current session state.
func (f *Facade) liveAdapter() (ports.DeckStore, domain.Origin, error) {
	switch f.session.State() {
	case StateAnonymous:
		if !f.local.Available() {
			return nil, "", domain.ErrStorageUnavailable
		}
		return f.local, domain.OriginLocal, nil
	case StateAuthenticated:
		return f.remote, domain.OriginServer, nil
	default:
		return nil, "", domain.ErrMigrationInProgress
	}
}

// adapterForID routes a mutation by the identifier's backend discriminant.
// The id must also belong to the live backend: a local id is never sent to
// the remote adapter, and a stale local id held by an authenticated caller
// fails fast instead of crossing backends.
func (f *Facade) adapterForID(id domain.DeckID) (ports.DeckStore, domain.Origin, error) {
	adapter, origin, err := f.liveAdapter()
	if err != nil {
		return nil, "", err
	}

	wantKind := domain.IDLocal
	if origin == domain.OriginServer {
		wantKind = domain.IDServer
	}
	if id.Kind != wantKind {
		f.logger.Error("id routed to wrong backend",
			ports.String("id", id.Value),
			ports.String("id_kind", string(id.Kind)),
			ports.String("session", f.session.State().String()),
		)
		return nil, "", domain.ErrStorageMismatch
	}
	return adapter, origin, nil
}
