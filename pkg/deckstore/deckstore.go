package deckstore

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/deckforge/deckstore/internal/adapters/fs"
	httpAdapter "github.com/deckforge/deckstore/internal/adapters/http"
	"github.com/deckforge/deckstore/internal/catalog"
	"github.com/deckforge/deckstore/internal/migrate"
	"github.com/deckforge/deckstore/internal/ports"
	"github.com/deckforge/deckstore/internal/store"
)

// Store is the unified deck storage facade. Anonymous sessions read and
// write a local on-disk document; authenticated sessions read and write the
// deck API. Login drains local decks to the server. Use New() to create an
// instance.
type Store struct {
	config Config
	opts   options

	local    *fs.LocalStore
	remote   *httpAdapter.RemoteStore
	sessions *fs.SessionFileRepository
	facade   *store.Facade
	migrator *migrate.Coordinator
	catalog  ports.CardCatalog
	watcher  *fs.StoreWatcher
	logger   ports.Logger

	mu      sync.RWMutex
	session ports.Session
}

// New creates a Store with the given configuration. A session persisted by
// a previous run is restored if still valid; otherwise the store starts
// anonymous. Returns an error if configuration is invalid or the card
// catalog cannot be loaded.
func New(cfg Config, opts ...Option) (*Store, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	o := defaultOptions(httpClient)
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.logger

	var emitter store.StateEmitter
	if o.eventHandler != nil {
		emitter = &eventEmitterWrapper{handler: o.eventHandler}
	}

	s := &Store{
		config:   cfg,
		opts:     o,
		sessions: fs.NewSessionFileRepository(cfg.DataDir),
		local:    fs.NewLocalStore(cfg.DataDir, logger),
		logger:   logger,
	}

	// Restore the persisted session before wiring the facade so the
	// initial state matches it.
	restored, err := s.sessions.Load(context.Background())
	if err != nil {
		logger.Warn("persisted session unreadable, starting anonymous", ports.Err(err))
	} else {
		s.session = restored
	}

	s.remote = httpAdapter.NewRemoteStore(cfg.ServiceURL, o.httpClient, s.token, logger)
	s.facade = store.New(s.local, s.remote, s.authenticated, logger, emitter)
	s.migrator = migrate.New(s.facade, logger)

	if cfg.CatalogPath != "" {
		s.catalog, err = catalog.LoadFile(cfg.CatalogPath)
		if err != nil {
			return nil, fmt.Errorf("load card catalog: %w", err)
		}
	} else {
		s.catalog, err = catalog.NewClient(cfg.CatalogURL, o.httpClient, logger)
		if err != nil {
			return nil, fmt.Errorf("create catalog client: %w", err)
		}
	}

	if cfg.WatchStore {
		s.watcher = fs.NewStoreWatcher(s.local.Path(), s.notifyStoreChange, logger)
	}

	return s, nil
}

// Start begins background work (the store watcher, when enabled). The
// provided context bounds the watcher's lifetime. Safe to skip entirely
// when WatchStore is off.
func (s *Store) Start(ctx context.Context) error {
	if s.watcher == nil {
		return nil
	}
	return s.watcher.Start(ctx)
}

// Close stops background work and waits for it to finish.
func (s *Store) Close() {
	if s.watcher != nil {
		s.watcher.Stop()
	}
}

// State returns the current session state.
func (s *Store) State() State {
	return convertState(s.facade.State())
}

// Session returns the current session and whether it is valid right now.
func (s *Store) Session() (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session, s.session.Valid(time.Now())
}

// Catalog exposes the card catalog for reference resolution.
func (s *Store) Catalog() CardCatalog {
	return s.catalog
}

// Decks lists the decks of the live backend, newest first, each tagged with
// its origin. Returns ErrMigrationInProgress during a login migration.
func (s *Store) Decks(ctx context.Context) ([]*Deck, error) {
	return s.facade.GetAllDecks(ctx)
}

// SaveDeck validates the draft and creates it on the live backend.
// Violations come back as a *ValidationError; a full backend returns
// ErrDeckLimitExceeded.
func (s *Store) SaveDeck(ctx context.Context, draft *Deck) (*Deck, error) {
	return s.facade.SaveDeck(ctx, draft)
}

// UpdateDeck re-validates and replaces the deck with the given id on the
// backend owning that id.
func (s *Store) UpdateDeck(ctx context.Context, id DeckID, deck *Deck) (*Deck, error) {
	return s.facade.UpdateDeck(ctx, id, deck)
}

// DeleteDeck removes the deck with the given id from the backend owning it.
func (s *Store) DeleteDeck(ctx context.Context, id DeckID) error {
	return s.facade.DeleteDeck(ctx, id)
}

// Login installs the session produced by the external auth flow, persists
// it, and runs the one-shot local-to-server migration. The returned summary
// reports which local decks reached the server and which stayed local.
// Login succeeds even when individual decks fail to migrate.
//
// Logging in while already authenticated replaces the stored session
// without re-running migration (a token refresh).
func (s *Store) Login(ctx context.Context, session Session) (MigrationSummary, error) {
	if !session.Valid(time.Now()) {
		return MigrationSummary{}, ErrNotAuthenticated
	}

	switch s.facade.State() {
	case store.StateMigrating:
		return MigrationSummary{}, ErrMigrationInProgress
	case store.StateAuthenticated:
		if err := s.installSession(ctx, session); err != nil {
			return MigrationSummary{}, err
		}
		return MigrationSummary{}, nil
	}

	if err := s.installSession(ctx, session); err != nil {
		return MigrationSummary{}, err
	}

	summary, err := s.migrator.Run(ctx)
	if err != nil {
		// Login did not complete; do not keep a session we cannot use.
		s.dropSession(ctx)
		return summary, err
	}
	return summary, nil
}

// Logout returns the store to the anonymous state and forgets the session.
// Server decks stay server-side; residual local decks become active again.
// Refused with ErrMigrationInProgress while a migration is in flight.
func (s *Store) Logout(ctx context.Context) error {
	if err := s.facade.Logout(); err != nil {
		return err
	}
	s.dropSession(ctx)
	return nil
}

// installSession persists and activates a session.
func (s *Store) installSession(ctx context.Context, session Session) error {
	if err := s.sessions.Save(ctx, session); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	s.mu.Lock()
	s.session = session
	s.mu.Unlock()
	return nil
}

// dropSession forgets the active session in memory and on disk.
func (s *Store) dropSession(ctx context.Context) {
	s.mu.Lock()
	s.session = ports.Session{}
	s.mu.Unlock()
	if err := s.sessions.Clear(ctx); err != nil {
		s.logger.Warn("persisted session not removed", ports.Err(err))
	}
}

// token supplies the bearer token for remote calls.
func (s *Store) token(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.session.Valid(time.Now()) {
		return "", ErrNotAuthenticated
	}
	return s.session.Token, nil
}

// authenticated reports whether a valid session is active.
func (s *Store) authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Valid(time.Now())
}

// notifyStoreChange forwards watcher notifications to the event handler.
func (s *Store) notifyStoreChange() {
	if s.opts.eventHandler != nil {
		s.opts.eventHandler.OnStoreChange()
	}
}
