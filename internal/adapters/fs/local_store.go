// Package fs provides the file-system adapters: the local deck store, the
// session file repository, and the store change watcher.
package fs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/deckforge/deckstore/internal/domain"
	"github.com/deckforge/deckstore/internal/ports"
)

const deckFileName = "decks.json"

// storeVersion is the current schema version of the local document. Unknown
// versions are treated as v1.
const storeVersion = 1

// storeDocument is the single serialized collection held under one file.
// Keeping all records in one document makes list and count a single read and
// keeps the storage footprint predictable; every write re-serializes the
// whole collection, which is acceptable under the 20-deck cap.
type storeDocument struct {
	Version  int            `json:"version"`
	Decks    []*domain.Deck `json:"decks"`
	Metadata storeMetadata  `json:"metadata"`
}

type storeMetadata struct {
	DeckCount    int       `json:"deck_count"`
	LastModified time.Time `json:"last_modified"`
}

// LocalStore implements ports.DeckStore over one JSON document on disk.
// It is the anonymous-session backend; identifiers it generates live in the
// "local_" namespace. All writes are read-modify-write against the whole
// document and land atomically via temp file + rename.
type LocalStore struct {
	dir    string
	logger ports.Logger

	// now is replaceable for tests.
	now func() time.Time
}

// NewLocalStore creates a LocalStore rooted at the given directory.
func NewLocalStore(dir string, logger ports.Logger) *LocalStore {
	return &LocalStore{
		dir:    dir,
		logger: logger,
		now:    time.Now,
	}
}

// Path returns the full path of the deck document.
func (s *LocalStore) Path() string {
	return filepath.Join(s.dir, deckFileName)
}

// Available reports whether the backing directory can be created and written.
func (s *LocalStore) Available() bool {
	return os.MkdirAll(s.dir, 0o700) == nil
}

// List returns every locally persisted deck, newest first.
func (s *LocalStore) List(ctx context.Context) ([]*domain.Deck, error) {
	if !s.Available() {
		return nil, domain.ErrStorageUnavailable
	}
	doc := s.load()
	decks := make([]*domain.Deck, len(doc.Decks))
	for i, d := range doc.Decks {
		decks[i] = d.Clone()
	}
	return decks, nil
}

// Count returns the number of locally persisted decks.
func (s *LocalStore) Count(ctx context.Context) (int, error) {
	if !s.Available() {
		return 0, domain.ErrStorageUnavailable
	}
	return len(s.load().Decks), nil
}

// Create persists a draft under a freshly generated local identifier.
func (s *LocalStore) Create(ctx context.Context, draft *domain.Deck) (*domain.Deck, error) {
	if !s.Available() {
		return nil, domain.ErrStorageUnavailable
	}

	doc := s.load()
	if len(doc.Decks) >= domain.MaxDecksPerUser {
		return nil, domain.ErrDeckLimitExceeded
	}

	stored := draft.Clone()
	stored.ID = domain.LocalID(newLocalID(s.now()))
	stored.Origin = ""
	now := s.now().UTC()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	doc.Decks = append([]*domain.Deck{stored}, doc.Decks...)
	if err := s.save(doc); err != nil {
		return nil, err
	}
	return stored.Clone(), nil
}

// Update replaces the contents of the named deck, preserving its identifier
// and creation time.
func (s *LocalStore) Update(ctx context.Context, id domain.DeckID, deck *domain.Deck) (*domain.Deck, error) {
	if !s.Available() {
		return nil, domain.ErrStorageUnavailable
	}

	doc := s.load()
	for i, existing := range doc.Decks {
		if existing.ID.Value != id.Value {
			continue
		}
		stored := deck.Clone()
		stored.ID = existing.ID
		stored.Origin = ""
		stored.CreatedAt = existing.CreatedAt
		stored.UpdatedAt = s.now().UTC()
		doc.Decks[i] = stored
		if err := s.save(doc); err != nil {
			return nil, err
		}
		return stored.Clone(), nil
	}
	return nil, domain.ErrDeckNotFound
}

// Delete removes the named deck.
func (s *LocalStore) Delete(ctx context.Context, id domain.DeckID) error {
	if !s.Available() {
		return domain.ErrStorageUnavailable
	}

	doc := s.load()
	for i, existing := range doc.Decks {
		if existing.ID.Value != id.Value {
			continue
		}
		doc.Decks = append(doc.Decks[:i], doc.Decks[i+1:]...)
		return s.save(doc)
	}
	return domain.ErrDeckNotFound
}

// load reads the deck document. Missing or corrupted data degrades to an
// empty collection so the store self-heals on the next successful write
// instead of wedging permanently; corruption is logged, never thrown.
func (s *LocalStore) load() *storeDocument {
	empty := &storeDocument{Version: storeVersion}

	data, err := os.ReadFile(s.Path())
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("failed to read deck store, treating as empty",
				ports.String("path", s.Path()),
				ports.Err(err),
			)
		}
		return empty
	}

	var doc storeDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		s.logger.Warn("corrupted deck store, treating as empty",
			ports.String("path", s.Path()),
			ports.Err(err),
		)
		return empty
	}
	return &doc
}

// save persists the document atomically. Write failures leave the stored
// collection unchanged.
func (s *LocalStore) save(doc *storeDocument) error {
	doc.Version = storeVersion
	doc.Metadata = storeMetadata{
		DeckCount:    len(doc.Decks),
		LastModified: s.now().UTC(),
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal deck store: %w", err)
	}

	path := s.Path()
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		os.Remove(tmp)
		if isQuotaError(err) {
			return domain.ErrQuotaExceeded
		}
		return fmt.Errorf("write deck store: %w", err)
	}
	return os.Rename(tmp, path)
}

// newLocalID generates a "local_<unix-milli>_<suffix>" identifier. The random
// suffix guards against same-millisecond collisions without coordination.
func newLocalID(now time.Time) string {
	return fmt.Sprintf("%s%d_%s", domain.LocalIDPrefix, now.UnixMilli(), uuid.NewString()[:8])
}

func isQuotaError(err error) bool {
	return errors.Is(err, syscall.ENOSPC)
}
