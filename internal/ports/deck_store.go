package ports

import (
	"context"

	"github.com/deckforge/deckstore/internal/domain"
)

// DeckStore is CRUD over a single deck backend. The local blob adapter and
// the remote API adapter both implement it; neither knows its own origin tag,
// which is attached by the facade at read time.
//
// Implementations must be all-or-nothing per call: a failed Create or Update
// leaves the stored collection unchanged.
type DeckStore interface {
	// List returns every persisted deck, newest first.
	List(ctx context.Context) ([]*domain.Deck, error)

	// Count returns the number of persisted decks.
	Count(ctx context.Context) (int, error)

	// Create persists a draft and returns the stored deck with its assigned
	// identifier and timestamps.
	Create(ctx context.Context, draft *domain.Deck) (*domain.Deck, error)

	// Update replaces the named deck's contents. Returns
	// domain.ErrDeckNotFound if no deck exists for the id.
	Update(ctx context.Context, id domain.DeckID, deck *domain.Deck) (*domain.Deck, error)

	// Delete removes the named deck. Returns domain.ErrDeckNotFound if no
	// deck exists for the id.
	Delete(ctx context.Context, id domain.DeckID) error

	// Available reports whether the backing store is usable at all. When
	// false, every other method fails with domain.ErrStorageUnavailable.
	Available() bool
}
