package ports

import (
	"context"

	"github.com/deckforge/deckstore/internal/domain"
)

// CardCatalog resolves card reference data owned by the external catalog
// service. The storage core validates from the data already cached on each
// slot; the catalog is consulted when building decks from user input.
type CardCatalog interface {
	// CardByID returns the card with the given catalog id.
	CardByID(ctx context.Context, id int) (*domain.CardRef, error)

	// CardByName returns the card with the given display name
	// (case-insensitive).
	CardByName(ctx context.Context, name string) (*domain.CardRef, error)
}
