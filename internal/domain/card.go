package domain

// CardRef is a reference to a card in the external catalog, together with
// enough cached display data to validate a deck without a network round trip.
// Cards are immutable reference data; the storage core never mutates them.
type CardRef struct {
	// ID is the catalog identifier of the card.
	ID int `json:"id"`

	// Name is the display name (e.g., "Knight").
	Name string `json:"name"`

	// Elixir is the elixir cost of the card.
	Elixir int `json:"elixir"`

	// Rarity is the catalog rarity tier (e.g., "common", "legendary").
	Rarity string `json:"rarity,omitempty"`

	// HasEvolution reports whether the card supports an evolved form.
	HasEvolution bool `json:"has_evolution"`
}
