package domain

import "time"

// NumSlots is the fixed number of card positions in a deck.
const NumSlots = 8

// MaxEvolutions is the maximum number of evolution-flagged slots per deck.
const MaxEvolutions = 2

// MaxDecksPerUser is the persisted-deck cap applied per user, on either
// backend. The cap is enforced before a create reaches storage and re-asserted
// server-side as defense in depth.
const MaxDecksPerUser = 20

// Origin tags which backend currently owns a deck record. It is attached at
// read time by the storage facade and never persisted by the adapters.
type Origin string

const (
	OriginLocal  Origin = "local"
	OriginServer Origin = "server"
)

// Slot is one deck position: empty, or holding a card reference plus an
// evolution marker.
type Slot struct {
	Card      *CardRef `json:"card,omitempty"`
	Evolution bool     `json:"evolution,omitempty"`
}

// Filled reports whether the slot holds a card.
func (s Slot) Filled() bool {
	return s.Card != nil
}

// Deck is the central entity: a named, ordered sequence of exactly NumSlots
// positions. A deck with a zero ID is a draft and may be partially filled;
// persisted decks satisfy the save invariants enforced by internal/validate.
type Deck struct {
	ID   DeckID `json:"id"`
	Name string `json:"name"`

	Slots [NumSlots]Slot `json:"slots"`

	// AverageElixir is derived from the filled slots, never trusted from
	// caller input. Recomputed on every save.
	AverageElixir float64 `json:"average_elixir"`

	// Origin is attached by the facade at read time; adapters leave it empty.
	Origin Origin `json:"origin,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FilledCount returns the number of slots holding a card.
func (d *Deck) FilledCount() int {
	n := 0
	for _, s := range d.Slots {
		if s.Filled() {
			n++
		}
	}
	return n
}

// EvolutionCount returns the number of filled slots flagged as evolutions.
func (d *Deck) EvolutionCount() int {
	n := 0
	for _, s := range d.Slots {
		if s.Filled() && s.Evolution {
			n++
		}
	}
	return n
}

// CardIDs returns the catalog ids of all filled slots in slot order.
func (d *Deck) CardIDs() []int {
	ids := make([]int, 0, NumSlots)
	for _, s := range d.Slots {
		if s.Filled() {
			ids = append(ids, s.Card.ID)
		}
	}
	return ids
}

// Clone returns a deep copy of the deck. Slot card references point to
// immutable catalog data and are shared, not copied.
func (d *Deck) Clone() *Deck {
	c := *d
	return &c
}
