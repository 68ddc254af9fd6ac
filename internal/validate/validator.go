// Package validate enforces deck invariants. It is pure and side-effect-free,
// and is applied identically regardless of target backend, which is why the
// invariants are centralized here rather than duplicated per adapter.
package validate

import (
	"fmt"
	"math"

	"github.com/deckforge/deckstore/internal/domain"
)

// ComputeAverageElixir returns the derived average elixir cost of a slot set:
// the sum of elixir costs of filled slots divided by the full slot count,
// rounded half up to one decimal place. An all-empty slot set yields exactly
// 0.0 (draft state, not persisted).
func ComputeAverageElixir(slots [domain.NumSlots]domain.Slot) float64 {
	sum := 0
	filled := 0
	for _, s := range slots {
		if s.Filled() {
			sum += s.Card.Elixir
			filled++
		}
	}
	if filled == 0 {
		return 0.0
	}
	avg := float64(sum) / float64(domain.NumSlots)
	// Round half up: 3.25 -> 3.3.
	return math.Floor(avg*10+0.5) / 10
}

// CanMarkEvolution reports whether one more slot holding the given card may be
// flagged as an evolution.
func CanMarkEvolution(card *domain.CardRef, currentEvolutionCount int) bool {
	if card == nil || !card.HasEvolution {
		return false
	}
	return currentEvolutionCount < domain.MaxEvolutions
}

// ForSave checks every save invariant and returns the deck with its derived
// average elixir recomputed, or a *domain.ValidationError listing all
// violations. Caller input for AverageElixir is never trusted.
//
// Drafts are exempt from these checks while being edited; they apply the
// moment a deck is persisted.
func ForSave(deck *domain.Deck) (*domain.Deck, error) {
	var violations []domain.Violation

	if deck.Name == "" {
		violations = append(violations, domain.Violation{
			Code:    domain.EmptyName,
			Message: "deck name must not be empty",
		})
	}

	filled := deck.FilledCount()
	if filled < domain.NumSlots {
		violations = append(violations, domain.Violation{
			Code:    domain.IncompleteDeck,
			Message: fmt.Sprintf("deck has %d of %d cards", filled, domain.NumSlots),
		})
	}

	seen := make(map[int]bool, domain.NumSlots)
	for _, s := range deck.Slots {
		if !s.Filled() {
			continue
		}
		if seen[s.Card.ID] {
			violations = append(violations, domain.Violation{
				Code:    domain.DuplicateCard,
				Message: fmt.Sprintf("card %q appears more than once", s.Card.Name),
			})
			break
		}
		seen[s.Card.ID] = true
	}

	evolutions := 0
	for _, s := range deck.Slots {
		if !s.Filled() || !s.Evolution {
			continue
		}
		evolutions++
		if !s.Card.HasEvolution {
			violations = append(violations, domain.Violation{
				Code:    domain.EvolutionNotSupported,
				Message: fmt.Sprintf("card %q has no evolved form", s.Card.Name),
			})
		}
	}
	if evolutions > domain.MaxEvolutions {
		violations = append(violations, domain.Violation{
			Code:    domain.EvolutionLimitExceeded,
			Message: fmt.Sprintf("%d evolution slots, at most %d allowed", evolutions, domain.MaxEvolutions),
		})
	}

	if len(violations) > 0 {
		return nil, &domain.ValidationError{Violations: violations}
	}

	valid := deck.Clone()
	valid.AverageElixir = ComputeAverageElixir(valid.Slots)
	return valid, nil
}
