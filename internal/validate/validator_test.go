package validate

import (
	"errors"
	"testing"

	"github.com/deckforge/deckstore/internal/domain"
)

func card(id, elixir int, name string, evo bool) *domain.CardRef {
	return &domain.CardRef{ID: id, Name: name, Elixir: elixir, HasEvolution: evo}
}

// fullDeck builds a deck of 8 distinct cards with the given elixir costs.
func fullDeck(costs [8]int) *domain.Deck {
	d := &domain.Deck{Name: "test deck"}
	for i, c := range costs {
		d.Slots[i] = domain.Slot{Card: card(100+i, c, "", false)}
	}
	return d
}

func TestComputeAverageElixir_Empty(t *testing.T) {
	var slots [domain.NumSlots]domain.Slot
	if got := ComputeAverageElixir(slots); got != 0.0 {
		t.Fatalf("empty slots average = %v, want 0.0", got)
	}
}

func TestComputeAverageElixir_RoundsHalfUp(t *testing.T) {
	// 2+3+3+4+4+5+2+3 = 26; 26/8 = 3.25 rounds half up to 3.3.
	d := fullDeck([8]int{2, 3, 3, 4, 4, 5, 2, 3})
	if got := ComputeAverageElixir(d.Slots); got != 3.3 {
		t.Fatalf("average = %v, want 3.3", got)
	}
}

func TestComputeAverageElixir_Exact(t *testing.T) {
	d := fullDeck([8]int{4, 4, 4, 4, 4, 4, 4, 4})
	if got := ComputeAverageElixir(d.Slots); got != 4.0 {
		t.Fatalf("average = %v, want 4.0", got)
	}
}

func TestForSave_Valid(t *testing.T) {
	d := fullDeck([8]int{2, 3, 3, 4, 4, 5, 2, 3})
	d.AverageElixir = 99.9 // caller input must not be trusted

	valid, err := ForSave(d)
	if err != nil {
		t.Fatalf("ForSave returned error: %v", err)
	}
	if valid.AverageElixir != 3.3 {
		t.Errorf("average elixir = %v, want recomputed 3.3", valid.AverageElixir)
	}
	if d.AverageElixir != 99.9 {
		t.Errorf("input deck mutated; validator must be side-effect-free")
	}
}

func TestForSave_IncompleteDeck(t *testing.T) {
	d := &domain.Deck{Name: "wip"}
	d.Slots[0] = domain.Slot{Card: card(1, 3, "Knight", true)}

	_, err := ForSave(d)
	assertViolation(t, err, domain.IncompleteDeck)
}

func TestForSave_DuplicateCard(t *testing.T) {
	// Knight appears twice even though the deck is otherwise full.
	d := fullDeck([8]int{3, 3, 3, 4, 4, 5, 2, 3})
	d.Slots[0] = domain.Slot{Card: card(1, 3, "Knight", true), Evolution: true}
	d.Slots[1] = domain.Slot{Card: card(2, 3, "Archers", false)}
	d.Slots[2] = domain.Slot{Card: card(1, 3, "Knight", true)}

	_, err := ForSave(d)
	assertViolation(t, err, domain.DuplicateCard)
}

func TestForSave_EvolutionLimitExceeded(t *testing.T) {
	d := fullDeck([8]int{2, 3, 3, 4, 4, 5, 2, 3})
	for i := 0; i < 3; i++ {
		d.Slots[i].Card.HasEvolution = true
		d.Slots[i].Evolution = true
	}

	_, err := ForSave(d)
	assertViolation(t, err, domain.EvolutionLimitExceeded)
}

func TestForSave_EvolutionNotSupported(t *testing.T) {
	d := fullDeck([8]int{2, 3, 3, 4, 4, 5, 2, 3})
	d.Slots[0].Evolution = true // card 100 has no evolved form

	_, err := ForSave(d)
	assertViolation(t, err, domain.EvolutionNotSupported)
}

func TestForSave_EmptyName(t *testing.T) {
	d := fullDeck([8]int{2, 3, 3, 4, 4, 5, 2, 3})
	d.Name = ""

	_, err := ForSave(d)
	assertViolation(t, err, domain.EmptyName)
}

func TestForSave_CollectsAllViolations(t *testing.T) {
	d := &domain.Deck{} // empty name, zero cards
	_, err := ForSave(d)

	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if !verr.Has(domain.EmptyName) || !verr.Has(domain.IncompleteDeck) {
		t.Errorf("violations = %v, want EmptyName and IncompleteDeck", verr.Violations)
	}
}

func TestCanMarkEvolution(t *testing.T) {
	evo := card(1, 3, "Knight", true)
	plain := card(2, 3, "Archers", false)

	tests := []struct {
		name  string
		card  *domain.CardRef
		count int
		want  bool
	}{
		{"supported under limit", evo, 0, true},
		{"supported at one", evo, 1, true},
		{"supported at limit", evo, 2, false},
		{"unsupported card", plain, 0, false},
		{"nil card", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanMarkEvolution(tt.card, tt.count); got != tt.want {
				t.Errorf("CanMarkEvolution() = %v, want %v", got, tt.want)
			}
		})
	}
}

func assertViolation(t *testing.T, err error, code domain.ViolationCode) {
	t.Helper()
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if !verr.Has(code) {
		t.Fatalf("violations = %v, want %s", verr.Violations, code)
	}
}
