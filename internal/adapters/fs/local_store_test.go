package fs

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/deckforge/deckstore/internal/domain"
	"github.com/deckforge/deckstore/internal/ports"
)

// mockLogger implements ports.Logger for testing.
type mockLogger struct{}

func (mockLogger) Debug(msg string, fields ...ports.Field) {}
func (mockLogger) Info(msg string, fields ...ports.Field)  {}
func (mockLogger) Warn(msg string, fields ...ports.Field)  {}
func (mockLogger) Error(msg string, fields ...ports.Field) {}

func testDeck(name string) *domain.Deck {
	d := &domain.Deck{Name: name}
	for i := 0; i < domain.NumSlots; i++ {
		d.Slots[i] = domain.Slot{Card: &domain.CardRef{ID: i + 1, Name: name, Elixir: 3}}
	}
	return d
}

func TestLocalStore_RoundTrip(t *testing.T) {
	store := NewLocalStore(t.TempDir(), mockLogger{})
	ctx := context.Background()

	decks, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List on empty store: %v", err)
	}
	if len(decks) != 0 {
		t.Fatalf("empty store listed %d decks", len(decks))
	}

	created, err := store.Create(ctx, testDeck("first"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID.Kind != domain.IDLocal {
		t.Errorf("created id kind = %s, want local", created.ID.Kind)
	}
	if !strings.HasPrefix(created.ID.Value, domain.LocalIDPrefix) {
		t.Errorf("created id %q lacks %q prefix", created.ID.Value, domain.LocalIDPrefix)
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Errorf("timestamps not set on create")
	}

	decks, _ = store.List(ctx)
	if len(decks) != 1 || decks[0].Name != "first" {
		t.Fatalf("after create, list = %v", decks)
	}

	renamed := created.Clone()
	renamed.Name = "renamed"
	updated, err := store.Update(ctx, created.ID, renamed)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != "renamed" {
		t.Errorf("updated name = %q", updated.Name)
	}
	if updated.CreatedAt != created.CreatedAt {
		t.Errorf("update changed CreatedAt")
	}

	decks, _ = store.List(ctx)
	if len(decks) != 1 || decks[0].Name != "renamed" {
		t.Fatalf("after update, list = %v", decks)
	}

	if err := store.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	decks, _ = store.List(ctx)
	if len(decks) != 0 {
		t.Fatalf("after delete, %d decks remain", len(decks))
	}
}

func TestLocalStore_ListNewestFirst(t *testing.T) {
	store := NewLocalStore(t.TempDir(), mockLogger{})
	ctx := context.Background()

	if _, err := store.Create(ctx, testDeck("older")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := store.Create(ctx, testDeck("newer")); err != nil {
		t.Fatalf("Create: %v", err)
	}

	decks, _ := store.List(ctx)
	if len(decks) != 2 || decks[0].Name != "newer" {
		t.Fatalf("list order = %v, want newest first", decks)
	}
}

func TestLocalStore_CorruptedDataDegradesToEmpty(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStore(dir, mockLogger{})
	ctx := context.Background()

	if err := os.WriteFile(store.Path(), []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write corrupted store: %v", err)
	}

	decks, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List over corrupted data: %v", err)
	}
	if len(decks) != 0 {
		t.Fatalf("corrupted store listed %d decks", len(decks))
	}

	// Self-healing: the next successful write replaces the corrupted blob.
	if _, err := store.Create(ctx, testDeck("fresh")); err != nil {
		t.Fatalf("Create after corruption: %v", err)
	}
	decks, _ = store.List(ctx)
	if len(decks) != 1 {
		t.Fatalf("after healing write, list = %v", decks)
	}
}

func TestLocalStore_DeckLimit(t *testing.T) {
	store := NewLocalStore(t.TempDir(), mockLogger{})
	ctx := context.Background()

	for i := 0; i < domain.MaxDecksPerUser; i++ {
		if _, err := store.Create(ctx, testDeck("deck")); err != nil {
			t.Fatalf("Create %d: %v", i, err)
		}
	}

	_, err := store.Create(ctx, testDeck("one too many"))
	if !errors.Is(err, domain.ErrDeckLimitExceeded) {
		t.Fatalf("21st create error = %v, want ErrDeckLimitExceeded", err)
	}

	n, _ := store.Count(ctx)
	if n != domain.MaxDecksPerUser {
		t.Fatalf("count after rejected create = %d, want %d", n, domain.MaxDecksPerUser)
	}
}

func TestLocalStore_NotFound(t *testing.T) {
	store := NewLocalStore(t.TempDir(), mockLogger{})
	ctx := context.Background()

	_, err := store.Update(ctx, domain.LocalID("local_0_missing"), testDeck("x"))
	if !errors.Is(err, domain.ErrDeckNotFound) {
		t.Errorf("Update missing = %v, want ErrDeckNotFound", err)
	}
	if err := store.Delete(ctx, domain.LocalID("local_0_missing")); !errors.Is(err, domain.ErrDeckNotFound) {
		t.Errorf("Delete missing = %v, want ErrDeckNotFound", err)
	}
}

func TestLocalStore_UniqueIDs(t *testing.T) {
	store := NewLocalStore(t.TempDir(), mockLogger{})
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		d, err := store.Create(ctx, testDeck("deck"))
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if seen[d.ID.Value] {
			t.Fatalf("duplicate local id %q", d.ID.Value)
		}
		seen[d.ID.Value] = true
	}
}
