// Package catalog resolves card reference data owned by the external card
// catalog service. Cards are immutable; the catalog is read-only from the
// storage core's point of view.
//
// Two implementations are provided: a file catalog loaded once from a YAML
// document, and an HTTP client over the catalog API with an LRU cache.
package catalog

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/deckforge/deckstore/internal/domain"
)

// File is an in-memory catalog built from a YAML card list. Lookups never
// touch the network, which suits offline (anonymous) deck building.
type File struct {
	byID   map[int]*domain.CardRef
	byName map[string]*domain.CardRef
}

// catalogFile is the top-level YAML structure.
type catalogFile struct {
	Cards []cardEntry `yaml:"cards"`
}

// cardEntry is a single card in the YAML file.
type cardEntry struct {
	ID           int    `yaml:"id"`
	Name         string `yaml:"name"`
	Elixir       int    `yaml:"elixir"`
	Rarity       string `yaml:"rarity"`
	HasEvolution bool   `yaml:"has_evolution"`
}

// LoadFile parses a YAML catalog file into an in-memory catalog.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cf catalogFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("parse catalog YAML: %w", err)
	}

	cards := make([]domain.CardRef, len(cf.Cards))
	for i, e := range cf.Cards {
		cards[i] = domain.CardRef{
			ID:           e.ID,
			Name:         e.Name,
			Elixir:       e.Elixir,
			Rarity:       e.Rarity,
			HasEvolution: e.HasEvolution,
		}
	}
	return NewFile(cards), nil
}

// NewFile builds an in-memory catalog from a card slice.
func NewFile(cards []domain.CardRef) *File {
	f := &File{
		byID:   make(map[int]*domain.CardRef, len(cards)),
		byName: make(map[string]*domain.CardRef, len(cards)),
	}
	for i := range cards {
		c := cards[i]
		f.byID[c.ID] = &c
		f.byName[strings.ToLower(c.Name)] = &c
	}
	return f
}

// Len returns the number of cards in the catalog.
func (f *File) Len() int {
	return len(f.byID)
}

// CardByID returns the card with the given catalog id.
func (f *File) CardByID(ctx context.Context, id int) (*domain.CardRef, error) {
	if c, ok := f.byID[id]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("card %d: %w", id, ErrCardNotFound)
}

// CardByName returns the card with the given display name, case-insensitive.
func (f *File) CardByName(ctx context.Context, name string) (*domain.CardRef, error) {
	if c, ok := f.byName[strings.ToLower(name)]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("card %q: %w", name, ErrCardNotFound)
}
