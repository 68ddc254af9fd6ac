// Package deckstore provides unified deck storage for deck-builder clients.
//
// This package re-exports the public API so the module can be imported by
// its root path. See pkg/deckstore for full documentation.
//
// Example usage:
//
//	cfg := deckstore.Config{DataDir: "/path/to/data"}
//	store, err := deckstore.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	decks, err := store.Decks(ctx)
package deckstore

import (
	api "github.com/deckforge/deckstore/pkg/deckstore"
)

// Config holds the configuration for a Store instance.
type Config = api.Config

// Store is the unified deck storage facade.
type Store = api.Store

// Option configures optional behavior of a Store.
type Option = api.Option

// Session is an authenticated session produced by the external auth flow.
type Session = api.Session

// Deck is a stored deck record.
type Deck = api.Deck

// DeckID names a deck within one backend's identifier space.
type DeckID = api.DeckID

// MigrationSummary reports the outcome of a login migration.
type MigrationSummary = api.MigrationSummary

// New creates a Store with the given configuration.
func New(cfg Config, opts ...Option) (*Store, error) {
	return api.New(cfg, opts...)
}

// DefaultServiceURL is the default endpoint of the deck API.
const DefaultServiceURL = api.DefaultServiceURL
