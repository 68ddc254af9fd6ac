// Package domain contains the core entities and value objects for deckstore.
//
// This package represents the innermost layer of the architecture. It has no
// dependencies on infrastructure concerns (HTTP, file system, logging) and
// contains only the data model and its accessors; invariant enforcement lives
// in internal/validate.
//
// # Entities
//
//   - [Deck]: A named collection of exactly 8 card slots plus evolution markers
//   - [CardRef]: Cached reference data for one card, enough to validate offline
//   - [DeckID]: A deck identifier carrying an explicit local/server discriminant
//   - [MigrationSummary]: Result of draining local decks into the server store
package domain
