package deckstore

import (
	"github.com/deckforge/deckstore/internal/domain"
	"github.com/deckforge/deckstore/internal/ports"
)

// Re-export the domain vocabulary so embedders never import internal
// packages.
type (
	// Deck is a stored deck record.
	Deck = domain.Deck

	// DeckID names a deck within one backend's identifier space.
	DeckID = domain.DeckID

	// CardRef is a resolved card reference.
	CardRef = domain.CardRef

	// Slot is one of a deck's card slots.
	Slot = domain.Slot

	// Origin tags which backend a record was read from.
	Origin = domain.Origin

	// MigrationSummary reports the outcome of a login migration.
	MigrationSummary = domain.MigrationSummary

	// MigrationFailure is one deck that stayed local.
	MigrationFailure = domain.MigrationFailure

	// Session is an authenticated session produced by the external auth
	// collaborator.
	Session = ports.Session

	// ValidationError aggregates the invariants a deck violated at save
	// time.
	ValidationError = domain.ValidationError

	// Violation is one failed save invariant.
	Violation = domain.Violation

	// ViolationCode identifies a save invariant.
	ViolationCode = domain.ViolationCode

	// Logger is the structured logging interface. See WithLogger.
	Logger = ports.Logger

	// Field is a structured log field.
	Field = ports.Field

	// HTTPClient is the interface for making HTTP requests.
	// *http.Client satisfies it.
	HTTPClient = ports.HTTPClient

	// CardCatalog resolves card references by id or display name.
	CardCatalog = ports.CardCatalog
)

// Deck shape constants.
const (
	NumSlots        = domain.NumSlots
	MaxEvolutions   = domain.MaxEvolutions
	MaxDecksPerUser = domain.MaxDecksPerUser
)

// Origins.
const (
	OriginLocal  = domain.OriginLocal
	OriginServer = domain.OriginServer
)

// Violation codes.
const (
	IncompleteDeck         = domain.IncompleteDeck
	DuplicateCard          = domain.DuplicateCard
	EvolutionLimitExceeded = domain.EvolutionLimitExceeded
	EvolutionNotSupported  = domain.EvolutionNotSupported
	EmptyName              = domain.EmptyName
)

// Domain errors. Check with errors.Is.
var (
	ErrStorageUnavailable  = domain.ErrStorageUnavailable
	ErrQuotaExceeded       = domain.ErrQuotaExceeded
	ErrDeckLimitExceeded   = domain.ErrDeckLimitExceeded
	ErrDeckNotFound        = domain.ErrDeckNotFound
	ErrNetwork             = domain.ErrNetwork
	ErrServerRejected      = domain.ErrServerRejected
	ErrServerUnavailable   = domain.ErrServerUnavailable
	ErrStorageMismatch     = domain.ErrStorageMismatch
	ErrMigrationInProgress = domain.ErrMigrationInProgress
	ErrNotAuthenticated    = domain.ErrNotAuthenticated
)

// ParseID reconstructs a DeckID from its string form, recognizing local
// identifiers by prefix.
func ParseID(s string) DeckID {
	return domain.ParseID(s)
}

// LocalID builds a local-space DeckID.
func LocalID(value string) DeckID {
	return domain.LocalID(value)
}

// ServerID builds a server-space DeckID.
func ServerID(value string) DeckID {
	return domain.ServerID(value)
}
