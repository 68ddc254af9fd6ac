package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors form the stable vocabulary callers branch on, regardless of
// which backend served the request. They are returned by the public API and
// can be checked with errors.Is.
var (
	// ErrStorageUnavailable is returned when the local store is inaccessible
	// (e.g., the backing directory cannot be written).
	ErrStorageUnavailable = errors.New("deckstore: local storage unavailable")

	// ErrQuotaExceeded is returned when a local write fails for lack of space.
	// The stored collection is unchanged; writes are all-or-nothing.
	ErrQuotaExceeded = errors.New("deckstore: local storage quota exceeded")

	// ErrDeckLimitExceeded is returned when a save would exceed the
	// per-user persisted-deck cap, on either backend.
	ErrDeckLimitExceeded = errors.New("deckstore: deck limit exceeded")

	// ErrDeckNotFound is returned when no deck exists for the given id.
	ErrDeckNotFound = errors.New("deckstore: deck not found")

	// ErrNetwork is returned when a remote call produced no response.
	ErrNetwork = errors.New("deckstore: network error")

	// ErrServerRejected is returned when the remote backend refused the
	// request (4xx).
	ErrServerRejected = errors.New("deckstore: server rejected request")

	// ErrServerUnavailable is returned when the remote backend failed (5xx).
	ErrServerUnavailable = errors.New("deckstore: server unavailable")

	// ErrStorageMismatch is returned when an identifier is routed to the
	// wrong backend for the current session state. This is an internal
	// invariant violation, logged and surfaced as a defect.
	ErrStorageMismatch = errors.New("deckstore: id routed to wrong backend")

	// ErrMigrationInProgress is returned when logout is requested while the
	// login-time migration is still draining the local store. Migration is a
	// non-interruptible critical section.
	ErrMigrationInProgress = errors.New("deckstore: migration in progress")

	// ErrNotAuthenticated is returned when an operation requires an
	// authenticated session.
	ErrNotAuthenticated = errors.New("deckstore: not authenticated")
)

// ViolationCode identifies one deck invariant violation.
type ViolationCode string

const (
	// IncompleteDeck: fewer than NumSlots filled slots at save time.
	IncompleteDeck ViolationCode = "IncompleteDeck"

	// DuplicateCard: the same card id appears in more than one slot.
	DuplicateCard ViolationCode = "DuplicateCard"

	// EvolutionLimitExceeded: more than MaxEvolutions evolution flags set.
	EvolutionLimitExceeded ViolationCode = "EvolutionLimitExceeded"

	// EvolutionNotSupported: an evolution flag set on a card without an
	// evolved form.
	EvolutionNotSupported ViolationCode = "EvolutionNotSupported"

	// EmptyName: the deck display name is empty.
	EmptyName ViolationCode = "EmptyName"
)

// Violation is one failed save invariant.
type Violation struct {
	Code    ViolationCode
	Message string
}

// ValidationError aggregates every invariant a deck violated at save time.
// Always recoverable; always the caller's responsibility to fix.
type ValidationError struct {
	Violations []Violation
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return "deckstore: invalid deck"
	}
	codes := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		codes[i] = string(v.Code)
	}
	return fmt.Sprintf("deckstore: invalid deck (%s)", strings.Join(codes, ", "))
}

// Has reports whether the error contains a violation with the given code.
func (e *ValidationError) Has(code ViolationCode) bool {
	for _, v := range e.Violations {
		if v.Code == code {
			return true
		}
	}
	return false
}
