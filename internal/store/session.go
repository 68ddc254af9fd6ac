package store

import (
	"fmt"
	"sync"

	"github.com/deckforge/deckstore/internal/domain"
	"github.com/deckforge/deckstore/internal/ports"
)

// SessionState is the authentication state driving backend selection.
type SessionState int

const (
	// StateAnonymous routes everything to the local adapter only.
	StateAnonymous SessionState = iota

	// StateMigrating is the transient login window while the migration
	// coordinator drains the local store. Reads and writes are refused;
	// logout is refused. Entered only by the coordinator.
	StateMigrating

	// StateAuthenticated routes everything to the remote adapter only.
	StateAuthenticated
)

// String returns a human-readable representation of the state.
func (s SessionState) String() string {
	switch s {
	case StateAnonymous:
		return "Anonymous"
	case StateMigrating:
		return "Migrating"
	case StateAuthenticated:
		return "Authenticated"
	default:
		return "Unknown"
	}
}

// StateEmitter is called when the session state changes.
type StateEmitter interface {
	OnStateChange(previous, current SessionState, reason string)
}

// sessionMachine manages the authentication state machine with validated
// transitions. Migrating is a non-interruptible critical section: the only
// exit is to Authenticated.
type sessionMachine struct {
	mu      sync.RWMutex
	state   SessionState
	logger  ports.Logger
	emitter StateEmitter
}

func newSessionMachine(initial SessionState, logger ports.Logger, emitter StateEmitter) *sessionMachine {
	return &sessionMachine{
		state:   initial,
		logger:  logger,
		emitter: emitter,
	}
}

// State returns the current session state.
func (m *sessionMachine) State() SessionState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// TransitionTo attempts to transition to a new state.
// Returns an error if the transition is not valid.
func (m *sessionMachine) TransitionTo(newState SessionState, reason string) error {
	m.mu.Lock()
	oldState := m.state

	switch oldState {
	case StateAnonymous:
		// Direct Anonymous -> Authenticated is the empty-local-store fast
		// path; otherwise login passes through Migrating.
		if newState != StateMigrating && newState != StateAuthenticated {
			m.mu.Unlock()
			return fmt.Errorf("invalid session transition %s -> %s", oldState, newState)
		}
	case StateMigrating:
		if newState != StateAuthenticated {
			m.mu.Unlock()
			return domain.ErrMigrationInProgress
		}
	case StateAuthenticated:
		if newState != StateAnonymous {
			m.mu.Unlock()
			return fmt.Errorf("invalid session transition %s -> %s", oldState, newState)
		}
	}

	m.state = newState
	m.mu.Unlock()

	// Emit event outside of lock
	if m.emitter != nil {
		m.emitter.OnStateChange(oldState, newState, reason)
	}

	m.logger.Info("session transition",
		ports.String("from", oldState.String()),
		ports.String("to", newState.String()),
		ports.String("reason", reason),
	)

	return nil
}
