package deckstore

import "github.com/deckforge/deckstore/internal/store"

// State is the session state driving backend selection.
type State int

const (
	// StateAnonymous routes all deck operations to the local store.
	StateAnonymous State = iota

	// StateMigrating is the transient login window while local decks are
	// being drained to the server. Deck operations and logout are refused.
	StateMigrating

	// StateAuthenticated routes all deck operations to the server store.
	StateAuthenticated
)

// String returns a human-readable representation of the state.
func (s State) String() string {
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

// StateChangeEvent is emitted when the session state changes.
type StateChangeEvent struct {
	Previous State
	Current  State
	Reason   string
}

// EventHandler receives notifications about store events.
// Callbacks run synchronously on the goroutine that caused the event;
// implementations should return quickly.
type EventHandler interface {
	// OnStateChange is called after every session state transition.
	OnStateChange(event StateChangeEvent)

	// OnStoreChange is called when the local deck document changes on
	// disk, including writes made by other processes. Only delivered when
	// Config.WatchStore is enabled. Treat it as an invalidation hint.
	OnStoreChange()
}

// BaseEventHandler provides no-op implementations of all EventHandler
// methods. Embed it to only override the events you care about.
type BaseEventHandler struct{}

func (BaseEventHandler) OnStateChange(event StateChangeEvent) {}
func (BaseEventHandler) OnStoreChange()                       {}

// eventEmitterWrapper adapts EventHandler to the internal emitter interface.
type eventEmitterWrapper struct {
	handler EventHandler
}

func (e *eventEmitterWrapper) OnStateChange(previous, current store.SessionState, reason string) {
	if e.handler == nil {
		return
	}
	e.handler.OnStateChange(StateChangeEvent{
		Previous: convertState(previous),
		Current:  convertState(current),
		Reason:   reason,
	})
}

func convertState(s store.SessionState) State {
	switch s {
	case store.StateAnonymous:
		return StateAnonymous
	case store.StateMigrating:
		return StateMigrating
	case store.StateAuthenticated:
		return StateAuthenticated
	default:
		return StateAnonymous
	}
}
