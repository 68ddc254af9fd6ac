package ports

import (
	"context"
	"time"
)

// Session is the output of the external OAuth collaborator: an authenticated
// identity plus the token the remote adapter attaches to API calls. This
// layer consumes sessions; it never performs the OAuth exchange.
type Session struct {
	AccountID string    `json:"account_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Valid reports whether the session is usable at the given instant.
func (s Session) Valid(now time.Time) bool {
	return s.Token != "" && now.Before(s.ExpiresAt)
}

// SessionRepository persists the authenticated-session signal between
// process runs. Implementations persist atomically (temp file + rename).
type SessionRepository interface {
	// Load retrieves the last saved session. Returns a zero session and nil
	// error if none exists; an error only for actual read failures.
	Load(ctx context.Context) (Session, error)

	// Save persists the session atomically.
	Save(ctx context.Context, s Session) error

	// Clear removes any persisted session.
	Clear(ctx context.Context) error
}
