package fs

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/deckforge/deckstore/internal/ports"
)

const sessionFileName = "session.json"

// SessionFileRepository implements ports.SessionRepository using a JSON file.
// The session itself is produced by the external OAuth collaborator; this
// repository only keeps its output between process runs.
type SessionFileRepository struct {
	dir string
}

// NewSessionFileRepository creates a repository rooted at the given directory.
func NewSessionFileRepository(dir string) *SessionFileRepository {
	return &SessionFileRepository{dir: dir}
}

// Path returns the full path to the session file.
func (r *SessionFileRepository) Path() string {
	return filepath.Join(r.dir, sessionFileName)
}

// Load retrieves the last saved session from disk.
// Returns a zero session and nil error if no session file exists.
func (r *SessionFileRepository) Load(ctx context.Context) (ports.Session, error) {
	data, err := os.ReadFile(r.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return ports.Session{}, nil
		}
		return ports.Session{}, err
	}

	var s ports.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return ports.Session{}, err
	}
	return s, nil
}

// Save persists the session atomically (temp file + rename).
func (r *SessionFileRepository) Save(ctx context.Context, s ports.Session) error {
	if err := os.MkdirAll(r.dir, 0o700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	tmp := r.Path() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, r.Path())
}

// Clear removes any persisted session.
func (r *SessionFileRepository) Clear(ctx context.Context) error {
	err := os.Remove(r.Path())
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
