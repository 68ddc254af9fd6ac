package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestStoreWatcher_NotifiesOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, deckFileName)

	changed := make(chan struct{}, 1)
	w := NewStoreWatcher(path, func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	}, mockLogger{})

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	// Atomic rename, as the local store writes.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(`{"version":1}`), 0o600); err != nil {
		t.Fatalf("write tmp: %v", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		t.Fatalf("rename: %v", err)
	}

	select {
	case <-changed:
	case <-time.After(3 * time.Second):
		t.Fatal("no change notification within 3s")
	}
}

func TestStoreWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, deckFileName)

	changed := make(chan struct{}, 1)
	w := NewStoreWatcher(path, func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	}, mockLogger{})

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(dir, "unrelated.json"), []byte("{}"), 0o600); err != nil {
		t.Fatalf("write unrelated: %v", err)
	}

	select {
	case <-changed:
		t.Fatal("notified for unrelated file")
	case <-time.After(500 * time.Millisecond):
	}
}
