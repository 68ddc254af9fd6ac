package deckstore_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/deckforge/deckstore/pkg/deckstore"
)

// deckAPI is a minimal in-memory deck service.
type deckAPI struct {
	mu     sync.Mutex
	decks  map[int64]map[string]interface{}
	nextID int64
	token  string
}

func newDeckAPI(token string) *deckAPI {
	return &deckAPI{decks: map[int64]map[string]interface{}{}, token: token}
}

func (a *deckAPI) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+a.token {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		a.mu.Lock()
		defer a.mu.Unlock()

		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/v1/decks":
			out := make([]map[string]interface{}, 0, len(a.decks))
			for id, d := range a.decks {
				d["id"] = id
				out = append(out, d)
			}
			json.NewEncoder(w).Encode(out)

		case r.Method == http.MethodPost && r.URL.Path == "/v1/decks":
			var d map[string]interface{}
			json.NewDecoder(r.Body).Decode(&d)
			a.nextID++
			d["id"] = a.nextID
			a.decks[a.nextID] = d
			json.NewEncoder(w).Encode(d)

		case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/v1/decks/"):
			id, _ := strconv.ParseInt(strings.TrimPrefix(r.URL.Path, "/v1/decks/"), 10, 64)
			if _, ok := a.decks[id]; !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			delete(a.decks, id)
			w.WriteHeader(http.StatusNoContent)

		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

const testCatalogYAML = `
cards:
  - id: 1
    name: Knight
    elixir: 3
    rarity: common
    has_evolution: true
  - id: 2
    name: Archers
    elixir: 3
    rarity: common
    has_evolution: true
  - id: 3
    name: Fireball
    elixir: 4
    rarity: rare
  - id: 4
    name: Musketeer
    elixir: 4
    rarity: rare
  - id: 5
    name: Giant
    elixir: 5
    rarity: rare
  - id: 6
    name: Minions
    elixir: 3
    rarity: common
  - id: 7
    name: Zap
    elixir: 2
    rarity: common
  - id: 8
    name: Cannon
    elixir: 3
    rarity: common
`

func newTestStore(t *testing.T, serviceURL string) *deckstore.Store {
	t.Helper()
	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "cards.yaml")
	if err := os.WriteFile(catalogPath, []byte(testCatalogYAML), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}

	store, err := deckstore.New(deckstore.Config{
		DataDir:     filepath.Join(dir, "data"),
		ServiceURL:  serviceURL,
		CatalogPath: catalogPath,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return store
}

func testDraft(t *testing.T, store *deckstore.Store, name string) *deckstore.Deck {
	t.Helper()
	d := &deckstore.Deck{Name: name}
	for i := 0; i < deckstore.NumSlots; i++ {
		card, err := store.Catalog().CardByID(context.Background(), i+1)
		if err != nil {
			t.Fatalf("catalog: %v", err)
		}
		d.Slots[i] = deckstore.Slot{Card: card}
	}
	return d
}

func testSession() deckstore.Session {
	return deckstore.Session{
		AccountID: "acct-1",
		Token:     "test-token",
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func TestStore_AnonymousRoundTrip(t *testing.T) {
	store := newTestStore(t, "http://unused.invalid")

	if store.State() != deckstore.StateAnonymous {
		t.Fatalf("state = %s, want Anonymous", store.State())
	}

	saved, err := store.SaveDeck(context.Background(), testDraft(t, store, "hog cycle"))
	if err != nil {
		t.Fatalf("SaveDeck: %v", err)
	}
	if saved.Origin != deckstore.OriginLocal {
		t.Errorf("Origin = %q, want local", saved.Origin)
	}
	if saved.AverageElixir != 3.4 {
		t.Errorf("AverageElixir = %v, want 3.4", saved.AverageElixir)
	}

	decks, err := store.Decks(context.Background())
	if err != nil {
		t.Fatalf("Decks: %v", err)
	}
	if len(decks) != 1 || decks[0].Name != "hog cycle" {
		t.Fatalf("Decks = %v, want the saved deck", decks)
	}

	if err := store.DeleteDeck(context.Background(), saved.ID); err != nil {
		t.Fatalf("DeleteDeck: %v", err)
	}
}

func TestStore_LoginMigratesAndLogoutKeepsServerDecks(t *testing.T) {
	api := newDeckAPI("test-token")
	server := httptest.NewServer(api.handler())
	defer server.Close()

	store := newTestStore(t, server.URL)

	for _, name := range []string{"hog cycle", "log bait"} {
		if _, err := store.SaveDeck(context.Background(), testDraft(t, store, name)); err != nil {
			t.Fatalf("SaveDeck %q: %v", name, err)
		}
	}

	summary, err := store.Login(context.Background(), testSession())
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if summary.MigratedCount != 2 || summary.FailedCount != 0 {
		t.Fatalf("summary = %+v, want 2 migrated", summary)
	}
	if store.State() != deckstore.StateAuthenticated {
		t.Fatalf("state = %s, want Authenticated", store.State())
	}

	decks, err := store.Decks(context.Background())
	if err != nil {
		t.Fatalf("Decks: %v", err)
	}
	if len(decks) != 2 {
		t.Fatalf("server decks = %d, want 2", len(decks))
	}
	for _, d := range decks {
		if d.Origin != deckstore.OriginServer {
			t.Errorf("deck %q Origin = %q, want server", d.Name, d.Origin)
		}
	}

	if err := store.Logout(context.Background()); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if store.State() != deckstore.StateAnonymous {
		t.Fatalf("state after logout = %s", store.State())
	}

	// Nothing moved back; the local document is empty again.
	decks, err = store.Decks(context.Background())
	if err != nil {
		t.Fatalf("Decks after logout: %v", err)
	}
	if len(decks) != 0 {
		t.Fatalf("local decks after logout = %d, want 0", len(decks))
	}
}

func TestStore_LoginRejectsExpiredSession(t *testing.T) {
	store := newTestStore(t, "http://unused.invalid")

	expired := deckstore.Session{
		AccountID: "acct-1",
		Token:     "stale",
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	if _, err := store.Login(context.Background(), expired); !errors.Is(err, deckstore.ErrNotAuthenticated) {
		t.Fatalf("Login with expired session = %v, want ErrNotAuthenticated", err)
	}
	if store.State() != deckstore.StateAnonymous {
		t.Fatalf("state = %s, want Anonymous", store.State())
	}
}

func TestStore_SessionPersistsAcrossInstances(t *testing.T) {
	api := newDeckAPI("test-token")
	server := httptest.NewServer(api.handler())
	defer server.Close()

	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "cards.yaml")
	if err := os.WriteFile(catalogPath, []byte(testCatalogYAML), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	cfg := deckstore.Config{
		DataDir:     filepath.Join(dir, "data"),
		ServiceURL:  server.URL,
		CatalogPath: catalogPath,
	}

	first, err := deckstore.New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := first.Login(context.Background(), testSession()); err != nil {
		t.Fatalf("Login: %v", err)
	}

	// A fresh instance over the same data dir restores the session.
	second, err := deckstore.New(cfg)
	if err != nil {
		t.Fatalf("New (second): %v", err)
	}
	if second.State() != deckstore.StateAuthenticated {
		t.Fatalf("restored state = %s, want Authenticated", second.State())
	}
	if _, ok := second.Session(); !ok {
		t.Fatal("restored session reported invalid")
	}
}

func TestStore_EventHandlerSeesTransitions(t *testing.T) {
	api := newDeckAPI("test-token")
	server := httptest.NewServer(api.handler())
	defer server.Close()

	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "cards.yaml")
	if err := os.WriteFile(catalogPath, []byte(testCatalogYAML), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}

	handler := &recordingHandler{}
	store, err := deckstore.New(deckstore.Config{
		DataDir:     filepath.Join(dir, "data"),
		ServiceURL:  server.URL,
		CatalogPath: catalogPath,
	}, deckstore.WithEventHandler(handler))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := store.Login(context.Background(), testSession()); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := store.Logout(context.Background()); err != nil {
		t.Fatalf("Logout: %v", err)
	}

	events := handler.snapshot()
	if len(events) != 2 {
		t.Fatalf("events = %d, want login and logout transitions", len(events))
	}
	if events[0].Current != deckstore.StateAuthenticated {
		t.Errorf("first event = %+v, want transition to Authenticated", events[0])
	}
	if events[1].Current != deckstore.StateAnonymous {
		t.Errorf("second event = %+v, want transition to Anonymous", events[1])
	}
}

type recordingHandler struct {
	deckstore.BaseEventHandler

	mu     sync.Mutex
	events []deckstore.StateChangeEvent
}

func (h *recordingHandler) OnStateChange(event deckstore.StateChangeEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
}

func (h *recordingHandler) snapshot() []deckstore.StateChangeEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]deckstore.StateChangeEvent(nil), h.events...)
}
