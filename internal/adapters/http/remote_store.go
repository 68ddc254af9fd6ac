// Package http provides the remote deck store adapter: a thin client over the
// server deck API, used only when a session is authenticated.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/deckforge/deckstore/internal/domain"
	"github.com/deckforge/deckstore/internal/ports"
)

const decksEndpoint = "/v1/decks"

// TokenSource supplies the bearer token attached to each request. Token
// acquisition is the OAuth collaborator's responsibility, not this layer's.
type TokenSource func(ctx context.Context) (string, error)

// RemoteStore implements ports.DeckStore against the server deck API.
// The API is an upstream collaborator treated as a black box; this adapter
// only classifies its failures into the domain taxonomy.
type RemoteStore struct {
	baseURL string
	client  ports.HTTPClient
	token   TokenSource
	logger  ports.Logger
}

// NewRemoteStore creates a new remote deck store client.
func NewRemoteStore(baseURL string, client ports.HTTPClient, token TokenSource, logger ports.Logger) *RemoteStore {
	// Ensure no trailing slash
	if len(baseURL) > 0 && baseURL[len(baseURL)-1] == '/' {
		baseURL = baseURL[:len(baseURL)-1]
	}
	return &RemoteStore{
		baseURL: baseURL,
		client:  client,
		token:   token,
		logger:  logger,
	}
}

// Available always reports true; remote failures surface per call as typed
// errors rather than as a standing availability bit.
func (s *RemoteStore) Available() bool {
	return true
}

// List returns every server-side deck for the authenticated user.
func (s *RemoteStore) List(ctx context.Context) ([]*domain.Deck, error) {
	var payloads []deckPayload
	if err := s.do(ctx, http.MethodGet, decksEndpoint, nil, &payloads); err != nil {
		return nil, err
	}

	decks := make([]*domain.Deck, len(payloads))
	for i, p := range payloads {
		decks[i] = p.toDeck()
	}
	return decks, nil
}

// Count returns the number of server-side decks. The API has no dedicated
// count endpoint, so this lists and counts.
func (s *RemoteStore) Count(ctx context.Context) (int, error) {
	decks, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	return len(decks), nil
}

// Create persists a draft server-side. The backend assigns the identifier.
func (s *RemoteStore) Create(ctx context.Context, draft *domain.Deck) (*domain.Deck, error) {
	var created deckPayload
	if err := s.do(ctx, http.MethodPost, decksEndpoint, fromDeck(draft), &created); err != nil {
		return nil, err
	}
	return created.toDeck(), nil
}

// Update replaces the named deck's contents server-side.
func (s *RemoteStore) Update(ctx context.Context, id domain.DeckID, deck *domain.Deck) (*domain.Deck, error) {
	var updated deckPayload
	path := decksEndpoint + "/" + id.Value
	if err := s.do(ctx, http.MethodPut, path, fromDeck(deck), &updated); err != nil {
		return nil, err
	}
	return updated.toDeck(), nil
}

// Delete removes the named deck server-side.
func (s *RemoteStore) Delete(ctx context.Context, id domain.DeckID) error {
	return s.do(ctx, http.MethodDelete, decksEndpoint+"/"+id.Value, nil, nil)
}

// do performs one API call: marshals the body, attaches the session token,
// classifies the response. out may be nil for calls without a response body.
func (s *RemoteStore) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal deck payload: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	token, err := s.token(ctx)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if err := classifyStatus(resp); err != nil {
		return err
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// classifyStatus maps HTTP status codes onto the domain error taxonomy.
func classifyStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode/100 == 2:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return domain.ErrDeckNotFound
	case resp.StatusCode == http.StatusConflict:
		// The backend re-asserts the deck cap as defense in depth.
		return domain.ErrDeckLimitExceeded
	case resp.StatusCode/100 == 4:
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %d %s", domain.ErrServerRejected, resp.StatusCode, bytes.TrimSpace(detail))
	default:
		return fmt.Errorf("%w: status %d", domain.ErrServerUnavailable, resp.StatusCode)
	}
}

// deckPayload is the wire form of a deck on the server API. Cards and
// evolution slots travel as separate lists, matching the backend schema.
type deckPayload struct {
	ID             int64            `json:"id,omitempty"`
	Name           string           `json:"name"`
	Cards          []domain.CardRef `json:"cards"`
	EvolutionSlots []domain.CardRef `json:"evolution_slots"`
	AverageElixir  float64          `json:"average_elixir"`
	CreatedAt      string           `json:"created_at,omitempty"`
	UpdatedAt      string           `json:"updated_at,omitempty"`
}

// fromDeck converts a domain deck to its wire form.
func fromDeck(d *domain.Deck) *deckPayload {
	p := &deckPayload{
		Name:           d.Name,
		Cards:          make([]domain.CardRef, 0, domain.NumSlots),
		EvolutionSlots: make([]domain.CardRef, 0, domain.MaxEvolutions),
		AverageElixir:  d.AverageElixir,
	}
	for _, slot := range d.Slots {
		if !slot.Filled() {
			continue
		}
		p.Cards = append(p.Cards, *slot.Card)
		if slot.Evolution {
			p.EvolutionSlots = append(p.EvolutionSlots, *slot.Card)
		}
	}
	return p
}

// toDeck converts a wire deck back into the domain form. Evolution flags are
// recovered by card id membership in the evolution slot list.
func (p *deckPayload) toDeck() *domain.Deck {
	d := &domain.Deck{
		Name:          p.Name,
		AverageElixir: p.AverageElixir,
	}
	if p.ID != 0 {
		d.ID = domain.ServerID(strconv.FormatInt(p.ID, 10))
	}

	evolved := make(map[int]bool, len(p.EvolutionSlots))
	for _, c := range p.EvolutionSlots {
		evolved[c.ID] = true
	}
	for i, c := range p.Cards {
		if i >= domain.NumSlots {
			break
		}
		card := c
		d.Slots[i] = domain.Slot{Card: &card, Evolution: evolved[c.ID]}
	}

	if t, err := parseAPITime(p.CreatedAt); err == nil {
		d.CreatedAt = t
	}
	if t, err := parseAPITime(p.UpdatedAt); err == nil {
		d.UpdatedAt = t
	}
	return d
}
