package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	lru "github.com/hashicorp/golang-lru"

	"github.com/deckforge/deckstore/internal/domain"
	"github.com/deckforge/deckstore/internal/ports"
)

const cardsEndpoint = "/v1/cards"

// defaultCacheSize bounds the card cache; the full catalog is a few hundred
// cards, so in practice everything ends up cached after first use.
const defaultCacheSize = 512

// Client is an HTTP client over the catalog API with an LRU cache in front.
// Card data is immutable reference data, so cached entries never expire.
type Client struct {
	baseURL string
	client  ports.HTTPClient
	logger  ports.Logger
	cache   *lru.Cache
}

// NewClient creates a catalog client for the given base URL.
func NewClient(baseURL string, client ports.HTTPClient, logger ports.Logger) (*Client, error) {
	if len(baseURL) > 0 && baseURL[len(baseURL)-1] == '/' {
		baseURL = baseURL[:len(baseURL)-1]
	}
	cache, err := lru.New(defaultCacheSize)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: baseURL,
		client:  client,
		logger:  logger,
		cache:   cache,
	}, nil
}

// CardByID returns the card with the given catalog id, from cache if present.
func (c *Client) CardByID(ctx context.Context, id int) (*domain.CardRef, error) {
	key := "id:" + strconv.Itoa(id)
	if v, ok := c.cache.Get(key); ok {
		return v.(*domain.CardRef), nil
	}

	card, err := c.fetch(ctx, cardsEndpoint+"/"+strconv.Itoa(id))
	if err != nil {
		return nil, err
	}
	c.store(card)
	return card, nil
}

// CardByName returns the card with the given display name, from cache if
// present.
func (c *Client) CardByName(ctx context.Context, name string) (*domain.CardRef, error) {
	key := "name:" + name
	if v, ok := c.cache.Get(key); ok {
		return v.(*domain.CardRef), nil
	}

	card, err := c.fetch(ctx, cardsEndpoint+"?name="+url.QueryEscape(name))
	if err != nil {
		return nil, err
	}
	c.store(card)
	return card, nil
}

// store caches a card under both lookup keys.
func (c *Client) store(card *domain.CardRef) {
	c.cache.Add("id:"+strconv.Itoa(card.ID), card)
	c.cache.Add("name:"+card.Name, card)
}

// fetch performs one catalog API call. The endpoint returns either a single
// card object or a one-element list for name queries.
func (c *Client) fetch(ctx context.Context, path string) (*domain.CardRef, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrCardNotFound
	case resp.StatusCode/100 != 2:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, fmt.Errorf("catalog returned %d: %s", resp.StatusCode, body)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read catalog response: %w", err)
	}

	// Name queries return a list.
	if len(data) > 0 && data[0] == '[' {
		var cards []domain.CardRef
		if err := json.Unmarshal(data, &cards); err != nil {
			return nil, fmt.Errorf("decode catalog response: %w", err)
		}
		if len(cards) == 0 {
			return nil, ErrCardNotFound
		}
		return &cards[0], nil
	}

	var card domain.CardRef
	if err := json.Unmarshal(data, &card); err != nil {
		return nil, fmt.Errorf("decode catalog response: %w", err)
	}
	return &card, nil
}
