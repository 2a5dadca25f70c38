// Package lookup fetches display metadata for species slugs from a
// PokeAPI-compatible endpoint. Lookups are best-effort: the engine never
// depends on them, and callers fall back to the raw slug when one fails.
package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/simbachu/monrank/internal/tournament"
)

const DefaultBaseURL = "https://pokeapi.co/api/v2"

type Profile struct {
	Slug     tournament.ParticipantID `json:"slug"`
	Name     string                   `json:"name"`
	ImageURL string                   `json:"image_url,omitempty"`
}

type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	cache map[tournament.ParticipantID]Profile
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 5 * time.Second},
		cache:   make(map[tournament.ParticipantID]Profile),
	}
}

type speciesResponse struct {
	Name    string `json:"name"`
	Sprites struct {
		FrontDefault string `json:"front_default"`
	} `json:"sprites"`
}

// Profile resolves display metadata for a slug. Successful responses are
// cached for the life of the process; a roster is small and immutable.
func (c *Client) Profile(ctx context.Context, id tournament.ParticipantID) (Profile, error) {
	c.mu.RLock()
	p, ok := c.cache[id]
	c.mu.RUnlock()
	if ok {
		return p, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/pokemon/%s", c.baseURL, id), nil)
	if err != nil {
		return Profile{}, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Profile{}, fmt.Errorf("lookup %q: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Profile{}, fmt.Errorf("lookup %q: unexpected status %d", id, resp.StatusCode)
	}

	var body speciesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Profile{}, fmt.Errorf("lookup %q: decode: %w", id, err)
	}

	p = Profile{Slug: id, Name: body.Name, ImageURL: body.Sprites.FrontDefault}
	c.mu.Lock()
	c.cache[id] = p
	c.mu.Unlock()
	return p, nil
}

// ProfileOrFallback never fails: a lookup error degrades to the raw slug.
func (c *Client) ProfileOrFallback(ctx context.Context, id tournament.ParticipantID) Profile {
	p, err := c.Profile(ctx, id)
	if err != nil {
		return Profile{Slug: id, Name: string(id)}
	}
	return p
}
