// Package banter fetches short commentary lines for scoreboard events from
// an optional remote service, falling back to built-in lines when the
// service is unavailable.
package banter

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"net/url"
	"time"
)

// DefaultTimeout bounds a single line fetch. Commentary is decoration; a
// slow service must never hold up the scoreboard.
const DefaultTimeout = 2500 * time.Millisecond

// Config holds banter client configuration.
type Config struct {
	// BaseURL of the commentary service. Empty disables remote fetching
	// and the client serves built-in lines only.
	BaseURL string
	// Timeout for a single fetch.
	Timeout time.Duration
}

// DefaultConfig returns a config with built-in lines only.
func DefaultConfig() Config {
	return Config{Timeout: DefaultTimeout}
}

// Client produces one commentary line per scoring event.
type Client struct {
	config Config
	http   *http.Client
	rng    *rand.Rand
}

// New creates a banter client. A nil rng gets a time-seeded source.
func New(config Config, rng *rand.Rand) *Client {
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Client{
		config: config,
		http:   &http.Client{Timeout: config.Timeout},
		rng:    rng,
	}
}

// lineResponse is the remote service's reply shape.
type lineResponse struct {
	Line string `json:"line"`
}

// Line returns a commentary line for a point scored by the given side at
// the given score. It never returns an empty string and never fails: any
// remote problem falls back to a built-in line.
func (c *Client) Line(ctx context.Context, scorer string, playerScore, computerScore int) string {
	if c.config.BaseURL == "" {
		return c.fallback(scorer)
	}

	line, err := c.fetch(ctx, scorer, playerScore, computerScore)
	if err != nil {
		log.Printf("banter fetch failed, using fallback: %v", err)
		return c.fallback(scorer)
	}
	return line
}

func (c *Client) fetch(ctx context.Context, scorer string, playerScore, computerScore int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	q := url.Values{}
	q.Set("scorer", scorer)
	q.Set("player", fmt.Sprintf("%d", playerScore))
	q.Set("computer", fmt.Sprintf("%d", computerScore))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/line?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var body lineResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if body.Line == "" {
		return "", fmt.Errorf("empty line in response")
	}

	return body.Line, nil
}

// Built-in lines, one pool per scorer.
var (
	playerLines = []string{
		"What a shot!",
		"The machine never saw it coming.",
		"Right past the paddle!",
		"Clinical finish.",
		"The crowd goes wild!",
	}
	computerLines = []string{
		"The machine strikes back.",
		"Ouch. Shake it off.",
		"That one had your name on it.",
		"Keep your eye on the ball!",
		"Recalibrate and retaliate.",
	}
)

func (c *Client) fallback(scorer string) string {
	pool := computerLines
	if scorer == "player" {
		pool = playerLines
	}
	return pool[c.rng.Intn(len(pool))]
}
