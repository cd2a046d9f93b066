// Package listing fetches the lobby's game listing from the world
// server's HTTP API.
package listing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// LobbySummary is the listing projection of one session. It is produced by
// the server; the reconciliation engine only triggers refreshes of it.
type LobbySummary struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	PlayerCount   int    `json:"player_count"`
	QuestionCount int    `json:"question_count"`
	State         string `json:"state"`
}

// Session listing states as reported by the server.
const (
	StateWaiting   = "waiting"
	StateCountdown = "countdown"
	StateQuestion  = "question"
	StateEnded     = "ended"
)

// Joinable reports whether the session is still accepting players. Only
// waiting sessions are; countdown, question, and ended sessions are not.
func (s LobbySummary) Joinable() bool {
	return s.State == StateWaiting
}

// Client fetches session listings over HTTP.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a listing client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// FetchSessionList returns the current lobby listing. Errors are transient
// network or server failures; the host surfaces them and may retry.
func (c *Client) FetchSessionList(ctx context.Context) ([]LobbySummary, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/games", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch game list: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("fetch game list: status %d, response: %s", resp.StatusCode, string(body))
	}

	var games []LobbySummary
	if err := json.NewDecoder(resp.Body).Decode(&games); err != nil {
		return nil, fmt.Errorf("decode game list: %w", err)
	}
	return games, nil
}
