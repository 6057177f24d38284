package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultTavilyBaseURL = "https://api.tavily.com"

// TavilyClient queries the Tavily search REST API.
type TavilyClient struct {
	apiKey  string
	baseURL string
	depth   string
	client  *http.Client
}

// TavilyOption customizes the client.
type TavilyOption func(*TavilyClient)

// WithBaseURL points the client at an alternate endpoint (tests).
func WithBaseURL(url string) TavilyOption {
	return func(t *TavilyClient) {
		if url != "" {
			t.baseURL = strings.TrimRight(url, "/")
		}
	}
}

// WithDepth selects the Tavily search depth ("basic" or "advanced").
func WithDepth(depth string) TavilyOption {
	return func(t *TavilyClient) {
		if depth != "" {
			t.depth = depth
		}
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(client *http.Client) TavilyOption {
	return func(t *TavilyClient) {
		if client != nil {
			t.client = client
		}
	}
}

// NewTavilyClient builds a Tavily-backed provider.
func NewTavilyClient(apiKey string, opts ...TavilyOption) (*TavilyClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("search: tavily api key is required")
	}
	client := &TavilyClient{
		apiKey:  apiKey,
		baseURL: defaultTavilyBaseURL,
		depth:   "advanced",
		client:  &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

type tavilyRequest struct {
	APIKey      string `json:"api_key"`
	Query       string `json:"query"`
	SearchDepth string `json:"search_depth"`
	MaxResults  int    `json:"max_results"`
}

type tavilyResponse struct {
	Results []Result `json:"results"`
}

// Search performs one search round trip.
func (t *TavilyClient) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	if maxResults <= 0 {
		maxResults = 10
	}
	payload, err := json.Marshal(tavilyRequest{
		APIKey:      t.apiKey,
		Query:       query,
		SearchDepth: t.depth,
		MaxResults:  maxResults,
	})
	if err != nil {
		return nil, fmt.Errorf("search: encode tavily request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/search", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("search: build tavily request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search: tavily request: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("search: read tavily response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search: tavily returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	var parsed tavilyResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("search: decode tavily response: %w", err)
	}
	return parsed.Results, nil
}
