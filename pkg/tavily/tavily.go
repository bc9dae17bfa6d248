package tavily

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"unicode/utf8"
)

// DefaultBaseURL is the default Tavily API endpoint
const DefaultBaseURL = "https://api.tavily.com"

// Client is the Tavily search API client.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// New creates a new Tavily client
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}

	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		client:  &http.Client{},
	}, nil
}

// Search runs an advanced-depth Tavily search. When Tavily returns its own
// AI answer it is prepended as a full-confidence result. Timeouts are imposed
// by the caller through ctx.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	// Tavily recommends keeping queries under 400 chars
	if len(query) > 400 {
		cut := 400
		for cut > 0 && !utf8.RuneStart(query[cut]) {
			cut--
		}
		query = query[:cut]
	}

	payload := searchRequest{
		APIKey:        c.apiKey,
		Query:         query,
		SearchDepth:   "advanced",
		IncludeAnswer: true,
		MaxResults:    maxResults,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call tavily API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, &APIError{StatusCode: resp.StatusCode, Message: string(raw)}
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode tavily response: %w", err)
	}

	results := result.Results
	if result.Answer != "" {
		results = append([]Result{{Title: "Tavily Answer", Content: result.Answer, Score: 1.0}}, results...)
	}
	if len(results) > maxResults {
		results = results[:maxResults]
	}

	return results, nil
}
