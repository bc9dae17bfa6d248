package googlesearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
)

// DefaultBaseURL is the Google Custom Search API endpoint
const DefaultBaseURL = "https://www.googleapis.com/customsearch/v1"

// Config holds Google Custom Search client configuration.
type Config struct {
	APIKey  string
	CXID    string
	BaseURL string
}

// Result is a single Custom Search item.
type Result struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

type searchResponse struct {
	Items []Result `json:"items"`
}

// APIError carries the HTTP status of a failed API call.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("google custom search API error %d: %s", e.StatusCode, e.Message)
}

// Client is the Google Custom Search API client.
type Client struct {
	apiKey  string
	cxID    string
	baseURL string
	client  *http.Client
}

// New creates a new Google Custom Search client
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if cfg.CXID == "" {
		return nil, fmt.Errorf("search engine CX ID is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}

	return &Client{
		apiKey:  cfg.APIKey,
		cxID:    cfg.CXID,
		baseURL: cfg.BaseURL,
		client:  &http.Client{},
	}, nil
}

// Search queries the Custom Search engine. A response without items is a
// valid empty result, not an error. Timeouts are imposed by the caller
// through ctx.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("cx", c.cxID)
	params.Set("q", query)
	params.Set("num", strconv.Itoa(maxResults))
	params.Set("safe", "off")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call google custom search API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, &APIError{StatusCode: resp.StatusCode, Message: string(raw)}
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode google custom search response: %w", err)
	}

	if len(result.Items) > maxResults {
		result.Items = result.Items[:maxResults]
	}

	return result.Items, nil
}
