// Package duckduckgo wraps the DuckDuckGo Instant Answer API. The API is
// free and unauthenticated; it answers definitions, quick facts, and entity
// lookups rather than general web queries.
package duckduckgo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// DefaultBaseURL is the Instant Answer API endpoint
const DefaultBaseURL = "https://api.duckduckgo.com"

// Result is a single instant-answer fragment.
type Result struct {
	Title   string
	Snippet string
	URL     string
}

type instantAnswer struct {
	Abstract       string `json:"Abstract"`
	AbstractSource string `json:"AbstractSource"`
	AbstractURL    string `json:"AbstractURL"`
	Answer         string `json:"Answer"`
	Definition     string `json:"Definition"`
	Heading        string `json:"Heading"`
	RelatedTopics  []struct {
		Text     string `json:"Text"`
		FirstURL string `json:"FirstURL"`
	} `json:"RelatedTopics"`
}

// Client is the DuckDuckGo Instant Answer client.
type Client struct {
	baseURL string
	client  *http.Client
}

// New creates a new DuckDuckGo client. No credentials are needed.
func New() *Client {
	return &Client{
		baseURL: DefaultBaseURL,
		client:  &http.Client{},
	}
}

// SetBaseURL overrides the API endpoint for testing purposes.
func (c *Client) SetBaseURL(u string) {
	c.baseURL = u
}

// Search queries the Instant Answer API. No instant answer is a valid empty
// result. Timeouts are imposed by the caller through ctx.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	if len(query) > 200 {
		query = query[:200]
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("no_html", "1")
	params.Set("skip_disambig", "1")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call duckduckgo API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("duckduckgo API error %d", resp.StatusCode)
	}

	var answer instantAnswer
	if err := json.NewDecoder(resp.Body).Decode(&answer); err != nil {
		return nil, fmt.Errorf("failed to decode duckduckgo response: %w", err)
	}

	var results []Result
	if answer.Abstract != "" {
		title := answer.Heading
		if title == "" {
			title = "Abstract"
		}
		if answer.AbstractSource != "" {
			title = fmt.Sprintf("%s (via %s)", title, answer.AbstractSource)
		}
		results = append(results, Result{Title: title, Snippet: answer.Abstract, URL: answer.AbstractURL})
	}
	if answer.Answer != "" {
		results = append(results, Result{Title: "Answer", Snippet: answer.Answer})
	}
	if answer.Definition != "" && answer.Abstract == "" {
		results = append(results, Result{Title: "Definition", Snippet: answer.Definition})
	}
	if len(results) == 0 {
		for _, topic := range answer.RelatedTopics {
			if topic.Text == "" {
				continue
			}
			results = append(results, Result{Title: "Related", Snippet: topic.Text, URL: topic.FirstURL})
			if len(results) >= maxResults {
				break
			}
		}
	}

	if len(results) > maxResults {
		results = results[:maxResults]
	}

	return results, nil
}
