// Package wikipedia wraps the MediaWiki search API for encyclopedic lookups.
// Free and unauthenticated; good for definitions, historical facts, and
// biographies.
package wikipedia

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"
)

// DefaultBaseURL is the English Wikipedia API endpoint
const DefaultBaseURL = "https://en.wikipedia.org/w/api.php"

// Result is a single article intro.
type Result struct {
	Title   string
	Extract string
}

type searchResponse struct {
	Query struct {
		Search []struct {
			Title string `json:"title"`
		} `json:"search"`
	} `json:"query"`
}

type extractResponse struct {
	Query struct {
		Pages map[string]struct {
			Title   string `json:"title"`
			Extract string `json:"extract"`
		} `json:"pages"`
	} `json:"query"`
}

// Client is the Wikipedia API client.
type Client struct {
	baseURL string
	client  *http.Client
}

// New creates a new Wikipedia client. No credentials are needed.
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

// Search finds matching articles and returns their intro extracts. Two API
// round-trips: a title search, then an extract fetch for the matched titles.
// Timeouts are imposed by the caller through ctx and cover both calls.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	if len(query) > 100 {
		cut := 100
		for cut > 0 && !utf8.RuneStart(query[cut]) {
			cut--
		}
		query = query[:cut]
	}

	titles, err := c.searchTitles(ctx, query, maxResults)
	if err != nil {
		return nil, err
	}
	if len(titles) == 0 {
		return nil, nil
	}

	return c.fetchExtracts(ctx, titles)
}

func (c *Client) searchTitles(ctx context.Context, query string, maxResults int) ([]string, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("list", "search")
	params.Set("srsearch", query)
	params.Set("srlimit", strconv.Itoa(maxResults))
	params.Set("format", "json")
	params.Set("utf8", "1")

	var result searchResponse
	if err := c.get(ctx, params, &result); err != nil {
		return nil, err
	}

	titles := make([]string, 0, len(result.Query.Search))
	for _, s := range result.Query.Search {
		titles = append(titles, s.Title)
	}
	return titles, nil
}

func (c *Client) fetchExtracts(ctx context.Context, titles []string) ([]Result, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("titles", strings.Join(titles, "|"))
	params.Set("prop", "extracts")
	params.Set("exintro", "1")
	params.Set("explaintext", "1")
	params.Set("format", "json")
	params.Set("utf8", "1")

	var result extractResponse
	if err := c.get(ctx, params, &result); err != nil {
		return nil, err
	}

	var results []Result
	for pageID, page := range result.Query.Pages {
		if pageID == "-1" || page.Title == "" || page.Extract == "" {
			continue
		}
		extract := page.Extract
		if len(extract) > 500 {
			cut := 500
			for cut > 0 && !utf8.RuneStart(extract[cut]) {
				cut--
			}
			extract = extract[:cut]
		}
		results = append(results, Result{Title: page.Title, Extract: extract})
	}
	return results, nil
}

func (c *Client) get(ctx context.Context, params url.Values, out any) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to call wikipedia API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("wikipedia API error %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode wikipedia response: %w", err)
	}
	return nil
}
