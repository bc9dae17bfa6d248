package tavily

import "fmt"

// Config holds Tavily client configuration.
type Config struct {
	APIKey  string
	BaseURL string
}

// Result is a single Tavily search hit.
type Result struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

// searchRequest is the Tavily /search payload.
type searchRequest struct {
	APIKey        string `json:"api_key"`
	Query         string `json:"query"`
	SearchDepth   string `json:"search_depth"`
	IncludeAnswer bool   `json:"include_answer"`
	MaxResults    int    `json:"max_results"`
}

// searchResponse is the Tavily /search response body.
type searchResponse struct {
	Answer  string   `json:"answer"`
	Results []Result `json:"results"`
}

// APIError carries the HTTP status of a failed API call.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("tavily API error %d: %s", e.StatusCode, e.Message)
}
