package search

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"conversational-relay/config"
	"conversational-relay/pkg/duckduckgo"
	"conversational-relay/pkg/googlesearch"
	"conversational-relay/pkg/tavily"
	"conversational-relay/pkg/wikipedia"
)

// perSourceResults caps how many entries one source may contribute before
// merging.
const perSourceResults = 5

// InitializeSources creates Source instances from config.SearchConfig,
// filtered to enabled ones. Sources that fail to initialize (e.g. missing
// key) are skipped so a single bad credential does not disable search.
func InitializeSources(cfg *config.SearchConfig) ([]Source, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, nil
	}

	var enabled []config.SourceConfig
	for _, s := range cfg.Sources {
		if s.Enabled {
			enabled = append(enabled, s)
		}
	}
	sort.Slice(enabled, func(i, j int) bool {
		return enabled[i].Priority < enabled[j].Priority
	})

	var sources []Source
	var initErrors []string
	for _, s := range enabled {
		src, err := createSource(s)
		if err != nil {
			initErrors = append(initErrors,
				fmt.Sprintf("failed to initialize source %s: %v", s.Name, err))
			continue
		}
		sources = append(sources, src)
	}

	if len(sources) == 0 && len(initErrors) > 0 {
		return nil, fmt.Errorf("no search sources successfully initialized: %s", strings.Join(initErrors, "; "))
	}
	return sources, nil
}

func createSource(cfg config.SourceConfig) (Source, error) {
	timeout := parseTimeout(cfg.Timeout)

	switch cfg.Name {
	case "tavily":
		client, err := tavily.New(tavily.Config{APIKey: cfg.APIKey, BaseURL: cfg.BaseURL})
		if err != nil {
			return nil, err
		}
		return &tavilySource{client: client, priority: cfg.Priority, timeout: timeout}, nil

	case "google":
		client, err := googlesearch.New(googlesearch.Config{APIKey: cfg.APIKey, CXID: cfg.CXID, BaseURL: cfg.BaseURL})
		if err != nil {
			return nil, err
		}
		return &googleSource{client: client, priority: cfg.Priority, timeout: timeout}, nil

	case "duckduckgo":
		client := duckduckgo.New()
		if cfg.BaseURL != "" {
			client.SetBaseURL(cfg.BaseURL)
		}
		return &duckduckgoSource{client: client, priority: cfg.Priority, timeout: timeout}, nil

	case "wikipedia":
		client := wikipedia.New()
		if cfg.BaseURL != "" {
			client.SetBaseURL(cfg.BaseURL)
		}
		return &wikipediaSource{client: client, priority: cfg.Priority, timeout: timeout}, nil

	default:
		return nil, fmt.Errorf("unknown search source: %s", cfg.Name)
	}
}

func parseTimeout(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0
	}
	return d
}

type tavilySource struct {
	client   *tavily.Client
	priority int
	timeout  time.Duration
}

func (s *tavilySource) Name() string           { return "tavily" }
func (s *tavilySource) Priority() int          { return s.priority }
func (s *tavilySource) Timeout() time.Duration { return s.timeout }

func (s *tavilySource) Search(ctx context.Context, query string) ([]Entry, error) {
	results, err := s.client.Search(ctx, query, perSourceResults)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, len(results))
	for i, r := range results {
		entries[i] = Entry{Title: r.Title, Snippet: r.Content, Confidence: r.Score}
	}
	return entries, nil
}

type googleSource struct {
	client   *googlesearch.Client
	priority int
	timeout  time.Duration
}

func (s *googleSource) Name() string           { return "google" }
func (s *googleSource) Priority() int          { return s.priority }
func (s *googleSource) Timeout() time.Duration { return s.timeout }

func (s *googleSource) Search(ctx context.Context, query string) ([]Entry, error) {
	results, err := s.client.Search(ctx, query, perSourceResults)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, len(results))
	for i, r := range results {
		entries[i] = Entry{Title: r.Title, Snippet: r.Snippet}
	}
	return entries, nil
}

type duckduckgoSource struct {
	client   *duckduckgo.Client
	priority int
	timeout  time.Duration
}

func (s *duckduckgoSource) Name() string           { return "duckduckgo" }
func (s *duckduckgoSource) Priority() int          { return s.priority }
func (s *duckduckgoSource) Timeout() time.Duration { return s.timeout }

func (s *duckduckgoSource) Search(ctx context.Context, query string) ([]Entry, error) {
	results, err := s.client.Search(ctx, query, perSourceResults)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, len(results))
	for i, r := range results {
		entries[i] = Entry{Title: r.Title, Snippet: r.Snippet}
	}
	return entries, nil
}

type wikipediaSource struct {
	client   *wikipedia.Client
	priority int
	timeout  time.Duration
}

func (s *wikipediaSource) Name() string           { return "wikipedia" }
func (s *wikipediaSource) Priority() int          { return s.priority }
func (s *wikipediaSource) Timeout() time.Duration { return s.timeout }

func (s *wikipediaSource) Search(ctx context.Context, query string) ([]Entry, error) {
	results, err := s.client.Search(ctx, query, perSourceResults)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, len(results))
	for i, r := range results {
		entries[i] = Entry{Title: r.Title, Snippet: r.Extract}
	}
	return entries, nil
}
