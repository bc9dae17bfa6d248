package tavily_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"conversational-relay/pkg/tavily"
)

func TestSearch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]interface{}
		json.NewDecoder(r.Body).Decode(&req)

		switch req["query"] {
		case "quota":
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"detail": "rate limit exceeded"}`))
		case "with_answer":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"answer": "The answer is 42.",
				"results": []map[string]interface{}{
					{"title": "Deep Thought", "content": "computed over 7.5 million years", "score": 0.91},
				},
			})
		default:
			json.NewEncoder(w).Encode(map[string]interface{}{
				"results": []map[string]interface{}{
					{"title": "First", "content": "first snippet", "score": 0.8},
					{"title": "Second", "content": "second snippet", "score": 0.6},
				},
			})
		}
	}))
	defer ts.Close()

	client, err := tavily.New(tavily.Config{APIKey: "k", BaseURL: ts.URL})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	t.Run("Results returned by score order", func(t *testing.T) {
		results, err := client.Search(context.Background(), "anything", 5)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) != 2 || results[0].Title != "First" {
			t.Errorf("unexpected results: %+v", results)
		}
	})

	t.Run("AI answer prepended", func(t *testing.T) {
		results, err := client.Search(context.Background(), "with_answer", 5)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) != 2 {
			t.Fatalf("expected answer + 1 result, got %d", len(results))
		}
		if results[0].Content != "The answer is 42." || results[0].Score != 1.0 {
			t.Errorf("expected AI answer first with full score, got: %+v", results[0])
		}
	})

	t.Run("Quota error is typed", func(t *testing.T) {
		_, err := client.Search(context.Background(), "quota", 5)
		var apiErr *tavily.APIError
		if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusTooManyRequests {
			t.Fatalf("expected 429 APIError, got: %v", err)
		}
	})

	t.Run("Missing API key", func(t *testing.T) {
		if _, err := tavily.New(tavily.Config{}); err == nil {
			t.Fatalf("expected error for missing API key")
		}
	})
}

func TestSearch_LongQueryTruncatedAtRuneBoundary(t *testing.T) {
	var received string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]interface{}
		json.NewDecoder(r.Body).Decode(&req)
		received, _ = req["query"].(string)
		json.NewEncoder(w).Encode(map[string]interface{}{"results": []map[string]interface{}{}})
	}))
	defer ts.Close()

	client, err := tavily.New(tavily.Config{APIKey: "k", BaseURL: ts.URL})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	// 399 ASCII bytes followed by multi-byte runes straddling the 400-byte cap
	query := strings.Repeat("a", 399) + "日本語"
	if _, err := client.Search(context.Background(), query, 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(received) > 400 {
		t.Errorf("query not truncated: %d bytes", len(received))
	}
	if !utf8.ValidString(received) {
		t.Errorf("truncation tore a rune: %q", received[len(received)-4:])
	}
	if received != strings.Repeat("a", 399) {
		t.Errorf("expected cut before the first multi-byte rune, got %d bytes", len(received))
	}
}
