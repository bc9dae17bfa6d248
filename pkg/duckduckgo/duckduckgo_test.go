package duckduckgo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSearch(t *testing.T) {
	t.Run("abstract and related topics", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("q"); got != "golang" {
				t.Errorf("unexpected query: %s", got)
			}
			if r.URL.Query().Get("format") != "json" {
				t.Errorf("format=json missing")
			}
			w.Write([]byte(`{
				"Abstract": "Go is a programming language.",
				"Heading": "Go (programming language)",
				"AbstractSource": "Wikipedia",
				"AbstractURL": "https://en.wikipedia.org/wiki/Go",
				"RelatedTopics": [
					{"Text": "Gopher - mascot of Go", "FirstURL": "https://example.com/gopher"}
				]
			}`))
		}))
		defer server.Close()

		client := New()
		client.SetBaseURL(server.URL)

		results, err := client.Search(context.Background(), "golang", 5)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		// The abstract wins; related topics only fill in when there is none.
		if len(results) != 1 {
			t.Fatalf("expected only the abstract, got %d results", len(results))
		}
		if !strings.Contains(results[0].Title, "Go (programming language)") {
			t.Errorf("unexpected title: %s", results[0].Title)
		}
		if results[0].Snippet != "Go is a programming language." {
			t.Errorf("unexpected snippet: %s", results[0].Snippet)
		}
	})

	t.Run("related topics fallback", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{
				"Abstract": "",
				"RelatedTopics": [
					{"Text": "Gopher - mascot of Go", "FirstURL": "https://example.com/gopher"},
					{"Text": "Golang weekly", "FirstURL": "https://example.com/weekly"}
				]
			}`))
		}))
		defer server.Close()

		client := New()
		client.SetBaseURL(server.URL)

		results, err := client.Search(context.Background(), "golang", 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) != 1 {
			t.Fatalf("expected maxResults cap of 1, got %d", len(results))
		}
		if results[0].Snippet != "Gopher - mascot of Go" {
			t.Errorf("unexpected snippet: %s", results[0].Snippet)
		}
	})

	t.Run("empty instant answer", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"Abstract": "", "Answer": "", "RelatedTopics": []}`))
		}))
		defer server.Close()

		client := New()
		client.SetBaseURL(server.URL)

		results, err := client.Search(context.Background(), "gibberish query", 5)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) != 0 {
			t.Errorf("expected no results, got %d", len(results))
		}
	})

	t.Run("server error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := New()
		client.SetBaseURL(server.URL)

		if _, err := client.Search(context.Background(), "anything", 5); err == nil {
			t.Fatal("expected error for server failure")
		}
	})
}
