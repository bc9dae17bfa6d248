package search

import (
	"context"
	"errors"
	"testing"
	"time"
)

type mockSource struct {
	name     string
	priority int
	timeout  time.Duration
	entries  []Entry
	err      error
	delay    time.Duration
	block    bool // ignore delay, wait for ctx cancellation

	callCount int
}

func (m *mockSource) Search(ctx context.Context, query string) ([]Entry, error) {
	m.callCount++
	if m.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.entries, nil
}

func (m *mockSource) Name() string           { return m.name }
func (m *mockSource) Priority() int          { return m.priority }
func (m *mockSource) Timeout() time.Duration { return m.timeout }

type nopLogger struct {
	warnCount int
}

func (l *nopLogger) Debug(ctx context.Context, arg ...any)                    {}
func (l *nopLogger) Debugf(ctx context.Context, template string, arg ...any)  {}
func (l *nopLogger) Info(ctx context.Context, arg ...any)                     {}
func (l *nopLogger) Infof(ctx context.Context, template string, arg ...any)   {}
func (l *nopLogger) Warn(ctx context.Context, arg ...any)                     { l.warnCount++ }
func (l *nopLogger) Warnf(ctx context.Context, template string, arg ...any)   { l.warnCount++ }
func (l *nopLogger) Error(ctx context.Context, arg ...any)                    {}
func (l *nopLogger) Errorf(ctx context.Context, template string, arg ...any)  {}
func (l *nopLogger) DPanic(ctx context.Context, arg ...any)                   {}
func (l *nopLogger) DPanicf(ctx context.Context, template string, arg ...any) {}
func (l *nopLogger) Panic(ctx context.Context, arg ...any)                    {}
func (l *nopLogger) Panicf(ctx context.Context, template string, arg ...any)  {}
func (l *nopLogger) Fatal(ctx context.Context, arg ...any)                    {}
func (l *nopLogger) Fatalf(ctx context.Context, template string, arg ...any)  {}

func TestSearch_ZeroSources(t *testing.T) {
	agg := NewAggregator(nil, 10, &nopLogger{})

	result := agg.Search(context.Background(), "anything")

	if !result.Empty() {
		t.Errorf("expected empty result, got %d entries", len(result.Entries))
	}
}

func TestSearch_MergesAllSources(t *testing.T) {
	a := &mockSource{name: "alpha", priority: 1, entries: []Entry{
		{Title: "a1", Snippet: "first"},
		{Title: "a2", Snippet: "second"},
	}}
	b := &mockSource{name: "beta", priority: 2, entries: []Entry{
		{Title: "b1", Snippet: "third"},
	}}
	agg := NewAggregator([]Source{a, b}, 10, &nopLogger{})

	result := agg.Search(context.Background(), "query")

	if len(result.Entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(result.Entries))
	}
	if len(result.Sources) != 2 {
		t.Errorf("expected 2 contributing sources, got %v", result.Sources)
	}
	for _, e := range result.Entries {
		if e.Source == "" {
			t.Errorf("entry %q missing source attribution", e.Title)
		}
	}
}

func TestSearch_SlowSourceDoesNotBlockOthers(t *testing.T) {
	slow := &mockSource{name: "slow", priority: 1, timeout: 50 * time.Millisecond, block: true}
	fast := &mockSource{name: "fast", priority: 2, entries: []Entry{
		{Title: "f1", Snippet: "quick"},
		{Title: "f2", Snippet: "quicker"},
	}}
	logger := &nopLogger{}
	agg := NewAggregator([]Source{slow, fast}, 10, logger)

	start := time.Now()
	result := agg.Search(context.Background(), "query")
	elapsed := time.Since(start)

	if len(result.Entries) != 2 {
		t.Fatalf("expected fast source's 2 entries, got %d", len(result.Entries))
	}
	if elapsed > time.Second {
		t.Errorf("aggregate search took %v, slow source should only cost its own timeout", elapsed)
	}
	if logger.warnCount != 1 {
		t.Errorf("expected 1 warning for the timed-out source, got %d", logger.warnCount)
	}
	if len(result.Sources) != 1 || result.Sources[0] != "fast" {
		t.Errorf("expected only fast to contribute, got %v", result.Sources)
	}
}

func TestSearch_FailedSourceContributesNothing(t *testing.T) {
	broken := &mockSource{name: "broken", priority: 1, err: errors.New("HTTP 500")}
	healthy := &mockSource{name: "healthy", priority: 2, entries: []Entry{{Title: "h1"}}}
	logger := &nopLogger{}
	agg := NewAggregator([]Source{broken, healthy}, 10, logger)

	result := agg.Search(context.Background(), "query")

	if len(result.Entries) != 1 || result.Entries[0].Title != "h1" {
		t.Fatalf("expected only healthy entry, got %+v", result.Entries)
	}
	if logger.warnCount != 1 {
		t.Errorf("expected 1 warning, got %d", logger.warnCount)
	}
}

func TestSearch_AllSourcesFail(t *testing.T) {
	a := &mockSource{name: "a", priority: 1, err: errors.New("down")}
	b := &mockSource{name: "b", priority: 2, err: errors.New("down")}
	agg := NewAggregator([]Source{a, b}, 10, &nopLogger{})

	result := agg.Search(context.Background(), "query")

	if !result.Empty() {
		t.Errorf("expected empty result, got %d entries", len(result.Entries))
	}
}

func TestSearch_ConfidenceRanksAboveSourcePriority(t *testing.T) {
	// lowPriority declares confidence scores; highPriority does not.
	scored := &mockSource{name: "scored", priority: 5, entries: []Entry{
		{Title: "s-low", Confidence: 0.4},
		{Title: "s-high", Confidence: 0.9},
	}}
	unscored := &mockSource{name: "unscored", priority: 1, entries: []Entry{
		{Title: "u1"},
	}}
	agg := NewAggregator([]Source{scored, unscored}, 10, &nopLogger{})

	result := agg.Search(context.Background(), "query")

	if len(result.Entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(result.Entries))
	}
	want := []string{"s-high", "s-low", "u1"}
	for i, title := range want {
		if result.Entries[i].Title != title {
			t.Errorf("position %d: expected %q, got %q", i, title, result.Entries[i].Title)
		}
	}
}

func TestSearch_PriorityBreaksTiesAmongUnscored(t *testing.T) {
	second := &mockSource{name: "second", priority: 2, delay: 5 * time.Millisecond,
		entries: []Entry{{Title: "p2"}}}
	first := &mockSource{name: "first", priority: 1, delay: 30 * time.Millisecond,
		entries: []Entry{{Title: "p1"}}}
	agg := NewAggregator([]Source{second, first}, 10, &nopLogger{})

	result := agg.Search(context.Background(), "query")

	// first arrives later but outranks second on priority.
	if len(result.Entries) != 2 || result.Entries[0].Title != "p1" {
		t.Errorf("expected priority 1 entry ranked first, got %+v", result.Entries)
	}
}

func TestSearch_CapsAtMaxResults(t *testing.T) {
	src := &mockSource{name: "prolific", priority: 1, entries: []Entry{
		{Title: "1"}, {Title: "2"}, {Title: "3"}, {Title: "4"}, {Title: "5"},
	}}
	agg := NewAggregator([]Source{src}, 3, &nopLogger{})

	result := agg.Search(context.Background(), "query")

	if len(result.Entries) != 3 {
		t.Errorf("expected 3 entries after cap, got %d", len(result.Entries))
	}
}
