package search

import (
	"context"
	"time"
)

// Entry is one ranked search hit contributed by a source.
type Entry struct {
	Source     string
	Title      string
	Snippet    string
	Confidence float64 // 0 means the source declares no confidence
}

// Result is the merged output of one aggregate search. Zero entries is a
// valid outcome, not an error.
type Result struct {
	Entries []Entry
	Sources []string // sources that contributed at least one entry
}

// Empty reports whether no source contributed anything.
func (r Result) Empty() bool {
	return len(r.Entries) == 0
}

// Source is one external search backend.
type Source interface {
	// Search returns ranked entries for the query. The ctx carries this
	// source's individual deadline.
	Search(ctx context.Context, query string) ([]Entry, error)

	// Name identifies the source in logs and entries.
	Name() string

	// Priority orders sources when entries carry no confidence
	// (lower is better; direct API sources rank before general web).
	Priority() int

	// Timeout is this source's individual deadline.
	Timeout() time.Duration
}
