// Package search fans one query out to every enabled source in parallel and
// merges whatever comes back. A dead source costs its own timeout, never the
// aggregate: total latency is bounded by the slowest responding source.
package search

import (
	"context"
	"sort"
	"sync"
	"time"

	"conversational-relay/pkg/log"
)

// DefaultTimeout applies to sources that do not declare their own.
const DefaultTimeout = 10 * time.Second

// Aggregator merges results from multiple sources.
type Aggregator struct {
	sources    []Source
	maxResults int
	logger     log.Logger
}

// NewAggregator creates an Aggregator over the given sources. Sources must
// already be filtered to enabled ones.
func NewAggregator(sources []Source, maxResults int, logger log.Logger) *Aggregator {
	return &Aggregator{
		sources:    sources,
		maxResults: maxResults,
		logger:     logger,
	}
}

// sourceReturn pairs a source's entries with its arrival order.
type sourceReturn struct {
	source  Source
	entries []Entry
	arrival int
}

// Search dispatches the query to every source concurrently. Each source runs
// under its own timeout; one source's deadline cancels only that source's
// call. Failures are logged at low severity and contribute nothing. Entries
// are ranked by declared confidence first, then source priority, then
// arrival order.
func (a *Aggregator) Search(ctx context.Context, query string) Result {
	if len(a.sources) == 0 {
		return Result{}
	}

	returns := make(chan sourceReturn, len(a.sources))
	var wg sync.WaitGroup

	for _, src := range a.sources {
		wg.Add(1)
		go func(src Source) {
			defer wg.Done()

			timeout := src.Timeout()
			if timeout <= 0 {
				timeout = DefaultTimeout
			}
			srcCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			entries, err := src.Search(srcCtx, query)
			if err != nil {
				a.logger.Warnf(ctx, "search source failed: source=%s error=%v", src.Name(), err)
				return
			}
			for i := range entries {
				entries[i].Source = src.Name()
			}
			returns <- sourceReturn{source: src, entries: entries}
		}(src)
	}

	go func() {
		wg.Wait()
		close(returns)
	}()

	var collected []sourceReturn
	arrival := 0
	for ret := range returns {
		ret.arrival = arrival
		arrival++
		collected = append(collected, ret)
	}

	return a.merge(collected)
}

func (a *Aggregator) merge(collected []sourceReturn) Result {
	type rankedEntry struct {
		Entry
		priority int
		arrival  int
	}

	var ranked []rankedEntry
	var sources []string
	for _, ret := range collected {
		if len(ret.entries) == 0 {
			continue
		}
		sources = append(sources, ret.source.Name())
		for _, e := range ret.entries {
			ranked = append(ranked, rankedEntry{
				Entry:    e,
				priority: ret.source.Priority(),
				arrival:  ret.arrival,
			})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		// Declared confidence wins over positional ranking.
		if (a.Confidence > 0) != (b.Confidence > 0) {
			return a.Confidence > 0
		}
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		if a.priority != b.priority {
			return a.priority < b.priority
		}
		return a.arrival < b.arrival
	})

	if a.maxResults > 0 && len(ranked) > a.maxResults {
		ranked = ranked[:a.maxResults]
	}

	entries := make([]Entry, len(ranked))
	for i, r := range ranked {
		entries[i] = r.Entry
	}
	sort.Strings(sources)

	return Result{Entries: entries, Sources: sources}
}
