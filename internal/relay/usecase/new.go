package usecase

import (
	"context"
	"time"

	"conversational-relay/internal/search"
	"conversational-relay/internal/session"
	"conversational-relay/pkg/llmprovider"
	pkgLog "conversational-relay/pkg/log"
)

// RateLimiter gates how often a single user may go through the pipeline.
type RateLimiter interface {
	Allow(userID string, now time.Time) bool
}

// ConversationStore is the per-user state the orchestrator reads and writes.
type ConversationStore interface {
	History(userID string) []session.Turn
	Append(userID string, userTurn, assistantTurn session.Turn)
	SearchEnabled(userID string) bool
	Touch(userID string, now time.Time)
}

// Searcher aggregates web search results for a query.
type Searcher interface {
	Search(ctx context.Context, query string) search.Result
}

// Completer produces a model completion, falling back across providers.
type Completer interface {
	Complete(ctx context.Context, req *llmprovider.Request) (*llmprovider.Response, error)
}

// Config holds the orchestrator's tunables.
type Config struct {
	MaxMessageLength int
	Params           llmprovider.Params
}

type implUseCase struct {
	l        pkgLog.Logger
	limiter  RateLimiter
	sessions ConversationStore
	searcher Searcher // nil when search is disabled service-wide
	router   Completer
	cfg      Config
}

// New creates a new relay UseCase instance.
func New(
	l pkgLog.Logger,
	limiter RateLimiter,
	sessions ConversationStore,
	searcher Searcher,
	router Completer,
	cfg Config,
) *implUseCase {
	return &implUseCase{
		l:        l,
		limiter:  limiter,
		sessions: sessions,
		searcher: searcher,
		router:   router,
		cfg:      cfg,
	}
}
