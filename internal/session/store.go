// Package session owns all per-user conversation state: rolling history,
// the search toggle, and usage counters. Access goes through a keyed store
// that serializes work on one user without ever locking across users.
package session

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// DefaultCapacity bounds the number of live sessions.
const DefaultCapacity = 10000

// Store is the keyed session store. Sessions are created lazily on first
// touch and evicted by capacity or idle TTL; history does not survive
// eviction or restart.
type Store struct {
	maxHistory    int // exchanges, i.e. user+assistant turn pairs
	searchDefault bool

	mu       sync.Mutex // guards create-if-absent on sessions
	sessions *expirable.LRU[string, *userSession]
}

type userSession struct {
	mu            sync.Mutex
	history       []Turn
	searchEnabled bool
	messageCount  int
	createdAt     time.Time
	lastSeen      time.Time
}

// Config configures the session store.
type Config struct {
	MaxHistory    int           // retained exchanges per user
	Capacity      int           // max concurrent sessions
	TTL           time.Duration // idle eviction; zero disables
	SearchDefault bool          // initial search toggle for new sessions
}

// New creates a session store.
func New(cfg Config) *Store {
	capacity := cfg.Capacity
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{
		maxHistory:    cfg.MaxHistory,
		searchDefault: cfg.SearchDefault,
		sessions:      expirable.NewLRU[string, *userSession](capacity, nil, cfg.TTL),
	}
}

// History returns a copy of the user's turns, oldest first. Unseen users get
// an empty history without creating a session.
func (s *Store) History(userID string) []Turn {
	s.mu.Lock()
	sess, ok := s.sessions.Get(userID)
	s.mu.Unlock()
	if !ok {
		return nil
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	out := make([]Turn, len(sess.history))
	copy(out, sess.history)
	return out
}

// Append records one completed exchange and trims the oldest turns so at
// most MaxHistory exchanges remain.
func (s *Store) Append(userID string, userTurn, assistantTurn Turn) {
	sess := s.get(userID)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.history = append(sess.history, userTurn, assistantTurn)
	if limit := s.maxHistory * 2; limit > 0 && len(sess.history) > limit {
		sess.history = sess.history[len(sess.history)-limit:]
	}
}

// Clear wipes the user's history, keeping the session and its settings.
func (s *Store) Clear(userID string) {
	s.mu.Lock()
	sess, ok := s.sessions.Get(userID)
	s.mu.Unlock()
	if !ok {
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.history = nil
}

// SearchEnabled reports the user's search toggle; unseen users get the
// configured default without creating a session.
func (s *Store) SearchEnabled(userID string) bool {
	s.mu.Lock()
	sess, ok := s.sessions.Get(userID)
	s.mu.Unlock()
	if !ok {
		return s.searchDefault
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.searchEnabled
}

// SetSearchEnabled flips the user's search toggle.
func (s *Store) SetSearchEnabled(userID string, enabled bool) {
	sess := s.get(userID)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.searchEnabled = enabled
}

// Touch marks user activity and bumps the message counter.
func (s *Store) Touch(userID string, now time.Time) {
	sess := s.get(userID)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.messageCount++
	sess.lastSeen = now
}

// Stats returns a snapshot of the user's session. ok is false for unseen
// users.
func (s *Store) Stats(userID string) (Stats, bool) {
	s.mu.Lock()
	sess, found := s.sessions.Get(userID)
	s.mu.Unlock()
	if !found {
		return Stats{}, false
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return Stats{
		MessageCount:  sess.messageCount,
		HistoryTurns:  len(sess.history),
		SearchEnabled: sess.searchEnabled,
		CreatedAt:     sess.createdAt,
		LastSeen:      sess.lastSeen,
	}, true
}

// get returns the user's session, creating it on first touch.
func (s *Store) get(userID string) *userSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions.Get(userID); ok {
		return sess
	}
	sess := &userSession{
		searchEnabled: s.searchDefault,
		createdAt:     time.Now(),
	}
	s.sessions.Add(userID, sess)
	return sess
}
