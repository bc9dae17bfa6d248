// Package ratelimit admits at most one message per user per configured
// window. The check runs before any provider or search call so throttled
// requests cost nothing downstream.
package ratelimit

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// DefaultCapacity bounds the number of tracked users.
const DefaultCapacity = 10000

// Limiter tracks the last admission time per user.
type Limiter struct {
	mu     sync.Mutex
	window time.Duration
	seen   *expirable.LRU[string, time.Time]
}

// New creates a Limiter admitting one request per window per user. Entries
// expire after one window: a forgotten user is due for admission anyway.
func New(window time.Duration, capacity int) *Limiter {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Limiter{
		window: window,
		seen:   expirable.NewLRU[string, time.Time](capacity, nil, window),
	}
}

// Allow reports whether the user may proceed at time now. Admission records
// now as the user's last-allowed time; rejection leaves the window
// untouched, so a burst of rejected messages does not push the user's next
// admission further out.
func (l *Limiter) Allow(userID string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	last, ok := l.seen.Get(userID)
	if ok && now.Sub(last) < l.window {
		return false
	}
	l.seen.Add(userID, now)
	return true
}
