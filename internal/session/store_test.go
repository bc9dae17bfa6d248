package session

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func newTestStore(maxHistory int) *Store {
	return New(Config{
		MaxHistory:    maxHistory,
		Capacity:      100,
		TTL:           time.Hour,
		SearchDefault: true,
	})
}

func exchange(i int) (Turn, Turn) {
	now := time.Now()
	return Turn{Role: RoleUser, Text: fmt.Sprintf("question %d", i), Timestamp: now},
		Turn{Role: RoleAssistant, Text: fmt.Sprintf("answer %d", i), Timestamp: now}
}

func TestHistory_UnseenUserIsEmpty(t *testing.T) {
	s := newTestStore(10)
	if h := s.History("ghost"); len(h) != 0 {
		t.Fatalf("expected empty history, got %d turns", len(h))
	}
	// Reading must not create a session.
	if _, ok := s.Stats("ghost"); ok {
		t.Error("History must not create a session")
	}
}

func TestAppend_BoundAndOrder(t *testing.T) {
	const maxHistory = 10
	s := newTestStore(maxHistory)

	for i := 0; i < maxHistory+5; i++ {
		u, a := exchange(i)
		s.Append("alice", u, a)
	}

	h := s.History("alice")
	if len(h) != maxHistory*2 {
		t.Fatalf("expected %d turns, got %d", maxHistory*2, len(h))
	}

	// Oldest exchanges evicted FIFO; the rest keep their relative order.
	wantFirst := fmt.Sprintf("question %d", 5)
	if h[0].Text != wantFirst {
		t.Errorf("expected oldest retained turn %q, got %q", wantFirst, h[0].Text)
	}
	wantLast := fmt.Sprintf("answer %d", maxHistory+4)
	if h[len(h)-1].Text != wantLast {
		t.Errorf("expected newest turn %q, got %q", wantLast, h[len(h)-1].Text)
	}
	for i := 0; i < len(h); i += 2 {
		if h[i].Role != RoleUser || h[i+1].Role != RoleAssistant {
			t.Fatalf("turn pair %d out of order: %s, %s", i/2, h[i].Role, h[i+1].Role)
		}
	}
}

func TestHistory_ReturnsCopy(t *testing.T) {
	s := newTestStore(10)
	u, a := exchange(1)
	s.Append("alice", u, a)

	h := s.History("alice")
	h[0].Text = "tampered"

	if s.History("alice")[0].Text == "tampered" {
		t.Error("History must return a copy, not the backing slice")
	}
}

func TestClear(t *testing.T) {
	s := newTestStore(10)
	u, a := exchange(1)
	s.Append("alice", u, a)
	s.SetSearchEnabled("alice", false)

	s.Clear("alice")

	if len(s.History("alice")) != 0 {
		t.Error("expected empty history after Clear")
	}
	if s.SearchEnabled("alice") {
		t.Error("Clear must not reset the search toggle")
	}

	// Clearing an unseen user is a no-op.
	s.Clear("ghost")
}

func TestSearchToggle(t *testing.T) {
	s := newTestStore(10)

	if !s.SearchEnabled("new-user") {
		t.Error("expected configured default for unseen user")
	}
	s.SetSearchEnabled("new-user", false)
	if s.SearchEnabled("new-user") {
		t.Error("expected toggle off")
	}
	s.SetSearchEnabled("new-user", true)
	if !s.SearchEnabled("new-user") {
		t.Error("expected toggle on")
	}
}

func TestStats(t *testing.T) {
	s := newTestStore(10)
	now := time.Now()

	s.Touch("alice", now)
	s.Touch("alice", now.Add(time.Minute))
	u, a := exchange(1)
	s.Append("alice", u, a)

	stats, ok := s.Stats("alice")
	if !ok {
		t.Fatal("expected stats for seen user")
	}
	if stats.MessageCount != 2 {
		t.Errorf("expected 2 messages, got %d", stats.MessageCount)
	}
	if stats.HistoryTurns != 2 {
		t.Errorf("expected 2 history turns, got %d", stats.HistoryTurns)
	}
	if !stats.LastSeen.Equal(now.Add(time.Minute)) {
		t.Errorf("unexpected last seen: %v", stats.LastSeen)
	}
}

func TestConcurrentUsersDoNotInterleave(t *testing.T) {
	s := newTestStore(50)

	var wg sync.WaitGroup
	for u := 0; u < 10; u++ {
		wg.Add(1)
		go func(u int) {
			defer wg.Done()
			user := fmt.Sprintf("user-%d", u)
			for i := 0; i < 20; i++ {
				ut, at := exchange(i)
				s.Append(user, ut, at)
				s.History(user)
			}
		}(u)
	}
	wg.Wait()

	for u := 0; u < 10; u++ {
		h := s.History(fmt.Sprintf("user-%d", u))
		if len(h) != 40 {
			t.Errorf("user-%d: expected 40 turns, got %d", u, len(h))
		}
	}
}
