package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestAllow_WindowBoundaries(t *testing.T) {
	l := New(3*time.Second, 100)
	base := time.Now()

	if !l.Allow("alice", base) {
		t.Fatal("first request must be admitted")
	}
	if l.Allow("alice", base.Add(time.Second)) {
		t.Error("request inside the window must be rejected")
	}
	if l.Allow("alice", base.Add(3*time.Second-time.Millisecond)) {
		t.Error("request just before the window closes must be rejected")
	}
	if !l.Allow("alice", base.Add(3*time.Second)) {
		t.Error("request exactly at the window boundary must be admitted")
	}
}

func TestAllow_RejectionDoesNotExtendWindow(t *testing.T) {
	l := New(3*time.Second, 100)
	base := time.Now()

	l.Allow("bob", base)
	// Hammering during the window must not push the next admission out.
	for i := 1; i < 10; i++ {
		l.Allow("bob", base.Add(time.Duration(i)*100*time.Millisecond))
	}
	if !l.Allow("bob", base.Add(3*time.Second)) {
		t.Error("rejections must not reset the last-allowed timestamp")
	}
}

func TestAllow_UsersAreIndependent(t *testing.T) {
	l := New(3*time.Second, 100)
	base := time.Now()

	if !l.Allow("alice", base) {
		t.Fatal("alice must be admitted")
	}
	if !l.Allow("bob", base) {
		t.Error("bob's window is independent of alice's")
	}
}

func TestAllow_ConcurrentDistinctUsers(t *testing.T) {
	l := New(time.Second, 1000)
	base := time.Now()

	var wg sync.WaitGroup
	results := make([]bool, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = l.Allow(fmt.Sprintf("user-%d", i), base)
		}(i)
	}
	wg.Wait()

	for i, admitted := range results {
		if !admitted {
			t.Errorf("first request for distinct user %d must be admitted", i)
		}
	}
}
