package session

import (
	"sync"
	"testing"
)

func newStore(t *testing.T, size int) *Store {
	t.Helper()
	s, err := New(size)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return s
}

func TestBeginCommit(t *testing.T) {
	s := newStore(t, 10)

	seq := s.Begin("abc")
	if !s.Commit("abc", seq, "cozy movies") {
		t.Fatal("expected commit of latest sequence to succeed")
	}
	if got := s.LastPrompt("abc"); got != "cozy movies" {
		t.Errorf("LastPrompt = %q, want %q", got, "cozy movies")
	}
}

func TestCommit_StaleIsRejected(t *testing.T) {
	s := newStore(t, 10)

	first := s.Begin("abc")
	second := s.Begin("abc")
	if second <= first {
		t.Fatalf("sequence must increase: %d then %d", first, second)
	}

	if !s.Commit("abc", second, "newer") {
		t.Fatal("expected newer commit to succeed")
	}
	if s.Commit("abc", first, "older") {
		t.Fatal("expected stale commit to be rejected")
	}
	if got := s.LastPrompt("abc"); got != "newer" {
		t.Errorf("stale completion overwrote prompt: got %q", got)
	}
	if s.Current("abc", first) {
		t.Error("first sequence should not be current")
	}
}

func TestSessionsAreIndependent(t *testing.T) {
	s := newStore(t, 10)

	a := s.Begin("a")
	s.Begin("b")
	if !s.Commit("a", a, "only a") {
		t.Fatal("commit on a should not be affected by b")
	}
	if s.LastPrompt("b") != "" {
		t.Error("b should have no prompt")
	}
}

func TestEviction(t *testing.T) {
	s := newStore(t, 2)
	s.Begin("a")
	s.Begin("b")
	s.Begin("c")

	if s.Len() != 2 {
		t.Errorf("expected 2 sessions, got %d", s.Len())
	}
	if s.LastPrompt("a") != "" {
		t.Error("evicted session should have no prompt")
	}
}

func TestBegin_Concurrent(t *testing.T) {
	s := newStore(t, 10)

	var wg sync.WaitGroup
	seen := make(chan uint64, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seen <- s.Begin("shared")
		}()
	}
	wg.Wait()
	close(seen)

	unique := make(map[uint64]bool)
	for seq := range seen {
		if unique[seq] {
			t.Fatalf("duplicate sequence %d", seq)
		}
		unique[seq] = true
	}
}

func TestResolveID(t *testing.T) {
	if got := ResolveID("client-id"); got != "client-id" {
		t.Errorf("expected client id kept, got %q", got)
	}
	if got := ResolveID("  "); got == "" {
		t.Error("expected generated id")
	}
}

func TestNew_InvalidSize(t *testing.T) {
	if _, err := New(0); err == nil {
		t.Error("expected error for zero size")
	}
}
