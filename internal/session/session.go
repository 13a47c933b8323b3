// Package session keeps the per-session refinement state: the last committed
// prompt and the latest issued request sequence. Sessions are anonymous and
// held in memory only, bounded by an LRU.
package session

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
)

type entry struct {
	seq        uint64
	lastPrompt string
}

type Store struct {
	mu    sync.Mutex
	cache *lru.Cache[string, *entry]
}

func New(size int) (*Store, error) {
	cache, err := lru.New[string, *entry](size)
	if err != nil {
		return nil, fmt.Errorf("session cache: %w", err)
	}
	return &Store{cache: cache}, nil
}

// NewID returns a fresh session id.
func NewID() string {
	return uuid.NewString()
}

// ResolveID returns id when it is a usable client-supplied id, otherwise a
// fresh one.
func ResolveID(id string) string {
	id = strings.TrimSpace(id)
	if id == "" || len(id) > 128 {
		return NewID()
	}
	return id
}

// Begin issues the next request sequence for a session. Only the holder of
// the latest sequence may commit.
func (s *Store) Begin(sessionID string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.cache.Get(sessionID)
	if !ok {
		e = &entry{}
		s.cache.Add(sessionID, e)
	}
	e.seq++
	return e.seq
}

// Commit records prompt as the session's last prompt if seq is still the
// latest issued sequence. It reports false for superseded requests.
func (s *Store) Commit(sessionID string, seq uint64, prompt string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.cache.Get(sessionID)
	if !ok {
		// Evicted while in flight; nothing newer can exist.
		s.cache.Add(sessionID, &entry{seq: seq, lastPrompt: prompt})
		return true
	}
	if e.seq != seq {
		return false
	}
	e.lastPrompt = prompt
	return true
}

// Current reports whether seq is still the latest sequence for the session.
func (s *Store) Current(sessionID string, seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.cache.Peek(sessionID)
	return !ok || e.seq == seq
}

// LastPrompt returns the last committed prompt, or "".
func (s *Store) LastPrompt(sessionID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.cache.Peek(sessionID); ok {
		return e.lastPrompt
	}
	return ""
}

// Len returns the number of tracked sessions.
func (s *Store) Len() int {
	return s.cache.Len()
}
