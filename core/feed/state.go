// ABOUTME: Per-feed runtime state shared across fetch attempts
// ABOUTME: Tracks the active flag and consecutive error counter for each feed URL

package feed

import "sync"

// FeedState is a snapshot of the runtime state kept for a single feed URL.
type FeedState struct {
	Active     bool
	ErrorCount int
}

type feedState struct {
	active     bool
	errorCount int
}

// StateStore keeps per-URL feed state. Entries are created lazily on first
// access with Active=true and ErrorCount=0. Deactivation is always explicit:
// nothing in the fetch path flips a feed inactive, only callers do.
type StateStore struct {
	mu     sync.Mutex
	states map[string]*feedState
}

// NewStateStore creates an empty state store.
func NewStateStore() *StateStore {
	return &StateStore{states: make(map[string]*feedState)}
}

// get returns the state entry for url, creating it when missing.
// Callers must hold s.mu.
func (s *StateStore) get(url string) *feedState {
	st, ok := s.states[url]
	if !ok {
		st = &feedState{active: true}
		s.states[url] = st
	}
	return st
}

// IsActive reports whether the feed at url should be fetched.
func (s *StateStore) IsActive(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(url).active
}

// SetActive explicitly flips the active flag for url.
func (s *StateStore) SetActive(url string, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.get(url).active = active
}

// RecordError increments the error counter for url and returns the new count.
func (s *StateStore) RecordError(url string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.get(url)
	st.errorCount++
	return st.errorCount
}

// ErrorCount returns the current error counter for url.
func (s *StateStore) ErrorCount(url string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(url).errorCount
}

// ResetErrors zeroes the error counter for url.
func (s *StateStore) ResetErrors(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.get(url).errorCount = 0
}

// Snapshot returns a copy of the state for url.
func (s *StateStore) Snapshot(url string) FeedState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.get(url)
	return FeedState{Active: st.active, ErrorCount: st.errorCount}
}
