// Package store holds expenses recorded in this process before, or instead
// of, a round trip to the remote store. Entries are keyed by their
// correlation token because the remote id is unknown until a create returns.
package store

import (
	"sort"
	"sync"

	"github.com/ivanoskov/splitease/internal/model"
)

type Store struct {
	mu      sync.Mutex
	entries []model.Expense
}

func New() *Store {
	return &Store{}
}

// Append adds e to the end of the sequence. Entries without an id are pending.
func (s *Store) Append(e model.Expense) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
}

// Lookup finds the entry with the given correlation token.
func (s *Store) Lookup(ref string) (model.Expense, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(ref); i >= 0 {
		return s.entries[i], true
	}
	return model.Expense{}, false
}

// Confirm replaces the pending entry for ref with its stored record.
// It reports false if no entry carries ref.
func (s *Store) Confirm(ref string, stored model.Expense) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(ref)
	if i < 0 {
		return false
	}
	stored.ClientRef = ref
	s.entries[i] = stored
	return true
}

// Discard drops the entry for ref, typically after a failed create.
func (s *Store) Discard(ref string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(ref); i >= 0 {
		s.entries = append(s.entries[:i], s.entries[i+1:]...)
	}
}

// Entries returns a copy of the sequence in append order.
func (s *Store) Entries() []model.Expense {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Expense(nil), s.entries...)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Reconcile merges the local entries into a fresh remote listing.
//
// Confirmed entries whose id shows up in remote are dropped from the store.
// Everything still held locally is merged into the result, which is ordered
// newest created_at first with local entries ahead of remote ones on ties.
func (s *Store) Reconcile(remote []model.Expense) []model.Expense {
	seen := make(map[string]struct{}, len(remote))
	for _, e := range remote {
		seen[e.ID] = struct{}{}
	}

	s.mu.Lock()
	kept := s.entries[:0]
	for _, e := range s.entries {
		if _, ok := seen[e.ID]; ok && !e.Pending() {
			continue
		}
		kept = append(kept, e)
	}
	// clear the tail so dropped entries can be collected
	for i := len(kept); i < len(s.entries); i++ {
		s.entries[i] = model.Expense{}
	}
	s.entries = kept
	local := append([]model.Expense(nil), kept...)
	s.mu.Unlock()

	merged := make([]model.Expense, 0, len(local)+len(remote))
	// newest local first, so the stable sort keeps that order on ties
	for i := len(local) - 1; i >= 0; i-- {
		merged = append(merged, local[i])
	}
	merged = append(merged, remote...)
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CreatedAt.After(merged[j].CreatedAt)
	})
	return merged
}

func (s *Store) indexOf(ref string) int {
	if ref == "" {
		return -1
	}
	for i, e := range s.entries {
		if e.ClientRef == ref {
			return i
		}
	}
	return -1
}
