package store

import (
	"sync"

	"github.com/autosign/codegate/internal/verification/domain"
)

// CodeStore holds at most one current verification code per identifier.
// Put is last-write-wins; TakeIfMatches is the single consuming transition,
// so a stored code is handed out at most once. A single mutex serializes all
// operations: load is a handful of concurrent waiters plus the webhook, not
// worth per-identifier locking.
type CodeStore struct {
	mu      sync.Mutex
	records map[string]*domain.CodeRecord
}

// New creates an empty CodeStore.
func New() *CodeStore {
	return &CodeStore{records: make(map[string]*domain.CodeRecord)}
}

// Put replaces any existing record for the record's identifier. Records with
// an empty identifier are ignored.
func (s *CodeStore) Put(rec *domain.CodeRecord) {
	if rec == nil || rec.Identifier == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *rec
	s.records[rec.Identifier] = &cp
}

// Peek returns a copy of the current record for identifier without
// consuming it, or nil when nothing is stored.
func (s *CodeStore) Peek(identifier string) *domain.CodeRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[identifier]
	if !ok {
		return nil
	}
	cp := *rec
	return &cp
}

// TakeIfMatches atomically consumes the stored record iff one exists, is
// unconsumed, and its code equals submitted. It returns false on a wrong
// code, a missing record, or a record that was already consumed; the wrong
// code case leaves the record in place.
func (s *CodeStore) TakeIfMatches(identifier, submitted string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[identifier]
	if !ok || rec.Consumed || rec.Code != submitted {
		return false
	}
	rec.Consumed = true
	delete(s.records, identifier)
	return true
}

// Clear removes all records and reports how many were dropped.
func (s *CodeStore) Clear() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.records)
	s.records = make(map[string]*domain.CodeRecord)
	return n
}

// Len returns the number of currently stored records.
func (s *CodeStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}
