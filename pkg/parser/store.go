package parser

import "sync"

// Store is the append-only record collection shared between a parse run
// and its readers. The lock is private: writers go through Append and
// readers get copies, so no caller ever holds it across I/O or decoding.
type Store struct {
	mu      sync.RWMutex
	records []Record
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Append adds a batch at the end of the store. Indices of records already
// in the store never change.
func (s *Store) Append(records []Record) {
	if len(records) == 0 {
		return
	}
	s.mu.Lock()
	s.records = append(s.records, records...)
	s.mu.Unlock()
}

// Len returns the number of records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// At returns the record at index i.
func (s *Store) At(i int) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i < 0 || i >= len(s.records) {
		return Record{}, false
	}
	return s.records[i], true
}

// Slice copies records [from, to), clamped to the current length.
func (s *Store) Slice(from, to int) []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	from = max(from, 0)
	to = min(to, len(s.records))
	if from >= to {
		return nil
	}
	out := make([]Record, to-from)
	copy(out, s.records[from:to])
	return out
}

// Snapshot copies every record.
func (s *Store) Snapshot() []Record {
	return s.Slice(0, s.Len())
}

// Reset empties the store. It must only be called while no run is
// appending, typically after Controller.Stop and before the next Start.
func (s *Store) Reset() {
	s.mu.Lock()
	s.records = nil
	s.mu.Unlock()
}
