package match

import "sync"

// Store holds every known match, keyed by id. It replaces the process-wide
// mutable registries the old system used: the store is owned by a Lifecycle
// and constructed/torn down with it.
//
// Deliveries for the same match must be applied in submission order, so each
// match carries its own mutex; different matches proceed in parallel.
type Store struct {
	mu      sync.RWMutex
	matches map[string]*Match
	locks   map[string]*sync.Mutex
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		matches: make(map[string]*Match),
		locks:   make(map[string]*sync.Mutex),
	}
}

// Create registers a new match.
func (s *Store) Create(m *Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.matches[m.ID]; exists {
		return validationErrf("match_exists", "match %s already exists", m.ID)
	}
	s.matches[m.ID] = m
	s.locks[m.ID] = &sync.Mutex{}
	return nil
}

// WithMatch runs fn while holding the match's mutex, serializing all
// operations for that match id. The *Match handed to fn must not escape fn.
func (s *Store) WithMatch(id string, fn func(*Match) error) error {
	s.mu.RLock()
	m, ok := s.matches[id]
	lock := s.locks[id]
	s.mu.RUnlock()
	if !ok {
		return &NotFoundError{Kind: "match", ID: id}
	}
	lock.Lock()
	defer lock.Unlock()
	return fn(m)
}

// List returns every known match id.
func (s *Store) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.matches))
	for id := range s.matches {
		ids = append(ids, id)
	}
	return ids
}
