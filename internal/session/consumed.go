package session

import "sync"

// ConsumedSet tracks tool-call identifiers that have already been folded
// into derived state. The set only grows. It is safe for concurrent use,
// but reductions that share a set must still serialize (see tracker.fold):
// membership filtering and the state update have to land together.
type ConsumedSet struct {
	mu  sync.Mutex
	ids map[string]struct{}
}

func NewConsumedSet(ids ...string) *ConsumedSet {
	s := &ConsumedSet{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return s
}

func (s *ConsumedSet) Has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[id]
	return ok
}

func (s *ConsumedSet) Add(id string) {
	if id == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids[id] = struct{}{}
}

func (s *ConsumedSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}

