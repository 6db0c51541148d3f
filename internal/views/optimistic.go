package views

import "sync"

// OptimisticSet tracks products whose membership in a collection has been
// flipped locally while the write that makes it real is still in flight.
// Rendered membership is the server-confirmed state XOR the flip, so the
// UI reacts instantly and, once the write settles and the flip clears,
// falls back to whatever the refetched server state says. A failed write
// therefore rolls back by omission; nothing is ever written back.
type OptimisticSet struct {
	mu      sync.Mutex
	flipped map[string]struct{}
}

// NewOptimisticSet returns an empty overlay.
func NewOptimisticSet() *OptimisticSet {
	return &OptimisticSet{flipped: make(map[string]struct{})}
}

// Flip toggles the local override for id. Flipping twice before either
// write settles cancels out, matching the two opposing writes in flight.
func (s *OptimisticSet) Flip(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.flipped[id]; ok {
		delete(s.flipped, id)
	} else {
		s.flipped[id] = struct{}{}
	}
}

// Settle clears the override for id after its write has resolved.
func (s *OptimisticSet) Settle(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.flipped, id)
}

// Rendered reports the membership the UI should show: the confirmed state
// inverted if a flip is pending.
func (s *OptimisticSet) Rendered(id string, confirmed bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, flipped := s.flipped[id]
	return confirmed != flipped
}

// Pending reports whether id has an unsettled flip.
func (s *OptimisticSet) Pending(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.flipped[id]
	return ok
}
