package app

import "sync"

// offlineThreshold is how many consecutive failed refresh cycles mark the
// API as unreachable. One failure can be a blip; two is a pattern.
const offlineThreshold = 2

// Health tracks API reachability across refresh cycles so the transition
// back online can trigger a full refetch.
type Health struct {
	mu       sync.Mutex
	failures int
}

// Observe records the outcome of one refresh cycle and reports whether
// this success ended an offline period.
func (h *Health) Observe(err error) (reconnected bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err != nil {
		h.failures++
		return false
	}
	reconnected = h.failures >= offlineThreshold
	h.failures = 0
	return reconnected
}

// Offline reports whether the API has been unreachable for multiple
// cycles.
func (h *Health) Offline() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.failures >= offlineThreshold
}

// ConsecutiveFailures returns the current failure streak.
func (h *Health) ConsecutiveFailures() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.failures
}
