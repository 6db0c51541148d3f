package cache

import (
	"sync"
	"time"
)

// Status describes the fetch lifecycle of a cache entry.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

// String returns a short label for logs and tests.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Entry is the cached state for one key. Value holds the last successfully
// fetched payload and is never cleared by a failed refresh or by
// invalidation; only a newer successful fetch replaces it.
type Entry struct {
	Key           Key
	Value         any
	Status        Status
	Err           error
	LastFetchedAt time.Time
	StaleAfter    time.Duration

	// Refreshing marks a background refetch while a prior Value is still
	// being served (stale-while-revalidate).
	Refreshing bool

	// Invalid marks the entry as due for refetch regardless of age.
	Invalid bool
}

// HasValue reports whether the entry carries a servable payload.
func (e Entry) HasValue() bool {
	return e.Value != nil
}

// IsStale reports whether the entry should be refetched at the given time.
func (e Entry) IsStale(now time.Time) bool {
	if e.Invalid || !e.HasValue() {
		return true
	}
	if e.LastFetchedAt.IsZero() {
		return true
	}
	return now.Sub(e.LastFetchedAt) > e.StaleAfter
}

type entryState struct {
	entry Entry

	// Monotonic fetch sequencing. beginSeq is the last sequence handed out,
	// appliedSeq the last one whose resolution was written. A resolution
	// with seq <= appliedSeq lost the race to a newer fetch and is dropped.
	beginSeq   uint64
	appliedSeq uint64

	// invalidSeq records beginSeq at the moment of the latest Invalidate.
	// A fetch that began at or before it cannot clear the Invalid flag:
	// its result predates the invalidation.
	invalidSeq uint64

	subs map[int]func(Entry)
}

// Store maps keys to entries and fans notifications out to subscribers.
// It performs no network calls; the query layer owns all writes. One Store
// is constructed at application start and shared by reference.
type Store struct {
	mu      sync.Mutex
	entries map[string]*entryState
	nextSub int
}

// NewStore returns an empty store ready for use.
func NewStore() *Store {
	return &Store{entries: make(map[string]*entryState)}
}

// Get returns a copy of the entry for key, if one exists.
func (s *Store) Get(key Key) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.entries[key.String()]
	if !ok {
		return Entry{}, false
	}
	return st.entry, true
}

// Subscribe registers fn to run after every change to key's entry. The
// returned func removes the subscription. Entries outlive their
// subscribers: unsubscribing stops delivery but keeps the cached value for
// future readers.
func (s *Store) Subscribe(key Key, fn func(Entry)) func() {
	s.mu.Lock()
	st := s.ensureLocked(key)
	id := s.nextSub
	s.nextSub++
	st.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(st.subs, id)
		s.mu.Unlock()
	}
}

// Invalidate marks key's entry as due for refetch without touching its
// value, so readers keep seeing the old payload until a new one resolves.
// Missing keys are ignored.
func (s *Store) Invalidate(key Key) {
	s.mu.Lock()
	st, ok := s.entries[key.String()]
	if !ok {
		s.mu.Unlock()
		return
	}
	st.entry.Invalid = true
	st.invalidSeq = st.beginSeq
	entry, listeners := snapshotLocked(st)
	s.mu.Unlock()

	notify(entry, listeners)
}

// BeginFetch records the start of a fetch for key and returns its sequence
// number, to be passed back to Complete. The entry is created on first
// fetch. With no servable value the entry enters StatusLoading; with one it
// keeps serving the old value and only raises the Refreshing flag.
func (s *Store) BeginFetch(key Key, staleAfter time.Duration) uint64 {
	s.mu.Lock()
	st := s.ensureLocked(key)
	st.beginSeq++
	seq := st.beginSeq
	st.entry.StaleAfter = staleAfter
	if st.entry.HasValue() {
		st.entry.Refreshing = true
	} else {
		st.entry.Status = StatusLoading
	}
	entry, listeners := snapshotLocked(st)
	s.mu.Unlock()

	notify(entry, listeners)
	return seq
}

// Complete records the resolution of the fetch identified by seq. Stale
// resolutions are discarded: once a newer fetch has been applied, an older
// one may not overwrite it (resolve order wins, not start order). On
// success the value is replaced and the error cleared; on failure the
// previous value is preserved (stale-while-error).
func (s *Store) Complete(key Key, seq uint64, value any, err error) {
	now := time.Now()

	s.mu.Lock()
	st, ok := s.entries[key.String()]
	if !ok || seq <= st.appliedSeq {
		s.mu.Unlock()
		return
	}
	st.appliedSeq = seq
	st.entry.Refreshing = false
	if err != nil {
		st.entry.Status = StatusError
		st.entry.Err = err
	} else {
		st.entry.Status = StatusSuccess
		st.entry.Value = value
		st.entry.Err = nil
		st.entry.LastFetchedAt = now
		// An invalidation issued after this fetch began still stands.
		if seq > st.invalidSeq {
			st.entry.Invalid = false
		}
	}
	entry, listeners := snapshotLocked(st)
	s.mu.Unlock()

	notify(entry, listeners)
}

func (s *Store) ensureLocked(key Key) *entryState {
	id := key.String()
	st, ok := s.entries[id]
	if !ok {
		st = &entryState{
			entry: Entry{Key: key, Status: StatusIdle},
			subs:  make(map[int]func(Entry)),
		}
		s.entries[id] = st
	}
	return st
}

func snapshotLocked(st *entryState) (Entry, []func(Entry)) {
	listeners := make([]func(Entry), 0, len(st.subs))
	for _, fn := range st.subs {
		listeners = append(listeners, fn)
	}
	return st.entry, listeners
}

// notify runs outside the store lock so listeners may call back into the
// store without deadlocking.
func notify(entry Entry, listeners []func(Entry)) {
	for _, fn := range listeners {
		fn(entry)
	}
}
