package cache

import (
	"errors"
	"testing"
	"time"
)

func TestStore_FirstFetchLifecycle(t *testing.T) {
	s := NewStore()
	key := NewKey("cart")

	seq := s.BeginFetch(key, 5*time.Second)
	entry, ok := s.Get(key)
	if !ok {
		t.Fatal("entry missing after BeginFetch")
	}
	if entry.Status != StatusLoading {
		t.Fatalf("Status = %v, want loading (no prior value)", entry.Status)
	}
	if entry.Refreshing {
		t.Fatal("Refreshing = true, want false on first fetch")
	}

	before := time.Now()
	s.Complete(key, seq, "payload", nil)
	entry, _ = s.Get(key)
	if entry.Status != StatusSuccess || entry.Value != "payload" {
		t.Fatalf("entry = %+v, want success with payload", entry)
	}
	if entry.Err != nil {
		t.Fatalf("Err = %v, want nil", entry.Err)
	}
	if entry.LastFetchedAt.Before(before) {
		t.Fatalf("LastFetchedAt = %v, want >= %v", entry.LastFetchedAt, before)
	}
}

func TestStore_StaleWhileError(t *testing.T) {
	s := NewStore()
	key := NewKey("wishlist")

	seq := s.BeginFetch(key, time.Second)
	s.Complete(key, seq, []string{"a"}, nil)

	// Background refresh fails: value must survive, status flips to error.
	seq = s.BeginFetch(key, time.Second)
	entry, _ := s.Get(key)
	if !entry.Refreshing {
		t.Fatal("Refreshing = false, want true for refetch with cached value")
	}
	if entry.Status != StatusSuccess {
		t.Fatalf("Status = %v, want success while refreshing", entry.Status)
	}

	s.Complete(key, seq, nil, errors.New("boom"))
	entry, _ = s.Get(key)
	if entry.Status != StatusError {
		t.Fatalf("Status = %v, want error", entry.Status)
	}
	if entry.Err == nil || entry.Err.Error() != "boom" {
		t.Fatalf("Err = %v, want boom", entry.Err)
	}
	if got, ok := entry.Value.([]string); !ok || len(got) != 1 || got[0] != "a" {
		t.Fatalf("Value = %v, want previous payload preserved", entry.Value)
	}
	if entry.Refreshing {
		t.Fatal("Refreshing = true, want false after settle")
	}
}

func TestStore_InvalidatePreservesValue(t *testing.T) {
	s := NewStore()
	key := NewKey("cart")

	seq := s.BeginFetch(key, time.Minute)
	s.Complete(key, seq, 42, nil)

	s.Invalidate(key)
	entry, _ := s.Get(key)
	if !entry.Invalid {
		t.Fatal("Invalid = false, want true after Invalidate")
	}
	if entry.Value != 42 {
		t.Fatalf("Value = %v, want 42 (invalidation must not clear)", entry.Value)
	}
	if !entry.IsStale(time.Now()) {
		t.Fatal("IsStale = false, want true after Invalidate")
	}

	// A fresh fetch clears the flag.
	seq = s.BeginFetch(key, time.Minute)
	s.Complete(key, seq, 43, nil)
	entry, _ = s.Get(key)
	if entry.Invalid {
		t.Fatal("Invalid = true, want false after successful refetch")
	}
}

func TestStore_InvalidateMissingKeyIsNoop(t *testing.T) {
	s := NewStore()
	s.Invalidate(NewKey("nothing"))
	if _, ok := s.Get(NewKey("nothing")); ok {
		t.Fatal("Invalidate created an entry, want no-op")
	}
}

func TestStore_SequenceGuardDiscardsStaleResolution(t *testing.T) {
	s := NewStore()
	key := NewKey("cart")

	// Fetch A starts, then an invalidation triggers fetch B. B resolves
	// first; A's later resolution must not overwrite it.
	seqA := s.BeginFetch(key, time.Second)
	s.Invalidate(key)
	seqB := s.BeginFetch(key, time.Second)

	s.Complete(key, seqB, "fresh", nil)
	s.Complete(key, seqA, "stale", nil)

	entry, _ := s.Get(key)
	if entry.Value != "fresh" {
		t.Fatalf("Value = %v, want fresh (stale resolution must be dropped)", entry.Value)
	}
}

func TestStore_InvalidationDuringFlightOutlivesOldFetch(t *testing.T) {
	s := NewStore()
	key := NewKey("cart")

	seqA := s.BeginFetch(key, time.Minute)
	s.Invalidate(key)

	// A resolves after the invalidation: its payload lands (last resolution
	// wins) but the entry stays due for refetch.
	s.Complete(key, seqA, "old", nil)
	entry, _ := s.Get(key)
	if entry.Value != "old" {
		t.Fatalf("Value = %v, want old", entry.Value)
	}
	if !entry.Invalid {
		t.Fatal("Invalid = false, want true: fetch began before invalidation")
	}
}

func TestStore_SubscribeNotifiesAndUnsubscribes(t *testing.T) {
	s := NewStore()
	key := NewKey("wishlist")

	var got []Status
	unsub := s.Subscribe(key, func(e Entry) {
		got = append(got, e.Status)
	})

	seq := s.BeginFetch(key, time.Second)
	s.Complete(key, seq, "v", nil)
	if len(got) != 2 || got[0] != StatusLoading || got[1] != StatusSuccess {
		t.Fatalf("notifications = %v, want [loading success]", got)
	}

	unsub()
	seq = s.BeginFetch(key, time.Second)
	s.Complete(key, seq, "w", nil)
	if len(got) != 2 {
		t.Fatalf("got %d notifications after unsubscribe, want 2", len(got))
	}

	// Entry survives the unsubscribe.
	entry, ok := s.Get(key)
	if !ok || entry.Value != "w" {
		t.Fatalf("entry = %+v, want value w after unsubscribe", entry)
	}
}

func TestStore_ListenerMayReadStore(t *testing.T) {
	s := NewStore()
	key := NewKey("cart")

	var seen bool
	s.Subscribe(key, func(Entry) {
		// Re-entrant read must not deadlock.
		_, _ = s.Get(key)
		seen = true
	})
	s.BeginFetch(key, time.Second)
	if !seen {
		t.Fatal("listener did not run synchronously")
	}
}

func TestEntry_IsStale(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name  string
		entry Entry
		want  bool
	}{
		{"no value", Entry{}, true},
		{"invalidated", Entry{Value: 1, LastFetchedAt: now, StaleAfter: time.Hour, Invalid: true}, true},
		{"fresh", Entry{Value: 1, LastFetchedAt: now, StaleAfter: time.Hour}, false},
		{"aged out", Entry{Value: 1, LastFetchedAt: now.Add(-2 * time.Second), StaleAfter: time.Second}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.entry.IsStale(now); got != tt.want {
				t.Errorf("IsStale = %v, want %v", got, tt.want)
			}
		})
	}
}
