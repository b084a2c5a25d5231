package calendar

import (
	"context"
	"slices"
	"sync"

	"github.com/neexbeast/country-calendar/internal/upstream"
)

// Store holds each user's calendar: an append-only, ordered list of
// holidays. Appends for the same user must not interleave.
type Store interface {
	Append(ctx context.Context, userID string, holidays []upstream.Holiday) error
	List(ctx context.Context, userID string) ([]upstream.Holiday, error)
}

// MemoryStore is a process-local Store. Its contents are lost on restart.
type MemoryStore struct {
	mu        sync.RWMutex
	calendars map[string][]upstream.Holiday
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{calendars: make(map[string][]upstream.Holiday)}
}

// Append adds holidays to the end of the user's calendar, creating it on
// first use.
func (s *MemoryStore) Append(_ context.Context, userID string, holidays []upstream.Holiday) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calendars[userID] = append(s.calendars[userID], holidays...)
	return nil
}

// List returns a copy of the user's calendar. Unknown users get an empty list.
func (s *MemoryStore) List(_ context.Context, userID string) ([]upstream.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := slices.Clone(s.calendars[userID])
	if events == nil {
		events = []upstream.Holiday{}
	}
	return events, nil
}

// Ping always succeeds; it lets MemoryStore stand in for a remote store in
// health checks.
func (s *MemoryStore) Ping(_ context.Context) error { return nil }
