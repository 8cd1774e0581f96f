package inmemory

import (
	"context"
	"maps"
	"sync"

	"github.com/cricket-aus/sukode-try/providers/observability"
	"github.com/cricket-aus/sukode-try/providers/session"
)

// Storage is a concurrency-safe, map-backed session store.
// It uses RWMutex to guard access; reads vastly outnumber writes.
type Storage struct {
	mu    sync.RWMutex
	slots map[string]string
}

// Ensure Storage implements session.Storage at compile time.
var _ session.Storage = (*Storage)(nil)

// New returns an empty Storage. Optional seed values are copied in, which is
// how a process hands values it already knows (e.g. from the environment)
// to a fresh session.
func New(seed ...map[string]string) *Storage {
	storage := &Storage{slots: make(map[string]string)}
	for _, values := range seed {
		maps.Copy(storage.slots, values)
	}
	return storage
}

// Get implements session.Storage. The returned error is always nil.
// When an observability span is present in ctx, a read event is recorded
// with the slot name and whether it was found; the value is never recorded.
func (s *Storage) Get(ctx context.Context, slot string) (string, bool, error) {
	s.mu.RLock()
	value, ok := s.slots[slot]
	s.mu.RUnlock()

	if span := observability.SpanFromContext(ctx); span != nil {
		span.AddEvent(observability.EventSessionRead,
			observability.String(observability.AttrSessionSlot, slot),
			observability.Bool("session.found", ok),
		)
	}
	return value, ok, nil
}

// Set implements session.Storage. The returned error is always nil.
func (s *Storage) Set(ctx context.Context, slot, value string) error {
	s.mu.Lock()
	s.slots[slot] = value
	s.mu.Unlock()

	if span := observability.SpanFromContext(ctx); span != nil {
		span.AddEvent(observability.EventSessionWrite,
			observability.String(observability.AttrSessionSlot, slot),
		)
	}
	return nil
}

// Delete implements session.Storage. The returned error is always nil.
func (s *Storage) Delete(_ context.Context, slot string) error {
	s.mu.Lock()
	delete(s.slots, slot)
	s.mu.Unlock()
	return nil
}

// Clear implements session.Storage by dropping every slot.
func (s *Storage) Clear(_ context.Context) error {
	s.mu.Lock()
	clear(s.slots)
	s.mu.Unlock()
	return nil
}

// Len returns the number of set slots.
func (s *Storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.slots)
}
