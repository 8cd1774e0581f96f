package inmemory

import (
	"context"
	"sync"

	"github.com/cricket-aus/sukode-try/providers/memory"
	"github.com/cricket-aus/sukode-try/providers/observability"
)

// ArrayMemory is a simple, concurrency-safe in-memory transcript.
// It uses RWMutex to guard access and is efficient for read-heavy workloads.
type ArrayMemory struct {
	mu      sync.RWMutex
	entries []memory.Entry
}

// New returns a new, empty [ArrayMemory] ready for immediate use.
func New() *ArrayMemory {
	return &ArrayMemory{
		entries: []memory.Entry{},
	}
}

// Ensure ArrayMemory implements memory.Provider at compile time.
var _ memory.Provider = (*ArrayMemory)(nil)

// AppendEntry stores entry at the end of the history.
// When an observability span is present in ctx, an event is recorded with
// the entry role and content length, and the running total is set as a span
// attribute.
func (m *ArrayMemory) AppendEntry(ctx context.Context, entry memory.Entry) {
	span := observability.SpanFromContext(ctx)

	if span != nil {
		span.AddEvent(observability.EventMemoryAppend,
			observability.String(observability.AttrMemoryEntryRole, string(entry.Role)),
			observability.Int(observability.AttrMemoryEntryLength, len(entry.Content)),
		)
	}

	m.mu.Lock()
	m.entries = append(m.entries, entry)
	total := len(m.entries)
	m.mu.Unlock()

	if span != nil {
		span.SetAttributes(observability.Int(observability.AttrChatMessages, total))
	}
}

// Count returns the number of entries stored. The returned error is always nil.
func (m *ArrayMemory) Count(_ context.Context) (int, error) {
	m.mu.RLock()
	n := len(m.entries)
	m.mu.RUnlock()
	return n, nil
}

// AllEntries returns a copy of all entries to avoid external mutation of
// internal state. The returned error is always nil.
func (m *ArrayMemory) AllEntries(_ context.Context) ([]memory.Entry, error) {
	m.mu.RLock()
	out := make([]memory.Entry, len(m.entries))
	copy(out, m.entries)
	m.mu.RUnlock()
	return out, nil
}

// LastEntries returns up to the last n entries as a new, independent slice.
// Returns an empty, non-nil slice when n is zero or negative.
func (m *ArrayMemory) LastEntries(_ context.Context, n int) ([]memory.Entry, error) {
	if n <= 0 {
		return []memory.Entry{}, nil
	}
	m.mu.RLock()
	if n > len(m.entries) {
		n = len(m.entries)
	}
	start := len(m.entries) - n
	out := make([]memory.Entry, n)
	copy(out, m.entries[start:])
	m.mu.RUnlock()
	return out, nil
}

// Reset replaces the history with entries while retaining the underlying
// slice capacity.
func (m *ArrayMemory) Reset(ctx context.Context, entries ...memory.Entry) {
	if span := observability.SpanFromContext(ctx); span != nil {
		span.AddEvent(observability.EventMemoryReset)
	}

	m.mu.Lock()
	m.entries = append(m.entries[:0], entries...)
	m.mu.Unlock()
}
