package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/cricket-aus/sukode-try/providers/observability"
	"github.com/cricket-aus/sukode-try/providers/session"
)

// Slots names the two storage slots a Store owns.
type Slots struct {
	Key   string // e.g. "cerebras_api_key"
	Model string // e.g. "cerebras_selected_model"
}

// KeyListener is called after every SetKey with the new key.
type KeyListener func(key string)

// Store holds the credential and selected model for one provider. It caches
// values in memory and mirrors them to session storage. All methods are
// safe for concurrent use; a write happens-before any later read.
type Store struct {
	storage      session.Storage
	slots        Slots
	defaultModel string

	mu        sync.RWMutex
	key       string
	model     string
	listeners []KeyListener
}

// New returns a Store over storage. The model starts at defaultModel until
// one is set or found in storage.
func New(storage session.Storage, slots Slots, defaultModel string) *Store {
	return &Store{
		storage:      storage,
		slots:        slots,
		defaultModel: defaultModel,
		model:        defaultModel,
	}
}

// OnKeyChange registers listener to run after every SetKey.
func (s *Store) OnKeyChange(listener KeyListener) {
	s.mu.Lock()
	s.listeners = append(s.listeners, listener)
	s.mu.Unlock()
}

// SetKey stores key in memory and in the key slot, overwriting silently,
// then notifies listeners. The in-memory value is updated even when the
// storage write fails; the storage error is returned.
func (s *Store) SetKey(ctx context.Context, key string) error {
	s.mu.Lock()
	s.key = key
	listeners := append([]KeyListener(nil), s.listeners...)
	s.mu.Unlock()

	err := s.storage.Set(ctx, s.slots.Key, key)

	for _, listener := range listeners {
		listener(key)
	}

	if err != nil {
		return fmt.Errorf("persist %s: %w", s.slots.Key, err)
	}
	return nil
}

// Key returns the credential. The in-memory value wins; otherwise the key
// slot is read and cached. An empty key counts as absent.
func (s *Store) Key(ctx context.Context) (string, bool) {
	s.mu.RLock()
	key := s.key
	s.mu.RUnlock()
	if key != "" {
		return key, true
	}

	stored, ok, err := s.storage.Get(ctx, s.slots.Key)
	if err != nil {
		s.logStorageError(ctx, s.slots.Key, err)
		return "", false
	}
	if !ok || stored == "" {
		return "", false
	}

	s.mu.Lock()
	if s.key == "" {
		s.key = stored
	}
	key = s.key
	s.mu.Unlock()
	return key, true
}

// SetModel stores model in memory and in the model slot. An empty model
// resets to the default.
func (s *Store) SetModel(ctx context.Context, model string) error {
	if model == "" {
		model = s.defaultModel
	}

	s.mu.Lock()
	s.model = model
	s.mu.Unlock()

	if err := s.storage.Set(ctx, s.slots.Model, model); err != nil {
		return fmt.Errorf("persist %s: %w", s.slots.Model, err)
	}
	return nil
}

// Model returns the selected model. Storage is read on every call and, when
// it holds a value, refreshes the in-memory one. It is never empty unless
// the default model is.
func (s *Store) Model(ctx context.Context) string {
	stored, ok, err := s.storage.Get(ctx, s.slots.Model)
	if err != nil {
		s.logStorageError(ctx, s.slots.Model, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil && ok && stored != "" {
		s.model = stored
	}
	return s.model
}

// DefaultModel returns the model used when none was selected.
func (s *Store) DefaultModel() string {
	return s.defaultModel
}

// Slots returns the storage slot names.
func (s *Store) Slots() Slots {
	return s.slots
}

func (s *Store) logStorageError(ctx context.Context, slot string, err error) {
	if observer := observability.ObserverFromContext(ctx); observer != nil {
		observer.Warn(ctx, "Session storage read failed",
			observability.String(observability.AttrSessionSlot, slot),
			observability.Error(err),
		)
	}
}
