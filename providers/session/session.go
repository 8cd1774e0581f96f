package session

import "context"

// Storage is the session-scoped key-value store behind the credential and
// model store. Values live for as long as the Storage instance does; nothing
// is encrypted and nothing expires.
type Storage interface {
	// Get returns the value in slot and whether the slot was set.
	Get(ctx context.Context, slot string) (string, bool, error)
	// Set overwrites slot with value.
	Set(ctx context.Context, slot, value string) error
	// Delete removes slot. Deleting an unset slot is not an error.
	Delete(ctx context.Context, slot string) error
	// Clear removes every slot, ending the session.
	Clear(ctx context.Context) error
}
