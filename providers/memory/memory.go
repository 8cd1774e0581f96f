package memory

import (
	"context"
	"time"

	"github.com/cricket-aus/sukode-try/providers/ai"
)

// Entry is one chat turn as shown to the user.
type Entry struct {
	Role      ai.MessageRole
	Content   string
	Timestamp time.Time
}

// Provider stores the running transcript of a chat session.
type Provider interface {
	AppendEntry(ctx context.Context, entry Entry)
	AllEntries(ctx context.Context) ([]Entry, error)
	LastEntries(ctx context.Context, n int) ([]Entry, error)
	Count(ctx context.Context) (int, error)
	// Reset replaces the whole history with entries.
	Reset(ctx context.Context, entries ...Entry)
}
