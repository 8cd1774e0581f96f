package overview

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cricket-aus/sukode-try/providers/ai"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// overviewContextKey is the key used to store Overview in context.
const overviewContextKey contextKey = "overview"

// Overview tallies the generations run under one context: how many, how
// many failed or were truncated, the summed token usage and the time spent
// waiting on the provider. It is safe for concurrent use, so one Overview
// can be shared by a GenerateAll fan-out.
type Overview struct {
	mu          sync.Mutex
	generations int
	failures    int
	truncated   int
	usage       ai.Usage
	elapsed     time.Duration
	models      map[string]int
}

// Summary is a point-in-time copy of an Overview.
type Summary struct {
	Generations int            `json:"generations"`
	Failures    int            `json:"failures"`
	Truncated   int            `json:"truncated"`
	Usage       ai.Usage       `json:"usage"`
	Elapsed     time.Duration  `json:"elapsed"`
	Models      map[string]int `json:"models,omitempty"`
}

// Outcome is what the client reports about one finished generation.
type Outcome struct {
	Model     string
	Usage     *ai.Usage
	Duration  time.Duration
	Failed    bool
	Truncated bool
}

// New returns an empty Overview.
func New() *Overview {
	return &Overview{models: make(map[string]int)}
}

// FromContext returns the Overview stored in ctx, or nil.
func FromContext(ctx context.Context) *Overview {
	if ctx == nil {
		return nil
	}
	overview, _ := ctx.Value(overviewContextKey).(*Overview)
	return overview
}

// ToContext stores the Overview in the given context and returns the enriched context.
func (overview *Overview) ToContext(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	return context.WithValue(ctx, overviewContextKey, overview)
}

// Record adds one generation. A nil Overview ignores the call.
func (overview *Overview) Record(outcome Outcome) {
	if overview == nil {
		return
	}

	overview.mu.Lock()
	defer overview.mu.Unlock()

	overview.generations++
	overview.elapsed += outcome.Duration
	if outcome.Failed {
		overview.failures++
	}
	if outcome.Truncated {
		overview.truncated++
	}
	if outcome.Model != "" {
		overview.models[outcome.Model]++
	}
	if outcome.Usage != nil {
		overview.usage.PromptTokens += outcome.Usage.PromptTokens
		overview.usage.CompletionTokens += outcome.Usage.CompletionTokens
		overview.usage.TotalTokens += outcome.Usage.TotalTokens
	}
}

// Summary returns a copy of the current totals.
func (overview *Overview) Summary() Summary {
	overview.mu.Lock()
	defer overview.mu.Unlock()

	models := make(map[string]int, len(overview.models))
	for model, n := range overview.models {
		models[model] = n
	}

	return Summary{
		Generations: overview.generations,
		Failures:    overview.failures,
		Truncated:   overview.truncated,
		Usage:       overview.usage,
		Elapsed:     overview.elapsed,
		Models:      models,
	}
}

// String renders the summary on one line for terminal output.
func (summary Summary) String() string {
	return fmt.Sprintf("%d generations (%d failed, %d truncated), %d tokens (%d prompt, %d completion), %s",
		summary.Generations, summary.Failures, summary.Truncated,
		summary.Usage.TotalTokens, summary.Usage.PromptTokens, summary.Usage.CompletionTokens,
		summary.Elapsed.Round(time.Millisecond))
}
