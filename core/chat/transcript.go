package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cricket-aus/sukode-try/core/client"
	"github.com/cricket-aus/sukode-try/providers/ai"
	"github.com/cricket-aus/sukode-try/providers/memory"
	"github.com/cricket-aus/sukode-try/providers/memory/inmemory"
)

const clearedMessage = "Chat cleared. How can I help you with your code today?"

// Message is one turn of the transcript.
type Message = memory.Entry

// Generator produces code for a prompt. *client.Client satisfies it.
type Generator interface {
	GenerateCode(ctx context.Context, request client.GenerationRequest) (string, error)
}

// Transcript is a chat session over a Generator. Every reply, including a
// failure, is recorded as an assistant message.
type Transcript struct {
	generator Generator
	memory    memory.Provider
	greeting  string
	task      client.Task
	model     string
	now       func() time.Time
}

// Option configures a Transcript.
type Option func(*Transcript)

// WithMemory sets where messages are kept. The default is in-memory.
func WithMemory(provider memory.Provider) Option {
	return func(t *Transcript) { t.memory = provider }
}

// WithGreeting replaces the first assistant message.
func WithGreeting(greeting string) Option {
	return func(t *Transcript) { t.greeting = greeting }
}

// WithTask sets the task applied to every prompt.
func WithTask(task client.Task) Option {
	return func(t *Transcript) { t.task = task }
}

// WithModel pins the model for every prompt instead of the stored one.
func WithModel(model string) Option {
	return func(t *Transcript) { t.model = model }
}

// WithClock sets the message timestamp source.
func WithClock(now func() time.Time) Option {
	return func(t *Transcript) { t.now = now }
}

// Greeting returns the default opening message for a provider display name.
func Greeting(displayName string) string {
	if displayName == "" {
		return "Hello! What would you like help with today?"
	}
	return "Hello! I'm Sukode powered by " + displayName + ". What would you like help with today?"
}

// New returns a Transcript holding only the greeting.
func New(ctx context.Context, generator Generator, opts ...Option) *Transcript {
	t := &Transcript{
		generator: generator,
		greeting:  Greeting(""),
		task:      client.TaskRaw,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.memory == nil {
		t.memory = inmemory.New()
	}

	t.memory.Reset(ctx, t.assistant(t.greeting))
	return t
}

// Send records prompt as a user message, asks the generator, and records
// the reply. Blank prompts are ignored and return a zero Message and a nil
// error.
//
// On failure the error text becomes the assistant message and the error is
// returned as well. A truncated generation records the partial code followed
// by the error text.
func (t *Transcript) Send(ctx context.Context, prompt string) (Message, error) {
	if strings.TrimSpace(prompt) == "" {
		return Message{}, nil
	}

	t.memory.AppendEntry(ctx, Message{Role: ai.RoleUser, Content: prompt, Timestamp: t.now()})

	code, err := t.generator.GenerateCode(ctx, client.GenerationRequest{
		Prompt: prompt,
		Model:  t.model,
		Task:   t.task,
	})

	reply := t.assistant(replyText(code, err))
	t.memory.AppendEntry(ctx, reply)
	return reply, err
}

func replyText(code string, err error) string {
	if err == nil {
		return code
	}

	var truncated *client.TruncatedError
	if errors.As(err, &truncated) && code != "" {
		return code + "\n\n" + err.Error()
	}
	return err.Error()
}

// Messages returns a copy of the transcript in order.
func (t *Transcript) Messages(ctx context.Context) ([]Message, error) {
	return t.memory.AllEntries(ctx)
}

// Last returns the most recent message.
func (t *Transcript) Last(ctx context.Context) (Message, bool) {
	last, err := t.memory.LastEntries(ctx, 1)
	if err != nil || len(last) == 0 {
		return Message{}, false
	}
	return last[0], true
}

// Len returns the number of messages.
func (t *Transcript) Len(ctx context.Context) int {
	n, err := t.memory.Count(ctx)
	if err != nil {
		return 0
	}
	return n
}

// Clear drops every message and leaves a single "Chat cleared" reply.
func (t *Transcript) Clear(ctx context.Context) {
	t.memory.Reset(ctx, t.assistant(clearedMessage))
}

func (t *Transcript) assistant(content string) Message {
	return Message{Role: ai.RoleAssistant, Content: content, Timestamp: t.now()}
}
