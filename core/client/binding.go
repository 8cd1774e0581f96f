package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/cricket-aus/sukode-try/providers/ai"
	"github.com/cricket-aus/sukode-try/providers/observability"
)

// ProviderFactory builds a provider bound to apiKey.
type ProviderFactory func(apiKey string) (ai.Provider, error)

// CredentialSource returns the current key and whether one is available.
type CredentialSource func(ctx context.Context) (string, bool)

type bindingState int

const (
	stateUnbound bindingState = iota
	stateBound
)

func (s bindingState) String() string {
	if s == stateBound {
		return "bound"
	}
	return "unbound"
}

// binding is the provider client state machine: Unbound -> Bound(key).
// invalidate returns it to Unbound; provider moves Unbound to Bound by
// reading the credential. A provider built for one key is never handed out
// after invalidate.
type binding struct {
	factory     ProviderFactory
	credentials CredentialSource
	displayName string

	mu       sync.Mutex
	state    bindingState
	key      string
	provider ai.Provider
	builds   int
}

func newBinding(factory ProviderFactory, credentials CredentialSource, displayName string) *binding {
	return &binding{
		factory:     factory,
		credentials: credentials,
		displayName: displayName,
		state:       stateUnbound,
	}
}

// invalidate drops the bound provider. Requests already holding it finish
// with their own reference.
func (b *binding) invalidate() {
	b.mu.Lock()
	b.state = stateUnbound
	b.key = ""
	b.provider = nil
	b.mu.Unlock()
}

// get returns the bound provider, building it on first use after an
// invalidate. It fails with *ai.AuthenticationError before any network call
// when no credential is available.
func (b *binding) get(ctx context.Context) (ai.Provider, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == stateBound {
		return b.provider, nil
	}

	key, ok := b.credentials(ctx)
	if !ok || key == "" {
		return nil, &ai.AuthenticationError{Provider: b.displayName}
	}

	provider, err := b.factory(key)
	if err != nil {
		return nil, ai.Classify(fmt.Errorf("build %s provider: %w", b.displayName, err))
	}

	b.state = stateBound
	b.key = key
	b.provider = provider
	b.builds++

	if span := observability.SpanFromContext(ctx); span != nil {
		span.AddEvent(observability.EventClientRebound,
			observability.String(observability.AttrLLMProvider, provider.Name()),
			observability.Int("binding.builds", b.builds),
		)
	}

	return provider, nil
}

// snapshot reports the state, the bound key and the build count.
func (b *binding) snapshot() (bindingState, string, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state, b.key, b.builds
}
