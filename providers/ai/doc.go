// Package ai defines the provider-agnostic types shared by every
// chat-completion backend: [ChatRequest], [ChatResponse], the streaming
// [ChatStream] / [StreamEvent] pair, and the [Provider] / [StreamProvider]
// interfaces.
//
// It also owns the failure taxonomy surfaced to callers:
// [AuthenticationError], [TransportError], [ProviderError] and
// [UnknownError]. [Classify] maps any error onto one of them.
package ai
