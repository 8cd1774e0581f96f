// Package openai implements [ai.Provider] and [ai.StreamProvider] for hosts
// speaking the OpenAI chat completions contract: POST <base>/chat/completions
// with a bearer key, answered either with one JSON object or with SSE chunks.
//
// A [ProviderConfig] describes the host. Two presets ship, [OpenAI] and
// [Cerebras]; any other compatible host is one more ProviderConfig.
// Failures are returned already classified into the ai error taxonomy.
package openai
