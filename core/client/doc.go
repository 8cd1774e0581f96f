// Package client is the code-generation client: it owns the credential and
// model store for one provider, binds a provider client to the current key,
// builds the fixed completion request, consumes the response in streaming or
// non-streaming mode and reduces it to code.
//
// The entry point is [New], which takes an [openai.ProviderConfig] and
// functional options (e.g. [WithObserver], [WithStreaming], [WithMiddleware]).
// A Client is safe for concurrent use; each [Client.GenerateCode] call owns
// its own response buffer.
package client
