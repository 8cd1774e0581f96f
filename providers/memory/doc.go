// Package memory defines the Provider interface for chat transcript history.
// Read methods return errors so that implementations backed by something
// other than process memory can surface failures.
// The bundled implementation lives in the sibling package
// [github.com/cricket-aus/sukode-try/providers/memory/inmemory].
package memory
