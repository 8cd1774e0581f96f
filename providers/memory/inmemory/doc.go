// Package inmemory provides a concurrency-safe, slice-backed implementation
// of the [memory.Provider] interface for transcript history kept in process
// memory. The main entry point is [New].
package inmemory
