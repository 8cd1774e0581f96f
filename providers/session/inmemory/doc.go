// Package inmemory provides a concurrency-safe, map-backed implementation of
// [session.Storage]. Its lifetime is the session: values vanish with the
// process, matching tab-scoped browser storage.
package inmemory
