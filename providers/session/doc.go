// Package session defines the [Storage] contract for named string slots that
// last one session. The in-process implementation lives in
// [github.com/cricket-aus/sukode-try/providers/session/inmemory].
package session
