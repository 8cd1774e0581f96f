// Package session implements the credential and model store: one API key
// and one selected model per provider, cached in memory and mirrored to
// [session.Storage] under named slots.
//
// Setting a key notifies registered listeners so a client bound to the old
// key can be discarded before the next request.
package session
