// Package overview tallies code generations across a session or a batch.
// Store an [Overview] in a context with [Overview.ToContext]; every
// generation run under that context is recorded into it, and
// [Overview.Summary] reports the totals.
package overview
