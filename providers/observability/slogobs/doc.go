// Package slogobs provides an observability.Provider backed by log/slog.
// Spans, counters and histograms are emitted as debug records; regular log
// calls map onto slog levels. The main entry point is [New], tuned with
// [WithFormat], [WithLevel], [WithOutput] and [WithLogger].
package slogobs
