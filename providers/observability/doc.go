// Package observability defines the interfaces and semantic conventions used
// for tracing, metrics and structured logging across the code-generation
// client.
//
// [Provider] composes [Tracer], [Metrics] and [Logger] into a single
// injectable dependency. An active [Provider] and [Span] travel through a
// [context.Context] via [ContextWithObserver] and [ContextWithSpan], and are
// retrieved with [ObserverFromContext] and [SpanFromContext].
package observability
