// Package middleware provides opt-in wrappers around provider calls made by
// [client.Client]. Each constructor returns a [client.MiddlewareConfig] ready
// for [client.WithMiddleware].
//
//   - [NewTimeout] bounds each call, including the full lifetime of a stream.
//   - [NewLogging] writes slog entries before and after each call.
//
// There is no retry middleware: a failed generation is surfaced to the
// caller, who decides whether to try again.
//
//	c, err := client.New(openai.Cerebras,
//	    client.WithMiddleware(
//	        middleware.NewTimeout(60*time.Second),
//	        middleware.NewLogging(slog.Default(), middleware.LogLevelStandard),
//	    ),
//	)
//
// The first entry is the outermost wrapper: it runs first on the way in and
// last on the way out.
package middleware
