// Package utils provides shared low-level helpers used by the provider
// implementations. It covers HTTP helpers for both synchronous and streaming
// (SSE) calls to chat-completion APIs and a few string utilities.
//
// Key entry points: [DoPostSync] for synchronous JSON round-trips,
// [DoPostStream] together with [SSEScanner] for Server-Sent Events streaming,
// and [Ptr] for converting values to pointers.
package utils
