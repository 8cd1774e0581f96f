// Package parse turns raw model and provider text into something usable.
//
// [ExtractCode] reduces a free-form completion to the code it contains by
// collecting markdown fenced blocks; [CodeBlocks] and [HasUnclosedFence]
// expose the same scan in more detail. [ErrorMessage] pulls a readable
// diagnostic out of a provider error body, whether it is JSON (possibly
// malformed), an HTML error page, or plain text.
package parse
