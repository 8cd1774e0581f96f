// Package chat keeps a user/assistant transcript over a code generator.
//
// Each prompt is answered independently: earlier turns are shown, not sent.
// Messages live in a [memory.Provider], in memory by default.
package chat
