package ai

/*
	##### PROVIDER INPUT #####
*/

// ChatRequest is one provider-agnostic chat-completion request.
type ChatRequest struct {
	Model            string            `json:"model,omitempty"`             // Model name or identifier
	Messages         []Message         `json:"messages"`                    // Ordered conversation, system message first
	GenerationConfig *GenerationConfig `json:"generation_config,omitempty"` // Sampling parameters
}

// Message represents a single message in a conversation
type Message struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content"`
}

// GenerationConfig carries the sampling parameters sent with a request.
type GenerationConfig struct {
	Temperature float32 `json:"temperature,omitempty"` // Sampling temperature [0..2]. Lower => more deterministic.
	MaxTokens   int     `json:"max_tokens,omitempty"`  // Upper bound on generated tokens
}

/*
	##### PROVIDER OUTPUT #####
*/

// Usage reports token accounting when the provider returns it.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens,omitempty"`
	CompletionTokens int `json:"completion_tokens,omitempty"`
	TotalTokens      int `json:"total_tokens,omitempty"`
}

// ChatResponse represents the response from a chat completion
type ChatResponse struct {
	Id           string `json:"id"`
	Model        string `json:"model"`
	Content      string `json:"content"`
	FinishReason string `json:"finish_reason,omitempty"`
	Usage        *Usage `json:"usage,omitempty"`
}

/*
	##### ENUMS #####
*/

// MessageRole represents the role of a message; compatible with string
type MessageRole string

const (
	RoleSystem    MessageRole = "system"    // System instructions
	RoleUser      MessageRole = "user"      // End-user message
	RoleAssistant MessageRole = "assistant" // Model reply
)
