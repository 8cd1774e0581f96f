package openai

import (
	"github.com/cricket-aus/sukode-try/providers/ai"
)

/*
	CHAT COMPLETIONS API - INPUT
*/

// chatCompletionRequest is the /chat/completions request body.
type chatCompletionRequest struct {
	Model         string         `json:"model"`
	Messages      []chatMessage  `json:"messages"`
	Temperature   *float64       `json:"temperature,omitempty"`
	MaxTokens     *int           `json:"max_tokens,omitempty"`
	Stream        *bool          `json:"stream,omitempty"`
	StreamOptions *streamOptions `json:"stream_options,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"` // system, user, assistant
	Content string `json:"content"`
}

/*
	CHAT COMPLETIONS API - OUTPUT
*/

type chatCompletionResponse struct {
	ID                string       `json:"id"`
	Object            string       `json:"object"` // "chat.completion"
	Created           int64        `json:"created"`
	Model             string       `json:"model"`
	SystemFingerprint string       `json:"system_fingerprint,omitempty"`
	Choices           []chatChoice `json:"choices"`
	Usage             *chatUsage   `json:"usage,omitempty"`

	// Some hosts answer 200 with an error object instead of choices.
	Error *chatError `json:"error,omitempty"`
}

type chatChoice struct {
	Index        int                 `json:"index"`
	Message      chatResponseMessage `json:"message"`
	FinishReason string              `json:"finish_reason"` // "stop", "length", "content_filter"
}

type chatResponseMessage struct {
	Role    string  `json:"role"`
	Content *string `json:"content"` // null when the model refused or produced nothing
	Refusal string  `json:"refusal,omitempty"`
}

type chatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type chatError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    any    `json:"code"`
}

func (e *chatError) code() string {
	if s, ok := e.Code.(string); ok && s != "" {
		return s
	}
	return e.Type
}

/*
	CONVERSION FUNCTIONS
*/

// requestToChatCompletion converts ai.ChatRequest to the wire format.
// maxTokensCap, when positive, bounds the requested max_tokens.
func requestToChatCompletion(request ai.ChatRequest, maxTokensCap int) chatCompletionRequest {
	req := chatCompletionRequest{
		Model:    request.Model,
		Messages: make([]chatMessage, 0, len(request.Messages)),
	}

	for _, msg := range request.Messages {
		req.Messages = append(req.Messages, chatMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}

	if request.GenerationConfig != nil {
		cfg := request.GenerationConfig

		temp := float64(cfg.Temperature)
		req.Temperature = &temp

		maxTokens := cfg.MaxTokens
		if maxTokensCap > 0 && (maxTokens <= 0 || maxTokens > maxTokensCap) {
			maxTokens = maxTokensCap
		}
		if maxTokens > 0 {
			req.MaxTokens = &maxTokens
		}
	}

	return req
}

// chatCompletionToGeneric takes the first choice. A missing or null content
// field becomes "".
func chatCompletionToGeneric(resp chatCompletionResponse) *ai.ChatResponse {
	response := &ai.ChatResponse{
		Id:    resp.ID,
		Model: resp.Model,
	}

	if len(resp.Choices) > 0 {
		choice := resp.Choices[0]
		if choice.Message.Content != nil {
			response.Content = *choice.Message.Content
		}
		response.FinishReason = choice.FinishReason
	}

	if resp.Usage != nil {
		response.Usage = usageToGeneric(resp.Usage)
	}

	return response
}

func usageToGeneric(usage *chatUsage) *ai.Usage {
	return &ai.Usage{
		PromptTokens:     usage.PromptTokens,
		CompletionTokens: usage.CompletionTokens,
		TotalTokens:      usage.TotalTokens,
	}
}
