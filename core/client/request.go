package client

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cricket-aus/sukode-try/providers/ai"
)

// systemPrompt is sent as the first message of every request.
const systemPrompt = "You are a helpful coding assistant. When asked to write code, respond with only the code and no additional explanation. Format your response using markdown code blocks with the appropriate language specified."

// Fixed sampling parameters. Callers choose the model and the prompt, nothing else.
const (
	generationTemperature float32 = 0.2
	generationMaxTokens           = 4000
)

// ErrEmptyPrompt is returned when a GenerationRequest carries no prompt.
var ErrEmptyPrompt = errors.New("prompt must not be empty")

// Task selects the prefix placed before the user's prompt.
type Task string

const (
	TaskRaw      Task = "raw"      // prompt sent verbatim
	TaskGenerate Task = "generate" // new code from a requirement
	TaskImprove  Task = "improve"  // rework code supplied in the prompt
)

// ParseTask maps a task name to a Task. The empty string is TaskRaw.
func ParseTask(name string) (Task, error) {
	switch Task(strings.ToLower(strings.TrimSpace(name))) {
	case "", TaskRaw:
		return TaskRaw, nil
	case TaskGenerate:
		return TaskGenerate, nil
	case TaskImprove:
		return TaskImprove, nil
	}
	return "", fmt.Errorf("unknown task %q (want raw, generate or improve)", name)
}

func (t Task) prefix() string {
	switch t {
	case TaskGenerate:
		return "Generate code for the following requirement:\n"
	case TaskImprove:
		return "Improve or complete this code:\n"
	default:
		return ""
	}
}

// GenerationRequest is one code generation call.
type GenerationRequest struct {
	Prompt string
	Model  string // empty means the stored model
	Task   Task
}

// buildChatRequest produces the fixed two-message request. The prompt is
// placed verbatim after the task prefix.
func buildChatRequest(request GenerationRequest, storedModel string) (ai.ChatRequest, error) {
	if strings.TrimSpace(request.Prompt) == "" {
		return ai.ChatRequest{}, &ai.UnknownError{Message: ErrEmptyPrompt.Error(), Err: ErrEmptyPrompt}
	}

	model := request.Model
	if model == "" {
		model = storedModel
	}

	return ai.ChatRequest{
		Model: model,
		Messages: []ai.Message{
			{Role: ai.RoleSystem, Content: systemPrompt},
			{Role: ai.RoleUser, Content: request.Task.prefix() + request.Prompt},
		},
		GenerationConfig: &ai.GenerationConfig{
			Temperature: generationTemperature,
			MaxTokens:   generationMaxTokens,
		},
	}, nil
}
