package parse

import (
	"encoding/json"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/kaptinlin/jsonrepair"
)

// maxDiagnosticLength bounds the text kept from a provider error body.
const maxDiagnosticLength = 300

// Diagnostic is the readable part of a provider error body.
type Diagnostic struct {
	Code    string // provider error code or type, may be empty
	Message string
}

// errorEnvelope covers the two error shapes seen from OpenAI-compatible
// hosts: {"error": {...}} and a flat {"message": ..., "type": ...}.
type errorEnvelope struct {
	Error   json.RawMessage `json:"error"`
	Message string          `json:"message"`
	Type    string          `json:"type"`
	Code    any             `json:"code"`
}

type errorObject struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    any    `json:"code"`
}

// ErrorMessage extracts a diagnostic from a provider error body. JSON bodies
// are repaired when malformed; HTML pages are flattened to text. An empty
// Message means nothing readable was found.
func ErrorMessage(body []byte) Diagnostic {
	text := strings.TrimSpace(string(body))
	if text == "" {
		return Diagnostic{}
	}

	if strings.HasPrefix(text, "{") {
		if diagnostic, ok := jsonDiagnostic(text); ok {
			return diagnostic
		}
	}

	if looksLikeHTML(text) {
		if markdown, err := htmltomarkdown.ConvertString(text); err == nil {
			text = strings.TrimSpace(markdown)
		}
	}

	return Diagnostic{Message: clip(collapseWhitespace(text))}
}

// jsonDiagnostic decodes an error envelope, running jsonrepair over the
// body first when it does not parse as is.
func jsonDiagnostic(text string) (Diagnostic, bool) {
	var envelope errorEnvelope
	if err := json.Unmarshal([]byte(text), &envelope); err != nil {
		repaired, repairErr := jsonrepair.JSONRepair(text)
		if repairErr != nil {
			return Diagnostic{}, false
		}
		if err := json.Unmarshal([]byte(repaired), &envelope); err != nil {
			return Diagnostic{}, false
		}
	}

	if len(envelope.Error) > 0 {
		var object errorObject
		if err := json.Unmarshal(envelope.Error, &object); err == nil && object.Message != "" {
			return Diagnostic{Code: codeOf(object.Code, object.Type), Message: clip(object.Message)}, true
		}
		var plain string
		if err := json.Unmarshal(envelope.Error, &plain); err == nil && plain != "" {
			return Diagnostic{Message: clip(plain)}, true
		}
	}

	if envelope.Message != "" {
		return Diagnostic{Code: codeOf(envelope.Code, envelope.Type), Message: clip(envelope.Message)}, true
	}
	return Diagnostic{}, false
}

// codeOf prefers a string code, then the error type.
func codeOf(code any, errorType string) string {
	if s, ok := code.(string); ok && s != "" {
		return s
	}
	return errorType
}

func looksLikeHTML(text string) bool {
	lower := strings.ToLower(text)
	return strings.HasPrefix(lower, "<!doctype html") || strings.Contains(lower, "<html") || strings.Contains(lower, "<body")
}

func collapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

func clip(text string) string {
	runes := []rune(text)
	if len(runes) <= maxDiagnosticLength {
		return text
	}
	return string(runes[:maxDiagnosticLength]) + "..."
}
