package openai

import "strings"

// Capabilities is what a known OpenAI-compatible host does beyond the basic
// chat completions contract, which every host here supports with streaming.
type Capabilities struct {
	SupportsStreamUsage  bool // honours stream_options.include_usage
	PrefersStreamingMode bool // the front end streams against this host by default
}

// detectCapabilities matches baseURL against known hosts. known is false
// for hosts it has no opinion about.
func detectCapabilities(baseURL string) (capabilities Capabilities, known bool) {
	baseURL = strings.ToLower(baseURL)

	switch {
	case strings.Contains(baseURL, "api.openai.com"):
		return Capabilities{
			SupportsStreamUsage:  true,
			PrefersStreamingMode: false,
		}, true

	case strings.Contains(baseURL, "api.cerebras.ai"):
		return Capabilities{
			SupportsStreamUsage:  false,
			PrefersStreamingMode: true,
		}, true

	// Ollama
	case strings.Contains(baseURL, "localhost:11434"), strings.Contains(baseURL, "127.0.0.1:11434"):
		return Capabilities{
			SupportsStreamUsage:  false,
			PrefersStreamingMode: true,
		}, true

	case strings.Contains(baseURL, "openrouter.ai"):
		return Capabilities{
			SupportsStreamUsage:  true,
			PrefersStreamingMode: true,
		}, true
	}

	return Capabilities{}, false
}
