package openai

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cricket-aus/sukode-try/internal/utils"
)

// ProviderConfig describes one OpenAI-compatible host. Adding a backend means
// adding a ProviderConfig; request building and code extraction do not change.
type ProviderConfig struct {
	Name         string // slot prefix and log name, e.g. "cerebras"
	DisplayName  string // used in user-facing messages, e.g. "Cerebras"
	BaseURL      string // without trailing slash, e.g. "https://api.cerebras.ai/v1"
	AuthHeader   string // defaults to "Authorization"
	AuthScheme   string // defaults to "Bearer"
	Streaming    bool   // host delivers chat completions as SSE
	DefaultModel string
	MaxTokens    int
}

const (
	defaultAuthHeader = "Authorization"
	defaultAuthScheme = "Bearer"

	chatCompletionsEndpoint = "/chat/completions"
)

// OpenAI is the api.openai.com preset. It answers synchronously.
var OpenAI = ProviderConfig{
	Name:         "openai",
	DisplayName:  "OpenAI",
	BaseURL:      "https://api.openai.com/v1",
	Streaming:    false,
	DefaultModel: "gpt-4-turbo-preview",
	MaxTokens:    4000,
}

// Cerebras is the api.cerebras.ai preset. It streams.
var Cerebras = ProviderConfig{
	Name:         "cerebras",
	DisplayName:  "Cerebras",
	BaseURL:      "https://api.cerebras.ai/v1",
	Streaming:    true,
	DefaultModel: "llama3.1-8b",
	MaxTokens:    4000,
}

var presets = map[string]ProviderConfig{
	OpenAI.Name:   OpenAI,
	Cerebras.Name: Cerebras,
}

// Lookup returns the preset registered under name (case-insensitive).
func Lookup(name string) (ProviderConfig, error) {
	config, ok := presets[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return ProviderConfig{}, fmt.Errorf("unknown provider %q (known: %s)", name, strings.Join(PresetNames(), ", "))
	}
	return config, nil
}

// PresetNames lists the registered presets in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Normalize fills defaults and strips a trailing slash from BaseURL.
func (config ProviderConfig) Normalize() ProviderConfig {
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	if config.AuthHeader == "" {
		config.AuthHeader = defaultAuthHeader
	}
	if config.AuthScheme == "" {
		config.AuthScheme = defaultAuthScheme
	}
	if config.DisplayName == "" {
		config.DisplayName = config.Name
	}
	return config
}

// WithBaseURL returns a copy pointed at baseURL. The response mode follows
// the new host when it is a known one.
func (config ProviderConfig) WithBaseURL(baseURL string) ProviderConfig {
	if baseURL == "" {
		return config
	}
	config.BaseURL = baseURL
	if capabilities, known := detectCapabilities(baseURL); known {
		config.Streaming = capabilities.PrefersStreamingMode
	}
	return config
}

// KeySlot is the session slot holding this provider's API key.
func (config ProviderConfig) KeySlot() string {
	return config.Name + "_api_key"
}

// ModelSlot is the session slot holding this provider's selected model.
func (config ProviderConfig) ModelSlot() string {
	return config.Name + "_selected_model"
}

func (config ProviderConfig) authHeader(apiKey string) utils.HeaderOption {
	if config.AuthHeader == defaultAuthHeader && config.AuthScheme == defaultAuthScheme {
		return utils.BearerAuth(apiKey)
	}
	return utils.HeaderOption{Key: config.AuthHeader, Value: strings.TrimSpace(config.AuthScheme + " " + apiKey)}
}
