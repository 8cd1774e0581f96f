package main

import (
	"io"
	"testing"
	"time"

	"github.com/cricket-aus/sukode-try/core/client"
	"github.com/cricket-aus/sukode-try/internal/utils"
)

func envFrom(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestParseConfig(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		env          map[string]string
		wantProvider string
		wantKey      string
		wantModel    string
		wantTask     client.Task
		wantStream   *bool
		wantPrompt   string
	}{
		{
			name:         "defaults to cerebras",
			args:         []string{"write", "fizzbuzz"},
			env:          map[string]string{"CEREBRAS_API_KEY": "csk-1"},
			wantProvider: "cerebras",
			wantKey:      "csk-1",
			wantTask:     client.TaskRaw,
			wantPrompt:   "write fizzbuzz",
		},
		{
			name:         "provider from env",
			env:          map[string]string{"SUKODE_PROVIDER": "openai", "OPENAI_API_KEY": " sk-2 ", "CEREBRAS_API_KEY": "csk-1"},
			wantProvider: "openai",
			wantKey:      "sk-2",
			wantTask:     client.TaskRaw,
		},
		{
			name:         "flags override env",
			args:         []string{"-provider", "openai", "-model", "gpt-4o", "-task", "improve", "-stream", "x"},
			env:          map[string]string{"SUKODE_PROVIDER": "cerebras", "SUKODE_MODEL": "llama3.1-8b", "SUKODE_API_KEY": "generic"},
			wantProvider: "openai",
			wantKey:      "generic",
			wantModel:    "gpt-4o",
			wantTask:     client.TaskImprove,
			wantStream:   utils.Ptr(true),
			wantPrompt:   "x",
		},
		{
			name:         "no-stream",
			args:         []string{"-no-stream"},
			wantProvider: "cerebras",
			wantTask:     client.TaskRaw,
			wantStream:   utils.Ptr(false),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := parseConfig(tt.args, envFrom(tt.env), io.Discard)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if cfg.provider.Name != tt.wantProvider {
				t.Errorf("provider = %q, want %q", cfg.provider.Name, tt.wantProvider)
			}
			if cfg.apiKey != tt.wantKey {
				t.Errorf("apiKey = %q, want %q", cfg.apiKey, tt.wantKey)
			}
			if cfg.model != tt.wantModel {
				t.Errorf("model = %q, want %q", cfg.model, tt.wantModel)
			}
			if cfg.task != tt.wantTask {
				t.Errorf("task = %q, want %q", cfg.task, tt.wantTask)
			}
			if cfg.prompt != tt.wantPrompt {
				t.Errorf("prompt = %q, want %q", cfg.prompt, tt.wantPrompt)
			}
			switch {
			case tt.wantStream == nil && cfg.stream != nil:
				t.Errorf("stream = %v, want unset", *cfg.stream)
			case tt.wantStream != nil && (cfg.stream == nil || *cfg.stream != *tt.wantStream):
				t.Errorf("stream = %v, want %v", cfg.stream, *tt.wantStream)
			}
		})
	}
}

func TestParseConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		env  map[string]string
	}{
		{"unknown provider flag", []string{"-provider", "mistral"}, nil},
		{"unknown provider env", nil, map[string]string{"SUKODE_PROVIDER": "nope"}},
		{"unknown task", []string{"-task", "explain"}, nil},
		{"conflicting modes", []string{"-stream", "-no-stream"}, nil},
		{"undefined flag", []string{"-bogus"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseConfig(tt.args, envFrom(tt.env), io.Discard); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestParseConfig_Timeout(t *testing.T) {
	cfg, err := parseConfig([]string{"-timeout", "45s", "-v", "-chat"}, envFrom(nil), io.Discard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.timeout != 45*time.Second || !cfg.verbose || !cfg.chat {
		t.Errorf("cfg = %+v", cfg)
	}
}
