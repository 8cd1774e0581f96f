package main

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cricket-aus/sukode-try/core/client"
	"github.com/cricket-aus/sukode-try/internal/utils"
	"github.com/cricket-aus/sukode-try/providers/ai/openai"
)

const envPrefix = "SUKODE_"

// config is the resolved command line. Flags win over the environment.
type config struct {
	provider openai.ProviderConfig
	apiKey   string
	model    string
	baseURL  string
	task     client.Task
	stream   *bool
	timeout  time.Duration
	chat     bool
	verbose  bool
	prompt   string
}

// parseConfig reads flags from args and falls back to getenv for anything
// not given on the command line.
func parseConfig(args []string, getenv func(string) string, output io.Writer) (*config, error) {
	fs := flag.NewFlagSet("sukode", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {
		fmt.Fprintf(output, "usage: sukode [flags] [prompt...]\n\n")
		fmt.Fprintf(output, "Generates code for a prompt read from the arguments or stdin.\n\n")
		fs.PrintDefaults()
	}

	providerName := fs.String("provider", "", "provider preset: "+strings.Join(openai.PresetNames(), ", ")+" (env SUKODE_PROVIDER)")
	model := fs.String("model", "", "model name (env SUKODE_MODEL)")
	baseURL := fs.String("base-url", "", "override the provider base URL (env SUKODE_BASE_URL)")
	taskName := fs.String("task", "raw", "prompt framing: raw, generate or improve")
	stream := fs.Bool("stream", false, "force the streaming response mode")
	noStream := fs.Bool("no-stream", false, "force the non-streaming response mode")
	timeout := fs.Duration("timeout", 0, "per-request timeout, 0 for none")
	chat := fs.Bool("chat", false, "run an interactive chat session")
	verbose := fs.Bool("v", false, "log provider calls to stderr")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	provider, err := openai.Lookup(utils.FirstNonEmpty(*providerName, getenv(envPrefix+"PROVIDER"), openai.Cerebras.Name))
	if err != nil {
		return nil, err
	}

	task, err := client.ParseTask(*taskName)
	if err != nil {
		return nil, err
	}

	if *stream && *noStream {
		return nil, fmt.Errorf("-stream and -no-stream are mutually exclusive")
	}

	cfg := &config{
		provider: provider,
		apiKey:   strings.TrimSpace(utils.FirstNonEmpty(getenv(envPrefix+"API_KEY"), getenv(apiKeyEnv(provider)))),
		model:    strings.TrimSpace(utils.FirstNonEmpty(*model, getenv(envPrefix+"MODEL"))),
		baseURL:  strings.TrimSpace(utils.FirstNonEmpty(*baseURL, getenv(envPrefix+"BASE_URL"))),
		task:     task,
		timeout:  *timeout,
		chat:     *chat,
		verbose:  *verbose,
		prompt:   strings.Join(fs.Args(), " "),
	}

	switch {
	case *stream:
		cfg.stream = utils.Ptr(true)
	case *noStream:
		cfg.stream = utils.Ptr(false)
	}

	return cfg, nil
}

// apiKeyEnv names the provider's conventional key variable, e.g. OPENAI_API_KEY.
func apiKeyEnv(provider openai.ProviderConfig) string {
	return strings.ToUpper(provider.Name) + "_API_KEY"
}
