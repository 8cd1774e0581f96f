// Command sukode generates code from a natural-language prompt using an
// OpenAI-compatible provider (Cerebras by default).
//
//	sukode -task generate "a Go function that reverses a string"
//	echo "def f(x): return x*2" | sukode -task improve
//	sukode -chat
//
// Keys come from SUKODE_API_KEY or the provider's own variable
// (CEREBRAS_API_KEY, OPENAI_API_KEY). A .env file in the working directory
// is loaded first.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/cricket-aus/sukode-try/core/chat"
	"github.com/cricket-aus/sukode-try/core/client"
	"github.com/cricket-aus/sukode-try/core/client/middleware"
	"github.com/cricket-aus/sukode-try/core/overview"
	"github.com/cricket-aus/sukode-try/providers/ai"
	"github.com/cricket-aus/sukode-try/providers/observability/slogobs"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "sukode: reading .env: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr, os.Getenv)
	stop()
	os.Exit(code)
}

// run executes one invocation and returns the process exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer, getenv func(string) string) int {
	cfg, err := parseConfig(args, getenv, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "sukode: %v\n", err)
		return 2
	}

	observer := newObserver(cfg, stderr, getenv)

	tally := overview.New()
	ctx = tally.ToContext(ctx)
	if cfg.verbose {
		defer func() { fmt.Fprintf(stderr, "sukode: %s\n", tally.Summary()) }()
	}

	c, err := newClient(ctx, cfg, observer, nil)
	if err != nil {
		fmt.Fprintf(stderr, "sukode: %v\n", err)
		return 1
	}

	if cfg.chat {
		transcript := chat.New(ctx, c,
			chat.WithGreeting(chat.Greeting(c.Config().DisplayName)),
			chat.WithTask(cfg.task),
		)
		if err := runChat(ctx, stdin, stdout, c, transcript); err != nil {
			fmt.Fprintf(stderr, "sukode: %v\n", err)
			return 1
		}
		return 0
	}

	prompt := cfg.prompt
	if strings.TrimSpace(prompt) == "" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			fmt.Fprintf(stderr, "sukode: reading prompt: %v\n", err)
			return 1
		}
		prompt = string(data)
	}
	if strings.TrimSpace(prompt) == "" {
		fmt.Fprintln(stderr, "sukode: no prompt given (pass it as arguments or on stdin)")
		return 2
	}

	return generateOnce(ctx, c, cfg, prompt, stdout, stderr)
}

func generateOnce(ctx context.Context, c *client.Client, cfg *config, prompt string, stdout, stderr io.Writer) int {
	code, err := c.GenerateCode(ctx, client.GenerationRequest{Prompt: prompt, Task: cfg.task})

	var truncated *client.TruncatedError
	var authErr *ai.AuthenticationError
	switch {
	case err == nil:
		fmt.Fprintln(stdout, code)
		return 0
	case errors.As(err, &truncated):
		if code != "" {
			fmt.Fprintln(stdout, code)
		}
		fmt.Fprintf(stderr, "sukode: %v\n", err)
		return 1
	default:
		fmt.Fprintf(stderr, "sukode: %v\n", err)
		if errors.As(err, &authErr) {
			fmt.Fprintf(stderr, "set SUKODE_API_KEY or %s\n", apiKeyEnv(c.Config()))
		}
		return 1
	}
}

// newObserver keeps the terminal quiet unless -v or SUKODE_LOG_LEVEL asks
// for more.
func newObserver(cfg *config, stderr io.Writer, getenv func(string) string) *slogobs.Observer {
	level := slog.LevelWarn
	if cfg.verbose {
		level = slog.LevelInfo
	}
	if raw := getenv(envPrefix + "LOG_LEVEL"); raw != "" {
		if parsed, err := slogobs.ParseLogLevel(raw); err == nil {
			level = parsed
		}
	}

	return slogobs.New(
		slogobs.WithOutput(stderr),
		slogobs.WithLevel(level),
		slogobs.WithFormat(slogobs.ParseFormat(getenv(envPrefix+"LOG_FORMAT"))),
	)
}

// newClient builds the client for cfg. extra options are appended last so
// tests can substitute the provider factory.
func newClient(ctx context.Context, cfg *config, observer *slogobs.Observer, extra []client.Option) (*client.Client, error) {
	opts := []client.Option{
		client.WithObserver(observer),
		client.WithBaseURL(cfg.baseURL),
	}
	if cfg.stream != nil {
		opts = append(opts, client.WithStreaming(*cfg.stream))
	}

	var middlewares []client.MiddlewareConfig
	if cfg.timeout > 0 {
		middlewares = append(middlewares, middleware.NewTimeout(cfg.timeout))
	}
	if cfg.verbose {
		middlewares = append(middlewares, middleware.NewLogging(observer.Logger(), middleware.LogLevelStandard))
	}
	if len(middlewares) > 0 {
		opts = append(opts, client.WithMiddleware(middlewares...))
	}
	opts = append(opts, extra...)

	c, err := client.New(cfg.provider, opts...)
	if err != nil {
		return nil, err
	}

	if cfg.apiKey != "" {
		if err := c.SetAPIKey(ctx, cfg.apiKey); err != nil {
			return nil, err
		}
	}
	if cfg.model != "" {
		if err := c.SetModel(ctx, cfg.model); err != nil {
			return nil, err
		}
	}
	return c, nil
}
