package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cricket-aus/sukode-try/core/chat"
	"github.com/cricket-aus/sukode-try/core/overview"
	"github.com/cricket-aus/sukode-try/providers/ai"
)

// sessionControl is the part of the client the chat commands drive.
type sessionControl interface {
	SetAPIKey(ctx context.Context, key string) error
	SetModel(ctx context.Context, model string) error
	Model(ctx context.Context) string
}

const chatHelp = `Commands:
  /key <key>     set the API key for this session
  /model [name]  show or select the model
  /clear         clear the conversation
  /usage         show token usage for this session
  /quit          leave
Anything else is sent as a prompt.`

// runChat reads one line per turn from in until EOF, /quit, or ctx is done.
func runChat(ctx context.Context, in io.Reader, out io.Writer, session sessionControl, transcript *chat.Transcript) error {
	if greeting, ok := transcript.Last(ctx); ok {
		fmt.Fprintf(out, "%s\n%s\n\n", greeting.Content, chatHelp)
	}

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return nil
		}

		line := scanner.Text()
		command, argument, _ := strings.Cut(strings.TrimSpace(line), " ")

		switch command {
		case "/quit", "/exit":
			return nil

		case "/clear":
			transcript.Clear(ctx)
			if last, ok := transcript.Last(ctx); ok {
				fmt.Fprintln(out, last.Content)
			}

		case "/key":
			key := strings.TrimSpace(argument)
			if key == "" {
				fmt.Fprintln(out, "Please enter an API key")
				continue
			}
			if err := session.SetAPIKey(ctx, key); err != nil {
				fmt.Fprintf(out, "Could not save the API key: %v\n", err)
				continue
			}
			fmt.Fprintln(out, "API key saved.")

		case "/model":
			model := strings.TrimSpace(argument)
			if model != "" {
				if err := session.SetModel(ctx, model); err != nil {
					fmt.Fprintf(out, "Could not save the model: %v\n", err)
					continue
				}
			}
			fmt.Fprintf(out, "Model: %s\n", session.Model(ctx))

		case "/usage":
			if tally := overview.FromContext(ctx); tally != nil {
				fmt.Fprintln(out, tally.Summary())
			}

		case "/help":
			fmt.Fprintln(out, chatHelp)

		default:
			reply, err := transcript.Send(ctx, line)
			if reply.Content != "" {
				fmt.Fprintln(out, reply.Content)
			}
			var authErr *ai.AuthenticationError
			if errors.As(err, &authErr) {
				fmt.Fprintln(out, "Use /key <your key> to set one.")
			}
		}
	}
}
