// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - Single query command handler for tubechat.
//
// Handles the "tubechat ask" command which sends one question to the chat
// backend and prints the answer.
//
// Examples:
//   tubechat ask "Is the Central line running?"
//   tubechat ask --stream "Plan a journey from Paddington to Westminster"
//   tubechat ask --json "Which lines have delays?"
package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/morganforge/tubechat/internal/api"
	"github.com/morganforge/tubechat/internal/config"
	"github.com/morganforge/tubechat/internal/router"
	"github.com/morganforge/tubechat/internal/ui/styles"
)

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// markdownRenderer is the shared glamour renderer for answer output.
var markdownRenderer *glamour.TermRenderer

func init() {
	var err error
	markdownRenderer, err = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		markdownRenderer = nil
	}
}

// renderMarkdown renders markdown for terminal display, falling back to
// the raw content when the renderer is unavailable.
func renderMarkdown(content string) string {
	if markdownRenderer == nil {
		return content
	}
	rendered, err := markdownRenderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// displayAnswer prints a response, rendering markdown only on a TTY so
// piped output stays plain.
func displayAnswer(response string) {
	if IsStdoutTTY() {
		fmt.Print(renderMarkdown(response))
	} else {
		fmt.Println(response)
	}
}

var (
	stepStyle  = lipgloss.NewStyle().Foreground(styles.TextMuted)
	agentStyle = lipgloss.NewStyle().Foreground(styles.RoundelBlue).Bold(true)
)

// =============================================================================
// ASK COMMAND
// =============================================================================

// runAsk sends a single question and prints the answer. Journey-style
// questions (or --stream) use the streaming endpoint with step progress on
// stderr; everything else is a single round trip.
func runAsk(args *Args) error {
	if strings.TrimSpace(args.Query) == "" {
		return fmt.Errorf("ask requires a question, e.g. tubechat ask \"Is the Victoria line ok?\"")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	client := api.NewClientWithConfig(&api.ClientConfig{
		BaseURL: cfg.API.BaseURL,
		Timeout: time.Duration(cfg.API.TimeoutSecs) * time.Second,
	})

	ctx := context.Background()

	if router.ClassifyDelivery(args.Query, args.Stream || cfg.Chat.StreamingMode) == router.DeliveryStream {
		if answered, err := askStreaming(ctx, client, args, cfg.UI.ShowSteps); answered {
			return err
		}
		// Fall through to a plain request when the stream yields nothing.
	}

	resp, err := client.SendMessage(ctx, args.Query, args.ThreadID)
	if err != nil {
		return err
	}
	return printAnswer(args, client, resp)
}

// askStreaming runs the streaming request. The returned bool reports
// whether a final answer was printed; false means the caller should retry
// synchronously.
func askStreaming(ctx context.Context, client *api.Client, args *Args, showSteps bool) (bool, error) {
	answered := false
	err := client.StreamMessage(ctx, args.Query, args.ThreadID, nil, func(ev api.StreamEvent) {
		switch {
		case ev.Error || ev.Done:
			// Terminal events carry no printable payload.
		case ev.Step == api.StepFinalizeResponse && ev.PartialResponse != "":
			if !args.Quiet && IsStderrTTY() {
				fmt.Fprintln(os.Stderr)
			}
			displayAnswer(ev.PartialResponse)
			answered = true
		case showSteps && !args.Quiet && IsStderrTTY():
			line := stepStyle.Render("... " + api.StepLabel(ev.Step))
			if ev.Agent != "" {
				line += " " + agentStyle.Render(ev.Agent)
			}
			fmt.Fprintln(os.Stderr, line)
		}
	})
	if err != nil {
		return false, nil
	}
	return answered, nil
}

func printAnswer(args *Args, client *api.Client, resp *api.ChatResponse) error {
	if args.JSON {
		return json.NewEncoder(os.Stdout).Encode(resp)
	}

	if resp.Agent != "" && !args.Quiet {
		fmt.Println(styles.AgentBadge(resp.Agent))
	}
	displayAnswer(resp.Response)

	if resp.RequiresConfirmation {
		return confirmInteractive(client, resp, args.Query)
	}
	return nil
}

// confirmInteractive prompts for a y/n decision on the terminal and relays
// it to the backend. Non-interactive runs decline silently, since there is
// nobody to ask.
func confirmInteractive(client *api.Client, resp *api.ChatResponse, query string) error {
	prompt := resp.ConfirmationMessage
	if prompt == "" {
		prompt = "Proceed?"
	}

	if !IsStdinTTY() {
		fmt.Println(stepStyle.Render("(confirmation required - run interactively to answer)"))
		return nil
	}

	fmt.Printf("%s [y/N] ", prompt)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return err
	}
	confirmed := strings.HasPrefix(strings.ToLower(strings.TrimSpace(answer)), "y")

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	followup, err := client.SendConfirmation(ctx, query, resp.ThreadID, confirmed, nil)
	if err != nil {
		return err
	}
	displayAnswer(followup.Response)
	return nil
}
