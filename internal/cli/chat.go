// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive terminal chat (non-TUI) for tubechat.
//
// USABILITY: liner provides readline-like editing and arrow-key history.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"

	"github.com/morganforge/tubechat/internal/api"
	"github.com/morganforge/tubechat/internal/config"
	"github.com/morganforge/tubechat/internal/controller"
	"github.com/morganforge/tubechat/internal/model"
	"github.com/morganforge/tubechat/internal/storage"
	"github.com/morganforge/tubechat/internal/ui/styles"
)

var (
	promptStyle  = lipgloss.NewStyle().Foreground(styles.RoundelBlue).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(styles.Rose).Bold(true)
	confirmStyle = lipgloss.NewStyle().Foreground(styles.Amber).Bold(true)
	restoreStyle = lipgloss.NewStyle().Foreground(styles.TextMuted).Italic(true)
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// ChatCLI provides input history and line editing for interactive chat.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a ChatCLI with history persisted in the config dir.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}

	cli := &ChatCLI{
		line:        line,
		historyFile: filepath.Join(configDir, "chat_history"),
	}
	cli.LoadHistory()
	return cli
}

// LoadHistory loads command history from file.
func (c *ChatCLI) LoadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads one line with history navigation.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// SaveHistory persists history with owner-only permissions.
func (c *ChatCLI) SaveHistory() {
	if err := config.EnsureConfigDir(); err != nil {
		return
	}
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	c.line.WriteHistory(f)
}

// Close saves history and closes the liner.
func (c *ChatCLI) Close() {
	c.SaveHistory()
	c.line.Close()
}

// =============================================================================
// CHAT COMMAND
// =============================================================================

// runChat runs the terminal REPL against the chat backend.
func runChat(args *Args) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	client := api.NewClientWithConfig(&api.ClientConfig{
		BaseURL: cfg.API.BaseURL,
		Timeout: time.Duration(cfg.API.TimeoutSecs) * time.Second,
	})

	store := model.NewStore()
	snapshotDir, err := cfg.SnapshotDir()
	if err != nil {
		return err
	}
	snapshots, err := storage.NewSnapshotStoreWithDir(snapshotDir)
	if err != nil {
		return err
	}

	restoreSession(store, snapshots, args, cfg)

	// Persist the conversation after every mutation.
	store.SetChangeHook(func(snap model.Snapshot) {
		if snap.ThreadID == "" {
			return
		}
		if err := snapshots.Save(snap); err != nil {
			fmt.Fprintln(os.Stderr, errorStyle.Render("[save failed] ")+err.Error())
		}
	})

	ctrl := controller.New(store, client,
		controller.WithStreamingMode(args.Stream || cfg.Chat.StreamingMode))

	// Step progress goes to stderr so answers stay pipe-clean on stdout.
	go func() {
		for ev := range ctrl.Events() {
			if ev.Type == controller.EventStepProgress && cfg.UI.ShowSteps && !args.Quiet && IsStderrTTY() {
				fmt.Fprintln(os.Stderr, stepStyle.Render("... "+api.StepLabel(ev.Step)))
			}
		}
	}()

	input := NewChatCLI()
	defer input.Close()

	if !args.Quiet {
		fmt.Println("tubechat - ask about lines, journeys, and disruptions. /help for commands.")
	}

	ctx := context.Background()
	for {
		text, err := input.ReadInput(promptStyle.Render("tube> "))
		if err != nil {
			// Ctrl+C (liner.ErrPromptAborted) or Ctrl+D both end the session.
			fmt.Println()
			return nil
		}

		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		if strings.HasPrefix(text, "/") {
			if quit := handleSlashCommand(text, store, snapshots); quit {
				return nil
			}
			continue
		}

		lastCount := store.MessageCount()
		ctrl.Submit(ctx, text)
		printNewMessages(store, lastCount)

		for ctrl.Pending() != nil {
			if !promptConfirmation(ctx, ctrl, store, input) {
				break
			}
		}
	}
}

// restoreSession reloads a previous conversation: an explicit --thread
// wins, otherwise the newest snapshot inside the restore window.
func restoreSession(store *model.Store, snapshots *storage.SnapshotStore, args *Args, cfg *config.Config) {
	if args.ThreadID != "" {
		snap, err := snapshots.Load(args.ThreadID)
		if err != nil {
			fmt.Fprintln(os.Stderr, errorStyle.Render("[restore failed] ")+err.Error())
			return
		}
		applySnapshot(store, snap)
		return
	}

	window := time.Duration(cfg.Storage.RestoreWindowMins) * time.Minute
	snap, ok, err := snapshots.LoadLatest(window)
	if err != nil || !ok {
		return
	}
	applySnapshot(store, snap)
	fmt.Println(restoreStyle.Render(
		fmt.Sprintf("Restored conversation from %s (%d messages)",
			snap.Timestamp.Format("15:04"), len(snap.Messages))))
}

func applySnapshot(store *model.Store, snap model.Snapshot) {
	store.SetMessages(snap.Messages)
	store.SetThreadID(snap.ThreadID)
	store.SetActiveAgent(snap.ActiveAgent)
}

// printNewMessages displays assistant output appended since the submit.
func printNewMessages(store *model.Store, since int) {
	for _, msg := range store.Messages()[since:] {
		switch {
		case msg.Role != model.RoleAssistant:
			// The user already typed it.
		case msg.IsError:
			fmt.Println(errorStyle.Render(msg.Content))
		default:
			if msg.Agent != "" {
				fmt.Println(styles.AgentBadge(msg.Agent))
			}
			displayAnswer(msg.Content)
		}
	}
}

// promptConfirmation asks the user to resolve the pending confirmation.
// Returns false when the user aborts the prompt.
func promptConfirmation(ctx context.Context, ctrl *controller.Controller, store *model.Store, input *ChatCLI) bool {
	pending := ctrl.Pending()
	if pending == nil {
		return false
	}
	prompt := pending.Prompt
	if prompt == "" {
		prompt = "Proceed?"
	}

	answer, err := input.ReadInput(confirmStyle.Render(prompt + " [y/n] "))
	if err != nil {
		return false
	}

	confirmed := strings.HasPrefix(strings.ToLower(strings.TrimSpace(answer)), "y")
	lastCount := store.MessageCount()
	ctrl.ResolveConfirmation(ctx, confirmed)
	printNewMessages(store, lastCount)

	// A retained pending record means the backend call failed; let the
	// user decide whether to retry on the next loop iteration.
	return ctrl.Pending() == nil
}

// handleSlashCommand executes a /command. Returns true to quit.
func handleSlashCommand(text string, store *model.Store, snapshots *storage.SnapshotStore) bool {
	switch strings.Fields(text)[0] {
	case "/quit", "/exit", "/q":
		return true

	case "/clear":
		store.Clear()
		fmt.Println(restoreStyle.Render("Conversation cleared."))

	case "/sessions":
		metas, err := snapshots.List()
		if err != nil {
			fmt.Fprintln(os.Stderr, errorStyle.Render("[error] ")+err.Error())
			break
		}
		printSessionList(metas)

	case "/agent":
		if agent := store.ActiveAgent(); agent != "" {
			fmt.Println(styles.AgentBadge(agent))
		} else {
			fmt.Println(restoreStyle.Render("No agent has answered yet."))
		}

	case "/help":
		fmt.Println(`Commands:
  /clear      Clear the current conversation
  /sessions   List saved conversations
  /agent      Show the active agent
  /quit       Exit`)

	default:
		fmt.Println(restoreStyle.Render("Unknown command. /help lists commands."))
	}
	return false
}
