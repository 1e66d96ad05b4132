// tubechat - a terminal client for the London Underground assistant.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/tubechat/internal/api"
	"github.com/morganforge/tubechat/internal/cli"
	"github.com/morganforge/tubechat/internal/config"
	"github.com/morganforge/tubechat/internal/controller"
	"github.com/morganforge/tubechat/internal/model"
	"github.com/morganforge/tubechat/internal/storage"
	"github.com/morganforge/tubechat/internal/tfl"
	"github.com/morganforge/tubechat/internal/ui/chat"
	"github.com/morganforge/tubechat/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	initLogging()

	args, err := cli.ParseArgs(os.Args[1:])
	if err != nil {
		cli.Fatal(err)
	}

	if args.Command == cli.CmdTUI {
		if err := runTUI(args); err != nil {
			cli.Fatal(err)
		}
		return
	}

	if err := cli.Run(args); err != nil {
		cli.Fatal(err)
	}
}

// initLogging routes slog to stderr. Tool output on stdout stays clean;
// TUBECHAT_DEBUG=1 raises the level for troubleshooting.
func initLogging() {
	level := slog.LevelWarn
	if os.Getenv("TUBECHAT_DEBUG") != "" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}

// runTUI wires the full application and hands control to Bubble Tea.
func runTUI(args *cli.Args) error {
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

	restoreConversation(store, snapshots, cfg)

	// Persist after every store mutation. Failures are logged, not fatal;
	// the conversation keeps working without disk.
	store.SetChangeHook(func(snap model.Snapshot) {
		if snap.ThreadID == "" {
			return
		}
		if err := snapshots.Save(snap); err != nil {
			slog.Warn("snapshot save failed", "thread", snap.ThreadID, "error", err)
		}
	})

	ctrl := controller.New(store, client,
		controller.WithStreamingMode(args.Stream || cfg.Chat.StreamingMode))

	// Hot-reload streaming mode when the config file changes on disk.
	watcher, err := startConfigWatcher(ctrl)
	if err != nil {
		slog.Warn("config watcher disabled", "error", err)
	} else if watcher != nil {
		defer watcher.Close()
	}

	// Line statuses refresh in the background and feed the header summary.
	transit := tfl.NewStore()
	refresher := tfl.NewRefresher(
		tfl.NewClientWithConfig(&tfl.ClientConfig{BaseURL: cfg.TFL.BaseURL}),
		transit,
		time.Duration(cfg.TFL.RefreshSecs)*time.Second,
	)
	refresher.Start(context.Background())
	defer refresher.Stop()

	program := tea.NewProgram(
		chat.New(ctrl, store, transit, styles.NewThemeForMode(cfg.UI.Theme), chat.Options{
			ShowSteps: cfg.UI.ShowSteps,
			Compact:   cfg.UI.CompactMode,
		}),
		tea.WithAltScreen(),
	)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

// restoreConversation resumes the most recent snapshot when it is still
// inside the configured restore window. An explicit thread argument would
// be handled by the chat command; the TUI always resumes the latest.
func restoreConversation(store *model.Store, snapshots *storage.SnapshotStore, cfg *config.Config) {
	if !store.IsEmpty() {
		return
	}
	window := time.Duration(cfg.Storage.RestoreWindowMins) * time.Minute
	snap, ok, err := snapshots.LoadLatest(window)
	if err != nil {
		slog.Warn("conversation restore failed", "error", err)
		return
	}
	if !ok {
		return
	}
	store.SetMessages(snap.Messages)
	store.SetThreadID(snap.ThreadID)
	store.SetActiveAgent(snap.ActiveAgent)
}

// startConfigWatcher reloads chat settings when ~/.tubechat/config.toml
// changes. Missing config file is fine; the watcher only starts when the
// file exists.
func startConfigWatcher(ctrl *controller.Controller) (*config.Watcher, error) {
	path, err := config.ConfigPath()
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		return nil, nil
	}

	watcher, err := config.NewWatcher(path, func(cfg *config.Config) {
		ctrl.SetStreamingMode(cfg.Chat.StreamingMode)
		slog.Info("config reloaded", "streaming", cfg.Chat.StreamingMode)
	})
	if err != nil {
		return nil, err
	}
	if err := watcher.Watch(); err != nil {
		watcher.Close()
		return nil, err
	}
	return watcher, nil
}
