// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"testing"
	"time"
)

func TestParseArgsDefaultsToTUI(t *testing.T) {
	args, err := ParseArgs(nil)
	if err != nil {
		t.Fatalf("ParseArgs: %v", err)
	}
	if args.Command != CmdTUI {
		t.Errorf("Command = %v, want CmdTUI", args.Command)
	}
}

func TestParseArgsCommands(t *testing.T) {
	tests := []struct {
		name string
		argv []string
		want Command
	}{
		{"ask", []string{"ask", "hello"}, CmdAsk},
		{"chat", []string{"chat"}, CmdChat},
		{"status", []string{"status"}, CmdStatus},
		{"status alias", []string{"s"}, CmdStatus},
		{"line", []string{"line", "victoria"}, CmdLine},
		{"sessions", []string{"sessions"}, CmdSessions},
		{"session singular", []string{"session", "list"}, CmdSessions},
		{"config", []string{"config", "show"}, CmdConfig},
		{"version", []string{"version"}, CmdVersion},
		{"help", []string{"--help"}, CmdHelp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args, err := ParseArgs(tt.argv)
			if err != nil {
				t.Fatalf("ParseArgs(%v): %v", tt.argv, err)
			}
			if args.Command != tt.want {
				t.Errorf("Command = %v, want %v", args.Command, tt.want)
			}
		})
	}
}

func TestParseArgsAskJoinsQuery(t *testing.T) {
	args, err := ParseArgs([]string{"ask", "Plan", "a", "journey"})
	if err != nil {
		t.Fatalf("ParseArgs: %v", err)
	}
	if args.Query != "Plan a journey" {
		t.Errorf("Query = %q", args.Query)
	}
}

func TestParseArgsFlags(t *testing.T) {
	args, err := ParseArgs([]string{"--json", "--stream", "-q", "ask", "hi", "--thread", "t-1"})
	if err != nil {
		t.Fatalf("ParseArgs: %v", err)
	}
	if !args.JSON || !args.Stream || !args.Quiet {
		t.Errorf("flags = %+v", args)
	}
	if args.ThreadID != "t-1" {
		t.Errorf("ThreadID = %q", args.ThreadID)
	}
}

func TestParseArgsConfigSet(t *testing.T) {
	args, err := ParseArgs([]string{"config", "set", "ui.theme", "light"})
	if err != nil {
		t.Fatalf("ParseArgs: %v", err)
	}
	if args.Subcommand != "set" || args.ConfigKey != "ui.theme" || args.ConfigVal != "light" {
		t.Errorf("parsed = %+v", args)
	}
}

func TestParseArgsErrors(t *testing.T) {
	tests := [][]string{
		{"--bogus"},
		{"frobnicate"},
		{"line"},
		{"--thread"},
	}
	for _, argv := range tests {
		if _, err := ParseArgs(argv); err == nil {
			t.Errorf("ParseArgs(%v): want error", argv)
		}
	}
}

func TestFormatAge(t *testing.T) {
	tests := []struct {
		age  time.Duration
		want string
	}{
		{30 * time.Second, "just now"},
		{5 * time.Minute, "5m ago"},
		{3 * time.Hour, "3h ago"},
		{48 * time.Hour, "2d ago"},
	}
	for _, tt := range tests {
		if got := formatAge(tt.age); got != tt.want {
			t.Errorf("formatAge(%v) = %q, want %q", tt.age, got, tt.want)
		}
	}
}
