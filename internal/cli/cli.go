// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command handlers for tubechat.
package cli

import (
	"fmt"
	"os"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdStatus
	CmdLine
	CmdSessions
	CmdConfig
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	Command Command

	// Global flags
	Quiet   bool
	Verbose bool
	JSON    bool
	Stream  bool

	// Command-specific
	Query      string
	Subcommand string
	ConfigKey  string
	ConfigVal  string
	LineTag    string
	ThreadID   string

	// Raw args remaining after flag parsing
	Raw []string
}

const usageText = `tubechat - London Underground assistant for the terminal

Tubechat talks to a multi-agent transit backend and the TfL open API.

Usage:
  tubechat                    Start the chat TUI (default)
  tubechat ask "question"     Ask a single question
  tubechat chat               Interactive chat in the terminal (no TUI)
  tubechat status             Tube line status board
  tubechat line <tag>         Status and facts for a single line
  tubechat sessions [list|clear|delete <id>]
                              Saved conversation management
  tubechat config [show|get <key>|set <key> <value>|path]
                              Configuration
  tubechat version            Version information

Flags:
  --json          Machine-readable output
  --stream        Force streaming delivery for ask/chat
  --thread ID     Continue an existing conversation
  -q, --quiet     Minimal output
  -v, --verbose   Verbose output
  -h, --help      Show this help

Examples:
  tubechat status
  tubechat line victoria
  tubechat ask "Plan a journey from Paddington to Westminster"
  tubechat config set chat.streaming_mode true
`

// ParseArgs parses os.Args style input into an Args struct.
func ParseArgs(argv []string) (*Args, error) {
	args := &Args{Command: CmdTUI}

	var positional []string
	for i := 0; i < len(argv); i++ {
		arg := argv[i]
		switch arg {
		case "-h", "--help", "help":
			args.Command = CmdHelp
			return args, nil
		case "-q", "--quiet":
			args.Quiet = true
		case "-v", "--verbose":
			args.Verbose = true
		case "--json":
			args.JSON = true
		case "--stream":
			args.Stream = true
		case "--thread":
			if i+1 >= len(argv) {
				return nil, fmt.Errorf("--thread requires a value")
			}
			args.ThreadID = argv[i+1]
			i++
		default:
			if strings.HasPrefix(arg, "-") {
				return nil, fmt.Errorf("unknown flag: %s", arg)
			}
			positional = append(positional, arg)
		}
	}

	if len(positional) == 0 {
		return args, nil
	}

	cmd, rest := positional[0], positional[1:]
	args.Raw = rest

	switch cmd {
	case "ask":
		args.Command = CmdAsk
		args.Query = strings.Join(rest, " ")
	case "chat":
		args.Command = CmdChat
	case "status", "s":
		args.Command = CmdStatus
	case "line":
		args.Command = CmdLine
		if len(rest) == 0 {
			return nil, fmt.Errorf("line requires a line tag, e.g. tubechat line victoria")
		}
		args.LineTag = rest[0]
	case "session", "sessions":
		args.Command = CmdSessions
		if len(rest) > 0 {
			args.Subcommand = rest[0]
			args.Raw = rest[1:]
		}
	case "config":
		args.Command = CmdConfig
		if len(rest) > 0 {
			args.Subcommand = rest[0]
		}
		if len(rest) > 1 {
			args.ConfigKey = rest[1]
		}
		if len(rest) > 2 {
			args.ConfigVal = strings.Join(rest[2:], " ")
		}
	case "version":
		args.Command = CmdVersion
	default:
		return nil, fmt.Errorf("unknown command: %s (try tubechat --help)", cmd)
	}

	return args, nil
}

// Run dispatches a parsed command. CmdTUI is handled by the caller, which
// owns the Bubble Tea program.
func Run(args *Args) error {
	switch args.Command {
	case CmdHelp:
		fmt.Print(usageText)
		return nil
	case CmdVersion:
		return runVersion(args)
	case CmdStatus:
		return runStatus(args)
	case CmdLine:
		return runLine(args)
	case CmdAsk:
		return runAsk(args)
	case CmdChat:
		return runChat(args)
	case CmdSessions:
		return runSessions(args)
	case CmdConfig:
		return runConfig(args)
	default:
		return fmt.Errorf("command not handled here")
	}
}

func runVersion(args *Args) error {
	if args.JSON {
		fmt.Printf("{\"version\":%q,\"commit\":%q,\"built\":%q}\n", Version, GitCommit, BuildDate)
		return nil
	}
	fmt.Printf("tubechat %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
	return nil
}

// Fatal prints an error and exits with status 1.
func Fatal(err error) {
	fmt.Fprintln(os.Stderr, "tubechat:", err)
	os.Exit(1)
}
