// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements tubechat's command-line surface.
//
// Commands:
//   - ask: one-shot question with markdown-rendered answer
//   - chat: line-oriented REPL with history (no TUI)
//   - status / line: TfL service boards with cached fallback
//   - sessions: saved conversation management
//   - config: read and edit the TOML configuration
//
// The default command (no arguments) is the Bubble Tea TUI, which the
// main package launches itself; everything else dispatches through Run.
//
// Output discipline: answers go to stdout, progress and diagnostics to
// stderr, and color/markdown only when the stream is a TTY.
package cli
