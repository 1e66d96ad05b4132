// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package controller orchestrates chat submission for tubechat.
//
// The Controller sits between the input surfaces (TUI, CLI REPL) and the
// backend client. One submission is in flight at a time. Each submit:
//
//  1. Rejects empty input and input while a send is in flight.
//  2. Optimistically appends the user message and raises the busy flags.
//  3. Classifies the query: streaming mode on, or a multi-step keyword
//     match, selects the streaming path; everything else goes sync.
//  4. Streaming path: consumes step events, appends the finalize step's
//     partial response as a streaming-flagged assistant message, and on
//     any stream error falls back to exactly one sync request with the
//     same text.
//  5. Sync path: a confirmation-required response is recorded as the one
//     pending confirmation and appended without auto-proceeding; normal
//     responses append directly.
//  6. Failures append a fixed apology message flagged as an error and set
//     the store error; nothing is fatal.
//  7. All terminal paths clear the busy flags and streaming markers.
//
// Key Types:
//
//   - Controller: the submission orchestrator
//   - PendingConfirmation: the at-most-one outstanding confirmation
//   - Event: progress notifications consumed by the UI event loop
//
// External message injection (quick-reply buttons, deep links) goes
// through Inject, which feeds the same submit path; the composition root
// registers the controller as the handler instead of anything global.
package controller
