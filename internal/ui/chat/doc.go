// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the interactive Bubble Tea interface for tubechat.
//
// The model renders the conversation transcript in a scrollable viewport,
// a single-line input field, and a status bar. While a turn is in flight it
// shows a spinner with the backend's pipeline step labels; when the backend
// asks for confirmation it swaps the input for a yes/no prompt.
//
// Key Types:
//   - Model: the Bubble Tea model; create with New and run under tea.NewProgram
//
// The model owns no conversation logic. Submissions go through
// controller.Controller, state lives in model.Store, and the view re-reads
// the store on every frame.
package chat
