// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the TubeChat backend service.
//
// The backend exposes a small REST surface plus a Server-Sent Events stream
// for multi-step queries:
//
//   - GET  /api/health                       liveness probe
//   - GET  /api/info                         service name and version
//   - POST /api/chat                         synchronous chat turn
//   - POST /api/chat/confirm                 resolve a pending confirmation
//   - GET  /api/chat/stream/{threadId|new}   SSE stream of step events
//   - GET  /api/conversations/{threadId}     server-side history fetch
//
// Key Types:
//
//   - Client: thread-safe HTTP client with a fixed request timeout
//   - ClientError: typed error with an ErrorType for handling decisions
//   - ChatResponse: validated response payload of a chat turn
//   - StreamEvent: one decoded SSE payload (step progress, error, or done)
//
// Usage:
//
//	client := api.NewClient()
//	resp, err := client.SendMessage(ctx, "Is the Victoria line running?", threadID)
//	if api.IsConnection(err) {
//	    // backend unreachable, surface the generic connectivity message
//	}
//
// Non-streaming calls are bounded by the configured timeout (default 30s).
// Streaming connections have no timeout of their own and run until the
// server sends a done event, an error occurs, or the context is cancelled.
package api
