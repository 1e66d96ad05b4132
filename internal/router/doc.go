// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package router classifies user queries for delivery-mode dispatch.
//
// Multi-step queries (journey planning, line comparisons, network-wide
// status) benefit from the backend's streaming pipeline, which reports
// per-step progress. Single-fact queries get a faster synchronous turn.
// The classification is a keyword heuristic over the raw query text, kept
// as a pure function so the rules can be tested without any transport.
//
// The heuristic is a dispatch hint, not a guarantee: the backend may still
// answer a streamed query with a non-streaming-shaped payload.
package router
