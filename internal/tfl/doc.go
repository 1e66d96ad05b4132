// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package tfl provides London Underground line metadata and live status.
//
// Key Types:
//
//   - LineColor / LineInfo: static per-line metadata (official TfL colors,
//     zones, termini). Lookups normalize case and fall back to the Circle
//     line for unrecognized tags, so a lookup never comes back empty.
//   - LineStatus: one line's live status as reported by the TfL API.
//   - Client: HTTP client for the public TfL API with rate limiting.
//   - Store: mutable live-status store shared across the UI.
//   - Cache: sqlite-backed last-known status snapshot for offline display.
//
// Status classification (GetServiceStatus / ClassifyStatus) maps TfL's
// free-text severity descriptions onto four levels: good, minor, severe,
// unknown. Matching is case-insensitive substring, first match wins, and
// "suspended" counts as severe.
package tfl
