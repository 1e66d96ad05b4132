// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package router

import "strings"

// ============================================================================
// DELIVERY MODE
// ============================================================================

// DeliveryMode is how a query should be sent to the backend.
type DeliveryMode int

const (
	// DeliverySync issues a single request/response call.
	DeliverySync DeliveryMode = iota
	// DeliveryStream opens a server-push connection with step progress.
	DeliveryStream
)

// String returns the human-readable name of the delivery mode.
func (m DeliveryMode) String() string {
	switch m {
	case DeliverySync:
		return "sync"
	case DeliveryStream:
		return "stream"
	default:
		return "unknown"
	}
}

// ============================================================================
// CLASSIFICATION
// ============================================================================

// streamKeywords mark queries that fan out across the backend's multi-step
// pipeline. Grouped by intent: journey planning, comparisons, and
// network-wide status. Matching is substring over the lowercased query,
// so single-line status questions must not collide with any entry.
var streamKeywords = []string{
	// Journey planning
	"journey",
	"plan a",
	"plan my",
	"route from",
	"how do i get",
	"how to get",
	"get me to",
	"travel from",
	"travel to",

	// Comparisons
	"compare",
	"versus",
	" vs ",
	"fastest way",
	"quickest way",
	"best way",

	// Network-wide status
	"all lines",
	"every line",
	"whole network",
	"entire network",
	"network status",
	"any disruptions",
	"disruptions today",
}

// ClassifyDelivery decides whether a query should use the streaming path.
// A query streams when the user has streaming mode toggled on, or when the
// text matches the multi-step keyword set.
func ClassifyDelivery(query string, streamingMode bool) DeliveryMode {
	if streamingMode {
		return DeliveryStream
	}
	if MatchesStreamKeyword(query) {
		return DeliveryStream
	}
	return DeliverySync
}

// MatchesStreamKeyword reports whether the query text alone marks it as a
// multi-step query.
func MatchesStreamKeyword(query string) bool {
	q := strings.ToLower(query)
	for _, kw := range streamKeywords {
		if strings.Contains(q, kw) {
			return true
		}
	}
	return false
}
