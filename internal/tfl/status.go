// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tfl

import "strings"

// =============================================================================
// STATUS CLASSIFICATION
// =============================================================================

// StatusLevel buckets TfL's free-text severity descriptions for display.
type StatusLevel string

const (
	StatusGood    StatusLevel = "good"
	StatusMinor   StatusLevel = "minor"
	StatusSevere  StatusLevel = "severe"
	StatusUnknown StatusLevel = "unknown"
)

// ServiceStatus is a classified status with its display text.
type ServiceStatus struct {
	Level StatusLevel
	Text  string
}

// ClassifyStatus maps a severity description onto a status level.
// Matching is case-insensitive substring, first match wins; a suspended
// service classifies as severe. Unrecognized descriptions keep their
// lowercased text under the unknown level.
func ClassifyStatus(description string) ServiceStatus {
	if description == "" {
		return ServiceStatus{Level: StatusUnknown, Text: "Unknown"}
	}

	desc := strings.ToLower(description)

	switch {
	case strings.Contains(desc, "good"):
		return ServiceStatus{Level: StatusGood, Text: "Good Service"}
	case strings.Contains(desc, "minor"):
		return ServiceStatus{Level: StatusMinor, Text: "Minor Delays"}
	case strings.Contains(desc, "severe"):
		return ServiceStatus{Level: StatusSevere, Text: "Severe Delays"}
	case strings.Contains(desc, "suspended"):
		return ServiceStatus{Level: StatusSevere, Text: "Service Suspended"}
	default:
		return ServiceStatus{Level: StatusUnknown, Text: desc}
	}
}
