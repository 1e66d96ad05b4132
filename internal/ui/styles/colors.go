// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the tubechat TUI.
// All colors use Lip Gloss AdaptiveColor for automatic light/dark detection,
// except the official line liveries, which are fixed brand colors served by
// the tfl package.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/morganforge/tubechat/internal/tfl"
)

// =============================================================================
// PRIMARY ACCENT COLORS
// =============================================================================

// RoundelBlue - Brand accent, header, user highlights
var RoundelBlue = lipgloss.AdaptiveColor{Light: "#000F9F", Dark: "#4D6FFF"}

// RoundelRed - Secondary accent, the bar of the roundel
var RoundelRed = lipgloss.AdaptiveColor{Light: "#DC241F", Dark: "#F05B57"}

// Emerald - Good service
var Emerald = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}

// Amber - Minor delays, warnings
var Amber = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}

// Rose - Severe delays, suspensions, errors
var Rose = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}

// =============================================================================
// SURFACE COLORS
// =============================================================================

// Surface - Main background
var Surface = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1E1E2E"}

// SurfaceDim - Slightly darker/lighter surface for headers/footers
var SurfaceDim = lipgloss.AdaptiveColor{Light: "#F5F5F5", Dark: "#181825"}

// Overlay - Borders, separators
var Overlay = lipgloss.AdaptiveColor{Light: "#E5E5E5", Dark: "#313244"}

// =============================================================================
// TEXT COLORS
// =============================================================================

// TextPrimary - Main body text
var TextPrimary = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#CDD6F4"}

// TextSecondary - Labels, less prominent text
var TextSecondary = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#A6ADC8"}

// TextMuted - Hints, timestamps
var TextMuted = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6C7086"}

// TextInverse - Text on colored backgrounds
var TextInverse = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1E1E2E"}

// =============================================================================
// MESSAGE BUBBLE COLORS
// =============================================================================

// User message bubble - Blue tones
var UserBubbleBg = lipgloss.AdaptiveColor{Light: "#DBEAFE", Dark: "#1D4ED8"}
var UserBubbleFg = lipgloss.AdaptiveColor{Light: "#1E40AF", Dark: "#E0F2FE"}
var UserBubbleBorder = lipgloss.AdaptiveColor{Light: "#3B82F6", Dark: "#3B82F6"}

// Assistant message bubble - Neutral surface, the agent badge carries the color
var AssistantBubbleBg = lipgloss.AdaptiveColor{Light: "#F8FAFC", Dark: "#2A2A3C"}
var AssistantBubbleFg = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#E2E8F0"}
var AssistantBubbleBorder = lipgloss.AdaptiveColor{Light: "#CBD5E1", Dark: "#475569"}

// Error bubble - Rose tones for apology messages
var ErrorBubbleBg = lipgloss.AdaptiveColor{Light: "#FEE2E2", Dark: "#881337"}
var ErrorBubbleFg = lipgloss.AdaptiveColor{Light: "#991B1B", Dark: "#FECACA"}

// =============================================================================
// SERVICE STATUS COLORS
// =============================================================================

// StatusColor returns the foreground color for a classified service level.
func StatusColor(level tfl.StatusLevel) lipgloss.AdaptiveColor {
	switch level {
	case tfl.StatusGood:
		return Emerald
	case tfl.StatusMinor:
		return Amber
	case tfl.StatusSevere:
		return Rose
	default:
		return TextMuted
	}
}

// StatusGlyph returns an ASCII indicator for a service level. Shapes carry
// the signal for colorblind users alongside color.
func StatusGlyph(level tfl.StatusLevel) string {
	switch level {
	case tfl.StatusGood:
		return "[OK]"
	case tfl.StatusMinor:
		return "[!]"
	case tfl.StatusSevere:
		return "[X]"
	default:
		return "[?]"
	}
}

// =============================================================================
// LINE LIVERY
// =============================================================================

// LineSwatch returns a style painted with a line's official livery: the
// line's primary color as background and a readable foreground on top.
// Unknown tags inherit the Circle line livery, same as tfl.GetLineColor.
func LineSwatch(tag string) lipgloss.Style {
	color := tfl.GetLineColor(tag)
	fg := "#FFFFFF"
	if color.DarkText {
		fg = "#1F2937"
	}
	return lipgloss.NewStyle().
		Background(lipgloss.Color(color.Primary)).
		Foreground(lipgloss.Color(fg)).
		Bold(true).
		Padding(0, 1)
}

// LineForeground returns a style whose foreground is the line's primary
// color, for inline line names without a background block.
func LineForeground(tag string) lipgloss.Style {
	color := tfl.GetLineColor(tag)
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(color.Primary)).
		Bold(true)
}

// AgentBadge renders the active agent name in that line's livery. The
// backend names its agents after line tags, so the mapping is direct; the
// "status" agent gets the neutral network badge.
func AgentBadge(agent string) string {
	if agent == "" {
		return ""
	}
	info := tfl.GetLineInfo(agent)
	return LineSwatch(agent).Render(info.Icon + " " + info.Name)
}

// =============================================================================
// STATUS MESSAGE HELPERS
// =============================================================================

// RenderError renders an error message with an X indicator.
func RenderError(message string) string {
	return lipgloss.NewStyle().Foreground(Rose).Bold(true).Render("[X] " + message)
}

// RenderWarning renders a warning with a bang indicator.
func RenderWarning(message string) string {
	return lipgloss.NewStyle().Foreground(Amber).Bold(true).Render("[!] " + message)
}

// RenderSuccess renders a success message with an OK indicator.
func RenderSuccess(message string) string {
	return lipgloss.NewStyle().Foreground(Emerald).Bold(true).Render("[OK] " + message)
}
