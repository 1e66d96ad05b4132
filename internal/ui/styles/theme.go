// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	Width  int
	Height int

	// ==========================================================================
	// APPLICATION CONTAINER STYLES
	// ==========================================================================

	App       lipgloss.Style
	Container lipgloss.Style

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style

	// ==========================================================================
	// MESSAGE BUBBLE STYLES
	// ==========================================================================

	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	ErrorBubble     lipgloss.Style
	MessageMeta     lipgloss.Style

	// ==========================================================================
	// INPUT AREA STYLES
	// ==========================================================================

	InputContainer   lipgloss.Style
	InputPrompt      lipgloss.Style
	InputText        lipgloss.Style
	InputPlaceholder lipgloss.Style

	// ==========================================================================
	// STATUS BAR STYLES
	// ==========================================================================

	StatusBar    lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style

	// ==========================================================================
	// STREAMING PROGRESS STYLES
	// ==========================================================================

	Spinner      lipgloss.Style
	StepLabel    lipgloss.Style
	StepDone     lipgloss.Style
	ThinkingText lipgloss.Style

	// ==========================================================================
	// CONFIRMATION PROMPT STYLES
	// ==========================================================================

	ConfirmBox          lipgloss.Style
	ConfirmTitle        lipgloss.Style
	ConfirmButton       lipgloss.Style
	ConfirmButtonActive lipgloss.Style

	// ==========================================================================
	// STATUS BOARD STYLES
	// ==========================================================================

	BoardTitle  lipgloss.Style
	BoardRow    lipgloss.Style
	BoardReason lipgloss.Style
	BoardStale  lipgloss.Style

	// ==========================================================================
	// ERROR BANNER
	// ==========================================================================

	ErrorBanner lipgloss.Style
}

// NewTheme creates a new theme with all styles configured.
func NewTheme() *Theme {
	colorProfile := termenv.ColorProfile()

	t := &Theme{
		IsDark:       termenv.HasDarkBackground(),
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}

	t.initStyles()
	return t
}

// NewThemeForMode builds a theme for an explicit "dark" or "light" setting.
// Any other value falls back to terminal background detection.
func NewThemeForMode(mode string) *Theme {
	switch mode {
	case "dark", "light":
	default:
		return NewTheme()
	}

	dark := mode == "dark"
	lipgloss.SetHasDarkBackground(dark)

	colorProfile := termenv.ColorProfile()
	t := &Theme{
		IsDark:       dark,
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}

	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	t.App = lipgloss.NewStyle()
	t.Container = lipgloss.NewStyle().Padding(0, 1)

	// Header
	t.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(RoundelBlue).
		Background(SurfaceDim).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(RoundelRed).
		Padding(0, 2).
		Align(lipgloss.Center)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(RoundelBlue)

	t.HeaderSubtitle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	// Message bubbles
	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		Background(UserBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(UserBubbleBorder).
		Padding(0, 2).
		MarginLeft(4)

	t.AssistantBubble = lipgloss.NewStyle().
		Foreground(AssistantBubbleFg).
		Background(AssistantBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(AssistantBubbleBorder).
		Padding(0, 2).
		MarginRight(4)

	t.ErrorBubble = lipgloss.NewStyle().
		Foreground(ErrorBubbleFg).
		Background(ErrorBubbleBg).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(Rose).
		BorderLeft(true).
		PaddingLeft(2)

	t.MessageMeta = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Input area
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.InputPrompt = lipgloss.NewStyle().
		Foreground(RoundelBlue).
		Bold(true)

	t.InputText = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.InputPlaceholder = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Status bar
	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(RoundelBlue).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Streaming progress
	t.Spinner = lipgloss.NewStyle().
		Foreground(RoundelRed)

	t.StepLabel = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.StepDone = lipgloss.NewStyle().
		Foreground(Emerald)

	t.ThinkingText = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	// Confirmation prompt
	t.ConfirmBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(Amber).
		Padding(0, 2)

	t.ConfirmTitle = lipgloss.NewStyle().
		Foreground(Amber).
		Bold(true)

	t.ConfirmButton = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Padding(0, 2)

	t.ConfirmButtonActive = lipgloss.NewStyle().
		Background(Amber).
		Foreground(TextInverse).
		Bold(true).
		Padding(0, 2)

	// Status board
	t.BoardTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(RoundelBlue)

	t.BoardRow = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.BoardReason = lipgloss.NewStyle().
		Foreground(TextMuted).
		PaddingLeft(2)

	t.BoardStale = lipgloss.NewStyle().
		Foreground(Amber).
		Italic(true)

	// Error banner
	t.ErrorBanner = lipgloss.NewStyle().
		Foreground(ErrorBubbleFg).
		Background(ErrorBubbleBg).
		Bold(true).
		Padding(0, 1)
}

// SetSize records the terminal dimensions for layout decisions.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}
