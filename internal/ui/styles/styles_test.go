// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/morganforge/tubechat/internal/tfl"
)

func TestStatusColorMapping(t *testing.T) {
	tests := []struct {
		level tfl.StatusLevel
		want  string
	}{
		{tfl.StatusGood, Emerald.Dark},
		{tfl.StatusMinor, Amber.Dark},
		{tfl.StatusSevere, Rose.Dark},
		{tfl.StatusUnknown, TextMuted.Dark},
	}
	for _, tt := range tests {
		if got := StatusColor(tt.level); got.Dark != tt.want {
			t.Errorf("StatusColor(%v).Dark = %q, want %q", tt.level, got.Dark, tt.want)
		}
	}
}

func TestStatusGlyph(t *testing.T) {
	tests := []struct {
		level tfl.StatusLevel
		want  string
	}{
		{tfl.StatusGood, "[OK]"},
		{tfl.StatusMinor, "[!]"},
		{tfl.StatusSevere, "[X]"},
		{tfl.StatusUnknown, "[?]"},
	}
	for _, tt := range tests {
		if got := StatusGlyph(tt.level); got != tt.want {
			t.Errorf("StatusGlyph(%v) = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestLineSwatchUsesLivery(t *testing.T) {
	swatch := LineSwatch(tfl.LineCentral)
	want := lipgloss.Color(tfl.GetLineColor(tfl.LineCentral).Primary)
	if got := swatch.GetBackground(); got != want {
		t.Errorf("background = %v, want %v", got, want)
	}
}

func TestLineSwatchUnknownFallsBackToCircle(t *testing.T) {
	unknown := LineSwatch("crossrail2")
	circle := LineSwatch(tfl.LineCircle)
	if unknown.GetBackground() != circle.GetBackground() {
		t.Error("unknown tag should inherit the Circle livery")
	}
}

func TestAgentBadge(t *testing.T) {
	if AgentBadge("") != "" {
		t.Error("empty agent renders nothing")
	}
	badge := AgentBadge(tfl.LineVictoria)
	if !strings.Contains(badge, "Victoria") {
		t.Errorf("badge = %q, want line name", badge)
	}
}

func TestNewThemeInitializesStyles(t *testing.T) {
	theme := NewTheme()
	if theme.Header.GetBold() != true {
		t.Error("header style must be bold")
	}
	theme.SetSize(120, 40)
	if theme.Width != 120 || theme.Height != 40 {
		t.Errorf("size = %dx%d", theme.Width, theme.Height)
	}
}

func TestNewThemeForMode(t *testing.T) {
	if theme := NewThemeForMode("dark"); !theme.IsDark {
		t.Error("dark mode must force IsDark")
	}
	if theme := NewThemeForMode("light"); theme.IsDark {
		t.Error("light mode must clear IsDark")
	}
	if theme := NewThemeForMode("auto"); theme == nil {
		t.Error("auto mode must fall back to detection")
	}
}
