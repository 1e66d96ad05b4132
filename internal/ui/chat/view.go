// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/morganforge/tubechat/internal/api"
	"github.com/morganforge/tubechat/internal/model"
	"github.com/morganforge/tubechat/internal/tfl"
	"github.com/morganforge/tubechat/internal/ui/styles"
)

// View renders the full chat screen.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Starting tubechat..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.renderProgress())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m *Model) renderHeader() string {
	title := m.theme.HeaderTitle.Render("tubechat")
	subtitle := m.theme.HeaderSubtitle.Render("London Underground assistant")
	line := title + "  " + subtitle
	if agent := m.store.ActiveAgent(); agent != "" {
		line += "  " + styles.AgentBadge(agent)
	}
	if summary := m.renderNetworkSummary(); summary != "" {
		line += "  " + summary
	}
	return m.theme.Header.Width(m.width - 2).Render(line)
}

// renderNetworkSummary condenses the refresher-fed line statuses into a
// one-glance health figure for the header.
func (m *Model) renderNetworkSummary() string {
	if m.transit == nil {
		return ""
	}
	statuses := m.transit.AllStatuses()
	if len(statuses) == 0 {
		return ""
	}

	good := 0
	for _, s := range statuses {
		if tfl.ClassifyStatus(s.Status).Level == tfl.StatusGood {
			good++
		}
	}

	level := tfl.StatusGood
	if good < len(statuses) {
		level = tfl.StatusMinor
	}
	return lipgloss.NewStyle().
		Foreground(styles.StatusColor(level)).
		Render(fmt.Sprintf("%s %d/%d good service", styles.StatusGlyph(level), good, len(statuses)))
}

// renderProgress shows the pipeline step while the backend streams.
func (m *Model) renderProgress() string {
	if !m.busy() {
		if errText := m.store.Error(); errText != "" {
			return m.theme.ErrorBanner.Render(styles.RenderError(errText))
		}
		return ""
	}

	label := "Thinking"
	if m.step != "" {
		label = api.StepLabel(m.step)
	}
	out := m.spinner.View() + " " + m.theme.StepLabel.Render(label)
	if m.stepAgent != "" {
		out += " " + styles.LineForeground(m.stepAgent).Render(m.stepAgent)
	}
	return out
}

func (m *Model) renderFooter() string {
	if pending := m.ctrl.Pending(); pending != nil && !m.busy() {
		return m.renderConfirm(pending.Prompt)
	}

	input := m.theme.InputContainer.Width(m.width - 2).Render(m.input.View())
	bar := m.theme.StatusBar.Width(m.width - 2).Render(
		m.theme.ShortcutKey.Render("enter") + m.theme.ShortcutDesc.Render(" send  ") +
			m.theme.ShortcutKey.Render("pgup/pgdn") + m.theme.ShortcutDesc.Render(" scroll  ") +
			m.theme.ShortcutKey.Render("esc") + m.theme.ShortcutDesc.Render(" quit"),
	)
	return input + "\n" + bar
}

func (m *Model) renderConfirm(prompt string) string {
	if prompt == "" {
		prompt = "The assistant wants to proceed."
	}
	body := m.theme.ConfirmTitle.Render(prompt) + "\n" +
		m.theme.ConfirmButtonActive.Render("[y] yes") + " " +
		m.theme.ConfirmButton.Render("[n] no")
	return m.theme.ConfirmBox.Width(m.width - 4).Render(body)
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

func (m *Model) renderTranscript() string {
	msgs := m.store.Messages()
	if len(msgs) == 0 {
		return m.theme.Container.Render(
			m.theme.ShortcutDesc.Render("Ask about line status, journeys, or disruptions."))
	}

	separator := "\n\n"
	if m.opts.Compact {
		separator = "\n"
	}
	parts := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		parts = append(parts, m.renderMessage(msg))
	}
	return strings.Join(parts, separator)
}

func (m *Model) renderMessage(msg *model.Message) string {
	switch {
	case msg.IsError:
		return m.renderStyledBlock(m.theme.ErrorBubble, msg.Content)

	case msg.Role == model.RoleUser:
		bubble := m.renderStyledBlock(m.theme.UserBubble, msg.Content)
		return lipgloss.PlaceHorizontal(m.viewport.Width, lipgloss.Right, bubble)

	default:
		return m.renderAssistant(msg)
	}
}

func (m *Model) renderAssistant(msg *model.Message) string {
	content := msg.Content
	if content == "" {
		content = m.theme.MessageMeta.Italic(true).Render("No content available")
	} else if m.markdown != nil {
		if rendered, err := m.markdown.Render(content); err == nil {
			content = strings.TrimRight(rendered, "\n")
		}
	}

	var b strings.Builder
	if msg.Agent != "" {
		b.WriteString(styles.AgentBadge(msg.Agent))
		b.WriteString("\n")
	}
	b.WriteString(m.renderStyledBlock(m.theme.AssistantBubble, content))

	if msg.Streaming {
		b.WriteString("\n")
		b.WriteString(m.theme.ThinkingText.Render("streaming..."))
	}
	if msg.RequiresConfirmation {
		b.WriteString("\n")
		b.WriteString(m.theme.ConfirmTitle.Render("[?] confirmation requested"))
	}
	if ts := msg.Timestamp; !ts.IsZero() && !m.opts.Compact {
		b.WriteString("\n")
		b.WriteString(m.theme.MessageMeta.Render(ts.Format("15:04")))
	}
	return b.String()
}
