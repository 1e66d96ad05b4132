// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/tubechat/internal/controller"
)

// Update is the Bubble Tea message handler.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case ctrlEventMsg:
		return m.handleEvent(controller.Event(msg))

	case transitTickMsg:
		// The view re-reads the transit store; just re-arm the tick.
		return m, m.transitTick()

	case turnDoneMsg:
		m.step = ""
		m.stepAgent = ""
		m.refreshTranscript()
		return m, textinput.Blink
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// busy reports whether a turn is in flight.
func (m *Model) busy() bool {
	return m.ctrl.IsSending() || m.store.IsLoading()
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// A pending confirmation captures y/n before anything else.
	if m.ctrl.Pending() != nil && !m.busy() {
		switch strings.ToLower(msg.String()) {
		case "y":
			return m, tea.Batch(m.resolveCmd(true), m.spinner.Tick)
		case "n":
			return m, tea.Batch(m.resolveCmd(false), m.spinner.Tick)
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		default:
			return m, nil
		}
	}

	switch msg.String() {
	case "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit

	case "enter":
		text := strings.TrimSpace(m.input.Value())
		if text == "" || m.busy() {
			return m, nil
		}
		m.input.Reset()
		// Show the user message immediately; Submit appends it to the
		// store before the network round trip begins, but the first
		// repaint comes from the event pump.
		return m, tea.Batch(m.submitCmd(text), m.spinner.Tick)

	case "pgup":
		m.viewport.HalfViewUp()
		return m, nil

	case "pgdown":
		m.viewport.HalfViewDown()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleEvent(ev controller.Event) (tea.Model, tea.Cmd) {
	switch ev.Type {
	case controller.EventStreamStarted:
		m.step = ""
		m.stepAgent = ""
		m.refreshTranscript()

	case controller.EventStepProgress:
		if m.opts.ShowSteps {
			m.step = ev.Step
			m.stepAgent = ev.Agent
		}

	case controller.EventStreamFinished:
		m.step = ""

	case controller.EventMessageAppended,
		controller.EventConfirmationRequired:
		m.refreshTranscript()
	}

	return m, m.waitEvent()
}
