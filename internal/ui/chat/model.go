// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/morganforge/tubechat/internal/controller"
	"github.com/morganforge/tubechat/internal/model"
	"github.com/morganforge/tubechat/internal/tfl"
	"github.com/morganforge/tubechat/internal/ui/styles"
)

// =============================================================================
// MESSAGES
// =============================================================================

// turnDoneMsg signals that a Submit or ResolveConfirmation call returned.
type turnDoneMsg struct{}

// ctrlEventMsg wraps a controller event for the update loop.
type ctrlEventMsg controller.Event

// transitTickMsg repaints the header with the latest line statuses.
type transitTickMsg time.Time

// =============================================================================
// MODEL
// =============================================================================

// Options control presentation behavior, mapped from the [ui] config
// section.
type Options struct {
	// ShowSteps displays pipeline step labels while streaming.
	ShowSteps bool
	// Compact drops timestamps and tightens transcript spacing.
	Compact bool
}

// Model is the Bubble Tea model for the chat screen.
type Model struct {
	ctrl    *controller.Controller
	store   *model.Store
	transit *tfl.Store
	theme   *styles.Theme
	opts    Options

	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	markdown *glamour.TermRenderer

	// Streaming progress shown while a turn is in flight.
	step      string
	stepAgent string

	width  int
	height int
	ready  bool

	quitting bool
}

// New builds the chat model around an already wired controller and stores.
// transit may be nil when no status refresher is running.
func New(ctrl *controller.Controller, store *model.Store, transit *tfl.Store, theme *styles.Theme, opts Options) *Model {
	ti := textinput.New()
	ti.Placeholder = "Ask about the Tube..."
	ti.Prompt = "> "
	ti.PromptStyle = theme.InputPrompt
	ti.TextStyle = theme.InputText
	ti.PlaceholderStyle = theme.InputPlaceholder
	ti.CharLimit = 2000
	ti.Focus()

	vp := viewport.New(80, 20)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Spinner

	md, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(76),
	)
	if err != nil {
		md = nil
	}

	return &Model{
		ctrl:     ctrl,
		store:    store,
		transit:  transit,
		theme:    theme,
		opts:     opts,
		viewport: vp,
		input:    ti,
		spinner:  sp,
		markdown: md,
	}
}

// Init starts the input blink, the controller event pump, and the header
// repaint tick for the transit board.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.waitEvent()}
	if m.transit != nil {
		cmds = append(cmds, m.transitTick())
	}
	return tea.Batch(cmds...)
}

// transitTick schedules the next header repaint. The refresher updates the
// transit store on its own goroutine; this just makes the change visible.
func (m *Model) transitTick() tea.Cmd {
	return tea.Tick(15*time.Second, func(t time.Time) tea.Msg {
		return transitTickMsg(t)
	})
}

// =============================================================================
// COMMANDS
// =============================================================================

// submitCmd runs the full turn on a worker goroutine. Submit blocks until
// the assistant message lands (or fails), so it must not run on the update
// loop.
func (m *Model) submitCmd(text string) tea.Cmd {
	return func() tea.Msg {
		m.ctrl.Submit(context.Background(), text)
		return turnDoneMsg{}
	}
}

// resolveCmd answers the pending confirmation.
func (m *Model) resolveCmd(confirmed bool) tea.Cmd {
	return func() tea.Msg {
		m.ctrl.ResolveConfirmation(context.Background(), confirmed)
		return turnDoneMsg{}
	}
}

// waitEvent blocks on the controller's event channel and re-arms itself
// after every delivery.
func (m *Model) waitEvent() tea.Cmd {
	return func() tea.Msg {
		return ctrlEventMsg(<-m.ctrl.Events())
	}
}

// =============================================================================
// LAYOUT
// =============================================================================

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.ready = true

	// Header (3) + progress line (1) + input (3) + status bar (1)
	chromeHeight := 8
	m.viewport.Width = width
	m.viewport.Height = max(height-chromeHeight, 3)
	m.input.Width = max(width-6, 20)

	wrap := min(width-4, 100)
	if md, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	); err == nil {
		m.markdown = md
	}

	m.refreshTranscript()
}

// refreshTranscript re-renders the conversation into the viewport and pins
// the view to the newest message.
func (m *Model) refreshTranscript() {
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

var _ tea.Model = (*Model)(nil)

// bubbleWidth returns the maximum message bubble width for the current
// terminal size.
func (m *Model) bubbleWidth() int {
	if m.width == 0 {
		return 76
	}
	return min(m.width-8, 100)
}

// renderStyledBlock wraps content in the given bubble style at transcript
// width.
func (m *Model) renderStyledBlock(style lipgloss.Style, content string) string {
	return style.MaxWidth(m.bubbleWidth()).Render(content)
}
