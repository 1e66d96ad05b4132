// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/tubechat/internal/api"
	"github.com/morganforge/tubechat/internal/controller"
	"github.com/morganforge/tubechat/internal/model"
	"github.com/morganforge/tubechat/internal/tfl"
	"github.com/morganforge/tubechat/internal/ui/styles"
)

func newTestModel(t *testing.T) (*Model, *model.Store) {
	t.Helper()
	return newTestModelOpts(t, Options{ShowSteps: true}, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"response": "ok"})
	})
}

func newTestModelOpts(t *testing.T, opts Options, handler http.HandlerFunc) (*Model, *model.Store) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store := model.NewStore()
	client := api.NewClientWithConfig(&api.ClientConfig{BaseURL: server.URL, Timeout: 5 * time.Second})
	ctrl := controller.New(store, client)
	m := New(ctrl, store, tfl.NewStore(), styles.NewTheme(), opts)
	m.resize(100, 30)
	return m, store
}

func TestViewShowsPlaceholderWhenEmpty(t *testing.T) {
	m, _ := newTestModel(t)
	view := m.View()
	if !strings.Contains(view, "tubechat") {
		t.Error("header missing from view")
	}
	if !strings.Contains(view, "line status") {
		t.Error("empty-state hint missing from view")
	}
}

func TestTranscriptRendersRoles(t *testing.T) {
	m, store := newTestModel(t)
	store.AddMessage(model.NewUserMessage("Is the Victoria line ok?"))
	store.AddMessage(model.NewAssistantMessage("Good service on the Victoria line.", "victoria"))
	m.refreshTranscript()

	out := m.renderTranscript()
	if !strings.Contains(out, "Is the Victoria line ok?") {
		t.Error("user message missing")
	}
	if !strings.Contains(out, "Good service on the Victoria line.") {
		t.Error("assistant message missing")
	}
	if !strings.Contains(out, "Victoria") {
		t.Error("agent badge missing")
	}
}

func TestErrorMessageUsesErrorBubble(t *testing.T) {
	m, store := newTestModel(t)
	msg := model.NewAssistantMessage("I apologize, but something failed.", "")
	msg.IsError = true
	store.AddMessage(msg)

	out := m.renderTranscript()
	if !strings.Contains(out, "I apologize, but something failed.") {
		t.Error("error content missing")
	}
}

func TestEnterSubmitsAndClearsInput(t *testing.T) {
	m, _ := newTestModel(t)
	m.input.SetValue("hello")

	_, cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter with text must produce a command")
	}
	if m.input.Value() != "" {
		t.Errorf("input = %q, want cleared", m.input.Value())
	}
}

func TestEnterWithBlankInputIsNoOp(t *testing.T) {
	m, _ := newTestModel(t)
	m.input.SetValue("   ")

	_, cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("blank input must not submit")
	}
}

func TestStepProgressEventUpdatesLabel(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := m.handleEvent(controller.Event{
		Type:  controller.EventStepProgress,
		Step:  api.StepRouteQuery,
		Agent: "victoria",
	})
	if m.step != api.StepRouteQuery {
		t.Errorf("step = %q", m.step)
	}
	if cmd == nil {
		t.Error("event handling must re-arm the event pump")
	}
}

func TestTurnDoneClearsProgress(t *testing.T) {
	m, _ := newTestModel(t)
	m.step = api.StepProcessAgent
	m.stepAgent = "circle"

	m.Update(turnDoneMsg{})

	if m.step != "" || m.stepAgent != "" {
		t.Errorf("progress = (%q, %q), want cleared", m.step, m.stepAgent)
	}
}

func TestStepProgressIgnoredWhenHidden(t *testing.T) {
	m, _ := newTestModelOpts(t, Options{}, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"response": "ok"})
	})
	m.handleEvent(controller.Event{
		Type:  controller.EventStepProgress,
		Step:  api.StepRouteQuery,
		Agent: "victoria",
	})
	if m.step != "" {
		t.Errorf("step = %q, want no step recorded when steps are hidden", m.step)
	}
}

func TestHeaderShowsNetworkSummary(t *testing.T) {
	m, _ := newTestModel(t)
	if strings.Contains(m.renderHeader(), "good service") {
		t.Error("summary must be absent before the first status fetch")
	}

	m.transit.SetAllStatuses([]tfl.LineStatus{
		{ID: "victoria", Status: "Good Service"},
		{ID: "jubilee", Status: "Good Service"},
		{ID: "central", Status: "Minor Delays"},
	})
	if out := m.renderHeader(); !strings.Contains(out, "2/3 good service") {
		t.Errorf("header = %q, want network summary", out)
	}
}

func TestEmptyAssistantMessageShowsPlaceholder(t *testing.T) {
	m, store := newTestModel(t)
	store.AddMessage(model.NewAssistantMessage("", "district"))

	if out := m.renderTranscript(); !strings.Contains(out, "No content available") {
		t.Error("empty assistant message must render a placeholder")
	}
}

func TestCompactModeDropsTimestamps(t *testing.T) {
	msg := model.NewAssistantMessage("Minor delays on the Central line.", "central")
	ts := msg.Timestamp.Format("15:04")

	m, store := newTestModel(t)
	store.AddMessage(msg)
	if !strings.Contains(m.renderTranscript(), ts) {
		t.Error("default layout must show the timestamp")
	}

	compact, compactStore := newTestModelOpts(t, Options{Compact: true}, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"response": "ok"})
	})
	compactStore.AddMessage(msg)
	out := compact.renderTranscript()
	if strings.Contains(out, ts) {
		t.Error("compact layout must drop the timestamp")
	}
	if got, want := len(strings.Split(out, "\n")), len(strings.Split(m.renderTranscript(), "\n")); got >= want {
		t.Errorf("compact transcript is %d lines, want fewer than %d", got, want)
	}
}

func TestUserMessageVisibleWhileRequestInFlight(t *testing.T) {
	release := make(chan struct{})
	var once sync.Once
	unblock := func() { once.Do(func() { close(release) }) }

	m, _ := newTestModelOpts(t, Options{ShowSteps: true}, func(w http.ResponseWriter, r *http.Request) {
		<-release
		json.NewEncoder(w).Encode(map[string]any{"response": "ok"})
	})
	t.Cleanup(unblock)

	done := make(chan struct{})
	go func() {
		defer close(done)
		m.ctrl.Submit(context.Background(), "Is the Jubilee line running?")
	}()

	ev := <-m.ctrl.Events()
	if ev.Type != controller.EventMessageAppended {
		t.Fatalf("first event = %v, want the appended user message", ev.Type)
	}
	m.Update(ctrlEventMsg(ev))

	if !strings.Contains(m.viewport.View(), "Is the Jubilee line running?") {
		t.Error("user message must be visible while the response is pending")
	}

	unblock()
	<-done
}

func TestQuitKeys(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("ctrl+c must quit")
	}
	if msg := cmd(); msg != tea.Quit() {
		t.Errorf("cmd() = %v, want tea.Quit", msg)
	}
}
