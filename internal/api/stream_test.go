// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// =============================================================================
// EVENT READER TESTS
// =============================================================================

func TestEventReaderStepProgress(t *testing.T) {
	stream := "data: {\"step\":\"input_validation\",\"agent\":\"router\"}\n\n" +
		"data: {\"step\":\"route_query\",\"agent\":\"circle\"}\n\n" +
		"data: {\"step\":\"finalize_response\",\"agent\":\"circle\",\"partialResponse\":\"Good service on the Circle line.\"}\n\n" +
		"data: {\"done\":true}\n\n"

	reader := NewEventReader(strings.NewReader(stream))

	var events []StreamEvent
	err := reader.Process(context.Background(), func(e StreamEvent) {
		events = append(events, e)
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if len(events) != 4 {
		t.Fatalf("len(events) = %d, want 4", len(events))
	}
	if events[0].Step != StepInputValidation {
		t.Errorf("events[0].Step = %q", events[0].Step)
	}
	if events[2].PartialResponse != "Good service on the Circle line." {
		t.Errorf("events[2].PartialResponse = %q", events[2].PartialResponse)
	}
	if !events[3].Done {
		t.Error("final event should carry done")
	}
	if reader.Accumulated() != "Good service on the Circle line." {
		t.Errorf("Accumulated = %q", reader.Accumulated())
	}
	if reader.LastStep() != StepFinalizeResponse {
		t.Errorf("LastStep = %q", reader.LastStep())
	}
}

func TestEventReaderServerError(t *testing.T) {
	stream := "data: {\"step\":\"process_agent\"}\n\n" +
		"data: {\"error\":true,\"message\":\"agent pipeline failed\"}\n\n"

	reader := NewEventReader(strings.NewReader(stream))

	var events []StreamEvent
	err := reader.Process(context.Background(), func(e StreamEvent) {
		events = append(events, e)
	})
	if err == nil {
		t.Fatal("expected an error from an error event")
	}
	if err.Error() != "agent pipeline failed" {
		t.Errorf("error = %q, want server message", err.Error())
	}

	// The error event is still delivered before Process returns
	if len(events) != 2 || !events[1].Error {
		t.Errorf("events = %+v, want error event delivered", events)
	}
}

func TestEventReaderSkipsMalformedAndComments(t *testing.T) {
	stream := ": keep-alive\n\n" +
		"data: {not json\n\n" +
		"data: {\"step\":\"save_memory\"}\n\n" +
		"data: {\"done\":true}\n\n"

	reader := NewEventReader(strings.NewReader(stream))

	var events []StreamEvent
	if err := reader.Process(context.Background(), func(e StreamEvent) {
		events = append(events, e)
	}); err != nil {
		t.Fatalf("Process: %v", err)
	}

	if len(events) != 2 {
		t.Fatalf("len(events) = %d, want 2 (malformed skipped)", len(events))
	}
	if events[0].Step != StepSaveMemory {
		t.Errorf("events[0].Step = %q", events[0].Step)
	}
}

func TestEventReaderEOFWithoutDone(t *testing.T) {
	stream := "data: {\"step\":\"route_query\"}\n\n"

	reader := NewEventReader(strings.NewReader(stream))

	count := 0
	if err := reader.Process(context.Background(), func(e StreamEvent) { count++ }); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestEventReaderMultilineData(t *testing.T) {
	// Two data lines in one event concatenate per the SSE spec
	stream := "data: {\"step\":\n" +
		"data: \"finalize_response\"}\n\n" +
		"data: {\"done\":true}\n\n"

	reader := NewEventReader(strings.NewReader(stream))

	var steps []string
	if err := reader.Process(context.Background(), func(e StreamEvent) {
		if e.Step != "" {
			steps = append(steps, e.Step)
		}
	}); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(steps) != 1 || steps[0] != StepFinalizeResponse {
		t.Errorf("steps = %v", steps)
	}
}

func TestEventReaderContextCancel(t *testing.T) {
	// A reader that never ends
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	reader := NewEventReader(pr)

	done := make(chan error, 1)
	go func() {
		done <- reader.Process(ctx, func(e StreamEvent) {})
	}()

	pw.Write([]byte("data: {\"step\":\"process_agent\"}\n\n"))
	cancel()
	// Unblock the pending read
	pw.CloseWithError(context.Canceled)

	if err := <-done; err == nil {
		t.Error("expected an error after cancellation")
	}
}

// =============================================================================
// STREAM CLIENT TESTS
// =============================================================================

func TestStreamMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat/stream/thread-9" {
			t.Errorf("path = %q, want /api/chat/stream/thread-9", r.URL.Path)
		}
		if got := r.URL.Query().Get("query"); got != "Plan a journey from Paddington to Westminster" {
			t.Errorf("query = %q", got)
		}
		if got := r.URL.Query().Get("userContext"); got == "" {
			t.Error("userContext must be present even when empty")
		}

		w.Header().Set("Content-Type", "text/event-stream")
		io.WriteString(w, "data: {\"step\":\"route_query\",\"agent\":\"underground\"}\n\n")
		io.WriteString(w, "data: {\"step\":\"finalize_response\",\"partialResponse\":\"Take the Circle line.\"}\n\n")
		io.WriteString(w, "data: {\"done\":true}\n\n")
	}))
	defer server.Close()

	var events []StreamEvent
	err := newTestClient(server.URL).StreamMessage(
		context.Background(),
		"Plan a journey from Paddington to Westminster",
		"thread-9",
		nil,
		func(e StreamEvent) { events = append(events, e) },
	)
	if err != nil {
		t.Fatalf("StreamMessage: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("len(events) = %d, want 3", len(events))
	}
	if events[1].PartialResponse != "Take the Circle line." {
		t.Errorf("partial = %q", events[1].PartialResponse)
	}
}

func TestStreamMessageNewThreadSegment(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat/stream/new" {
			t.Errorf("path = %q, want /api/chat/stream/new", r.URL.Path)
		}
		w.Header().Set("Content-Type", "text/event-stream")
		io.WriteString(w, "data: {\"done\":true}\n\n")
	}))
	defer server.Close()

	err := newTestClient(server.URL).StreamMessage(context.Background(), "hello", "", nil, func(StreamEvent) {})
	if err != nil {
		t.Fatalf("StreamMessage: %v", err)
	}
}

func TestStreamMessageConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	err := newTestClient(server.URL).StreamMessage(context.Background(), "hello", "", nil, func(StreamEvent) {})
	if !IsConnection(err) {
		t.Errorf("IsConnection = false for %v", err)
	}
}

func TestStreamMessageChanDeliversError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		io.WriteString(w, "data: {\"error\":true,\"message\":\"boom\"}\n\n")
	}))
	defer server.Close()

	ch := newTestClient(server.URL).StreamMessageChan(context.Background(), "hello", "", nil)

	var last StreamEvent
	for e := range ch {
		last = e
	}
	if !last.Error {
		t.Errorf("last event = %+v, want error event", last)
	}
}
