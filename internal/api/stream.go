// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// =============================================================================
// STREAMING CHAT
// =============================================================================

// StreamCallback is called for each decoded event during streaming.
type StreamCallback func(event StreamEvent)

// StreamMessage opens a server-sent-events connection for a multi-step query
// and calls the callback for each event, synchronously in arrival order.
// Returns when the server signals done, the stream errors, or the context
// is cancelled. An event with Error set is delivered to the callback AND
// returned as a ClientError so callers can fall back to the sync path.
func (c *Client) StreamMessage(ctx context.Context, query, threadID string, userContext map[string]any, callback StreamCallback) error {
	if userContext == nil {
		userContext = map[string]any{}
	}
	ctxJSON, err := json.Marshal(userContext)
	if err != nil {
		return &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal user context", Cause: err}
	}

	segment := threadID
	if segment == "" {
		segment = "new"
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("userContext", string(ctxJSON))
	streamURL := c.config.BaseURL + "/api/chat/stream/" + url.PathEscape(segment) + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, streamURL, nil)
	if err != nil {
		return &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	// Streaming connections are bounded only by the context, never by the
	// request timeout used for sync calls.
	streamClient := &http.Client{}

	resp, err := streamClient.Do(req)
	if err != nil {
		return transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}

	reader := NewEventReader(resp.Body)
	return reader.Process(ctx, callback)
}

// StreamMessageChan opens a streaming connection and returns a channel of
// events. The channel is closed when streaming completes or fails; a failure
// is delivered as a final event with Error set.
func (c *Client) StreamMessageChan(ctx context.Context, query, threadID string, userContext map[string]any) <-chan StreamEvent {
	ch := make(chan StreamEvent)

	go func() {
		defer close(ch)

		err := c.StreamMessage(ctx, query, threadID, userContext, func(event StreamEvent) {
			select {
			case ch <- event:
			case <-ctx.Done():
			}
		})

		if err != nil {
			select {
			case ch <- StreamEvent{Error: true, Message: err.Error()}:
			case <-ctx.Done():
			}
		}
	}()

	return ch
}

// =============================================================================
// EVENT READER
// =============================================================================

// EventReader parses a text/event-stream body into StreamEvents.
type EventReader struct {
	reader *bufio.Reader
	// PERFORMANCE: strings.Builder avoids quadratic allocations
	partial    strings.Builder
	lastStep   string
	eventCount int
}

// NewEventReader creates an event reader from an io.Reader.
func NewEventReader(r io.Reader) *EventReader {
	return &EventReader{
		reader: bufio.NewReader(r),
	}
}

// Process reads the stream and calls the callback for each event.
// Blocks until the stream is complete or the context is cancelled.
// A server-sent error event aborts the stream and is returned as a
// ClientError after being delivered to the callback.
func (s *EventReader) Process(ctx context.Context, callback StreamCallback) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			event, err := s.readEvent()
			if err != nil {
				if err == io.EOF {
					return nil
				}
				return &ClientError{Type: ErrTypeConnection, Message: "stream interrupted", Cause: err}
			}

			if event == nil {
				continue
			}

			s.eventCount++
			if event.Step != "" {
				s.lastStep = event.Step
			}
			if event.PartialResponse != "" {
				s.partial.WriteString(event.PartialResponse)
			}

			callback(*event)

			if event.Error {
				msg := event.Message
				if msg == "" {
					msg = "stream reported an error"
				}
				return &ClientError{Type: ErrTypeServer, Message: msg}
			}
			if event.Done {
				return nil
			}
		}
	}
}

// readEvent reads lines until one full SSE event is assembled. Returns
// (nil, nil) for keep-alive or malformed events, which callers skip.
func (s *EventReader) readEvent() (*StreamEvent, error) {
	var data strings.Builder

	for {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			if err == io.EOF && data.Len() == 0 && strings.TrimSpace(line) == "" {
				return nil, io.EOF
			}
			if strings.TrimSpace(line) == "" && data.Len() == 0 {
				return nil, err
			}
			// Process the trailing event even on EOF
		}

		line = strings.TrimRight(line, "\r\n")

		// Blank line terminates the event
		if line == "" {
			if data.Len() == 0 {
				if err != nil {
					return nil, err
				}
				continue // keep-alive
			}
			break
		}

		// Comment lines keep the connection alive
		if strings.HasPrefix(line, ":") {
			continue
		}

		if value, ok := strings.CutPrefix(line, "data:"); ok {
			data.WriteString(strings.TrimPrefix(value, " "))
		}
		// Other SSE fields (event:, id:, retry:) are not used by the backend

		if err != nil {
			break
		}
	}

	if data.Len() == 0 {
		return nil, nil
	}

	var event StreamEvent
	if err := json.Unmarshal([]byte(data.String()), &event); err != nil {
		// Skip malformed events
		return nil, nil
	}
	return &event, nil
}

// Accumulated returns all partial response text received so far.
func (s *EventReader) Accumulated() string {
	return s.partial.String()
}

// LastStep returns the most recent pipeline step name seen.
func (s *EventReader) LastStep() string {
	return s.lastStep
}

// EventCount returns the number of decoded events.
func (s *EventReader) EventCount() int {
	return s.eventCount
}
