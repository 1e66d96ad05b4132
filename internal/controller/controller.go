// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package controller

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/morganforge/tubechat/internal/api"
	"github.com/morganforge/tubechat/internal/model"
	"github.com/morganforge/tubechat/internal/router"
)

// apologyMessage is the fixed user-visible text for failed submissions.
const apologyMessage = "I apologize, but I encountered an error processing your message. Please try again."

// =============================================================================
// EVENTS
// =============================================================================

// EventType identifies a controller progress notification.
type EventType int

const (
	// EventStreamStarted fires when a streaming connection opens.
	EventStreamStarted EventType = iota
	// EventStepProgress fires for each pipeline step event.
	EventStepProgress
	// EventStreamFinished fires when streaming ends, success or not.
	EventStreamFinished
	// EventMessageAppended fires after any assistant message lands.
	EventMessageAppended
	// EventConfirmationRequired fires when a pending confirmation is recorded.
	EventConfirmationRequired
)

// Event is one progress notification for the UI event loop.
type Event struct {
	Type  EventType
	Step  string
	Agent string
}

// =============================================================================
// PENDING CONFIRMATION
// =============================================================================

// PendingConfirmation is the single outstanding confirmation request.
type PendingConfirmation struct {
	// Query is the original user message awaiting confirmation.
	Query string
	// ThreadID is the conversation the confirmation belongs to.
	ThreadID string
	// MessageID is the appended confirmation-tagged assistant message.
	MessageID string
	// Prompt is the proposed action text shown to the user.
	Prompt string
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Client is the backend surface the controller needs. *api.Client satisfies
// it; tests may substitute a fake.
type Client interface {
	SendMessage(ctx context.Context, query, threadID string) (*api.ChatResponse, error)
	SendConfirmation(ctx context.Context, query, threadID string, confirmed bool, userContext map[string]any) (*api.ChatResponse, error)
	StreamMessage(ctx context.Context, query, threadID string, userContext map[string]any, callback api.StreamCallback) error
}

// Controller orchestrates chat submission against the conversation store.
// Methods are safe for concurrent use; one submission runs at a time.
type Controller struct {
	store  *model.Store
	client Client

	mu            sync.Mutex
	sending       bool
	streamingMode bool
	pending       *PendingConfirmation
	resetInput    func()

	events chan Event
}

// Option configures a Controller.
type Option func(*Controller)

// WithStreamingMode forces the streaming path for every query.
func WithStreamingMode(on bool) Option {
	return func(c *Controller) { c.streamingMode = on }
}

// WithResetInput registers a callback invoked when a submission is accepted,
// used to clear any input or transcript buffer feeding the composer.
func WithResetInput(reset func()) Option {
	return func(c *Controller) { c.resetInput = reset }
}

// New creates a controller bound to a conversation store and backend client.
func New(store *model.Store, client Client, opts ...Option) *Controller {
	c := &Controller{
		store:  store,
		client: client,
		events: make(chan Event, 64),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Events returns the progress notification channel. Events are dropped,
// never blocked on, when the consumer lags.
func (c *Controller) Events() <-chan Event {
	return c.events
}

// SetStreamingMode toggles the user's always-stream preference.
func (c *Controller) SetStreamingMode(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.streamingMode = on
}

// StreamingMode reports the current always-stream preference.
func (c *Controller) StreamingMode() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.streamingMode
}

// IsSending reports whether a submission is in flight.
func (c *Controller) IsSending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sending
}

// Pending returns the outstanding confirmation, if any.
func (c *Controller) Pending() *PendingConfirmation {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending == nil {
		return nil
	}
	copied := *c.pending
	return &copied
}

// Inject submits an externally sourced message (quick replies, deep links)
// through the normal submit path.
func (c *Controller) Inject(ctx context.Context, text string) {
	c.Submit(ctx, text)
}

// emit delivers an event without ever blocking the submission path.
func (c *Controller) emit(ev Event) {
	select {
	case c.events <- ev:
	default:
	}
}

// =============================================================================
// SUBMIT
// =============================================================================

// Submit runs one full submission. Blank input, or input while a send is
// already in flight, is a silent no-op. Submit blocks until the turn
// completes; UI surfaces run it in a goroutine.
func (c *Controller) Submit(ctx context.Context, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	c.mu.Lock()
	if c.sending || c.store.IsLoading() {
		c.mu.Unlock()
		return
	}
	c.sending = true
	streamingMode := c.streamingMode
	reset := c.resetInput
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.sending = false
		c.mu.Unlock()
		c.store.SetLoading(false)
		c.store.SetTyping(false)
		c.clearStreamingFlags()
	}()

	c.store.SetError("")
	c.store.AddMessage(model.NewUserMessage(text))
	// The user message must be visible before any network round trip; the
	// UI repaints on this event rather than waiting for the response.
	c.emit(Event{Type: EventMessageAppended})
	c.store.SetTyping(true)
	c.store.SetLoading(true)
	if reset != nil {
		reset()
	}

	if router.ClassifyDelivery(text, streamingMode) == router.DeliveryStream {
		if c.submitStreaming(ctx, text) {
			return
		}
		// Stream failed; fall back to exactly one sync request with the
		// same user message.
	}

	c.submitSync(ctx, text)
}

// submitStreaming runs the streaming path. Returns true when the stream
// completed (successfully or with a server-side done), false when the
// caller should fall back to the sync path.
func (c *Controller) submitStreaming(ctx context.Context, text string) bool {
	c.emit(Event{Type: EventStreamStarted})
	defer c.emit(Event{Type: EventStreamFinished})

	appended := false
	err := c.client.StreamMessage(ctx, text, c.store.ThreadID(), nil, func(ev api.StreamEvent) {
		if ev.Done || ev.Error {
			return
		}

		c.emit(Event{Type: EventStepProgress, Step: ev.Step, Agent: ev.Agent})
		if ev.Agent != "" {
			c.store.SetActiveAgent(ev.Agent)
		}

		// Only the terminal pipeline step carries response text worth
		// showing; intermediate partials drive the step indicator alone.
		if ev.Step == api.StepFinalizeResponse && ev.PartialResponse != "" {
			msg := model.NewAssistantMessage(ev.PartialResponse, ev.Agent)
			msg.Streaming = true
			c.store.AddMessage(msg)
			appended = true
			c.emit(Event{Type: EventMessageAppended, Agent: ev.Agent})
		}

		if ev.ThreadID != "" && c.store.ThreadID() != ev.ThreadID {
			c.store.SetThreadID(ev.ThreadID)
		}
	})

	if err != nil {
		slog.Debug("stream failed, falling back to sync", "err", err)
		return false
	}
	return appended
}

// submitSync runs the single request/response path.
func (c *Controller) submitSync(ctx context.Context, text string) {
	resp, err := c.client.SendMessage(ctx, text, c.store.ThreadID())
	if err != nil {
		c.fail(err)
		return
	}

	c.applyResponse(text, resp)
}

// applyResponse appends a successful chat response to the conversation.
func (c *Controller) applyResponse(query string, resp *api.ChatResponse) {
	if resp.ThreadID != "" && c.store.ThreadID() != resp.ThreadID {
		c.store.SetThreadID(resp.ThreadID)
	}
	if resp.Agent != "" {
		c.store.SetActiveAgent(resp.Agent)
	}

	msg := model.NewAssistantMessage(resp.Response, resp.Agent)
	msg.Metadata = resp.Metadata
	msg.TFLData = resp.TFLData

	if resp.RequiresConfirmation {
		msg.RequiresConfirmation = true
		c.store.AddMessage(msg)

		c.mu.Lock()
		c.pending = &PendingConfirmation{
			Query:     query,
			ThreadID:  c.store.ThreadID(),
			MessageID: msg.ID,
			Prompt:    resp.ConfirmationMessage,
		}
		c.mu.Unlock()

		c.emit(Event{Type: EventConfirmationRequired, Agent: resp.Agent})
		return
	}

	c.store.AddMessage(msg)
	c.emit(Event{Type: EventMessageAppended, Agent: resp.Agent})
}

// fail surfaces a submission failure as both a store error and an appended
// apology message; the two are redundant but independent.
func (c *Controller) fail(err error) {
	slog.Warn("chat submission failed", "err", err)
	c.store.SetError(err.Error())

	msg := model.NewAssistantMessage(apologyMessage, "")
	msg.IsError = true
	c.store.AddMessage(msg)
	c.emit(Event{Type: EventMessageAppended})
}

// clearStreamingFlags drops the transient streaming marker from any
// messages appended during this turn.
func (c *Controller) clearStreamingFlags() {
	off := false
	for _, msg := range c.store.Messages() {
		if msg.Streaming {
			c.store.UpdateMessage(model.MessagePatch{ID: msg.ID, Streaming: &off})
		}
	}
}

// =============================================================================
// CONFIRMATION
// =============================================================================

// ResolveConfirmation answers the outstanding confirmation with the user's
// decision. On success the final response is appended and the pending slot
// cleared; on failure the apology path runs and the pending confirmation is
// retained so the user can retry. No-op when nothing is pending.
func (c *Controller) ResolveConfirmation(ctx context.Context, confirmed bool) {
	c.mu.Lock()
	if c.pending == nil || c.sending {
		c.mu.Unlock()
		return
	}
	pending := *c.pending
	c.sending = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.sending = false
		c.mu.Unlock()
		c.store.SetLoading(false)
		c.store.SetTyping(false)
	}()

	c.store.SetError("")
	c.store.SetTyping(true)
	c.store.SetLoading(true)

	resp, err := c.client.SendConfirmation(ctx, pending.Query, pending.ThreadID, confirmed, nil)
	if err != nil {
		// Pending stays so the decision can be retried.
		c.fail(err)
		return
	}

	c.mu.Lock()
	c.pending = nil
	c.mu.Unlock()

	if resp.Agent != "" {
		c.store.SetActiveAgent(resp.Agent)
	}

	msg := model.NewAssistantMessage(resp.Response, resp.Agent)
	msg.TFLData = resp.TFLData
	msg.Metadata = resp.Metadata
	if msg.Metadata == nil {
		msg.Metadata = map[string]any{}
	}
	msg.Metadata["userConfirmation"] = confirmed
	c.store.AddMessage(msg)
	c.emit(Event{Type: EventMessageAppended, Agent: resp.Agent})
}
