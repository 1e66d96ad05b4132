// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the conversation state.
package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Assistant"
	default:
		return string(r)
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single message in the conversation.
//
// Messages are append-only once added to the store; the only mutation allowed
// afterwards is an in-place patch keyed by ID (see MessagePatch), used to mark
// a streaming message as superseded or to attach confirmation metadata.
type Message struct {
	// Identity
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Timestamp time.Time `json:"timestamp"`

	// Content
	Content string `json:"content"`

	// Agent is the transit line tag of the agent that produced the message
	// (e.g. "circle", "bakerloo"), empty for user messages.
	Agent string `json:"agent,omitempty"`

	// Metadata is an opaque payload carried through from the backend.
	Metadata map[string]any `json:"metadata,omitempty"`

	// TFLData is a structured transit snapshot attached by the backend.
	// Kept raw; the UI decides how much of it to render.
	TFLData json.RawMessage `json:"tflData,omitempty"`

	// Flags
	IsError              bool `json:"isError,omitempty"`
	RequiresConfirmation bool `json:"requiresConfirmation,omitempty"`
	Streaming            bool `json:"streaming,omitempty"`
}

// NewUserMessage creates a user message with a generated ID.
func NewUserMessage(content string) *Message {
	return &Message{
		ID:        NewMessageID(),
		Role:      RoleUser,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewAssistantMessage creates an assistant message with a generated ID,
// tagged with the line agent that produced it (empty for none).
func NewAssistantMessage(content, agent string) *Message {
	return &Message{
		ID:        NewMessageID(),
		Role:      RoleAssistant,
		Content:   content,
		Agent:     agent,
		Timestamp: time.Now(),
	}
}

// Preview returns a truncated preview of the message content.
// Uses rune-based truncation to handle Unicode correctly.
func (m *Message) Preview(maxLen int) string {
	runes := []rune(m.Content)
	if len(runes) <= maxLen {
		return m.Content
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// IsEmpty returns true if the message has no content.
func (m *Message) IsEmpty() bool {
	return len(m.Content) == 0
}

// Clone returns a copy of the message. The metadata map is copied shallowly;
// values inside it are treated as immutable.
func (m *Message) Clone() *Message {
	cp := *m
	if m.Metadata != nil {
		cp.Metadata = make(map[string]any, len(m.Metadata))
		for k, v := range m.Metadata {
			cp.Metadata[k] = v
		}
	}
	return &cp
}

// =============================================================================
// MESSAGE PATCH
// =============================================================================

// MessagePatch is a partial message update merged into the message matching
// ID. Nil fields are left untouched.
type MessagePatch struct {
	ID string

	Content              *string
	Agent                *string
	Metadata             map[string]any
	TFLData              json.RawMessage
	IsError              *bool
	RequiresConfirmation *bool
	Streaming            *bool
}

// apply merges the patch into msg.
func (p MessagePatch) apply(msg *Message) {
	if p.Content != nil {
		msg.Content = *p.Content
	}
	if p.Agent != nil {
		msg.Agent = *p.Agent
	}
	if p.Metadata != nil {
		if msg.Metadata == nil {
			msg.Metadata = make(map[string]any, len(p.Metadata))
		}
		for k, v := range p.Metadata {
			msg.Metadata[k] = v
		}
	}
	if p.TFLData != nil {
		msg.TFLData = p.TFLData
	}
	if p.IsError != nil {
		msg.IsError = *p.IsError
	}
	if p.RequiresConfirmation != nil {
		msg.RequiresConfirmation = *p.RequiresConfirmation
	}
	if p.Streaming != nil {
		msg.Streaming = *p.Streaming
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// NewMessageID creates a unique message ID.
func NewMessageID() string {
	return uuid.NewString()
}

// NewThreadID creates a new conversation thread ID.
// The thread ID doubles as the persistence key and the backend correlation ID.
func NewThreadID() string {
	return uuid.NewString()
}
