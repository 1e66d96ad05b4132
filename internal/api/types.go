// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import "encoding/json"

// =============================================================================
// REQUEST TYPES
// =============================================================================

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Query    string `json:"query"`
	ThreadID string `json:"threadId,omitempty"`
}

// ConfirmRequest is the body of POST /api/chat/confirm.
type ConfirmRequest struct {
	Query            string         `json:"query"`
	ThreadID         string         `json:"threadId"`
	UserConfirmation bool           `json:"userConfirmation"`
	UserContext      map[string]any `json:"userContext"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// ChatResponse is the payload of a synchronous chat turn. The Response field
// is mandatory; responses without it are rejected at the client boundary.
type ChatResponse struct {
	Response              string          `json:"response"`
	ThreadID              string          `json:"threadId,omitempty"`
	Agent                 string          `json:"agent,omitempty"`
	LineColor             string          `json:"lineColor,omitempty"`
	Timestamp             string          `json:"timestamp,omitempty"`
	Metadata              map[string]any  `json:"metadata,omitempty"`
	TFLData               json.RawMessage `json:"tflData,omitempty"`
	RequiresConfirmation  bool            `json:"requiresConfirmation,omitempty"`
	ConfirmationMessage   string          `json:"confirmationMessage,omitempty"`
	MultiAgentCollaboration bool          `json:"multiAgentCollaboration,omitempty"`

	// rawResponsePresent distinguishes a missing response field from an
	// empty string one. Set during decode, never serialized.
	rawResponsePresent bool
}

// UnmarshalJSON records whether the response field was present at all so
// schema validation can reject payloads that omit it.
func (r *ChatResponse) UnmarshalJSON(data []byte) error {
	type alias ChatResponse
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	_, hasResponse := probe["response"]

	*r = ChatResponse(a)
	r.rawResponsePresent = hasResponse
	return nil
}

// Valid reports whether the payload carries the mandatory response field.
func (r *ChatResponse) Valid() bool {
	return r.rawResponsePresent
}

// HealthResponse is the payload of GET /api/health.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp,omitempty"`
}

// InfoResponse is the payload of GET /api/info.
type InfoResponse struct {
	Name        string `json:"name,omitempty"`
	Version     string `json:"version"`
	Description string `json:"description,omitempty"`
}

// ConversationResponse is the payload of GET /api/conversations/{threadId}.
type ConversationResponse struct {
	ThreadID string                `json:"threadId"`
	Messages []ConversationMessage `json:"messages"`
}

// ConversationMessage is one history entry as the server records it.
type ConversationMessage struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Agent     string `json:"agent,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// serverError is the error body the backend attaches to non-2xx responses.
type serverError struct {
	Error string `json:"error"`
}

// =============================================================================
// STREAM TYPES
// =============================================================================

// StreamEvent is one decoded SSE payload. Exactly one of three shapes
// arrives per event: {done: true}, {error: true, message}, or a
// step-progress payload {step, agent, partialResponse?, metadata?}.
type StreamEvent struct {
	Done            bool           `json:"done,omitempty"`
	Error           bool           `json:"error,omitempty"`
	Message         string         `json:"message,omitempty"`
	Step            string         `json:"step,omitempty"`
	Agent           string         `json:"agent,omitempty"`
	PartialResponse string         `json:"partialResponse,omitempty"`
	Metadata        map[string]any `json:"metadata,omitempty"`
	ThreadID        string         `json:"threadId,omitempty"`
}

// Stream step names emitted by the backend pipeline, in pipeline order.
const (
	StepInputValidation   = "input_validation"
	StepRouteQuery        = "route_query"
	StepProcessAgent      = "process_agent"
	StepCheckConfirmation = "check_confirmation"
	StepAwaitConfirmation = "await_confirmation"
	StepSaveMemory        = "save_memory"
	StepFinalizeResponse  = "finalize_response"
)

// StepLabel maps a pipeline step name to a short human-readable label.
func StepLabel(step string) string {
	switch step {
	case StepInputValidation:
		return "Validating"
	case StepRouteQuery:
		return "Routing"
	case StepProcessAgent:
		return "Processing"
	case StepCheckConfirmation:
		return "Checking"
	case StepAwaitConfirmation:
		return "Confirming"
	case StepSaveMemory:
		return "Saving"
	case StepFinalizeResponse:
		return "Finalizing"
	default:
		return "Processing"
	}
}
