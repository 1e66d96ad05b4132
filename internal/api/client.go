// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the chat backend client.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeConnection
	ErrTypeTimeout
	ErrTypeServer
	ErrTypeInvalidResponse
)

// connectMessage is the user-facing text for connectivity failures.
const connectMessage = "Unable to connect to TFL service. Please check your connection."

// Sentinel errors for easy checking.
var (
	ErrCannotConnect = &ClientError{Type: ErrTypeConnection, Message: connectMessage}
	ErrTimeout       = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
)

// IsConnection checks if an error indicates the backend is unreachable.
func IsConnection(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeConnection
	}
	return false
}

// IsTimeout checks if an error is a timeout error.
func IsTimeout(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeTimeout
	}
	return false
}

// IsServer checks if an error carries a server-provided failure status.
func IsServer(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeServer
	}
	return false
}

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the backend client.
type ClientConfig struct {
	// BaseURL is the backend base URL (default: http://localhost:8000)
	BaseURL string

	// Timeout for non-streaming requests (default: 30s)
	Timeout time.Duration
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL: "http://localhost:8000",
		Timeout: 30 * time.Second,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client handles communication with the TubeChat backend.
//
// The Client is thread-safe for concurrent use.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
}

// NewClient creates a new backend client with default configuration.
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates a new backend client with custom configuration.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}

	// Fill in defaults for any zero values
	if config.BaseURL == "" {
		config.BaseURL = "http://localhost:8000"
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// =============================================================================
// HEALTH AND INFO
// =============================================================================

// CheckHealth verifies that the backend is reachable and healthy.
func (c *Client) CheckHealth(ctx context.Context) (*HealthResponse, error) {
	var result HealthResponse
	if err := c.getJSON(ctx, "/api/health", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetInfo retrieves the backend service name and version.
func (c *Client) GetInfo(ctx context.Context) (*InfoResponse, error) {
	var result InfoResponse
	if err := c.getJSON(ctx, "/api/info", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// =============================================================================
// CHAT OPERATIONS
// =============================================================================

// SendMessage sends a synchronous chat turn and returns the full response.
func (c *Client) SendMessage(ctx context.Context, query, threadID string) (*ChatResponse, error) {
	reqBody := ChatRequest{
		Query:    query,
		ThreadID: threadID,
	}
	return c.postChat(ctx, "/api/chat", reqBody)
}

// SendConfirmation resolves a pending confirmation with the user's decision.
func (c *Client) SendConfirmation(ctx context.Context, query, threadID string, confirmed bool, userContext map[string]any) (*ChatResponse, error) {
	if userContext == nil {
		userContext = map[string]any{}
	}
	reqBody := ConfirmRequest{
		Query:            query,
		ThreadID:         threadID,
		UserConfirmation: confirmed,
		UserContext:      userContext,
	}
	return c.postChat(ctx, "/api/chat/confirm", reqBody)
}

// GetConversation fetches the server-side history for one thread.
func (c *Client) GetConversation(ctx context.Context, threadID string) (*ConversationResponse, error) {
	var result ConversationResponse
	if err := c.getJSON(ctx, "/api/conversations/"+url.PathEscape(threadID), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// =============================================================================
// INTERNAL HELPERS
// =============================================================================

// postChat issues a chat-shaped POST and validates the response schema.
func (c *Client) postChat(ctx context.Context, path string, reqBody any) (*ChatResponse, error) {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var result ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}
	if !result.Valid() {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "response payload missing response field"}
	}

	return &result, nil
}

// getJSON issues a GET and decodes a JSON body into out.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+path, nil)
	if err != nil {
		return &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}
	return nil
}

// transportError maps a transport-level failure onto the error taxonomy.
func transportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return ErrTimeout
	}
	return &ClientError{Type: ErrTypeConnection, Message: connectMessage, Cause: err}
}

// statusError builds a server error from a non-2xx response, preferring the
// server-provided error text when the body carries one.
func statusError(resp *http.Response) error {
	var srvErr serverError
	if err := json.NewDecoder(resp.Body).Decode(&srvErr); err == nil && srvErr.Error != "" {
		return &ClientError{Type: ErrTypeServer, Message: srvErr.Error}
	}
	return &ClientError{Type: ErrTypeServer, Message: "HTTP " + resp.Status}
}
