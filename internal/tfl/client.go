// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tfl

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// =============================================================================
// STATUS TYPES
// =============================================================================

// LineStatus is one line's live status, normalized from the TfL payload.
type LineStatus struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Status   string `json:"status"`
	Severity int    `json:"statusSeverity"`
	Reason   string `json:"reason,omitempty"`
}

// statusUnavailable is the placeholder status when a line's fetch fails.
const statusUnavailable = "Status Unavailable"

// tflLine is the raw TfL API line entry.
type tflLine struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	LineStatuses []struct {
		StatusSeverity            int    `json:"statusSeverity"`
		StatusSeverityDescription string `json:"statusSeverityDescription"`
		Reason                    string `json:"reason"`
	} `json:"lineStatuses"`
}

// normalize flattens a raw TfL entry to a LineStatus, defaulting to an
// unknown status when the entry carries no lineStatuses array.
func (l tflLine) normalize() LineStatus {
	// TfL IDs are hyphenated; tags are the underscore agent form so they
	// key into the livery and metadata tables.
	status := LineStatus{
		ID:     NormalizeTag(l.ID),
		Name:   l.Name,
		Status: "Unknown",
	}
	if len(l.LineStatuses) > 0 {
		first := l.LineStatuses[0]
		if first.StatusSeverityDescription != "" {
			status.Status = first.StatusSeverityDescription
		}
		status.Severity = first.StatusSeverity
		status.Reason = first.Reason
	}
	return status
}

// =============================================================================
// CLIENT
// =============================================================================

// ClientError represents an error from the TfL API client.
type ClientError struct {
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

// ClientConfig holds configuration options for the TfL client.
type ClientConfig struct {
	// BaseURL is the TfL API base URL (default: https://api.tfl.gov.uk)
	BaseURL string

	// Timeout for status requests (default: 15s)
	Timeout time.Duration

	// RequestsPerSecond caps the request rate against the public API
	// (default: 1, burst 2)
	RequestsPerSecond float64
}

// DefaultConfig returns the default TfL client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:           "https://api.tfl.gov.uk",
		Timeout:           15 * time.Second,
		RequestsPerSecond: 1,
	}
}

// Client fetches live line status from the public TfL API.
//
// The Client is thread-safe for concurrent use. All calls pass through a
// shared rate limiter since the public API throttles anonymous clients.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a TfL client with default configuration.
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates a TfL client with custom configuration.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	if config.BaseURL == "" {
		config.BaseURL = "https://api.tfl.gov.uk"
	}
	if config.Timeout == 0 {
		config.Timeout = 15 * time.Second
	}
	if config.RequestsPerSecond == 0 {
		config.RequestsPerSecond = 1
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(config.RequestsPerSecond), 2),
	}
}

// =============================================================================
// STATUS FETCH
// =============================================================================

// GetTubeStatus fetches the status of every Underground line plus the
// Elizabeth line. The Elizabeth line runs under a different mode on the TfL
// API, so it is fetched separately; if that call fails, a placeholder entry
// with "Status Unavailable" and severity 0 is appended instead of failing
// the whole fetch. A failure of the bulk tube fetch is returned as an error.
func (c *Client) GetTubeStatus(ctx context.Context) ([]LineStatus, error) {
	var lines []tflLine
	if err := c.getJSON(ctx, "/line/mode/tube/status", &lines); err != nil {
		return nil, err
	}

	statuses := make([]LineStatus, 0, len(lines)+1)
	for _, line := range lines {
		statuses = append(statuses, line.normalize())
	}

	elizabeth, err := c.GetLineStatus(ctx, LineElizabeth)
	if err != nil {
		slog.Warn("elizabeth line status unavailable", "err", err)
		statuses = append(statuses, LineStatus{
			ID:       LineElizabeth,
			Name:     "Elizabeth",
			Status:   statusUnavailable,
			Severity: 0,
		})
	} else {
		// Keep the tag stable regardless of what TfL reports as the ID
		elizabeth.ID = LineElizabeth
		elizabeth.Name = "Elizabeth"
		statuses = append(statuses, *elizabeth)
	}

	return statuses, nil
}

// GetLineStatus fetches the status of a single line by tag.
func (c *Client) GetLineStatus(ctx context.Context, tag string) (*LineStatus, error) {
	var lines []tflLine
	if err := c.getJSON(ctx, "/line/"+TfLID(tag)+"/status", &lines); err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, &ClientError{Message: "empty status payload for line " + tag}
	}

	status := lines[0].normalize()
	return &status, nil
}

// getJSON issues a rate-limited GET against the TfL API.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &ClientError{Message: "rate limiter interrupted", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+path, nil)
	if err != nil {
		return &ClientError{Message: "failed to create request", Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return &ClientError{Message: "TfL request timed out", Cause: err}
		}
		return &ClientError{Message: "TfL API unreachable", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &ClientError{Message: "TfL API returned " + resp.Status}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ClientError{Message: "failed to decode TfL response", Cause: err}
	}
	return nil
}
