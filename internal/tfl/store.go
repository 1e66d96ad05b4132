// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tfl

import (
	"sync"
	"time"
)

// =============================================================================
// LIVE STATUS STORE
// =============================================================================

// Store holds live transit state shared across the UI: per-line status,
// disruptions, stations, and ancillary live data. One instance exists for
// the lifetime of the app; all mutation goes through its methods.
type Store struct {
	mu sync.Mutex

	lineStatus  map[string]*LineStatus
	disruptions map[string][]string
	stations    map[string][]string

	selectedLine string
	lastUpdated  time.Time
	isLoading    bool
	lastError    string
}

// NewStore creates an empty live status store.
func NewStore() *Store {
	return &Store{
		lineStatus:  make(map[string]*LineStatus),
		disruptions: make(map[string][]string),
		stations:    make(map[string][]string),
	}
}

// SetLineStatus records one line's live status and clears any error.
func (s *Store) SetLineStatus(tag string, status LineStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lineStatus[NormalizeTag(tag)] = &status
	s.lastError = ""
}

// SetAllStatuses replaces the full status map from one bulk fetch and
// restamps the update time.
func (s *Store) SetAllStatuses(statuses []LineStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range statuses {
		status := statuses[i]
		s.lineStatus[NormalizeTag(status.ID)] = &status
	}
	s.lastUpdated = time.Now()
	s.lastError = ""
}

// LineStatusFor returns the recorded status for a line tag, if any.
func (s *Store) LineStatusFor(tag string) (LineStatus, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	status, ok := s.lineStatus[NormalizeTag(tag)]
	if !ok {
		return LineStatus{}, false
	}
	return *status, true
}

// AllStatuses returns a copy of every recorded line status.
func (s *Store) AllStatuses() []LineStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]LineStatus, 0, len(s.lineStatus))
	for _, status := range s.lineStatus {
		out = append(out, *status)
	}
	return out
}

// GetServiceStatus classifies the recorded status of a line for display.
// Lines with no recorded status classify as unknown.
func (s *Store) GetServiceStatus(tag string) ServiceStatus {
	status, ok := s.LineStatusFor(tag)
	if !ok {
		return ServiceStatus{Level: StatusUnknown, Text: "Unknown"}
	}
	return ClassifyStatus(status.Status)
}

// SetDisruptions records active disruption descriptions for a line.
func (s *Store) SetDisruptions(tag string, disruptions []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disruptions[NormalizeTag(tag)] = disruptions
	s.lastError = ""
}

// HasActiveDisruptions reports whether a line has recorded disruptions.
func (s *Store) HasActiveDisruptions(tag string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.disruptions[NormalizeTag(tag)]) > 0
}

// SetStations records the station list for a line.
func (s *Store) SetStations(tag string, stations []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stations[NormalizeTag(tag)] = stations
	s.lastError = ""
}

// Stations returns the recorded station list for a line.
func (s *Store) Stations(tag string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.stations[NormalizeTag(tag)]...)
}

// SetSelectedLine records the line the user is focused on.
func (s *Store) SetSelectedLine(tag string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedLine = NormalizeTag(tag)
}

// SelectedLine returns the focused line tag, if any.
func (s *Store) SelectedLine() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedLine
}

// SetLoading toggles the loading flag.
func (s *Store) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isLoading = loading
}

// IsLoading reports whether a fetch is in flight.
func (s *Store) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isLoading
}

// SetError records a fetch error and clears the loading flag.
func (s *Store) SetError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = msg
	s.isLoading = false
}

// LastError returns the most recent fetch error, empty when healthy.
func (s *Store) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

// LastUpdated returns when the last bulk status fetch landed.
func (s *Store) LastUpdated() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUpdated
}

// SetLastUpdated overrides the update stamp, used when loading a cached
// snapshot whose fetch time predates this process.
func (s *Store) SetLastUpdated(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUpdated = t
}
