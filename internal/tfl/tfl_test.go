// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tfl

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// =============================================================================
// STATUS CLASSIFICATION TESTS
// =============================================================================

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		name        string
		description string
		wantLevel   StatusLevel
		wantText    string
	}{
		{"good service", "Good Service", StatusGood, "Good Service"},
		{"minor delays", "Minor Delays", StatusMinor, "Minor Delays"},
		{"severe delays", "Severe Delays", StatusSevere, "Severe Delays"},
		{"suspended", "Part Suspended", StatusSevere, "Service Suspended"},
		{"planned closure", "Planned Closure", StatusUnknown, "planned closure"},
		{"empty", "", StatusUnknown, "Unknown"},
		{"case insensitive", "GOOD SERVICE", StatusGood, "Good Service"},
		// "severe" is checked before "suspended", first match wins
		{"severe and suspended", "Severe delays, part suspended", StatusSevere, "Severe Delays"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ClassifyStatus(tc.description)
			if got.Level != tc.wantLevel {
				t.Errorf("Level = %q, want %q", got.Level, tc.wantLevel)
			}
			if got.Text != tc.wantText {
				t.Errorf("Text = %q, want %q", got.Text, tc.wantText)
			}
		})
	}
}

// =============================================================================
// LINE METADATA TESTS
// =============================================================================

func TestGetLineColorKnownLines(t *testing.T) {
	if got := GetLineColor("central").Primary; got != "#E32017" {
		t.Errorf("central Primary = %q, want #E32017", got)
	}
	if got := GetLineColor("circle").Primary; got != "#FFD300" {
		t.Errorf("circle Primary = %q, want #FFD300", got)
	}
	if !GetLineColor("circle").DarkText {
		t.Error("circle should use dark text on its light color")
	}
}

func TestGetLineColorNormalizesBackendTags(t *testing.T) {
	// Backend agents report uppercase names
	if got := GetLineColor("HAMMERSMITH_CITY").Primary; got != "#F3A9BB" {
		t.Errorf("HAMMERSMITH_CITY Primary = %q, want #F3A9BB", got)
	}
}

func TestUnknownTagFallsBackToCircle(t *testing.T) {
	circle := GetLineColor("circle")

	color := GetLineColor("crossrail2")
	if color != circle {
		t.Errorf("unknown tag color = %+v, want circle palette", color)
	}

	info := GetLineInfo("not-a-line")
	if info.Name != "Circle Line" {
		t.Errorf("unknown tag info = %q, want Circle Line", info.Name)
	}

	if IsKnownLine("crossrail2") {
		t.Error("IsKnownLine should be false for unknown tags")
	}
}

func TestLinesIncludesElizabeth(t *testing.T) {
	found := false
	for _, tag := range Lines() {
		if tag == LineElizabeth {
			found = true
		}
	}
	if !found {
		t.Error("Lines() should include the Elizabeth line")
	}
}

// =============================================================================
// CLIENT TESTS
// =============================================================================

func tubePayload() []map[string]any {
	return []map[string]any{
		{
			"id":   "victoria",
			"name": "Victoria",
			"lineStatuses": []map[string]any{
				{"statusSeverity": 10, "statusSeverityDescription": "Good Service"},
			},
		},
		{
			"id":   "northern",
			"name": "Northern",
			"lineStatuses": []map[string]any{
				{"statusSeverity": 6, "statusSeverityDescription": "Severe Delays", "reason": "signal failure at Bank"},
			},
		},
	}
}

func newFastClient(baseURL string) *Client {
	return NewClientWithConfig(&ClientConfig{
		BaseURL:           baseURL,
		Timeout:           5 * time.Second,
		RequestsPerSecond: 1000,
	})
}

func TestGetTubeStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/line/mode/tube/status":
			json.NewEncoder(w).Encode(tubePayload())
		case "/line/elizabeth/status":
			json.NewEncoder(w).Encode([]map[string]any{
				{
					"id":   "elizabeth",
					"name": "Elizabeth line",
					"lineStatuses": []map[string]any{
						{"statusSeverity": 10, "statusSeverityDescription": "Good Service"},
					},
				},
			})
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	statuses, err := newFastClient(server.URL).GetTubeStatus(context.Background())
	if err != nil {
		t.Fatalf("GetTubeStatus: %v", err)
	}

	if len(statuses) != 3 {
		t.Fatalf("len(statuses) = %d, want 3", len(statuses))
	}
	if statuses[0].Status != "Good Service" || statuses[0].Severity != 10 {
		t.Errorf("victoria = %+v", statuses[0])
	}
	if statuses[1].Reason != "signal failure at Bank" {
		t.Errorf("northern Reason = %q", statuses[1].Reason)
	}

	elizabeth := statuses[2]
	if elizabeth.ID != "elizabeth" || elizabeth.Name != "Elizabeth" {
		t.Errorf("elizabeth entry = %+v", elizabeth)
	}
	if elizabeth.Status != "Good Service" {
		t.Errorf("elizabeth Status = %q", elizabeth.Status)
	}
}

func TestGetTubeStatusElizabethPlaceholder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/line/mode/tube/status":
			json.NewEncoder(w).Encode(tubePayload())
		case "/line/elizabeth/status":
			http.Error(w, "upstream timeout", http.StatusBadGateway)
		}
	}))
	defer server.Close()

	statuses, err := newFastClient(server.URL).GetTubeStatus(context.Background())
	if err != nil {
		t.Fatalf("GetTubeStatus: %v", err)
	}

	// Tube lines succeed, Elizabeth degrades to a placeholder
	if len(statuses) != 3 {
		t.Fatalf("len(statuses) = %d, want 3", len(statuses))
	}
	elizabeth := statuses[2]
	if elizabeth.ID != "elizabeth" || elizabeth.Name != "Elizabeth" {
		t.Errorf("placeholder identity = %+v", elizabeth)
	}
	if elizabeth.Status != "Status Unavailable" {
		t.Errorf("placeholder Status = %q, want Status Unavailable", elizabeth.Status)
	}
	if elizabeth.Severity != 0 {
		t.Errorf("placeholder Severity = %d, want 0", elizabeth.Severity)
	}
}

func TestGetTubeStatusBulkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := newFastClient(server.URL).GetTubeStatus(context.Background())
	if err == nil {
		t.Fatal("expected an error when the bulk fetch fails")
	}
}

func TestGetTubeStatusMissingLineStatuses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/line/mode/tube/status":
			// Entry with no lineStatuses array
			json.NewEncoder(w).Encode([]map[string]any{{"id": "circle", "name": "Circle"}})
		case "/line/elizabeth/status":
			http.Error(w, "nope", http.StatusNotFound)
		}
	}))
	defer server.Close()

	statuses, err := newFastClient(server.URL).GetTubeStatus(context.Background())
	if err != nil {
		t.Fatalf("GetTubeStatus: %v", err)
	}
	if statuses[0].Status != "Unknown" || statuses[0].Severity != 0 {
		t.Errorf("degraded entry = %+v, want Unknown/0", statuses[0])
	}
}

// =============================================================================
// STORE TESTS
// =============================================================================

func TestNormalizeTagHyphenatedIDs(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"hammersmith-city", LineHammersmithCity},
		{"waterloo-city", LineWaterlooCity},
		{"HAMMERSMITH_CITY", LineHammersmithCity},
		{" Victoria ", LineVictoria},
	}
	for _, tt := range tests {
		if got := NormalizeTag(tt.in); got != tt.want {
			t.Errorf("NormalizeTag(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTfLID(t *testing.T) {
	tests := []struct {
		tag  string
		want string
	}{
		{LineHammersmithCity, "hammersmith-city"},
		{LineWaterlooCity, "waterloo-city"},
		{LineVictoria, "victoria"},
		{"hammersmith-city", "hammersmith-city"},
	}
	for _, tt := range tests {
		if got := TfLID(tt.tag); got != tt.want {
			t.Errorf("TfLID(%q) = %q, want %q", tt.tag, got, tt.want)
		}
	}
}

func TestGetLineStatusUsesHyphenatedPath(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode([]map[string]any{
			{
				"id":   "hammersmith-city",
				"name": "Hammersmith & City",
				"lineStatuses": []map[string]any{
					{"statusSeverity": 10, "statusSeverityDescription": "Good Service"},
				},
			},
		})
	}))
	defer server.Close()

	status, err := newFastClient(server.URL).GetLineStatus(context.Background(), LineHammersmithCity)
	if err != nil {
		t.Fatalf("GetLineStatus: %v", err)
	}
	if gotPath != "/line/hammersmith-city/status" {
		t.Errorf("path = %q, want hyphenated TfL ID", gotPath)
	}
	// The hyphenated payload ID comes back as the underscore tag, so it
	// keys into the livery table instead of the Circle fallback.
	if status.ID != LineHammersmithCity {
		t.Errorf("ID = %q, want %q", status.ID, LineHammersmithCity)
	}
	if GetLineColor(status.ID).Primary != "#F3A9BB" {
		t.Errorf("livery = %q, want Hammersmith & City pink", GetLineColor(status.ID).Primary)
	}
}

func TestStoreServiceStatus(t *testing.T) {
	store := NewStore()

	if got := store.GetServiceStatus("victoria"); got.Level != StatusUnknown {
		t.Errorf("empty store level = %q, want unknown", got.Level)
	}

	store.SetLineStatus("victoria", LineStatus{ID: "victoria", Status: "Minor Delays"})
	if got := store.GetServiceStatus("victoria"); got.Level != StatusMinor {
		t.Errorf("level = %q, want minor", got.Level)
	}
}

func TestStoreSetAllStatuses(t *testing.T) {
	store := NewStore()
	store.SetAllStatuses([]LineStatus{
		{ID: "circle", Name: "Circle", Status: "Good Service"},
		{ID: "elizabeth", Name: "Elizabeth", Status: "Status Unavailable"},
	})

	if len(store.AllStatuses()) != 2 {
		t.Errorf("AllStatuses len = %d, want 2", len(store.AllStatuses()))
	}
	if store.LastUpdated().IsZero() {
		t.Error("SetAllStatuses should stamp LastUpdated")
	}
	if got := store.GetServiceStatus("elizabeth"); got.Level != StatusUnknown {
		t.Errorf("placeholder level = %q, want unknown", got.Level)
	}
}

func TestStoreErrorClearsLoading(t *testing.T) {
	store := NewStore()
	store.SetLoading(true)
	store.SetError("TfL API unreachable")

	if store.IsLoading() {
		t.Error("SetError should clear the loading flag")
	}
	if store.LastError() == "" {
		t.Error("LastError should be recorded")
	}

	// A successful status write clears the error
	store.SetLineStatus("circle", LineStatus{ID: "circle", Status: "Good Service"})
	if store.LastError() != "" {
		t.Error("status write should clear the error")
	}
}

func TestStoreDisruptions(t *testing.T) {
	store := NewStore()

	if store.HasActiveDisruptions("district") {
		t.Error("no disruptions recorded yet")
	}
	store.SetDisruptions("district", []string{"Earl's Court closed"})
	if !store.HasActiveDisruptions("district") {
		t.Error("disruption should be visible")
	}
}

// =============================================================================
// CACHE TESTS
// =============================================================================

func TestCacheRoundTrip(t *testing.T) {
	cache, err := NewCache(t.TempDir() + "/status.db")
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	defer cache.Close()

	// Empty cache
	_, _, ok, err := cache.Get()
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Error("empty cache should report no snapshot")
	}

	fetched := time.Now().Add(-10 * time.Minute).Truncate(time.Second)
	statuses := []LineStatus{
		{ID: "circle", Name: "Circle", Status: "Good Service", Severity: 10},
		{ID: "northern", Name: "Northern", Status: "Severe Delays", Severity: 6, Reason: "signal failure"},
	}
	if err := cache.Put(statuses, fetched); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, at, ok, err := cache.Get()
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatal("cache should report a snapshot")
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if !at.Equal(fetched) {
		t.Errorf("fetch time = %v, want %v", at, fetched)
	}

	// Overwrite updates rather than duplicates
	if err := cache.Put([]LineStatus{{ID: "circle", Name: "Circle", Status: "Minor Delays", Severity: 9}}, time.Now()); err != nil {
		t.Fatalf("Put (overwrite): %v", err)
	}
	got, _, _, err = cache.Get()
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("len after overwrite = %d, want 2", len(got))
	}
	for _, s := range got {
		if s.ID == "circle" && s.Status != "Minor Delays" {
			t.Errorf("circle Status = %q, want Minor Delays", s.Status)
		}
	}
}
