// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package router

import "testing"

func TestClassifyDelivery(t *testing.T) {
	tests := []struct {
		name          string
		query         string
		streamingMode bool
		want          DeliveryMode
	}{
		{
			name:  "journey planning streams",
			query: "Plan a journey from Paddington to Westminster",
			want:  DeliveryStream,
		},
		{
			name:  "single line status is sync",
			query: "What's the current status of the Circle line?",
			want:  DeliverySync,
		},
		{
			name:  "comparison streams",
			query: "Compare the Victoria and Jubilee lines for getting to Stratford",
			want:  DeliveryStream,
		},
		{
			name:  "network wide status streams",
			query: "Are all lines running normally?",
			want:  DeliveryStream,
		},
		{
			name:  "versus infix streams",
			query: "Central vs Elizabeth to Liverpool Street",
			want:  DeliveryStream,
		},
		{
			name:  "simple greeting is sync",
			query: "hello",
			want:  DeliverySync,
		},
		{
			name:  "disruption question for one line is sync",
			query: "Is the Bakerloo line delayed?",
			want:  DeliverySync,
		},
		{
			name:          "streaming toggle forces stream",
			query:         "What's the current status of the Circle line?",
			streamingMode: true,
			want:          DeliveryStream,
		},
		{
			name:  "case insensitive matching",
			query: "PLAN A JOURNEY to Heathrow",
			want:  DeliveryStream,
		},
		{
			name:  "how do i get phrasing streams",
			query: "How do I get from Bank to Camden Town?",
			want:  DeliveryStream,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ClassifyDelivery(tc.query, tc.streamingMode)
			if got != tc.want {
				t.Errorf("ClassifyDelivery(%q, %v) = %v, want %v", tc.query, tc.streamingMode, got, tc.want)
			}
		})
	}
}

func TestMatchesStreamKeywordDoesNotMatchStatusWords(t *testing.T) {
	// Plain status vocabulary must never trigger streaming on its own
	for _, query := range []string{
		"status",
		"Is the District line running?",
		"severe delays on the Northern line?",
		"minor delays?",
	} {
		if MatchesStreamKeyword(query) {
			t.Errorf("MatchesStreamKeyword(%q) = true, want false", query)
		}
	}
}

func TestDeliveryModeString(t *testing.T) {
	if DeliverySync.String() != "sync" {
		t.Errorf("DeliverySync.String() = %q", DeliverySync.String())
	}
	if DeliveryStream.String() != "stream" {
		t.Errorf("DeliveryStream.String() = %q", DeliveryStream.String())
	}
}
