// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tfl

import "strings"

// =============================================================================
// LINE METADATA
// =============================================================================

// LineColor holds the official TfL color palette for one line.
type LineColor struct {
	// Primary is the official line color (TfL corporate identity).
	Primary string
	// Secondary is a darkened variant for accents.
	Secondary string
	// DarkText selects black text on light line colors.
	DarkText bool
}

// LineInfo holds static descriptive metadata for one line.
type LineInfo struct {
	Name        string
	Description string
	Zones       []string
	Termini     []string
	Icon        string
}

// Line tags as the backend emits them (lowercased agent names).
const (
	LineCircle          = "circle"
	LineBakerloo        = "bakerloo"
	LineDistrict        = "district"
	LineCentral         = "central"
	LineNorthern        = "northern"
	LinePiccadilly      = "piccadilly"
	LineVictoria        = "victoria"
	LineJubilee         = "jubilee"
	LineMetropolitan    = "metropolitan"
	LineHammersmithCity = "hammersmith_city"
	LineWaterlooCity    = "waterloo_city"
	LineElizabeth       = "elizabeth"
	// LineNetworkStatus is the pseudo-line for network-wide answers.
	LineNetworkStatus = "status"
)

// lineColors maps line tags to their official palette.
var lineColors = map[string]LineColor{
	LineCircle:          {Primary: "#FFD300", Secondary: "#E6BE00", DarkText: true},
	LineBakerloo:        {Primary: "#B36305", Secondary: "#8F4F04"},
	LineDistrict:        {Primary: "#00782A", Secondary: "#005A1F"},
	LineCentral:         {Primary: "#E32017", Secondary: "#C71C0C"},
	LineNorthern:        {Primary: "#000000", Secondary: "#333333"},
	LinePiccadilly:      {Primary: "#003688", Secondary: "#002455"},
	LineVictoria:        {Primary: "#0098D4", Secondary: "#0077AA"},
	LineJubilee:         {Primary: "#A0A5A9", Secondary: "#7D8387"},
	LineMetropolitan:    {Primary: "#9B0056", Secondary: "#7A0044"},
	LineHammersmithCity: {Primary: "#F3A9BB", Secondary: "#E088A1", DarkText: true},
	LineWaterlooCity:    {Primary: "#95CDBA", Secondary: "#7AB8A3", DarkText: true},
	LineElizabeth:       {Primary: "#7156A5", Secondary: "#5A4382"},
	LineNetworkStatus:   {Primary: "#374151", Secondary: "#1F2937"},
}

// lineInfo maps line tags to descriptive metadata.
var lineInfo = map[string]LineInfo{
	LineCircle: {
		Name:        "Circle Line",
		Description: "Serving central London in a loop around Zone 1",
		Zones:       []string{"1", "2"},
		Termini:     []string{"Edgware Road", "Hammersmith"},
		Icon:        "⭕",
	},
	LineBakerloo: {
		Name:        "Bakerloo Line",
		Description: "From Harrow & Wealdstone to Elephant & Castle",
		Zones:       []string{"1", "2", "3", "4", "5"},
		Termini:     []string{"Harrow & Wealdstone", "Elephant & Castle"},
		Icon:        "🟤",
	},
	LineDistrict: {
		Name:        "District Line",
		Description: "Multiple branches serving West and Southwest London",
		Zones:       []string{"1", "2", "3", "4", "5", "6"},
		Termini:     []string{"Ealing Broadway", "Richmond", "Wimbledon", "Upminster"},
		Icon:        "🟢",
	},
	LineCentral: {
		Name:        "Central Line",
		Description: "East-west across London from West Ruislip to Epping/Hainault",
		Zones:       []string{"1", "2", "3", "4", "5", "6"},
		Termini:     []string{"West Ruislip", "Ealing Broadway", "Epping", "Hainault"},
		Icon:        "🔴",
	},
	LineNorthern: {
		Name:        "Northern Line",
		Description: "North-south through London with Charing Cross and Bank branches",
		Zones:       []string{"1", "2", "3", "4", "5", "6"},
		Termini:     []string{"Morden", "Edgware", "High Barnet", "Mill Hill East"},
		Icon:        "⚫",
	},
	LinePiccadilly: {
		Name:        "Piccadilly Line",
		Description: "London's longest line serving Heathrow Airport",
		Zones:       []string{"1", "2", "3", "4", "5", "6"},
		Termini:     []string{"Cockfosters", "Heathrow T2&3", "Heathrow T4", "Heathrow T5", "Uxbridge"},
		Icon:        "🔵",
	},
	LineVictoria: {
		Name:        "Victoria Line",
		Description: "High-frequency automated line from North to South London",
		Zones:       []string{"1", "2", "3"},
		Termini:     []string{"Brixton", "Walthamstow Central"},
		Icon:        "🔷",
	},
	LineJubilee: {
		Name:        "Jubilee Line",
		Description: "Modern line serving Canary Wharf and Greenwich",
		Zones:       []string{"1", "2", "3", "4"},
		Termini:     []string{"Stanmore", "Stratford"},
		Icon:        "🔘",
	},
	LineMetropolitan: {
		Name:        "Metropolitan Line",
		Description: "Historic line extending into Buckinghamshire countryside",
		Zones:       []string{"1", "2", "3", "4", "5", "6", "7", "8", "9"},
		Termini:     []string{"Aldgate", "Amersham", "Chesham", "Uxbridge", "Watford"},
		Icon:        "🟣",
	},
	LineHammersmithCity: {
		Name:        "Hammersmith & City Line",
		Description: "Cross-London connector from West to East",
		Zones:       []string{"1", "2", "3", "4", "5", "6"},
		Termini:     []string{"Hammersmith", "Barking"},
		Icon:        "🌸",
	},
	LineWaterlooCity: {
		Name:        "Waterloo & City Line",
		Description: "Business shuttle between Waterloo and Bank (weekdays only)",
		Zones:       []string{"1"},
		Termini:     []string{"Waterloo", "Bank"},
		Icon:        "🔧",
	},
	LineElizabeth: {
		Name:        "Elizabeth Line",
		Description: "London's newest high-capacity cross-city railway",
		Zones:       []string{"1", "2", "3", "4", "5", "6"},
		Termini:     []string{"Reading", "Heathrow T2&3", "Heathrow T4", "Heathrow T5", "Abbey Wood", "Shenfield"},
		Icon:        "🟪",
	},
	LineNetworkStatus: {
		Name:        "Network Status",
		Description: "London Underground network-wide service information",
		Zones:       []string{"All"},
		Termini:     []string{"Network-wide coverage"},
		Icon:        "📊",
	},
}

// Lines returns all known line tags, Underground lines first.
func Lines() []string {
	return []string{
		LineBakerloo, LineCentral, LineCircle, LineDistrict,
		LineHammersmithCity, LineJubilee, LineMetropolitan, LineNorthern,
		LinePiccadilly, LineVictoria, LineWaterlooCity, LineElizabeth,
	}
}

// NormalizeTag converts a backend agent name (e.g. "HAMMERSMITH_CITY") or
// a TfL API line ID (e.g. "hammersmith-city") to a line tag key.
func NormalizeTag(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	return strings.ReplaceAll(tag, "-", "_")
}

// TfLID converts a line tag to the identifier the TfL API uses in URL
// paths and payloads. TfL hyphenates multi-word line IDs where the backend
// agents use underscores.
func TfLID(tag string) string {
	return strings.ReplaceAll(NormalizeTag(tag), "_", "-")
}

// GetLineColor returns the color palette for a line tag. Unknown tags fall
// back to the Circle line so callers always get a usable palette.
func GetLineColor(tag string) LineColor {
	if c, ok := lineColors[NormalizeTag(tag)]; ok {
		return c
	}
	return lineColors[LineCircle]
}

// GetLineInfo returns descriptive metadata for a line tag, with the same
// Circle-line fallback as GetLineColor.
func GetLineInfo(tag string) LineInfo {
	if info, ok := lineInfo[NormalizeTag(tag)]; ok {
		return info
	}
	return lineInfo[LineCircle]
}

// IsKnownLine reports whether the tag names a real line (or the network
// pseudo-line) without triggering the fallback.
func IsKnownLine(tag string) bool {
	_, ok := lineInfo[NormalizeTag(tag)]
	return ok
}
