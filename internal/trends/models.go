package trends

import "encoding/json"

// RawItem is one item of the provider's dataset output. The provider's item
// shape is not contractually stable, so we keep both the decoded fields for
// extraction and the raw payload for storage.
type RawItem struct {
	Fields map[string]any
	Raw    json.RawMessage
}

// ScoredTerm is the normalized form of a raw item: one scored search term
// for one country on one date.
type ScoredTerm struct {
	Term     string
	Score    float64
	Breakout bool
	Payload  json.RawMessage
}

// CountrySummary reports the outcome of one country's ingestion job.
type CountrySummary struct {
	Country string `json:"country"`
	Count   int    `json:"count"`
	Ms      int64  `json:"ms"`
	Error   string `json:"error,omitempty"`
}

// CountryQuery bounds a per-country ranking query.
type CountryQuery struct {
	Country      string
	WindowDays   int
	BreakoutOnly bool
	Limit        int
}

// RegionQuery bounds a cross-country ranking query.
type RegionQuery struct {
	Region     string
	WindowDays int
	Limit      int
}

// CountryTrend is one ranked term for a country over the query window.
type CountryTrend struct {
	Term         string  `json:"term"`
	Score        float64 `json:"score"`
	BreakoutFlag bool    `json:"breakout_flag"`
	Points       int     `json:"points"`
}

// RegionTrend is one ranked term across a region, with the set of
// countries that contributed observations for it.
type RegionTrend struct {
	Term         string   `json:"term"`
	Score        float64  `json:"score"`
	BreakoutFlag bool     `json:"breakout_flag"`
	Countries    []string `json:"countries"`
}

// RecentTerm is one stored observation, newest first, for a country.
type RecentTerm struct {
	Term         string   `json:"term"`
	Score        float64  `json:"score"`
	Date         string   `json:"date"`
	ChangePct    *float64 `json:"change_pct"`
	BreakoutFlag bool     `json:"breakout_flag"`
}
