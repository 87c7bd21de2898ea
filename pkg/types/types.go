// Package domain defines the core business types for BluBerry price estimation.
package domain

import (
	"fmt"
	"strings"
	"time"
)

// DefaultCurrency is the currency every estimate is expressed in.
const DefaultCurrency = "USD"

// Confidence is the coarse trust level attached to an estimate.
type Confidence string

// Confidence constants.
const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// Score maps the confidence level onto the numeric scale reported by the API.
func (c Confidence) Score() float64 {
	switch c {
	case ConfidenceHigh:
		return 0.9
	case ConfidenceMedium:
		return 0.7
	default:
		return 0.5
	}
}

// Valid reports whether c is one of the known confidence levels.
func (c Confidence) Valid() bool {
	switch c {
	case ConfidenceLow, ConfidenceMedium, ConfidenceHigh:
		return true
	default:
		return false
	}
}

// ParseConfidence normalizes free-form confidence text ("High", " medium ")
// into a Confidence. The second return value is false for unknown input.
func ParseConfidence(raw string) (Confidence, bool) {
	c := Confidence(strings.ToLower(strings.TrimSpace(raw)))
	return c, c.Valid()
}

// ConfidenceFromScore buckets a numeric confidence in [0,1] into a level.
func ConfidenceFromScore(score float64) Confidence {
	switch {
	case score >= 0.8:
		return ConfidenceHigh
	case score >= 0.6:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// Source records which estimation stage produced a price.
type Source string

// Source constants.
const (
	SourceMarketplaceLLM Source = "marketplace_llm"
	SourceLLMOnly        Source = "llm_only"
	SourceLocal          Source = "local"
	SourceCache          Source = "cache"
	SourceContentFilter  Source = "content_filter"
)

// PriceEstimate is the normalized output of every estimation stage.
// Money values are whole or fractional dollars in Currency.
type PriceEstimate struct {
	Price          float64    `json:"price"`
	PriceRangeLow  float64    `json:"price_range_low"`
	PriceRangeHigh float64    `json:"price_range_high"`
	Currency       string     `json:"currency"`
	Confidence     Confidence `json:"confidence"`
	Source         Source     `json:"source"`
	Reasoning      string     `json:"reasoning,omitempty"`
	ReferenceCount int        `json:"reference_count"`
}

// InRange reports whether the point estimate lies within its bounds.
func (e *PriceEstimate) InRange() bool {
	return e.PriceRangeLow <= e.Price && e.Price <= e.PriceRangeHigh
}

// ComparableItem is a similar marketplace listing used as pricing evidence.
// Comparables are built per request and never persisted.
type ComparableItem struct {
	Title      string  `json:"title"`
	Price      float64 `json:"price"`
	Currency   string  `json:"currency"`
	Condition  string  `json:"condition,omitempty"`
	ListingURL string  `json:"listing_url,omitempty"`
	ImageURL   string  `json:"image_url,omitempty"`
}

// ItemEstimate is an estimate persisted against an item record.
type ItemEstimate struct {
	ItemID    string        `json:"item_id"    db:"item_id"`
	Estimate  PriceEstimate `json:"estimate"`
	CreatedAt time.Time     `json:"created_at" db:"created_at"`
}

// FormatMoney renders a dollar amount the way the UI displays it: whole
// dollars without decimals, otherwise two decimals.
func FormatMoney(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("$%d", int64(v))
	}
	return fmt.Sprintf("$%.2f", v)
}
