package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	domain "github.com/donaldgifford/bluberry/pkg/types"
)

// ParseError reports a model response that could not be decoded into an
// Estimate. Raw holds the content as returned by the backend.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing LLM price response: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// minPrice is the smallest answer that survives rounding to cents.
const minPrice = 0.01

// Estimate is the structured answer of a pricing call.
type Estimate struct {
	EstimatedPrice float64
	Confidence     domain.Confidence
	Reasoning      string
}

// rawEstimate accepts the loose shapes models produce: prices as numbers
// or strings ("$120"), confidence as a level or a score.
type rawEstimate struct {
	EstimatedPrice json.RawMessage `json:"estimatedPrice"`
	Price          json.RawMessage `json:"price"`
	Confidence     json.RawMessage `json:"confidence"`
	Reasoning      string          `json:"reasoning"`
}

// ParseEstimate extracts the JSON object from content and validates it.
// Markdown code fences and prose around the object are ignored.
func ParseEstimate(content string) (Estimate, error) {
	obj, err := extractJSONObject(content)
	if err != nil {
		return Estimate{}, &ParseError{Raw: content, Err: err}
	}

	var raw rawEstimate
	if err := json.Unmarshal([]byte(obj), &raw); err != nil {
		return Estimate{}, &ParseError{Raw: content, Err: fmt.Errorf("decoding JSON: %w", err)}
	}

	priceField := raw.EstimatedPrice
	if len(priceField) == 0 {
		priceField = raw.Price
	}
	price, err := parsePrice(priceField)
	if err != nil {
		return Estimate{}, &ParseError{Raw: content, Err: err}
	}

	conf, err := parseConfidence(raw.Confidence)
	if err != nil {
		return Estimate{}, &ParseError{Raw: content, Err: err}
	}

	return Estimate{
		EstimatedPrice: price,
		Confidence:     conf,
		Reasoning:      strings.TrimSpace(raw.Reasoning),
	}, nil
}

// extractJSONObject returns the outermost {...} span of s.
func extractJSONObject(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", errors.New("empty response")
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", errors.New("no JSON object in response")
	}

	return s[start : end+1], nil
}

func parsePrice(field json.RawMessage) (float64, error) {
	if len(field) == 0 || string(field) == "null" {
		return 0, errors.New("missing estimatedPrice")
	}

	var price float64
	if err := json.Unmarshal(field, &price); err != nil {
		var text string
		if err := json.Unmarshal(field, &text); err != nil {
			return 0, fmt.Errorf("estimatedPrice is not a number: %s", field)
		}
		text = strings.NewReplacer("$", "", ",", "", "USD", "").Replace(text)
		price, err = strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil {
			return 0, fmt.Errorf("estimatedPrice is not a number: %q", text)
		}
	}

	if math.IsNaN(price) || math.IsInf(price, 0) || price < minPrice {
		return 0, fmt.Errorf("estimatedPrice must be at least %.2f, got %v", minPrice, price)
	}

	return price, nil
}

func parseConfidence(field json.RawMessage) (domain.Confidence, error) {
	if len(field) == 0 || string(field) == "null" {
		return "", errors.New("missing confidence")
	}

	var level string
	if err := json.Unmarshal(field, &level); err == nil {
		if c, ok := domain.ParseConfidence(level); ok {
			return c, nil
		}
		return "", fmt.Errorf("unknown confidence %q", level)
	}

	var score float64
	if err := json.Unmarshal(field, &score); err != nil {
		return "", fmt.Errorf("confidence is neither a level nor a score: %s", field)
	}
	if score < 0 || score > 1 {
		return "", fmt.Errorf("confidence score %v outside [0,1]", score)
	}

	return domain.ConfidenceFromScore(score), nil
}
