// Package heuristic implements the offline, deterministic price estimator
// that terminates the estimation cascade. It never fails.
package heuristic

import (
	"math"
	"math/rand/v2"
	"regexp"
	"strings"
	"sync"

	domain "github.com/donaldgifford/bluberry/pkg/types"
)

// Band widths around the point estimate.
const (
	StandaloneBand = 0.20
	CascadeBand    = 0.15
)

const (
	minPrice          = 5.0
	longIssuesLen     = 10
	richDescriptionAt = 30
	minVariation      = 0.8
	variationSpread   = 0.4
)

// Input is the free-text description of the item being priced.
type Input struct {
	Description string
	Name        string
	Condition   string
	Issues      string
}

// conditionBracket is one step of the condition multiplier ladder.
type conditionBracket struct {
	name       string
	pattern    *regexp.Regexp
	multiplier float64
}

// Checked in order; the first matching bracket applies.
var conditionBrackets = []conditionBracket{
	{"new", regexp.MustCompile(`\b(new|sealed|unopened)\b`), 1.6},
	{"like_new", regexp.MustCompile(`\b(likenew|excellent|mint)\b`), 1.35},
	{"good", regexp.MustCompile(`\bgood\b`), 1.05},
	{"fair", regexp.MustCompile(`\b(fair|used)\b`), 0.75},
	{"poor", regexp.MustCompile(`\b(poor|damaged|broken)\b`), 0.35},
}

const poorMultiplier = 0.35

var likeNewRe = regexp.MustCompile(`like[\s_-]*new`)

// Estimator is the local heuristic price estimator. It is safe for
// concurrent use.
type Estimator struct {
	categories []Category

	mu  sync.Mutex
	rng *rand.Rand
}

// Option configures the Estimator.
type Option func(*Estimator)

// WithSeed makes the variation factor reproducible.
func WithSeed(seed uint64) Option {
	return func(e *Estimator) {
		e.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) //nolint:gosec // not security sensitive
	}
}

// WithCategories replaces the embedded category table. The table must come
// from ParseCategories or LoadCategories.
func WithCategories(cats []Category) Option {
	return func(e *Estimator) {
		if len(cats) > 0 {
			e.categories = cats
		}
	}
}

// New creates an Estimator using the embedded category table and a randomly
// seeded variation source unless overridden.
func New(opts ...Option) *Estimator {
	e := &Estimator{
		categories: DefaultCategories(),
		rng:        rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())), //nolint:gosec // not security sensitive
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Categories returns the ordered category table.
func (e *Estimator) Categories() []Category {
	out := make([]Category, len(e.categories))
	copy(out, e.categories)
	return out
}

// Estimate prices the item with the standalone range band.
func (e *Estimator) Estimate(in Input) domain.PriceEstimate {
	return e.EstimateWithBand(in, StandaloneBand)
}

// EstimateWithBand prices the item with a range of ±band around the point
// estimate. Any internal failure yields Fallback().
func (e *Estimator) EstimateWithBand(in Input, band float64) (est domain.PriceEstimate) {
	defer func() {
		if r := recover(); r != nil {
			est = Fallback()
		}
	}()

	if band <= 0 || band >= 1 {
		band = StandaloneBand
	}

	text := combinedText(in)
	cat := e.classify(text)

	price := cat.BasePrice
	premium := cat.HasPremium(text)
	if premium {
		price *= cat.PremiumMultiplier
	}

	price *= conditionMultiplier(text, in.Issues)
	price *= e.variation()
	price = math.Max(price, minPrice)
	price = RoundPrice(price)

	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return Fallback()
	}

	return domain.PriceEstimate{
		Price:          price,
		PriceRangeLow:  math.Floor(price * (1 - band)),
		PriceRangeHigh: math.Ceil(price * (1 + band)),
		Currency:       domain.DefaultCurrency,
		Confidence:     confidence(premium, cat.Name != GeneralCategory, in.Description),
		Source:         domain.SourceLocal,
	}
}

// Fallback is the fixed estimate returned when the heuristic itself fails.
func Fallback() domain.PriceEstimate {
	return domain.PriceEstimate{
		Price:          25,
		PriceRangeLow:  20,
		PriceRangeHigh: 30,
		Currency:       domain.DefaultCurrency,
		Confidence:     domain.ConfidenceLow,
		Source:         domain.SourceLocal,
	}
}

// RoundPrice rounds p to a natural denomination: nearest $100 above $1000,
// $50 above $200, $10 above $50 and $5 otherwise.
func RoundPrice(p float64) float64 {
	var step float64
	switch {
	case p > 1000:
		step = 100
	case p > 200:
		step = 50
	case p > 50:
		step = 10
	default:
		step = 5
	}
	return math.Round(p/step) * step
}

func (e *Estimator) classify(text string) *Category {
	for i := range e.categories {
		if e.categories[i].Matches(text) {
			return &e.categories[i]
		}
	}
	return &e.categories[len(e.categories)-1]
}

func (e *Estimator) variation() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return minVariation + variationSpread*e.rng.Float64()
}

func combinedText(in Input) string {
	parts := make([]string, 0, 4)
	for _, s := range []string{in.Name, in.Description, in.Condition, in.Issues} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.ToLower(strings.Join(parts, " "))
}

// ConditionMultiplier returns the multiplier for the first matching
// condition bracket, or 1 when none match.
func ConditionMultiplier(in Input) float64 {
	return conditionMultiplier(combinedText(in), in.Issues)
}

func conditionMultiplier(text, issues string) float64 {
	text = likeNewRe.ReplaceAllString(text, "likenew")
	for _, b := range conditionBrackets {
		if b.pattern.MatchString(text) {
			return b.multiplier
		}
	}
	if len(strings.TrimSpace(issues)) > longIssuesLen {
		return poorMultiplier
	}
	return 1
}

func confidence(premium, categoryMatched bool, description string) domain.Confidence {
	signals := 0
	if premium {
		signals++
	}
	if categoryMatched {
		signals++
	}
	if len(strings.TrimSpace(description)) >= richDescriptionAt {
		signals++
	}

	switch {
	case signals >= 2:
		return domain.ConfidenceHigh
	case signals == 0:
		return domain.ConfidenceLow
	default:
		return domain.ConfidenceMedium
	}
}
