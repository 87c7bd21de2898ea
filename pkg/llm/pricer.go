package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/donaldgifford/bluberry/internal/metrics"
	domain "github.com/donaldgifford/bluberry/pkg/types"
)

// PriceQuery describes the item being priced.
type PriceQuery struct {
	Name        string
	Description string
	Condition   string
	Issues      string
}

// PriceEstimator defines the LLM pricing interface used by the orchestrator.
type PriceEstimator interface {
	EstimateWithComparables(
		ctx context.Context,
		q PriceQuery,
		comparables []domain.ComparableItem,
	) (Estimate, error)
	EstimateWithoutComparables(ctx context.Context, q PriceQuery) (Estimate, error)
}

// Pricer implements PriceEstimator on top of an LLMBackend.
type Pricer struct {
	backend     LLMBackend
	temperature float64
	maxTokens   int
}

// PricerOption configures the Pricer.
type PricerOption func(*Pricer)

// WithTemperature sets the LLM temperature for pricing calls.
func WithTemperature(t float64) PricerOption {
	return func(p *Pricer) {
		p.temperature = t
	}
}

// WithMaxTokens sets the max tokens for LLM responses.
func WithMaxTokens(n int) PricerOption {
	return func(p *Pricer) {
		if n > 0 {
			p.maxTokens = n
		}
	}
}

// NewPricer creates a new Pricer.
func NewPricer(backend LLMBackend, opts ...PricerOption) *Pricer {
	p := &Pricer{
		backend:     backend,
		temperature: 0.2,
		maxTokens:   512,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Backend returns the name of the underlying backend.
func (p *Pricer) Backend() string {
	return p.backend.Name()
}

// EstimateWithComparables prices the item using marketplace comparables
// as evidence.
func (p *Pricer) EstimateWithComparables(
	ctx context.Context,
	q PriceQuery,
	comparables []domain.ComparableItem,
) (Estimate, error) {
	if len(comparables) == 0 {
		return Estimate{}, errors.New("no comparables provided")
	}

	prompt, err := RenderWithComparablesPrompt(q, comparables)
	if err != nil {
		return Estimate{}, err
	}

	return p.generate(ctx, prompt)
}

// EstimateWithoutComparables prices the item from the description alone.
func (p *Pricer) EstimateWithoutComparables(
	ctx context.Context,
	q PriceQuery,
) (Estimate, error) {
	prompt, err := RenderWithoutComparablesPrompt(q)
	if err != nil {
		return Estimate{}, err
	}

	return p.generate(ctx, prompt)
}

func (p *Pricer) generate(ctx context.Context, prompt string) (Estimate, error) {
	start := time.Now()
	resp, err := p.backend.Generate(ctx, GenerateRequest{
		Messages: []Message{
			{Role: RoleSystem, Content: systemPrompt},
			{Role: RoleUser, Content: prompt},
		},
		Format:      FormatJSON,
		Temperature: p.temperature,
		MaxTokens:   p.maxTokens,
	})
	metrics.LLMRequestDuration.WithLabelValues(p.backend.Name()).
		Observe(time.Since(start).Seconds())
	if err != nil {
		return Estimate{}, fmt.Errorf("calling LLM for pricing: %w", err)
	}

	est, err := ParseEstimate(resp.Content)
	if err != nil {
		metrics.LLMParseFailuresTotal.Inc()
		return Estimate{}, err
	}

	return est, nil
}
