// Package estimate implements the price estimation cascade: content
// filter, cache, marketplace comparables, LLM pricing with and without
// comparables, and the local heuristic as the final stage.
package estimate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/donaldgifford/bluberry/internal/ebay"
	"github.com/donaldgifford/bluberry/internal/metrics"
	"github.com/donaldgifford/bluberry/pkg/heuristic"
	"github.com/donaldgifford/bluberry/pkg/llm"
	domain "github.com/donaldgifford/bluberry/pkg/types"
)

// Stage names used in logs, spans and metrics.
const (
	StageMarketplace        = "marketplace_fetch"
	StageLLMWithComparables = "llm_with_comparables"
	StageLLMOnly            = "llm_only"
	StageLocal              = "local_heuristic"
)

const (
	defaultStageTimeout   = 8 * time.Second
	defaultPersistTimeout = 5 * time.Second
	defaultMaxComparables = 10
	minMaxComparables     = 3
	llmBand               = 0.15
	maxQueryLen           = 100
	cacheKind             = "price"
	tracerName            = "github.com/donaldgifford/bluberry/internal/estimate"
)

// Request is a single price request.
type Request struct {
	Description string
	ItemName    string
	Condition   string
	Issues      string
	ItemID      string
}

// Result is the outcome of Service.Estimate. Comparables are only set for
// marketplace_llm results computed in this call.
type Result struct {
	Estimate    domain.PriceEstimate
	Comparables []domain.ComparableItem
	Cached      bool
}

// Recorder persists a final estimate against an item record.
type Recorder interface {
	SaveEstimate(ctx context.Context, itemID string, est domain.PriceEstimate) error
}

// Estimator is the interface handlers depend on.
type Estimator interface {
	Estimate(ctx context.Context, req Request) (*Result, error)
	Status() Status
}

// Status summarizes the estimator's shared state.
type Status struct {
	Breakers     map[string]CircuitState `json:"breakers"`
	CacheEntries int                     `json:"cache_entries"`
	Marketplace  bool                    `json:"marketplace_enabled"`
	LLMBackend   string                  `json:"llm_backend,omitempty"`
	Persistence  bool                    `json:"persistence_enabled"`
}

// Service runs the estimation cascade. It is safe for concurrent use.
type Service struct {
	cache       Cache
	breaker     *Breaker
	filter      *ContentFilter
	comparables ebay.ComparableFetcher
	pricer      llm.PriceEstimator
	llmName     string
	local       *heuristic.Estimator
	recorder    Recorder
	log         *slog.Logger
	tracer      trace.Tracer

	stageTimeout   time.Duration
	persistTimeout time.Duration
	maxComparables int

	wg sync.WaitGroup
}

// Option configures the Service.
type Option func(*Service)

// WithCache sets the estimate cache.
func WithCache(c Cache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

// WithBreaker sets the circuit breaker.
func WithBreaker(b *Breaker) Option {
	return func(s *Service) {
		s.breaker = b
	}
}

// WithContentFilter sets the content filter.
func WithContentFilter(f *ContentFilter) Option {
	return func(s *Service) {
		s.filter = f
	}
}

// WithComparableFetcher enables the marketplace stage.
func WithComparableFetcher(f ebay.ComparableFetcher) Option {
	return func(s *Service) {
		s.comparables = f
	}
}

// WithPricer enables the LLM stages. name labels the backend in Status.
func WithPricer(p llm.PriceEstimator, name string) Option {
	return func(s *Service) {
		s.pricer = p
		s.llmName = name
	}
}

// WithHeuristic sets the local heuristic estimator.
func WithHeuristic(h *heuristic.Estimator) Option {
	return func(s *Service) {
		s.local = h
	}
}

// WithRecorder enables fire-and-forget persistence for requests with an
// item ID.
func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		s.recorder = r
	}
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.log = l
	}
}

// WithTracer overrides the tracer taken from the global provider.
func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// WithStageTimeout bounds each remote stage.
func WithStageTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.stageTimeout = d
		}
	}
}

// WithPersistTimeout bounds each background persistence write.
func WithPersistTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.persistTimeout = d
		}
	}
}

// WithMaxComparables caps the comparables passed to the LLM and returned to
// the caller. Values below 3 are raised to 3.
func WithMaxComparables(n int) Option {
	return func(s *Service) {
		s.maxComparables = max(n, minMaxComparables)
	}
}

// NewService creates a Service. Without a fetcher or pricer the
// corresponding stages are skipped; the local heuristic always runs last.
func NewService(opts ...Option) *Service {
	s := &Service{
		log:            slog.Default(),
		stageTimeout:   defaultStageTimeout,
		persistTimeout: defaultPersistTimeout,
		maxComparables: defaultMaxComparables,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cache == nil {
		s.cache = NewMemoryCache(DefaultCacheTTL)
	}
	if s.breaker == nil {
		s.breaker = NewBreaker()
	}
	if s.filter == nil {
		s.filter = NewContentFilter(DefaultBlockedTerms)
	}
	if s.local == nil {
		s.local = heuristic.New()
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer(tracerName)
	}
	return s
}

// Estimate returns a price for req. The only error is *ValidationError;
// every provider failure degrades to the next stage.
func (s *Service) Estimate(ctx context.Context, req Request) (*Result, error) {
	req = req.trimmed()
	if req.Description == "" && req.ItemName == "" {
		return nil, &ValidationError{
			Field:   "description",
			Message: "a description or an item name is required",
		}
	}

	ctx, span := s.tracer.Start(ctx, "estimate.Estimate")
	defer span.End()

	if term, blocked := s.filter.Blocked(req.ItemName, req.Description, req.Issues); blocked {
		metrics.ContentFilterHitsTotal.Inc()
		metrics.EstimatesTotal.WithLabelValues(string(domain.SourceContentFilter)).Inc()
		s.log.Info("request blocked by content filter", "term", term)
		span.SetAttributes(attribute.String("estimate.source", string(domain.SourceContentFilter)))
		return &Result{Estimate: contentFilterEstimate()}, nil
	}

	key := CacheKey(req)
	if est, ok := s.cacheGet(ctx, key); ok {
		metrics.CacheHitsTotal.Inc()
		span.SetAttributes(
			attribute.Bool("estimate.cached", true),
			attribute.String("estimate.source", string(est.Source)),
		)
		s.persist(ctx, req.ItemID, est)
		return &Result{Estimate: est, Cached: true}, nil
	}
	metrics.CacheMissesTotal.Inc()

	res := s.cascade(ctx, req)

	s.cachePut(ctx, key, res.Estimate)
	metrics.EstimatesTotal.WithLabelValues(string(res.Estimate.Source)).Inc()
	span.SetAttributes(
		attribute.String("estimate.source", string(res.Estimate.Source)),
		attribute.Float64("estimate.price", res.Estimate.Price),
	)
	s.log.Debug("estimate computed",
		"source", res.Estimate.Source,
		"price", res.Estimate.Price,
		"confidence", res.Estimate.Confidence,
		"reference_count", res.Estimate.ReferenceCount,
	)

	s.persist(ctx, req.ItemID, res.Estimate)
	return res, nil
}

// Status returns breaker states and cache occupancy.
func (s *Service) Status() Status {
	st := Status{
		Breakers:     s.breaker.States(),
		CacheEntries: -1,
		Marketplace:  s.comparables != nil,
		Persistence:  s.recorder != nil,
	}
	if s.pricer != nil {
		st.LLMBackend = s.llmName
	}
	if l, ok := s.cache.(interface{ Len() int }); ok {
		st.CacheEntries = l.Len()
	}
	return st
}

// Breaker returns the service's circuit breaker.
func (s *Service) Breaker() *Breaker {
	return s.breaker
}

// Close waits for in-flight persistence writes.
func (s *Service) Close() {
	s.wg.Wait()
}

// CacheKey is the normalized fingerprint of a request. The item ID is not
// part of the key.
func CacheKey(req Request) string {
	return GenerateKey(cacheKind, map[string]string{
		"condition":   normalize(req.Condition),
		"description": normalize(req.Description),
		"issues":      normalize(req.Issues),
		"name":        normalize(req.ItemName),
	})
}

// cascade runs marketplace → LLM with comparables → LLM only → local.
func (s *Service) cascade(ctx context.Context, req Request) *Result {
	q := llm.PriceQuery{
		Name:        req.ItemName,
		Description: req.Description,
		Condition:   req.Condition,
		Issues:      req.Issues,
	}

	comparables := s.fetchComparables(ctx, req)
	if len(comparables) > 0 {
		if res, ok := s.llmWithComparables(ctx, q, comparables); ok {
			return res
		}
	}

	if res, ok := s.llmOnly(ctx, q); ok {
		return res
	}

	return &Result{Estimate: s.localEstimate(ctx, req)}
}

func (s *Service) fetchComparables(ctx context.Context, req Request) []domain.ComparableItem {
	if s.comparables == nil {
		return nil
	}
	if !s.breaker.IsAvailable(ServiceMarketplace) {
		metrics.StageFailuresTotal.WithLabelValues(StageMarketplace, "circuit_open").Inc()
		s.log.Debug("marketplace circuit open, skipping comparables")
		return nil
	}

	var comparables []domain.ComparableItem
	err := s.runStage(ctx, StageMarketplace, func(ctx context.Context) error {
		var err error
		comparables, err = s.comparables.FetchComparables(ctx, ebay.ComparableQuery{
			Query:     searchQuery(req),
			Condition: req.Condition,
		})
		return err
	})
	if err != nil {
		s.breaker.RecordFailure(ServiceMarketplace)
		s.log.Warn("comparable fetch failed", "error", err, "kind", ebay.KindOf(err))
		return nil
	}

	s.breaker.RecordSuccess(ServiceMarketplace)
	return comparables
}

func (s *Service) llmWithComparables(
	ctx context.Context,
	q llm.PriceQuery,
	comparables []domain.ComparableItem,
) (*Result, bool) {
	if !s.llmAvailable(StageLLMWithComparables) {
		return nil, false
	}

	if len(comparables) > s.maxComparables {
		comparables = comparables[:s.maxComparables]
	}

	var out llm.Estimate
	err := s.runStage(ctx, StageLLMWithComparables, func(ctx context.Context) error {
		var err error
		out, err = s.pricer.EstimateWithComparables(ctx, q, comparables)
		return err
	})
	if err != nil {
		s.breaker.RecordFailure(ServiceLLM)
		s.log.Warn("LLM pricing with comparables failed", "error", err)
		return nil, false
	}

	s.breaker.RecordSuccess(ServiceLLM)
	return &Result{
		Estimate:    llmEstimate(out, domain.SourceMarketplaceLLM, len(comparables)),
		Comparables: comparables,
	}, true
}

func (s *Service) llmOnly(ctx context.Context, q llm.PriceQuery) (*Result, bool) {
	if !s.llmAvailable(StageLLMOnly) {
		return nil, false
	}

	var out llm.Estimate
	err := s.runStage(ctx, StageLLMOnly, func(ctx context.Context) error {
		var err error
		out, err = s.pricer.EstimateWithoutComparables(ctx, q)
		return err
	})
	if err != nil {
		s.breaker.RecordFailure(ServiceLLM)
		s.log.Warn("LLM pricing failed", "error", err)
		return nil, false
	}

	s.breaker.RecordSuccess(ServiceLLM)
	return &Result{Estimate: llmEstimate(out, domain.SourceLLMOnly, 0)}, true
}

func (s *Service) llmAvailable(stage string) bool {
	if s.pricer == nil {
		return false
	}
	if !s.breaker.IsAvailable(ServiceLLM) {
		metrics.StageFailuresTotal.WithLabelValues(stage, "circuit_open").Inc()
		s.log.Debug("LLM circuit open, skipping stage", "stage", stage)
		return false
	}
	return true
}

func (s *Service) localEstimate(ctx context.Context, req Request) domain.PriceEstimate {
	var est domain.PriceEstimate
	err := s.runStage(ctx, StageLocal, func(context.Context) error {
		est = s.local.EstimateWithBand(heuristic.Input{
			Description: req.Description,
			Name:        req.ItemName,
			Condition:   req.Condition,
			Issues:      req.Issues,
		}, heuristic.CascadeBand)
		return nil
	})
	if err != nil || est.Price <= 0 {
		return heuristic.Fallback()
	}
	return est
}

// runStage runs fn under a stage span and timeout. A panic inside fn is
// returned as an error.
func (s *Service) runStage(ctx context.Context, stage string, fn func(context.Context) error) (err error) {
	ctx, span := s.tracer.Start(ctx, "estimate."+stage)
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, s.stageTimeout)
	defer cancel()

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", errStagePanic, r)
		}
		metrics.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
		if err != nil {
			metrics.StageFailuresTotal.WithLabelValues(stage, failureReason(err)).Inc()
			span.RecordError(err)
			span.SetStatus(codes.Error, failureReason(err))
		}
	}()

	return fn(ctx)
}

func (s *Service) cacheGet(ctx context.Context, key string) (est domain.PriceEstimate, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Warn("cache get panicked", "panic", r)
			est, ok = domain.PriceEstimate{}, false
		}
	}()
	return s.cache.Get(ctx, key)
}

func (s *Service) cachePut(ctx context.Context, key string, est domain.PriceEstimate) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Warn("cache put panicked", "panic", r)
		}
	}()
	s.cache.Put(ctx, key, est)
}

// persist saves est in the background. Failures are logged and counted.
func (s *Service) persist(ctx context.Context, itemID string, est domain.PriceEstimate) {
	if s.recorder == nil || itemID == "" {
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				metrics.PersistFailuresTotal.Inc()
				s.log.Error("persisting estimate panicked", "item_id", itemID, "panic", r)
			}
		}()

		pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.persistTimeout)
		defer cancel()

		if err := s.recorder.SaveEstimate(pctx, itemID, est); err != nil {
			metrics.PersistFailuresTotal.Inc()
			s.log.Warn("persisting estimate failed", "item_id", itemID, "error", err)
		}
	}()
}

func failureReason(err error) string {
	var pe *llm.ParseError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, errStagePanic):
		return "panic"
	case errors.As(err, &pe):
		return "parse"
	case ebay.KindOf(err) != "":
		return string(ebay.KindOf(err))
	default:
		return "error"
	}
}

// llmEstimate converts an LLM answer into a PriceEstimate with a ±15% band
// rounded outward to whole dollars.
func llmEstimate(out llm.Estimate, source domain.Source, refs int) domain.PriceEstimate {
	price := math.Round(out.EstimatedPrice*100) / 100
	return domain.PriceEstimate{
		Price:          price,
		PriceRangeLow:  math.Floor(price * (1 - llmBand)),
		PriceRangeHigh: math.Ceil(price * (1 + llmBand)),
		Currency:       domain.DefaultCurrency,
		Confidence:     out.Confidence,
		Source:         source,
		Reasoning:      out.Reasoning,
		ReferenceCount: refs,
	}
}

func contentFilterEstimate() domain.PriceEstimate {
	return domain.PriceEstimate{
		Currency:   domain.DefaultCurrency,
		Confidence: domain.ConfidenceHigh,
		Source:     domain.SourceContentFilter,
		Reasoning:  "This item cannot be listed on BluBerry.",
	}
}

// searchQuery prefers the item name; otherwise the description is cut at a
// word boundary.
func searchQuery(req Request) string {
	if req.ItemName != "" {
		return req.ItemName
	}
	q := req.Description
	if len(q) <= maxQueryLen {
		return q
	}
	cut := maxQueryLen
	for cut > 0 && !utf8.RuneStart(q[cut]) {
		cut--
	}
	q = q[:cut]
	if i := strings.LastIndexByte(q, ' '); i > 0 {
		q = q[:i]
	}
	return q
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func (r Request) trimmed() Request {
	r.Description = strings.TrimSpace(r.Description)
	r.ItemName = strings.TrimSpace(r.ItemName)
	r.Condition = strings.TrimSpace(r.Condition)
	r.Issues = strings.TrimSpace(r.Issues)
	r.ItemID = strings.TrimSpace(r.ItemID)
	return r
}
