package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/begriplab/definitie-validator/internal/aggregator"
	"github.com/begriplab/definitie-validator/internal/mapper"
	"github.com/begriplab/definitie-validator/internal/metric"
	"github.com/begriplab/definitie-validator/internal/models"
	"github.com/begriplab/definitie-validator/internal/rules"
	"github.com/begriplab/definitie-validator/internal/ruleset"
)

// Executor runs the tiered rule evaluation.
type Executor interface {
	Execute(ctx context.Context, in rules.Input) ([]models.Evaluation, *ruleset.Thresholds, error)
}

// Aggregator combines evaluations into a verdict.
type Aggregator interface {
	Aggregate(evaluations []models.Evaluation, t ruleset.Thresholds) aggregator.Summary
}

// AuditStore receives every result for storage. Best effort: a store failure
// is logged, never surfaced.
type AuditStore interface {
	Save(ctx context.Context, result models.ValidationResult) error
}

// ContextProvider enriches requests that carry no evaluation context.
type ContextProvider interface {
	Enrich(ctx context.Context, term, category string) (*models.EvaluationContext, error)
}

// Request lifecycle states, used for logging and metrics labels.
const (
	stateCompleted = "completed"
	stateDegraded  = "degraded"
)

// DefaultBatchConcurrency bounds batch validation when the caller passes no
// explicit limit.
const DefaultBatchConcurrency = 4

// Orchestrator is the public facade of the validation engine. Its methods
// never return an error: every failure class maps to either an isolated
// synthetic violation or a degraded, schema-conformant result.
type Orchestrator struct {
	executor   Executor
	aggregator Aggregator
	store      AuditStore      // optional
	enricher   ContextProvider // optional
	metrics    *metric.Metrics // optional
	logger     *zerolog.Logger
}

func New(exec Executor, agg Aggregator, store AuditStore, enricher ContextProvider, metrics *metric.Metrics, logger *zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		executor:   exec,
		aggregator: agg,
		store:      store,
		enricher:   enricher,
		metrics:    metrics,
		logger:     logger,
	}
}

// Item is one validation request.
type Item struct {
	Term          string                    `json:"term"`
	Text          string                    `json:"text"`
	Category      string                    `json:"category,omitempty"`
	Context       *models.EvaluationContext `json:"context,omitempty"`
	CorrelationID string                    `json:"correlation_id,omitempty"`
}

// ValidateText validates a definition text for the given term.
func (o *Orchestrator) ValidateText(ctx context.Context, term, text, category string, evalCtx *models.EvaluationContext) models.ValidationResult {
	return o.Validate(ctx, Item{Term: term, Text: text, Category: category, Context: evalCtx})
}

// ValidateDefinition validates a complete definition object.
func (o *Orchestrator) ValidateDefinition(ctx context.Context, def models.Definition, evalCtx *models.EvaluationContext) models.ValidationResult {
	return o.Validate(ctx, Item{Term: def.Term, Text: def.Text, Category: def.Category, Context: evalCtx})
}

// Validate runs one request through the full pipeline.
func (o *Orchestrator) Validate(ctx context.Context, item Item) models.ValidationResult {
	start := time.Now()
	correlationID := item.CorrelationID
	if _, err := uuid.Parse(correlationID); err != nil {
		correlationID = uuid.New().String()
	}

	o.logger.Debug().
		Str("correlation_id", correlationID).
		Str("term", item.Term).
		Msg("starting validation")

	result := o.run(ctx, correlationID, item)

	state := stateCompleted
	if result.Degraded() {
		state = stateDegraded
	}

	if o.store != nil {
		if err := o.store.Save(ctx, result); err != nil {
			o.logger.Error().Err(err).
				Str("correlation_id", correlationID).
				Msg("audit persistence failed")
		}
	}

	if o.metrics != nil {
		o.metrics.ValidationsTotal.WithLabelValues(state).Inc()
		o.metrics.ValidationDuration.Observe(time.Since(start).Seconds())
		if state == stateDegraded {
			o.metrics.DegradedTotal.Inc()
		}
	}

	o.logger.Info().
		Str("correlation_id", correlationID).
		Str("state", state).
		Float64("score", result.OverallScore).
		Bool("acceptable", result.IsAcceptable).
		Int("violations", len(result.Violations)).
		Dur("duration", time.Since(start)).
		Msg("validation finished")

	return result
}

// run is single-attempt: no whole-validation retry. A panic anywhere below
// the facade becomes a degraded result, never an escaping panic.
func (o *Orchestrator) run(ctx context.Context, correlationID string, item Item) (result models.ValidationResult) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error().
				Str("correlation_id", correlationID).
				Interface("panic", r).
				Msg("validation panicked, returning degraded result")
			result = mapper.BuildDegraded(correlationID, models.CodeAggregationFailure, fmt.Errorf("internal failure: %v", r))
		}
	}()

	evalCtx := item.Context
	if evalCtx == nil && o.enricher != nil {
		enriched, err := o.enricher.Enrich(ctx, item.Term, item.Category)
		if err != nil {
			o.logger.Warn().Err(err).
				Str("correlation_id", correlationID).
				Msg("context enrichment failed, validating without context")
		} else {
			evalCtx = enriched
		}
	}

	in := rules.Input{
		Term:     item.Term,
		Text:     item.Text,
		Category: item.Category,
		Context:  evalCtx,
	}

	evaluations, thresholds, err := o.executor.Execute(ctx, in)
	if err != nil {
		return mapper.BuildDegraded(correlationID, models.CodeConfigUnavailable, err)
	}

	summary := o.aggregator.Aggregate(evaluations, *thresholds)
	return mapper.Build(correlationID, summary, evaluations)
}

// BatchValidate processes items with bounded concurrency. The result list has
// exactly one entry per item, in input order; a failing item degrades only its
// own slot.
func (o *Orchestrator) BatchValidate(ctx context.Context, items []Item, maxConcurrency int) []models.ValidationResult {
	if maxConcurrency <= 0 {
		maxConcurrency = DefaultBatchConcurrency
	}

	results := make([]models.ValidationResult, len(items))
	sem := make(chan struct{}, maxConcurrency)
	var wg sync.WaitGroup

	for i, item := range items {
		wg.Add(1)
		go func(i int, item Item) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i] = o.Validate(ctx, item)
		}(i, item)
	}

	wg.Wait()
	return results
}
