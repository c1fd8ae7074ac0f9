package executor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/begriplab/definitie-validator/internal/metric"
	"github.com/begriplab/definitie-validator/internal/models"
	"github.com/begriplab/definitie-validator/internal/rules"
	"github.com/begriplab/definitie-validator/internal/ruleset"
)

// RuleSource provides the active rule set at validation time.
type RuleSource interface {
	Snapshot() (*ruleset.Snapshot, error)
}

// DefaultRuleTimeout is the soft deadline for one evaluator. Evaluators are
// CPU-bound and sub-millisecond; anything slower is treated as stuck.
const DefaultRuleTimeout = 100 * time.Millisecond

// Executor runs rules tier by tier: all rules within a tier concurrently, a
// barrier between tiers. A panicking or stuck evaluator yields a synthetic
// SYS outcome and never aborts its siblings.
type Executor struct {
	source      RuleSource
	ruleTimeout time.Duration
	metrics     *metric.Metrics
	logger      *zerolog.Logger
}

func New(source RuleSource, ruleTimeout time.Duration, metrics *metric.Metrics, logger *zerolog.Logger) *Executor {
	if ruleTimeout <= 0 {
		ruleTimeout = DefaultRuleTimeout
	}
	return &Executor{
		source:      source,
		ruleTimeout: ruleTimeout,
		metrics:     metrics,
		logger:      logger,
	}
}

// Execute evaluates every active rule against the input. The returned error is
// fatal (no rule set available); isolated per-rule failures are folded into
// the evaluations instead.
func (e *Executor) Execute(ctx context.Context, in rules.Input) ([]models.Evaluation, *ruleset.Thresholds, error) {
	snap, err := e.source.Snapshot()
	if err != nil {
		return nil, nil, fmt.Errorf("rule set unavailable: %w", err)
	}
	if e.metrics != nil {
		e.metrics.ActiveRules.Set(float64(snap.Len()))
	}

	evaluations := make([]models.Evaluation, 0, snap.Len())
	for _, tier := range models.Tiers() {
		tierRules := snap.Tier(tier)
		if len(tierRules) == 0 {
			continue
		}
		evaluations = append(evaluations, e.runTier(ctx, tier, tierRules, in)...)
	}

	thresholds := snap.Thresholds
	return evaluations, &thresholds, nil
}

func (e *Executor) runTier(ctx context.Context, tier models.PriorityTier, tierRules []ruleset.ActiveRule, in rules.Input) []models.Evaluation {
	results := make(chan models.Evaluation, len(tierRules))
	var wg sync.WaitGroup

	for _, ar := range tierRules {
		wg.Add(1)
		go func(ar ruleset.ActiveRule) {
			defer wg.Done()
			results <- e.runRule(ctx, ar, in)
		}(ar)
	}

	wg.Wait()
	close(results)

	evaluations := make([]models.Evaluation, 0, len(tierRules))
	for ev := range results {
		if e.metrics != nil {
			e.metrics.RuleDuration.WithLabelValues(ev.Rule.Code, string(tier)).
				Observe(ev.Outcome.Duration.Seconds())
		}
		evaluations = append(evaluations, ev)
	}
	return evaluations
}

// runRule wraps one evaluator call with panic isolation and the soft deadline.
// A timed-out evaluator goroutine is abandoned; its late result is dropped via
// the buffered channel.
func (e *Executor) runRule(ctx context.Context, ar ruleset.ActiveRule, in rules.Input) models.Evaluation {
	start := time.Now()
	done := make(chan models.RuleOutcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- models.RuleOutcome{
					RuleCode:  models.CodeRuleFailure,
					Triggered: true,
					Message:   fmt.Sprintf("rule %s failed: %v", ar.Rule.Code, r),
					Duration:  time.Since(start),
				}
			}
		}()
		done <- ar.Evaluator.Evaluate(ctx, in)
	}()

	var outcome models.RuleOutcome
	select {
	case outcome = <-done:
	case <-time.After(e.ruleTimeout):
		outcome = models.RuleOutcome{
			RuleCode:  models.CodeRuleTimeout,
			Triggered: true,
			Message:   fmt.Sprintf("rule %s exceeded its %s deadline", ar.Rule.Code, e.ruleTimeout),
			Duration:  time.Since(start),
		}
	}

	if outcome.RuleCode != ar.Rule.Code {
		if e.metrics != nil {
			e.metrics.RuleFailures.WithLabelValues(ar.Rule.Code, outcome.RuleCode).Inc()
		}
		e.logger.Error().
			Str("rule", ar.Rule.Code).
			Str("code", outcome.RuleCode).
			Str("message", outcome.Message).
			Msg("rule evaluation failed, continuing with synthetic outcome")
	}

	return models.Evaluation{Rule: ar.Rule, Outcome: outcome}
}
