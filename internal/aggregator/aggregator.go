package aggregator

import (
	"math"
	"sort"

	"github.com/rs/zerolog"

	"github.com/begriplab/definitie-validator/internal/models"
	"github.com/begriplab/definitie-validator/internal/ruleset"
)

// Summary is the aggregated verdict over one validation's evaluations.
type Summary struct {
	Score          float64
	Classification models.Classification
	Acceptable     bool
	Violations     []models.Violation
}

type Aggregator struct {
	logger *zerolog.Logger
}

func New(logger *zerolog.Logger) *Aggregator {
	return &Aggregator{logger: logger}
}

// Aggregate computes the weighted score over all evaluated (non-skipped)
// rules, rounds it to two decimals and classifies it. Acceptability is a
// conjunction: the score must reach the acceptable threshold AND no blocking
// violation may be present. A high score with a blocking defect still fails.
func (a *Aggregator) Aggregate(evaluations []models.Evaluation, t ruleset.Thresholds) Summary {
	var (
		weightSum  float64
		scoreSum   float64
		violations []models.Violation
		blocked    bool
	)

	for _, ev := range evaluations {
		if ev.Outcome.Skipped {
			continue
		}
		weightSum += ev.Rule.Weight
		scoreSum += ev.Rule.Weight * ev.Outcome.Score

		if !ev.Outcome.Triggered {
			continue
		}

		synthetic := ev.Outcome.RuleCode != ev.Rule.Code
		severity := ev.Rule.Severity
		if synthetic {
			// A broken evaluator is a system defect, not a verdict on the
			// text; it contributes a major violation but never blocks.
			severity = models.SeverityMajor
		} else if ev.Rule.Blocking {
			blocked = true
		}

		violations = append(violations, models.Violation{
			Code:     ev.Outcome.RuleCode,
			Severity: severity,
			Message:  ev.Outcome.Message,
			Weight:   ev.Rule.Weight,
		})
	}

	summary := Summary{Violations: sortViolations(violations)}

	if weightSum > 0 {
		summary.Score = round2(scoreSum / weightSum)
	}
	summary.Classification = classify(summary.Score, t)
	summary.Acceptable = summary.Score >= t.Acceptable && !blocked

	a.logger.Debug().
		Float64("score", summary.Score).
		Str("classification", string(summary.Classification)).
		Bool("acceptable", summary.Acceptable).
		Int("violations", len(summary.Violations)).
		Msg("aggregation complete")

	return summary
}

func classify(score float64, t ruleset.Thresholds) models.Classification {
	switch {
	case score >= t.Perfect:
		return models.ClassificationPerfect
	case score >= t.Acceptable:
		return models.ClassificationAcceptable
	case score >= t.Borderline:
		return models.ClassificationBorderline
	default:
		return models.ClassificationUnacceptable
	}
}

// round2 rounds half away from zero to two decimals. The contract fixes this;
// callers recomputing the score from outcomes must land on the same value.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

var severityRank = map[models.Severity]int{
	models.SeverityCritical: 0,
	models.SeverityMajor:    1,
	models.SeverityModerate: 2,
}

// sortViolations orders by severity, then code. Intra-tier execution order is
// nondeterministic; the contract's violation list must not be.
func sortViolations(violations []models.Violation) []models.Violation {
	sort.SliceStable(violations, func(i, j int) bool {
		if severityRank[violations[i].Severity] != severityRank[violations[j].Severity] {
			return severityRank[violations[i].Severity] < severityRank[violations[j].Severity]
		}
		return violations[i].Code < violations[j].Code
	})
	return violations
}
