package mapper

import (
	"sort"

	"github.com/begriplab/definitie-validator/internal/aggregator"
	"github.com/begriplab/definitie-validator/internal/models"
)

// EngineVersion is stamped into system.version of every result.
const EngineVersion = "1.4.0"

// Build assembles the versioned result contract from a completed aggregation.
func Build(correlationID string, summary aggregator.Summary, evaluations []models.Evaluation) models.ValidationResult {
	violations := summary.Violations
	if violations == nil {
		violations = []models.Violation{}
	}

	sort.Slice(evaluations, func(i, j int) bool {
		return evaluations[i].Rule.Code < evaluations[j].Rule.Code
	})

	return models.ValidationResult{
		OverallScore:   summary.Score,
		IsAcceptable:   summary.Acceptable,
		Classification: summary.Classification,
		Violations:     violations,
		Evaluations:    evaluations,
		System: models.SystemInfo{
			CorrelationID: correlationID,
			Version:       EngineVersion,
		},
	}
}

// BuildDegraded produces the schema-conformant result for a fatal engine
// failure: unacceptable, a single synthetic critical violation, and the error
// surfaced in system.error instead of as a returned error.
func BuildDegraded(correlationID, sysCode string, err error) models.ValidationResult {
	msg := "validation engine unavailable"
	if err != nil {
		msg = err.Error()
	}

	return models.ValidationResult{
		OverallScore:   0.0,
		IsAcceptable:   false,
		Classification: models.ClassificationUnacceptable,
		Violations: []models.Violation{
			{
				Code:     sysCode,
				Severity: models.SeverityCritical,
				Message:  msg,
				Weight:   0,
			},
		},
		System: models.SystemInfo{
			CorrelationID: correlationID,
			Version:       EngineVersion,
			Error:         msg,
		},
	}
}
