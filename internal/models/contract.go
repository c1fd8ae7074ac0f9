package models

import (
	"fmt"
	"regexp"

	"github.com/google/uuid"
)

// CodePattern is the shape every rule and violation code must have: three
// uppercase letters, a dash, three uppercase letters, a dash, three digits.
var CodePattern = regexp.MustCompile(`^[A-Z]{3}-[A-Z]{3}-\d{3}$`)

// ValidCode reports whether code conforms to the error-code catalog shape.
func ValidCode(code string) bool {
	return CodePattern.MatchString(code)
}

func validSeverity(s Severity) bool {
	switch s {
	case SeverityCritical, SeverityMajor, SeverityModerate:
		return true
	}
	return false
}

// ValidateContract checks the result against the versioned output schema.
// Every result returned across the public API boundary, degraded ones
// included, must pass this check.
func (r ValidationResult) ValidateContract() error {
	if _, err := uuid.Parse(r.System.CorrelationID); err != nil {
		return fmt.Errorf("system.correlation_id %q is not a valid UUID: %w", r.System.CorrelationID, err)
	}
	if r.System.Version == "" {
		return fmt.Errorf("system.version is empty")
	}
	if r.OverallScore < 0.0 || r.OverallScore > 1.0 {
		return fmt.Errorf("overall_score %v outside [0,1]", r.OverallScore)
	}
	switch r.Classification {
	case ClassificationPerfect, ClassificationAcceptable, ClassificationBorderline, ClassificationUnacceptable:
	default:
		return fmt.Errorf("unknown classification %q", r.Classification)
	}
	for _, v := range r.Violations {
		if !ValidCode(v.Code) {
			return fmt.Errorf("violation code %q does not match %s", v.Code, CodePattern)
		}
		if !validSeverity(v.Severity) {
			return fmt.Errorf("violation %s has unknown severity %q", v.Code, v.Severity)
		}
		if v.Message == "" {
			return fmt.Errorf("violation %s has an empty message", v.Code)
		}
	}
	return nil
}
