package models

import (
	"time"
)

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityMajor    Severity = "major"
	SeverityModerate Severity = "moderate"
)

type PriorityTier string

const (
	TierHigh   PriorityTier = "high"
	TierMedium PriorityTier = "medium"
	TierLow    PriorityTier = "low"
)

// Tiers returns the priority tiers in execution order.
func Tiers() []PriorityTier {
	return []PriorityTier{TierHigh, TierMedium, TierLow}
}

type Classification string

const (
	ClassificationPerfect      Classification = "perfect"
	ClassificationAcceptable   Classification = "acceptable"
	ClassificationBorderline   Classification = "borderline"
	ClassificationUnacceptable Classification = "unacceptable"
)

// Synthetic system error codes. These are produced by the engine itself, never
// by a rule evaluator, and share the XXX-XXX-NNN code shape with rule codes.
const (
	CodeRuleFailure        = "SYS-ERR-001"
	CodeRuleTimeout        = "SYS-TMO-001"
	CodeConfigUnavailable  = "SYS-CFG-001"
	CodeAggregationFailure = "SYS-AGG-001"
)

// Rule is the effective metadata of a single toetsregel. Instances are built
// once per rule set load and never mutated afterwards.
type Rule struct {
	Code        string       `json:"code"`
	Description string       `json:"description"`
	Weight      float64      `json:"weight"`
	Tier        PriorityTier `json:"priority_tier"`
	Severity    Severity     `json:"severity"`
	// Blocking marks a rule whose triggered violation makes the definition
	// unacceptable regardless of the numeric score. Critical rules are always
	// blocking; config may additionally mark Major rules as blocking.
	Blocking bool `json:"blocking"`
}

// Definition is the candidate to validate: the begrip, its definition text and
// an optional category hint supplied by the caller.
type Definition struct {
	Term     string `json:"term"`
	Text     string `json:"text"`
	Category string `json:"category,omitempty"`
}

// EvaluationContext carries the opaque, already-normalized context lists
// supplied by the enrichment service. Immutable per request.
type EvaluationContext struct {
	OrganizationalContext []string `json:"organizational_context,omitempty"`
	LegalDomainContext    []string `json:"legal_domain_context,omitempty"`
	StatutoryBases        []string `json:"statutory_bases,omitempty"`
}

// RuleOutcome is one evaluator's raw output for one request.
type RuleOutcome struct {
	RuleCode  string        `json:"rule_code"`
	Score     float64       `json:"raw_score"`
	Triggered bool          `json:"triggered"`
	Skipped   bool          `json:"skipped,omitempty"`
	Message   string        `json:"message"`
	Duration  time.Duration `json:"duration_ns,omitempty"`
}

// Evaluation pairs an executed rule's effective metadata with its outcome.
// For synthetic outcomes the Rule still identifies the rule that failed while
// Outcome.RuleCode carries the SYS code.
type Evaluation struct {
	Rule    Rule        `json:"rule"`
	Outcome RuleOutcome `json:"outcome"`
}

// Violation is derived from a triggered outcome and is read-only afterwards.
type Violation struct {
	Code     string   `json:"code"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Weight   float64  `json:"weight"`
}

type SystemInfo struct {
	CorrelationID string `json:"correlation_id"`
	Version       string `json:"version"`
	Error         string `json:"error,omitempty"`
}

// ValidationResult is the versioned output contract. Created once per
// validation call, owned by the caller, never mutated after return.
type ValidationResult struct {
	OverallScore   float64        `json:"overall_score"`
	IsAcceptable   bool           `json:"is_acceptable"`
	Classification Classification `json:"classification"`
	Violations     []Violation    `json:"violations"`
	Evaluations    []Evaluation   `json:"evaluations,omitempty"`
	System         SystemInfo     `json:"system"`
}

// Degraded reports whether this result was produced by the degraded path
// instead of a completed rule evaluation.
func (r ValidationResult) Degraded() bool {
	return r.System.Error != ""
}
