package models

import (
	"testing"

	"github.com/google/uuid"
)

func validResult() ValidationResult {
	return ValidationResult{
		OverallScore:   0.82,
		IsAcceptable:   true,
		Classification: ClassificationPerfect,
		Violations: []Violation{
			{Code: "STR-SEN-001", Severity: SeverityModerate, Message: "definition does not end with a period", Weight: 1.0},
		},
		System: SystemInfo{
			CorrelationID: uuid.New().String(),
			Version:       "1.4.0",
		},
	}
}

func TestValidateContract(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ValidationResult)
		wantErr bool
	}{
		{
			name:   "valid result",
			mutate: func(r *ValidationResult) {},
		},
		{
			name:   "degraded result is still contract-valid",
			mutate: func(r *ValidationResult) { r.System.Error = "rule set unavailable" },
		},
		{
			name:    "correlation id not a uuid",
			mutate:  func(r *ValidationResult) { r.System.CorrelationID = "req-42" },
			wantErr: true,
		},
		{
			name:    "empty version",
			mutate:  func(r *ValidationResult) { r.System.Version = "" },
			wantErr: true,
		},
		{
			name:    "score above one",
			mutate:  func(r *ValidationResult) { r.OverallScore = 1.01 },
			wantErr: true,
		},
		{
			name:    "negative score",
			mutate:  func(r *ValidationResult) { r.OverallScore = -0.1 },
			wantErr: true,
		},
		{
			name:    "unknown classification",
			mutate:  func(r *ValidationResult) { r.Classification = "excellent" },
			wantErr: true,
		},
		{
			name:    "malformed violation code",
			mutate:  func(r *ValidationResult) { r.Violations[0].Code = "str-sen-1" },
			wantErr: true,
		},
		{
			name:    "unknown violation severity",
			mutate:  func(r *ValidationResult) { r.Violations[0].Severity = "fatal" },
			wantErr: true,
		},
		{
			name:    "empty violation message",
			mutate:  func(r *ValidationResult) { r.Violations[0].Message = "" },
			wantErr: true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			r := validResult()
			test.mutate(&r)
			err := r.ValidateContract()
			if (err != nil) != test.wantErr {
				t.Errorf("ValidateContract() error = %v, wantErr %v", err, test.wantErr)
			}
		})
	}
}

func TestValidCode(t *testing.T) {
	tests := []struct {
		code  string
		valid bool
	}{
		{"VAL-EMP-001", true},
		{"SYS-TMO-001", true},
		{"JUR-PRI-001", true},
		{"val-emp-001", false},
		{"VAL-EMP-1", false},
		{"VALEMP001", false},
		{"VAL-EMPT-001", false},
		{"", false},
	}
	for _, test := range tests {
		if got := ValidCode(test.code); got != test.valid {
			t.Errorf("ValidCode(%q) = %v, want %v", test.code, got, test.valid)
		}
	}
}

func TestDegraded(t *testing.T) {
	r := validResult()
	if r.Degraded() {
		t.Error("result without a system error should not be degraded")
	}
	r.System.Error = "aggregation failed"
	if !r.Degraded() {
		t.Error("result with a system error should be degraded")
	}
}
