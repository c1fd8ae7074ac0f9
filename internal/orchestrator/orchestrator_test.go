package orchestrator

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.uber.org/mock/gomock"

	"github.com/begriplab/definitie-validator/internal/aggregator"
	"github.com/begriplab/definitie-validator/internal/models"
	"github.com/begriplab/definitie-validator/internal/orchestrator/mocks"
	"github.com/begriplab/definitie-validator/internal/rules"
	"github.com/begriplab/definitie-validator/internal/ruleset"
)

func testLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

var testThresholds = ruleset.Thresholds{Perfect: 0.80, Acceptable: 0.75, Borderline: 0.60}

func passingEvaluations() []models.Evaluation {
	return []models.Evaluation{
		{
			Rule:    models.Rule{Code: "VAL-TRM-001", Weight: 2.0, Severity: models.SeverityMajor},
			Outcome: models.RuleOutcome{RuleCode: "VAL-TRM-001", Score: 1.0, Message: "ok"},
		},
	}
}

func passingSummary() aggregator.Summary {
	return aggregator.Summary{
		Score:          0.92,
		Classification: models.ClassificationPerfect,
		Acceptable:     true,
		Violations:     []models.Violation{},
	}
}

func TestValidateCompleted(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockExec := mocks.NewMockExecutor(ctrl)
	mockAgg := mocks.NewMockAggregator(ctrl)

	mockExec.EXPECT().Execute(gomock.Any(), gomock.Any()).
		Return(passingEvaluations(), &testThresholds, nil)
	mockAgg.EXPECT().Aggregate(gomock.Any(), testThresholds).
		Return(passingSummary())

	o := New(mockExec, mockAgg, nil, nil, nil, testLogger())
	result := o.ValidateText(context.Background(), "belasting",
		"Een verplichte bijdrage aan de overheid.", "belastingrecht", nil)

	if err := result.ValidateContract(); err != nil {
		t.Fatalf("ValidateContract() error = %v", err)
	}
	if result.Degraded() {
		t.Fatal("completed validation reported degraded")
	}
	if result.OverallScore != 0.92 || !result.IsAcceptable {
		t.Errorf("verdict = %+v", result)
	}
	if _, err := uuid.Parse(result.System.CorrelationID); err != nil {
		t.Errorf("correlation id %q is not a UUID", result.System.CorrelationID)
	}
}

func TestValidatePreservesCallerCorrelationID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockExec := mocks.NewMockExecutor(ctrl)
	mockAgg := mocks.NewMockAggregator(ctrl)
	mockExec.EXPECT().Execute(gomock.Any(), gomock.Any()).
		Return(passingEvaluations(), &testThresholds, nil).Times(2)
	mockAgg.EXPECT().Aggregate(gomock.Any(), gomock.Any()).
		Return(passingSummary()).Times(2)

	o := New(mockExec, mockAgg, nil, nil, nil, testLogger())

	cid := uuid.New().String()
	result := o.Validate(context.Background(), Item{Term: "x", Text: "tekst", CorrelationID: cid})
	if result.System.CorrelationID != cid {
		t.Errorf("correlation id = %s, want caller-provided %s", result.System.CorrelationID, cid)
	}

	result = o.Validate(context.Background(), Item{Term: "x", Text: "tekst", CorrelationID: "not-a-uuid"})
	if result.System.CorrelationID == "not-a-uuid" {
		t.Error("invalid correlation id should be replaced")
	}
	if _, err := uuid.Parse(result.System.CorrelationID); err != nil {
		t.Errorf("replacement correlation id %q is not a UUID", result.System.CorrelationID)
	}
}

func TestValidateDegradedWhenRuleSetUnavailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockExec := mocks.NewMockExecutor(ctrl)
	mockAgg := mocks.NewMockAggregator(ctrl)
	mockExec.EXPECT().Execute(gomock.Any(), gomock.Any()).
		Return(nil, nil, errors.New("rule set unavailable: no active rule set"))

	o := New(mockExec, mockAgg, nil, nil, nil, testLogger())
	result := o.Validate(context.Background(), Item{Term: "x", Text: "tekst"})

	if err := result.ValidateContract(); err != nil {
		t.Fatalf("degraded result breaks the contract: %v", err)
	}
	if !result.Degraded() {
		t.Fatal("result should be degraded")
	}
	if result.IsAcceptable || result.OverallScore != 0.0 {
		t.Errorf("degraded verdict = %+v", result)
	}
	if len(result.Violations) != 1 || result.Violations[0].Code != models.CodeConfigUnavailable {
		t.Errorf("violations = %+v, want one %s", result.Violations, models.CodeConfigUnavailable)
	}
}

func TestValidateRecoversFromPanic(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockExec := mocks.NewMockExecutor(ctrl)
	mockAgg := mocks.NewMockAggregator(ctrl)
	mockExec.EXPECT().Execute(gomock.Any(), gomock.Any()).
		Return(passingEvaluations(), &testThresholds, nil)
	mockAgg.EXPECT().Aggregate(gomock.Any(), gomock.Any()).
		DoAndReturn(func([]models.Evaluation, ruleset.Thresholds) aggregator.Summary {
			panic("aggregation bug")
		})

	o := New(mockExec, mockAgg, nil, nil, nil, testLogger())
	result := o.Validate(context.Background(), Item{Term: "x", Text: "tekst"})

	if !result.Degraded() {
		t.Fatal("panic should yield a degraded result, not an escaping panic")
	}
	if len(result.Violations) != 1 || result.Violations[0].Code != models.CodeAggregationFailure {
		t.Errorf("violations = %+v, want one %s", result.Violations, models.CodeAggregationFailure)
	}
	if err := result.ValidateContract(); err != nil {
		t.Errorf("degraded result breaks the contract: %v", err)
	}
}

func TestValidateEnrichesMissingContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	enriched := &models.EvaluationContext{OrganizationalContext: []string{"Belastingdienst"}}

	mockExec := mocks.NewMockExecutor(ctrl)
	mockAgg := mocks.NewMockAggregator(ctrl)
	mockEnricher := mocks.NewMockContextProvider(ctrl)

	mockEnricher.EXPECT().Enrich(gomock.Any(), "belasting", "belastingrecht").
		Return(enriched, nil)
	mockExec.EXPECT().Execute(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, in rules.Input) ([]models.Evaluation, *ruleset.Thresholds, error) {
			if in.Context != enriched {
				t.Errorf("executor input context = %+v, want the enriched context", in.Context)
			}
			return passingEvaluations(), &testThresholds, nil
		})
	mockAgg.EXPECT().Aggregate(gomock.Any(), gomock.Any()).Return(passingSummary())

	o := New(mockExec, mockAgg, nil, mockEnricher, nil, testLogger())
	o.Validate(context.Background(), Item{Term: "belasting", Text: "tekst", Category: "belastingrecht"})
}

func TestValidateProceedsWhenEnrichmentFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockExec := mocks.NewMockExecutor(ctrl)
	mockAgg := mocks.NewMockAggregator(ctrl)
	mockEnricher := mocks.NewMockContextProvider(ctrl)

	mockEnricher.EXPECT().Enrich(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("context service down"))
	mockExec.EXPECT().Execute(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, in rules.Input) ([]models.Evaluation, *ruleset.Thresholds, error) {
			if in.Context != nil {
				t.Errorf("executor input context = %+v, want nil after failed enrichment", in.Context)
			}
			return passingEvaluations(), &testThresholds, nil
		})
	mockAgg.EXPECT().Aggregate(gomock.Any(), gomock.Any()).Return(passingSummary())

	o := New(mockExec, mockAgg, nil, mockEnricher, nil, testLogger())
	result := o.Validate(context.Background(), Item{Term: "x", Text: "tekst"})
	if result.Degraded() {
		t.Error("enrichment failure must not degrade the validation")
	}
}

func TestValidateSkipsEnrichmentWithCallerContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockExec := mocks.NewMockExecutor(ctrl)
	mockAgg := mocks.NewMockAggregator(ctrl)
	mockEnricher := mocks.NewMockContextProvider(ctrl)

	// No Enrich expectation: calling it would fail the test.
	mockExec.EXPECT().Execute(gomock.Any(), gomock.Any()).
		Return(passingEvaluations(), &testThresholds, nil)
	mockAgg.EXPECT().Aggregate(gomock.Any(), gomock.Any()).Return(passingSummary())

	o := New(mockExec, mockAgg, nil, mockEnricher, nil, testLogger())
	o.Validate(context.Background(), Item{
		Term:    "x",
		Text:    "tekst",
		Context: &models.EvaluationContext{LegalDomainContext: []string{"strafrecht"}},
	})
}

func TestValidateStoreFailureDoesNotSurface(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockExec := mocks.NewMockExecutor(ctrl)
	mockAgg := mocks.NewMockAggregator(ctrl)
	mockStore := mocks.NewMockAuditStore(ctrl)

	mockExec.EXPECT().Execute(gomock.Any(), gomock.Any()).
		Return(passingEvaluations(), &testThresholds, nil)
	mockAgg.EXPECT().Aggregate(gomock.Any(), gomock.Any()).Return(passingSummary())
	mockStore.EXPECT().Save(gomock.Any(), gomock.Any()).
		Return(errors.New("redis unavailable"))

	o := New(mockExec, mockAgg, mockStore, nil, nil, testLogger())
	result := o.Validate(context.Background(), Item{Term: "x", Text: "tekst"})

	if result.Degraded() {
		t.Error("audit persistence is best effort; a store failure must not degrade the result")
	}
}

func TestBatchValidateKeepsInputOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockExec := mocks.NewMockExecutor(ctrl)
	mockAgg := mocks.NewMockAggregator(ctrl)

	// Echo the term through the violation message so slots can be checked.
	mockExec.EXPECT().Execute(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, in rules.Input) ([]models.Evaluation, *ruleset.Thresholds, error) {
			evals := []models.Evaluation{
				{
					Rule:    models.Rule{Code: "TST-AAA-001", Weight: 1.0, Severity: models.SeverityModerate},
					Outcome: models.RuleOutcome{RuleCode: "TST-AAA-001", Triggered: true, Message: in.Term},
				},
			}
			return evals, &testThresholds, nil
		}).AnyTimes()
	mockAgg.EXPECT().Aggregate(gomock.Any(), gomock.Any()).
		DoAndReturn(func(evals []models.Evaluation, _ ruleset.Thresholds) aggregator.Summary {
			return aggregator.Summary{
				Score:          0.70,
				Classification: models.ClassificationBorderline,
				Violations: []models.Violation{
					{Code: "TST-AAA-001", Severity: models.SeverityModerate, Message: evals[0].Outcome.Message, Weight: 1.0},
				},
			}
		}).AnyTimes()

	o := New(mockExec, mockAgg, nil, nil, nil, testLogger())

	items := make([]Item, 10)
	for i := range items {
		items[i] = Item{Term: uuid.New().String(), Text: "tekst"}
	}

	results := o.BatchValidate(context.Background(), items, 3)

	if len(results) != len(items) {
		t.Fatalf("got %d results, want %d", len(results), len(items))
	}
	for i, item := range items {
		if len(results[i].Violations) != 1 || results[i].Violations[0].Message != item.Term {
			t.Errorf("result %d does not belong to item %d", i, i)
		}
	}
}

func TestBatchValidateDefaultsConcurrency(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockExec := mocks.NewMockExecutor(ctrl)
	mockAgg := mocks.NewMockAggregator(ctrl)
	mockExec.EXPECT().Execute(gomock.Any(), gomock.Any()).
		Return(passingEvaluations(), &testThresholds, nil).AnyTimes()
	mockAgg.EXPECT().Aggregate(gomock.Any(), gomock.Any()).
		Return(passingSummary()).AnyTimes()

	o := New(mockExec, mockAgg, nil, nil, nil, testLogger())
	results := o.BatchValidate(context.Background(), []Item{
		{Term: "a", Text: "tekst"},
		{Term: "b", Text: "tekst"},
	}, 0)

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	for i, r := range results {
		if err := r.ValidateContract(); err != nil {
			t.Errorf("result %d breaks the contract: %v", i, err)
		}
	}
}

func TestBatchValidateIsolatesFailingItem(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockExec := mocks.NewMockExecutor(ctrl)
	mockAgg := mocks.NewMockAggregator(ctrl)

	mockExec.EXPECT().Execute(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, in rules.Input) ([]models.Evaluation, *ruleset.Thresholds, error) {
			if in.Term == "broken" {
				return nil, nil, errors.New("rule set unavailable")
			}
			return passingEvaluations(), &testThresholds, nil
		}).AnyTimes()
	mockAgg.EXPECT().Aggregate(gomock.Any(), gomock.Any()).
		Return(passingSummary()).AnyTimes()

	o := New(mockExec, mockAgg, nil, nil, nil, testLogger())
	results := o.BatchValidate(context.Background(), []Item{
		{Term: "ok", Text: "tekst"},
		{Term: "broken", Text: "tekst"},
		{Term: "ook-ok", Text: "tekst"},
	}, 2)

	if results[0].Degraded() || results[2].Degraded() {
		t.Error("healthy items degraded by a failing sibling")
	}
	if !results[1].Degraded() {
		t.Error("failing item should degrade only its own slot")
	}
}
