package batch

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/begriplab/definitie-validator/internal/models"
	"github.com/begriplab/definitie-validator/internal/orchestrator"
)

// Validator is the slice of the orchestrator the batch processor needs.
type Validator interface {
	BatchValidate(ctx context.Context, items []orchestrator.Item, maxConcurrency int) []models.ValidationResult
}

type Processor struct {
	validator Validator
	workers   int
	logger    *zerolog.Logger
}

func NewProcessor(validator Validator, workers int, logger *zerolog.Logger) *Processor {
	return &Processor{
		validator: validator,
		workers:   workers,
		logger:    logger,
	}
}

// Process validates all records and returns one result per record, in input
// order.
func (p *Processor) Process(ctx context.Context, records []InputRecord) []models.ValidationResult {
	items := make([]orchestrator.Item, len(records))
	for i, r := range records {
		items[i] = orchestrator.Item{
			Term:          r.Term,
			Text:          r.Text,
			Category:      r.Category,
			Context:       r.Context,
			CorrelationID: r.CorrelationID,
		}
	}

	p.logger.Info().
		Int("items", len(items)).
		Int("workers", p.workers).
		Msg("starting batch validation")

	return p.validator.BatchValidate(ctx, items, p.workers)
}
