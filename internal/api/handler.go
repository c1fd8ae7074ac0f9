package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/emicklei/go-restful/v3"
	"github.com/rs/zerolog"

	"github.com/begriplab/definitie-validator/internal/api/middleware"
	"github.com/begriplab/definitie-validator/internal/generator"
	"github.com/begriplab/definitie-validator/internal/mapper"
	"github.com/begriplab/definitie-validator/internal/models"
	"github.com/begriplab/definitie-validator/internal/orchestrator"
	"github.com/begriplab/definitie-validator/internal/ruleset"
)

// Validator is the slice of the orchestrator the API needs.
type Validator interface {
	Validate(ctx context.Context, item orchestrator.Item) models.ValidationResult
	BatchValidate(ctx context.Context, items []orchestrator.Item, maxConcurrency int) []models.ValidationResult
}

// RuleLister exposes the active rule set for inspection.
type RuleLister interface {
	Snapshot() (*ruleset.Snapshot, error)
}

type Handler struct {
	validator Validator
	rules     RuleLister
	generator generator.Client // nil when generation is disabled
	logger    *zerolog.Logger
}

func NewHandler(validator Validator, rules RuleLister, gen generator.Client, logger *zerolog.Logger) *Handler {
	return &Handler{
		validator: validator,
		rules:     rules,
		generator: gen,
		logger:    logger,
	}
}

// ValidateRequest is the body for POST /api/v1/validate.
type ValidateRequest struct {
	Term          string                    `json:"term"`
	Text          string                    `json:"text"`
	Category      string                    `json:"category,omitempty"`
	Context       *models.EvaluationContext `json:"context,omitempty"`
	CorrelationID string                    `json:"correlation_id,omitempty"`
}

// BatchRequest is the body for POST /api/v1/validate/batch.
type BatchRequest struct {
	Items          []ValidateRequest `json:"items"`
	MaxConcurrency int               `json:"max_concurrency,omitempty"`
}

// GenerateRequest is the body for POST /api/v1/generate.
type GenerateRequest struct {
	Term     string                    `json:"term"`
	Category string                    `json:"category,omitempty"`
	Context  *models.EvaluationContext `json:"context,omitempty"`
}

// GenerateResponse carries the candidate text plus its immediate validation.
type GenerateResponse struct {
	Definition models.Definition       `json:"definition"`
	Validation models.ValidationResult `json:"validation"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

type RulesResponse struct {
	Rules []models.Rule `json:"rules"`
}

func toItem(r ValidateRequest) orchestrator.Item {
	return orchestrator.Item{
		Term:          r.Term,
		Text:          r.Text,
		Category:      r.Category,
		Context:       r.Context,
		CorrelationID: r.CorrelationID,
	}
}

// POST /api/v1/validate
func (h *Handler) Validate(req *restful.Request, resp *restful.Response) {
	var body ValidateRequest
	if err := req.ReadEntity(&body); err != nil {
		h.logger.Error().Err(err).Msg("failed to parse validate request")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	result := h.validator.Validate(req.Request.Context(), toItem(body))
	_ = resp.WriteHeaderAndEntity(http.StatusOK, result)
}

// POST /api/v1/validate/definition
func (h *Handler) ValidateDefinition(req *restful.Request, resp *restful.Response) {
	var def models.Definition
	if err := req.ReadEntity(&def); err != nil {
		h.logger.Error().Err(err).Msg("failed to parse definition")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	result := h.validator.Validate(req.Request.Context(), orchestrator.Item{
		Term:     def.Term,
		Text:     def.Text,
		Category: def.Category,
	})
	_ = resp.WriteHeaderAndEntity(http.StatusOK, result)
}

// POST /api/v1/validate/batch
func (h *Handler) ValidateBatch(req *restful.Request, resp *restful.Response) {
	var body BatchRequest
	if err := req.ReadEntity(&body); err != nil {
		h.logger.Error().Err(err).Msg("failed to parse batch request")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}
	if len(body.Items) == 0 {
		middleware.HandleError(resp, errors.New("batch contains no items"), http.StatusBadRequest)
		return
	}

	items := make([]orchestrator.Item, len(body.Items))
	for i, r := range body.Items {
		items[i] = toItem(r)
	}

	results := h.validator.BatchValidate(req.Request.Context(), items, body.MaxConcurrency)
	_ = resp.WriteHeaderAndEntity(http.StatusOK, results)
}

// POST /api/v1/generate
func (h *Handler) Generate(req *restful.Request, resp *restful.Response) {
	if h.generator == nil {
		middleware.HandleError(resp, errors.New("definition generation is not configured"), http.StatusNotImplemented)
		return
	}

	var body GenerateRequest
	if err := req.ReadEntity(&body); err != nil {
		h.logger.Error().Err(err).Msg("failed to parse generate request")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}
	if body.Term == "" {
		middleware.HandleError(resp, errors.New("term is required"), http.StatusBadRequest)
		return
	}

	ctx := req.Request.Context()
	text, err := h.generator.Generate(ctx, generator.Request{
		Term:     body.Term,
		Category: body.Category,
		Context:  body.Context,
	})
	if err != nil {
		h.logger.Error().Err(err).Str("term", body.Term).Msg("definition generation failed")
		middleware.HandleError(resp, err, http.StatusBadGateway)
		return
	}

	def := models.Definition{Term: body.Term, Text: text, Category: body.Category}
	validation := h.validator.Validate(ctx, orchestrator.Item{
		Term:     def.Term,
		Text:     def.Text,
		Category: def.Category,
		Context:  body.Context,
	})

	_ = resp.WriteHeaderAndEntity(http.StatusOK, GenerateResponse{
		Definition: def,
		Validation: validation,
	})
}

// GET /api/v1/rules
func (h *Handler) Rules(req *restful.Request, resp *restful.Response) {
	snap, err := h.rules.Snapshot()
	if err != nil {
		middleware.HandleError(resp, err, http.StatusServiceUnavailable)
		return
	}

	out := RulesResponse{Rules: make([]models.Rule, 0, snap.Len())}
	for _, ar := range snap.Rules() {
		out.Rules = append(out.Rules, ar.Rule)
	}
	_ = resp.WriteHeaderAndEntity(http.StatusOK, out)
}

// GET /api/v1/health
func (h *Handler) Health(req *restful.Request, resp *restful.Response) {
	_ = resp.WriteHeaderAndEntity(http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: mapper.EngineVersion,
	})
}
