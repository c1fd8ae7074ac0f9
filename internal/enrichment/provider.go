package enrichment

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/begriplab/definitie-validator/internal/models"
)

// Provider supplies the context lists for a term when the caller omits them.
// The validator treats the returned lists as opaque, already normalized.
type Provider interface {
	Enrich(ctx context.Context, term, category string) (*models.EvaluationContext, error)
}

type categoryContext struct {
	Organizational []string `yaml:"organizational"`
	LegalDomains   []string `yaml:"legal_domains"`
	StatutoryBases []string `yaml:"statutory_bases"`
}

type staticConfig struct {
	Default    categoryContext            `yaml:"default"`
	Categories map[string]categoryContext `yaml:"categories"`
}

// StaticProvider serves context lists from a YAML document keyed by category,
// with a default entry for unknown categories.
type StaticProvider struct {
	cfg staticConfig
}

func LoadStatic(path string) (*StaticProvider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read context config: %w", err)
	}
	var cfg staticConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse context config: %w", err)
	}
	return &StaticProvider{cfg: cfg}, nil
}

func (p *StaticProvider) Enrich(_ context.Context, _ string, category string) (*models.EvaluationContext, error) {
	entry := p.cfg.Default
	if category != "" {
		if c, ok := p.cfg.Categories[strings.ToLower(category)]; ok {
			entry = c
		}
	}
	return &models.EvaluationContext{
		OrganizationalContext: entry.Organizational,
		LegalDomainContext:    entry.LegalDomains,
		StatutoryBases:        entry.StatutoryBases,
	}, nil
}
