package ruleset

import (
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/begriplab/definitie-validator/internal/models"
	"github.com/begriplab/definitie-validator/internal/rules"
)

// Thresholds are the fixed classification bands. Perfect and acceptable feed
// classification; acceptable is also the acceptability cut-off.
type Thresholds struct {
	Perfect    float64 `yaml:"perfect"`
	Acceptable float64 `yaml:"acceptable"`
	Borderline float64 `yaml:"borderline"`
}

var defaultThresholds = Thresholds{Perfect: 0.80, Acceptable: 0.75, Borderline: 0.60}

// UnmarshalYAML decodes through pointer fields so an explicit 0 in the file
// is distinguishable from an absent key; absent keys get the default band.
func (t *Thresholds) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Perfect    *float64 `yaml:"perfect"`
		Acceptable *float64 `yaml:"acceptable"`
		Borderline *float64 `yaml:"borderline"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	*t = defaultThresholds
	if raw.Perfect != nil {
		t.Perfect = *raw.Perfect
	}
	if raw.Acceptable != nil {
		t.Acceptable = *raw.Acceptable
	}
	if raw.Borderline != nil {
		t.Borderline = *raw.Borderline
	}
	return nil
}

// Override adjusts one catalog rule. Absent fields keep the catalog default.
type Override struct {
	Weight   *float64 `yaml:"weight"`
	Severity string   `yaml:"severity"`
	Tier     string   `yaml:"priority_tier"`
	Blocking *bool    `yaml:"blocking"`
	Enabled  *bool    `yaml:"enabled"`
}

// Config is the declarative rule-weights/thresholds document.
type Config struct {
	Version    int                 `yaml:"version"`
	Thresholds Thresholds          `yaml:"thresholds"`
	Rules      map[string]Override `yaml:"rules"`
}

// LoadConfig reads and validates the rule configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rule config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse rule config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	// Only a wholly absent thresholds block (no key in the file, or a
	// programmatic zero Config) falls back to the defaults; per-field
	// defaults are handled during unmarshalling.
	if cfg.Thresholds == (Thresholds{}) {
		cfg.Thresholds = defaultThresholds
	}
}

func (c *Config) Validate() error {
	t := c.Thresholds
	if !(t.Borderline < t.Acceptable && t.Acceptable <= t.Perfect) {
		return fmt.Errorf("thresholds must satisfy borderline < acceptable <= perfect, got %+v", t)
	}
	for code, ov := range c.Rules {
		if !models.ValidCode(code) {
			return fmt.Errorf("rule code %q does not match the code pattern", code)
		}
		if ov.Weight != nil && *ov.Weight <= 0 {
			return fmt.Errorf("rule %s: weight must be > 0, got %v", code, *ov.Weight)
		}
		if ov.Severity != "" {
			switch models.Severity(ov.Severity) {
			case models.SeverityCritical, models.SeverityMajor, models.SeverityModerate:
			default:
				return fmt.Errorf("rule %s: unknown severity %q", code, ov.Severity)
			}
		}
		if ov.Tier != "" {
			switch models.PriorityTier(ov.Tier) {
			case models.TierHigh, models.TierMedium, models.TierLow:
			default:
				return fmt.Errorf("rule %s: unknown priority tier %q", code, ov.Tier)
			}
		}
	}
	return nil
}

// ActiveRule is one rule of the effective, immutable rule set.
type ActiveRule struct {
	Rule      models.Rule
	Evaluator rules.Evaluator
}

// Snapshot is the effective rule set handed to the executor. It is built once
// per (re)load and never mutated; concurrent validations share it freely.
type Snapshot struct {
	Thresholds Thresholds
	LoadedAt   time.Time

	rules  []ActiveRule
	byTier map[models.PriorityTier][]ActiveRule
}

func (s *Snapshot) Rules() []ActiveRule { return s.rules }

func (s *Snapshot) Tier(t models.PriorityTier) []ActiveRule { return s.byTier[t] }

func (s *Snapshot) Len() int { return len(s.rules) }

// BuildSnapshot overlays cfg onto the static catalog. Overrides for codes that
// are not in the catalog are a config error: a typo would otherwise silently
// drop the intended adjustment.
func BuildSnapshot(cfg *Config, catalog []rules.Definition) (*Snapshot, error) {
	applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	known := make(map[string]bool, len(catalog))
	for _, def := range catalog {
		known[def.Rule.Code] = true
	}
	for code := range cfg.Rules {
		if !known[code] {
			return nil, fmt.Errorf("config overrides unknown rule %s", code)
		}
	}

	snap := &Snapshot{
		Thresholds: cfg.Thresholds,
		LoadedAt:   time.Now(),
		byTier:     make(map[models.PriorityTier][]ActiveRule),
	}

	for _, def := range catalog {
		r := def.Rule
		if ov, ok := cfg.Rules[r.Code]; ok {
			if ov.Enabled != nil && !*ov.Enabled {
				continue
			}
			if ov.Weight != nil {
				r.Weight = *ov.Weight
			}
			if ov.Severity != "" {
				r.Severity = models.Severity(ov.Severity)
			}
			if ov.Tier != "" {
				r.Tier = models.PriorityTier(ov.Tier)
			}
			if ov.Blocking != nil {
				r.Blocking = *ov.Blocking
			}
			if r.Severity == models.SeverityCritical {
				r.Blocking = true
			}
		}
		snap.rules = append(snap.rules, ActiveRule{Rule: r, Evaluator: def.Evaluator})
	}

	sort.Slice(snap.rules, func(i, j int) bool {
		return snap.rules[i].Rule.Code < snap.rules[j].Rule.Code
	})
	for _, ar := range snap.rules {
		snap.byTier[ar.Rule.Tier] = append(snap.byTier[ar.Rule.Tier], ar)
	}

	return snap, nil
}
