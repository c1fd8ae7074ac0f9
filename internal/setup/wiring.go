package setup

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/begriplab/definitie-validator/internal/aggregator"
	"github.com/begriplab/definitie-validator/internal/audit"
	"github.com/begriplab/definitie-validator/internal/enrichment"
	"github.com/begriplab/definitie-validator/internal/executor"
	"github.com/begriplab/definitie-validator/internal/generator"
	"github.com/begriplab/definitie-validator/internal/generator/bedrock"
	"github.com/begriplab/definitie-validator/internal/metric"
	"github.com/begriplab/definitie-validator/internal/orchestrator"
	"github.com/begriplab/definitie-validator/internal/rules"
	"github.com/begriplab/definitie-validator/internal/ruleset"
)

type Config struct {
	RulesConfigPath   string
	RuleCacheTTL      time.Duration
	RuleTimeout       time.Duration
	ContextConfigPath string

	RedisAddr      string
	RedisPassword  string
	AuditStream    string
	AuditRetention time.Duration

	AWSRegion     string
	ClaudeModelID string
}

type Dependencies struct {
	Orchestrator *orchestrator.Orchestrator
	RuleCache    *ruleset.Cache
	Generator    generator.Client // nil when not configured
	Metrics      *metric.Metrics
	Logger       *zerolog.Logger
}

func LoadConfig() *Config {
	return &Config{
		RulesConfigPath:   getEnv("RULES_CONFIG_PATH", "configs/rules.yaml"),
		RuleCacheTTL:      getEnvDuration("RULE_CACHE_TTL", 5*time.Minute),
		RuleTimeout:       getEnvDuration("RULE_TIMEOUT", executor.DefaultRuleTimeout),
		ContextConfigPath: getEnv("CONTEXT_CONFIG_PATH", ""),
		RedisAddr:         getEnv("REDIS_ADDR", ""),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		AuditStream:       getEnv("AUDIT_STREAM", "validation-results"),
		AuditRetention:    getEnvDuration("AUDIT_RETENTION", 30*24*time.Hour),
		AWSRegion:         getEnv("AWS_REGION", "eu-west-1"),
		ClaudeModelID:     getEnv("CLAUDE_MODEL_ID", ""),
	}
}

// Wire builds the full engine. Audit, enrichment and generation are optional:
// unset config leaves them nil and the engine runs standalone.
func Wire(ctx context.Context, cfg *Config, metrics *metric.Metrics, logger *zerolog.Logger) (*Dependencies, error) {
	cache, err := ruleset.NewCache(cfg.RulesConfigPath, cfg.RuleCacheTTL, rules.Catalog(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build rule cache: %w", err)
	}

	exec := executor.New(cache, cfg.RuleTimeout, metrics, logger)
	agg := aggregator.New(logger)

	var store orchestrator.AuditStore
	if cfg.RedisAddr != "" {
		client, err := audit.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, 5, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect audit store: %w", err)
		}
		store = audit.NewRedisStore(client, cfg.AuditStream, cfg.AuditRetention, logger)
	}

	var enricher orchestrator.ContextProvider
	if cfg.ContextConfigPath != "" {
		provider, err := enrichment.LoadStatic(cfg.ContextConfigPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load enrichment contexts: %w", err)
		}
		enricher = provider
	}

	var gen generator.Client
	if cfg.ClaudeModelID != "" {
		client, err := bedrock.NewClient(ctx, cfg.AWSRegion, cfg.ClaudeModelID, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create Bedrock client: %w", err)
		}
		gen = client
	}

	orch := orchestrator.New(exec, agg, store, enricher, metrics, logger)

	return &Dependencies{
		Orchestrator: orch,
		RuleCache:    cache,
		Generator:    gen,
		Metrics:      metrics,
		Logger:       logger,
	}, nil
}

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	if ms, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return defaultValue
}
