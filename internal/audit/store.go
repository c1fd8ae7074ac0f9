package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/begriplab/definitie-validator/internal/models"
)

// Store receives every ValidationResult for audit. The validator never reads
// back; a failing store must not fail a validation.
type Store interface {
	Save(ctx context.Context, result models.ValidationResult) error
}

// Connect dials Redis with retry and exponential backoff.
func Connect(ctx context.Context, addr, password string, maxRetries int, logger *zerolog.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:            addr,
		Password:        password,
		DB:              0,
		MaxRetries:      3,
		MinRetryBackoff: 8 * time.Millisecond,
		MaxRetryBackoff: 512 * time.Millisecond,
		DialTimeout:     5 * time.Second,
		ReadTimeout:     3 * time.Second,
		WriteTimeout:    3 * time.Second,
	})

	var err error
	for i := range maxRetries {
		if i > 0 {
			backoff := time.Duration(1<<uint(i)) * time.Second
			logger.Info().Dur("backoff", backoff).Msg("waiting before Redis retry")
			time.Sleep(backoff)
		}

		err = client.Ping(ctx).Err()
		if err == nil {
			logger.Info().Str("addr", addr).Int("attempts", i+1).Msg("Redis connected")
			return client, nil
		}

		logger.Warn().Err(err).Int("attempt", i+1).Msg("Redis ping failed")
	}

	return nil, fmt.Errorf("failed to connect to Redis after %d attempts: %w", maxRetries, err)
}

// RedisStore keeps the full result under a keyed entry with a retention TTL
// and appends a compact record to a stream for downstream consumers.
type RedisStore struct {
	client    *redis.Client
	stream    string
	retention time.Duration
	logger    *zerolog.Logger
}

func NewRedisStore(client *redis.Client, stream string, retention time.Duration, logger *zerolog.Logger) *RedisStore {
	return &RedisStore{
		client:    client,
		stream:    stream,
		retention: retention,
		logger:    logger,
	}
}

func (s *RedisStore) Save(ctx context.Context, result models.ValidationResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result %s: %w", result.System.CorrelationID, err)
	}

	key := "audit:definition:" + result.System.CorrelationID

	pipe := s.client.Pipeline()
	pipe.Set(ctx, key, payload, s.retention)
	pipe.XAdd(ctx, &redis.XAddArgs{
		Stream: s.stream,
		Values: map[string]any{
			"correlation_id": result.System.CorrelationID,
			"score":          result.OverallScore,
			"acceptable":     result.IsAcceptable,
			"classification": string(result.Classification),
			"payload":        string(payload),
		},
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("persist result %s: %w", result.System.CorrelationID, err)
	}

	s.logger.Debug().
		Str("correlation_id", result.System.CorrelationID).
		Str("key", key).
		Msg("result persisted for audit")
	return nil
}
