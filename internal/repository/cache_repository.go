package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/alumni-tracking-api/pkg/errors"
)

const (
	cacheKeyPrefix = "alumni-api:"
	unlinkBatch    = 100
)

// CacheRepository keeps JSON payloads in Redis under a shared key prefix.
// Without a client every read misses and every write is dropped.
type CacheRepository struct {
	client *redis.Client
	logger *zap.Logger
}

func NewCacheRepository(client *redis.Client, logger *zap.Logger) *CacheRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheRepository{client: client, logger: logger}
}

func (r *CacheRepository) key(k string) string { return cacheKeyPrefix + k }

// Get decodes the payload stored under key into dest.
func (r *CacheRepository) Get(ctx context.Context, key string, dest interface{}) error {
	if r.client == nil {
		return appErrors.ErrCacheMiss
	}
	raw, err := r.client.Get(ctx, r.key(key)).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return appErrors.ErrCacheMiss
	case err != nil:
		return fmt.Errorf("cache get %q: %w", key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		// A payload that no longer decodes is treated as absent.
		r.logger.Warn("dropping undecodable cache entry", zap.String("key", key), zap.Error(err))
		_ = r.client.Unlink(ctx, r.key(key)).Err()
		return appErrors.ErrCacheMiss
	}
	return nil
}

// Set stores value as JSON for ttl.
func (r *CacheRepository) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if r.client == nil {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cache entry %q: %w", key, err)
	}
	return r.client.Set(ctx, r.key(key), payload, ttl).Err()
}

// DeleteByPattern unlinks every key matching pattern, in pipelined batches.
func (r *CacheRepository) DeleteByPattern(ctx context.Context, pattern string) error {
	if r.client == nil {
		return nil
	}

	var (
		batch   = make([]string, 0, unlinkBatch)
		removed int
	)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		_, err := r.client.Pipelined(ctx, func(p redis.Pipeliner) error {
			p.Unlink(ctx, batch...)
			return nil
		})
		removed += len(batch)
		batch = batch[:0]
		return err
	}

	iter := r.client.Scan(ctx, 0, r.key(pattern), unlinkBatch).Iterator()
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == unlinkBatch {
			if err := flush(); err != nil {
				return fmt.Errorf("cache unlink %q: %w", pattern, err)
			}
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("cache scan %q: %w", pattern, err)
	}
	if err := flush(); err != nil {
		return fmt.Errorf("cache unlink %q: %w", pattern, err)
	}

	r.logger.Debug("analytics cache invalidated", zap.String("pattern", pattern), zap.Int("removed", removed))
	return nil
}

// PingContext lets the readiness probe check Redis.
func (r *CacheRepository) PingContext(ctx context.Context) error {
	if r.client == nil {
		return nil
	}
	return r.client.Ping(ctx).Err()
}

func (r *CacheRepository) Close() error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}
