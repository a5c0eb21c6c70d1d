package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	ratedomain "github.com/linguahub/linguahub/internal/rate/domain"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	cacheKeyPrefix     = "rates:v1"
	cacheGenerationKey = cacheKeyPrefix + ":generation"
)

// CachedRepository is a read-through redis cache in front of a rate repository.
// Redis failures degrade to direct reads. Misses are never cached.
type CachedRepository struct {
	next  ratedomain.Repository
	redis *redis.Client
	ttl   time.Duration
	log   *zap.Logger
}

func NewCachedRepository(next ratedomain.Repository, client *redis.Client, ttl time.Duration, log *zap.Logger) *CachedRepository {
	return &CachedRepository{
		next:  next,
		redis: client,
		ttl:   ttl,
		log:   log.Named("rate.cache"),
	}
}

func (c *CachedRepository) GetRate(ctx context.Context, where ratedomain.Discriminators, sel ratedomain.ColumnSet) (*ratedomain.RateRow, error) {
	generation, err := c.generation(ctx)
	if err != nil {
		c.log.Warn("rate cache unavailable", zap.Error(err))
		return c.next.GetRate(ctx, where, sel)
	}

	key := cacheKey(generation, where, sel)
	payload, err := c.redis.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var row ratedomain.RateRow
		if jsonErr := json.Unmarshal(payload, &row); jsonErr == nil {
			return &row, nil
		}
		c.log.Warn("discarding malformed cached rate", zap.String("key", key))
	case !errors.Is(err, redis.Nil):
		c.log.Warn("rate cache read failed", zap.String("key", key), zap.Error(err))
	}

	row, err := c.next.GetRate(ctx, where, sel)
	if err != nil {
		return nil, err
	}

	if encoded, jsonErr := json.Marshal(row); jsonErr == nil {
		if setErr := c.redis.Set(ctx, key, encoded, c.ttl).Err(); setErr != nil {
			c.log.Warn("rate cache write failed", zap.String("key", key), zap.Error(setErr))
		}
	}
	return row, nil
}

func (c *CachedRepository) Upsert(ctx context.Context, row *ratedomain.RateRow) error {
	if err := c.next.Upsert(ctx, row); err != nil {
		return err
	}
	incrErr := c.redis.Incr(ctx, cacheGenerationKey).Err()
	if incrErr == nil {
		return nil
	}

	c.log.Warn("rate cache generation bump failed, deleting cached rows", zap.Error(incrErr))
	if err := c.purge(ctx); err != nil {
		c.log.Error("rate cache invalidation failed", zap.Error(err))
		return fmt.Errorf("rate saved but cache invalidation failed: %w", errors.Join(incrErr, err))
	}
	return nil
}

// purge deletes every cached row of every generation. The generation key
// itself is kept so older generations never become current again.
func (c *CachedRepository) purge(ctx context.Context) error {
	iter := c.redis.Scan(ctx, 0, cacheKeyPrefix+":*:*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.redis.Del(ctx, keys...).Err()
}

func (c *CachedRepository) List(ctx context.Context, opts ratedomain.ListOptions) ([]ratedomain.RateRow, error) {
	return c.next.List(ctx, opts)
}

func (c *CachedRepository) generation(ctx context.Context) (int64, error) {
	gen, err := c.redis.Get(ctx, cacheGenerationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func cacheKey(generation int64, where ratedomain.Discriminators, sel ratedomain.ColumnSet) string {
	cols := make([]string, 0, len(sel))
	for _, col := range sel {
		cols = append(cols, col.DBName())
	}
	return fmt.Sprintf("%s:%d:%s:%s", cacheKeyPrefix, generation, where, strings.Join(cols, ","))
}
