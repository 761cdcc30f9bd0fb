package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/amirasaad/ratesync/pkg/cache"
)

// RedisCurrencyCache implements CurrencyCache using Redis.
type RedisCurrencyCache struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
}

// NewRedisCurrencyCache creates a RedisCurrencyCache from a redis URL such as
// redis://localhost:6379/0.
func NewRedisCurrencyCache(url, prefix string, logger *slog.Logger) (*RedisCurrencyCache, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return NewRedisCurrencyCacheWithOptions(opt, prefix, logger), nil
}

// NewRedisCurrencyCacheWithOptions creates a new RedisCurrencyCache
// from redis.Options.
func NewRedisCurrencyCacheWithOptions(
	opt *redis.Options,
	prefix string,
	logger *slog.Logger,
) *RedisCurrencyCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisCurrencyCache{client: redis.NewClient(opt), prefix: prefix, logger: logger}
}

var _ cache.CurrencyCache = (*RedisCurrencyCache)(nil)

func (r *RedisCurrencyCache) key(key string) string {
	return r.prefix + key
}

// Ping checks the connection to Redis.
func (r *RedisCurrencyCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the underlying client.
func (r *RedisCurrencyCache) Close() error {
	return r.client.Close()
}

func (r *RedisCurrencyCache) Get(ctx context.Context, key string) ([]string, bool, error) {
	val, err := r.client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		r.logger.Debug("Redis cache miss", "key", key)
		return nil, false, nil
	}
	if err != nil {
		r.logger.Error("Redis cache get error", "key", key, "error", err)
		return nil, false, err
	}
	var codes []string
	if err := json.Unmarshal([]byte(val), &codes); err != nil {
		r.logger.Error("Redis cache unmarshal error", "key", key, "error", err)
		return nil, false, err
	}
	r.logger.Debug("Redis cache hit", "key", key, "count", len(codes))
	return codes, true, nil
}

func (r *RedisCurrencyCache) Set(
	ctx context.Context,
	key string,
	codes []string,
	ttl time.Duration,
) error {
	data, err := json.Marshal(codes)
	if err != nil {
		r.logger.Error("Redis cache marshal error", "key", key, "error", err)
		return err
	}
	if err := r.client.Set(ctx, r.key(key), data, ttl).Err(); err != nil {
		r.logger.Error("Redis cache set error", "key", key, "error", err)
		return err
	}
	r.logger.Debug("Redis cache set", "key", key, "count", len(codes), "ttl", ttl)
	return nil
}

func (r *RedisCurrencyCache) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		r.logger.Error("Redis cache delete error", "key", key, "error", err)
		return err
	}
	r.logger.Debug("Redis cache delete", "key", key)
	return nil
}
