// Package cache keeps recently read companies in Redis so hot company lookups
// skip the database.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gartstein/bizniz/internal/bizniz/models"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	keyPrefix  = "bizniz:company:"
	DefaultTTL = 5 * time.Minute
)

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisCache connects to the server at url (redis://host:port/db) and
// verifies the connection.
func NewRedisCache(url string, ttl time.Duration, logger *zap.Logger) (*RedisCache, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	opt.DialTimeout = 5 * time.Second
	opt.ReadTimeout = 3 * time.Second
	opt.WriteTimeout = 3 * time.Second
	opt.MaxRetries = 3

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return newRedisCache(client, ttl, logger), nil
}

func newRedisCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisCache{
		client: client,
		ttl:    ttl,
		logger: logger.Named("company_cache"),
	}
}

func key(id uuid.UUID) string {
	return keyPrefix + id.String()
}

// Get returns the cached company. Any Redis failure is logged and reported
// as a miss.
func (c *RedisCache) Get(ctx context.Context, id uuid.UUID) (*models.Company, bool) {
	data, err := c.client.Get(ctx, key(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("cache read failed", zap.Error(err), zap.String("company_id", id.String()))
		}
		return nil, false
	}

	var company models.Company
	if err := json.Unmarshal(data, &company); err != nil {
		c.logger.Warn("cache entry corrupt", zap.Error(err), zap.String("company_id", id.String()))
		c.Invalidate(ctx, id)
		return nil, false
	}
	return &company, true
}

func (c *RedisCache) Set(ctx context.Context, company *models.Company) {
	data, err := json.Marshal(company)
	if err != nil {
		c.logger.Warn("cache encode failed", zap.Error(err), zap.String("company_id", company.ID.String()))
		return
	}
	if err := c.client.Set(ctx, key(company.ID), data, c.ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", zap.Error(err), zap.String("company_id", company.ID.String()))
	}
}

func (c *RedisCache) Invalidate(ctx context.Context, ids ...uuid.UUID) {
	if len(ids) == 0 {
		return
	}
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, key(id))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("cache invalidation failed", zap.Error(err), zap.Strings("keys", keys))
	}
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// NopCache never stores anything.
type NopCache struct{}

func (NopCache) Get(context.Context, uuid.UUID) (*models.Company, bool) { return nil, false }

func (NopCache) Set(context.Context, *models.Company) {}

func (NopCache) Invalidate(context.Context, ...uuid.UUID) {}

func (NopCache) Close() error { return nil }
