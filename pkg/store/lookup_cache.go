package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"barbersbuddies/pkg/domain"
	"barbersbuddies/pkg/metrics"
)

const shopLookupPrefix = "shoplookup:"

// ShopLookupCache caches exact shop-name lookups by search key.
type ShopLookupCache interface {
	Get(ctx context.Context, searchName string) ([]domain.ShopName, bool, error)
	Set(ctx context.Context, searchName string, entries []domain.ShopName) error
	Invalidate(ctx context.Context, searchNames ...string) error
}

type redisShopLookupCache struct {
	client  *redis.Client
	ttl     time.Duration
	service string
}

func NewShopLookupCache(client *redis.Client, ttl time.Duration, service string) ShopLookupCache {
	return &redisShopLookupCache{client: client, ttl: ttl, service: service}
}

func (c *redisShopLookupCache) Get(ctx context.Context, searchName string) ([]domain.ShopName, bool, error) {
	timer := metrics.NewRedisTimer(c.service, "get")
	defer timer.ObserveDuration()

	data, err := c.client.Get(ctx, shopLookupPrefix+searchName).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.RecordCacheMiss(c.service, shopLookupPrefix)
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get shop lookup from cache: %w", err)
	}

	var entries []domain.ShopName
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal shop lookup: %w", err)
	}
	metrics.RecordCacheHit(c.service, shopLookupPrefix)
	return entries, true, nil
}

func (c *redisShopLookupCache) Set(ctx context.Context, searchName string, entries []domain.ShopName) error {
	timer := metrics.NewRedisTimer(c.service, "set")
	defer timer.ObserveDuration()

	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal shop lookup: %w", err)
	}
	if err := c.client.Set(ctx, shopLookupPrefix+searchName, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set shop lookup in cache: %w", err)
	}
	return nil
}

func (c *redisShopLookupCache) Invalidate(ctx context.Context, searchNames ...string) error {
	if len(searchNames) == 0 {
		return nil
	}
	timer := metrics.NewRedisTimer(c.service, "del")
	defer timer.ObserveDuration()

	keys := make([]string, 0, len(searchNames))
	for _, name := range searchNames {
		keys = append(keys, shopLookupPrefix+name)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate shop lookup: %w", err)
	}
	return nil
}
