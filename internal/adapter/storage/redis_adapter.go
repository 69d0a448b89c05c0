package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rl1809/item-inventory/internal/core/domain"
)

const (
	listingCacheKey = "items_list"
	listingCacheTTL = 60 * time.Second
)

// RedisAdapter holds the whole item listing as one JSON value under a fixed key.
type RedisAdapter struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

func NewRedisAdapter(client *redis.Client) *RedisAdapter {
	return &RedisAdapter{client: client, key: listingCacheKey, ttl: listingCacheTTL}
}

func (r *RedisAdapter) Get(ctx context.Context) ([]domain.Item, bool, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get listing: %w", err)
	}

	var items []domain.Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, false, fmt.Errorf("decode listing: %w", err)
	}
	return items, true, nil
}

func (r *RedisAdapter) Set(ctx context.Context, items []domain.Item) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode listing: %w", err)
	}
	return r.client.Set(ctx, r.key, data, r.ttl).Err()
}

func (r *RedisAdapter) Invalidate(ctx context.Context) error {
	return r.client.Del(ctx, r.key).Err()
}
