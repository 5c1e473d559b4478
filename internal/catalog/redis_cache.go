package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/Chadangdang/BookstoreApp/internal/domain"
	"github.com/redis/go-redis/v9"
)

const listCacheKey = "books:all"

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{
		client:  client,
		baseTTL: 5 * time.Minute,
	}
}

// RedisCache caches the full book list. The TTL is short because cached
// stock counts go stale on every checkout; stock reads on the live paths
// bypass the cache entirely.
type RedisCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func (r *RedisCache) Get(ctx context.Context) ([]*domain.Book, error) {
	data, err := r.client.Get(ctx, listCacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var books []*domain.Book
	if err2 := json.Unmarshal(data, &books); err2 != nil {
		return nil, fmt.Errorf("unmarshal books failed: %w", err2)
	}

	return books, nil
}

func (r *RedisCache) Set(ctx context.Context, books []*domain.Book) error {
	data, err := json.Marshal(books)
	if err != nil {
		return fmt.Errorf("marshal books failed: %w", err)
	}

	jitter := time.Duration(rand.Intn(60)) * time.Second
	ttl := r.baseTTL + jitter
	if err := r.client.Set(ctx, listCacheKey, string(data), ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisCache) Delete(ctx context.Context) error {
	if err := r.client.Del(ctx, listCacheKey).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}

	return nil
}
