package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"trade-marketplace-service/internal/domain"
)

const (
	categoriesKey = "categories:active"
	categoriesTTL = 1 * time.Hour
)

// CategoryCache is a read-through Redis cache for the active-categories
// listing. The category tree changes rarely, so a short TTL is enough and
// no explicit invalidation is wired.
type CategoryCache struct {
	client *redis.Client
}

// NewCategoryCache connects to Redis at addr and pings it once.
func NewCategoryCache(addr string) (*CategoryCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr, // e.g., "localhost:6379"
	})
	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, err
	}
	return &CategoryCache{client: client}, nil
}

// GetCategories returns the cached listing, or (nil, nil) on a cache miss.
func (c *CategoryCache) GetCategories(ctx context.Context) ([]domain.Category, error) {
	data, err := c.client.Get(ctx, categoriesKey).Bytes()
	if err == redis.Nil {
		return nil, nil // Cache miss
	}
	if err != nil {
		return nil, err
	}
	var categories []domain.Category
	if err := json.Unmarshal(data, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// SetCategories stores the listing under the fixed key with the default TTL.
func (c *CategoryCache) SetCategories(ctx context.Context, categories []domain.Category) error {
	data, err := json.Marshal(categories)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, categoriesKey, data, categoriesTTL).Err()
}

func (c *CategoryCache) Close() error {
	return c.client.Close()
}
