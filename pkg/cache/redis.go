package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Eursukkul/coaching-service/internal/models"
	"github.com/go-redis/redis/v8"
)

func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		PoolSize:     20,
		MinIdleConns: 5,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

// CatalogCache stores the active package list per category as JSON.
type CatalogCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewCatalogCache(client *redis.Client, prefix string, ttl time.Duration) *CatalogCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CatalogCache{client: client, prefix: prefix, ttl: ttl}
}

func (c *CatalogCache) key(parts ...string) string {
	return strings.Join(append([]string{c.prefix, "catalog"}, parts...), ":")
}

// GetPackages reports a miss with ok=false and a nil error.
func (c *CatalogCache) GetPackages(ctx context.Context, category string) ([]models.Package, bool, error) {
	data, err := c.client.Get(ctx, c.key(categoryKey(category))).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var pkgs []models.Package
	if err := json.Unmarshal(data, &pkgs); err != nil {
		return nil, false, fmt.Errorf("decode cached catalog: %w", err)
	}
	return pkgs, true, nil
}

func (c *CatalogCache) SetPackages(ctx context.Context, category string, pkgs []models.Package) error {
	data, err := json.Marshal(pkgs)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(categoryKey(category)), data, c.ttl).Err()
}

// Invalidate drops every cached catalog list.
func (c *CatalogCache) Invalidate(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, c.key("*"), 100).Iterator()
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
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return err
	}
	log.Printf("[Cache] invalidated %d catalog keys", len(keys))
	return nil
}

func categoryKey(category string) string {
	if category == "" {
		return "all"
	}
	return category
}
