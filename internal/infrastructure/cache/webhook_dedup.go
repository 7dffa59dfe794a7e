// Package cache remembers delivered webhook ids so redeliveries are
// acknowledged without being processed twice.
package cache

import (
	"context"
	"fmt"
	"time"

	"multimodal-product-discovery/internal/ports"

	"github.com/redis/go-redis/v9"
)

// DefaultWebhookTTL is how long a delivered webhook id is remembered
const DefaultWebhookTTL = 24 * time.Hour

const keyPrefix = "webhook:seen:"

// RedisDeduplicator implements WebhookDeduplicator with SET NX
type RedisDeduplicator struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedisDeduplicator creates a deduplicator on an existing client
func NewRedisDeduplicator(client redis.UniversalClient, ttl time.Duration) *RedisDeduplicator {
	if ttl <= 0 {
		ttl = DefaultWebhookTTL
	}
	return &RedisDeduplicator{client: client, ttl: ttl}
}

var _ ports.WebhookDeduplicator = (*RedisDeduplicator)(nil)

// NewRedisClient parses a redis:// URL and pings the server
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

// FirstDelivery returns false when the webhook id was already seen.
// An empty id is always treated as a first delivery.
func (d *RedisDeduplicator) FirstDelivery(ctx context.Context, webhookID string) (bool, error) {
	if webhookID == "" {
		return true, nil
	}
	ok, err := d.client.SetNX(ctx, keyPrefix+webhookID, time.Now().Unix(), d.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to record webhook delivery: %w", err)
	}
	return ok, nil
}

// Forget removes the delivery marker
func (d *RedisDeduplicator) Forget(ctx context.Context, webhookID string) error {
	if webhookID == "" {
		return nil
	}
	if err := d.client.Del(ctx, keyPrefix+webhookID).Err(); err != nil {
		return fmt.Errorf("failed to forget webhook delivery: %w", err)
	}
	return nil
}

// NopDeduplicator treats every delivery as new. Used when Redis is not configured.
type NopDeduplicator struct{}

func (NopDeduplicator) FirstDelivery(context.Context, string) (bool, error) {
	return true, nil
}

func (NopDeduplicator) Forget(context.Context, string) error {
	return nil
}
