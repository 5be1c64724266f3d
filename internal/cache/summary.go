package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/goldennest/internal/domain"
)

// SummaryKey holds the cached admin status counts.
const SummaryKey = "listing:summary"

// SummaryCache stores domain.StatusSummary in Redis.
type SummaryCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSummaryCache wraps client. A nil client yields a cache that always misses.
func NewSummaryCache(client *redis.Client, ttl time.Duration) *SummaryCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &SummaryCache{client: client, ttl: ttl}
}

// Get returns the cached summary; ok is false on miss.
func (c *SummaryCache) Get(ctx context.Context) (domain.StatusSummary, bool, error) {
	var summary domain.StatusSummary
	if c == nil || c.client == nil {
		return summary, false, nil
	}
	raw, err := c.client.Get(ctx, SummaryKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return summary, false, nil
	}
	if err != nil {
		return summary, false, err
	}
	if err := json.Unmarshal(raw, &summary); err != nil {
		return summary, false, err
	}
	return summary, true, nil
}

// Set caches summary for the configured TTL.
func (c *SummaryCache) Set(ctx context.Context, summary domain.StatusSummary) error {
	if c == nil || c.client == nil {
		return nil
	}
	raw, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, SummaryKey, raw, c.ttl).Err()
}

// Invalidate drops the cached summary.
func (c *SummaryCache) Invalidate(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, SummaryKey).Err()
}
