package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/eventify/eventify-api/internal/core/domain"
)

const (
	listingKey = "events:listing"
	listingTTL = 30 * time.Second
)

// ListingCache caches the public event listing in Redis under a single key
// with a short TTL. Every failure degrades to a cache miss; the cache is never
// allowed to fail a request.
type ListingCache struct {
	client *redis.Client
	log    zerolog.Logger
}

func NewListingCache(client *redis.Client, log zerolog.Logger) *ListingCache {
	return &ListingCache{client: client, log: log}
}

// Get returns the cached listing, or ok=false on a miss or any Redis error.
func (c *ListingCache) Get(ctx context.Context) ([]*domain.Event, bool) {
	raw, err := c.client.Get(ctx, listingKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn().Err(err).Msg("listing cache read failed")
		}
		return nil, false
	}

	var events []*domain.Event
	if err := json.Unmarshal(raw, &events); err != nil {
		c.log.Warn().Err(err).Msg("listing cache payload corrupt, dropping")
		c.Invalidate(ctx)
		return nil, false
	}
	return events, true
}

// Set stores the listing with the cache TTL.
func (c *ListingCache) Set(ctx context.Context, events []*domain.Event) {
	raw, err := json.Marshal(events)
	if err != nil {
		c.log.Warn().Err(err).Msg("listing cache encode failed")
		return
	}
	if err := c.client.Set(ctx, listingKey, raw, listingTTL).Err(); err != nil {
		c.log.Warn().Err(err).Msg("listing cache write failed")
	}
}

// Invalidate drops the cached listing. Called after every event mutation.
func (c *ListingCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, listingKey).Err(); err != nil {
		c.log.Warn().Err(err).Msg("listing cache invalidation failed")
	}
}
