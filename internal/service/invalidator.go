package service

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"
)

// CacheInvalidator drops cached HTTP responses after a booking mutation so
// public venue pages and timeline views never serve stale availability.
// Cache keys are SHA-1 hashes of the route+query, so entries cannot be
// deleted per-venue; the whole response-cache namespace is flushed instead.
type CacheInvalidator struct {
	rdb    *redis.Client
	prefix string
}

// NewCacheInvalidator returns an invalidator scoped to the given key prefix.
// A nil client disables invalidation (the cache itself is disabled too).
func NewCacheInvalidator(rdb *redis.Client, prefix string) *CacheInvalidator {
	if prefix == "" {
		prefix = "cache"
	}
	return &CacheInvalidator{rdb: rdb, prefix: prefix}
}

// InvalidateBookingViews removes every cached response under the prefix.
// Uses SCAN rather than KEYS to avoid blocking Redis on large keyspaces.
// Best effort: failures are logged, never surfaced to the request.
func (i *CacheInvalidator) InvalidateBookingViews(ctx context.Context, venueID uint64) {
	if i.rdb == nil {
		return
	}
	var cursor uint64
	pattern := i.prefix + ":*"
	for {
		keys, next, err := i.rdb.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			log.Printf("cache: scan failed during invalidation for venue %d: %v", venueID, err)
			return
		}
		if len(keys) > 0 {
			if err := i.rdb.Del(ctx, keys...).Err(); err != nil {
				log.Printf("cache: delete failed during invalidation for venue %d: %v", venueID, err)
				return
			}
		}
		cursor = next
		if cursor == 0 {
			return
		}
	}
}
