// Package cache holds the response-cache invalidation helper used after
// write operations so stale GET responses are not served from Redis.
package cache

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"
)

// Invalidator deletes cached GET responses by route prefix. Cache keys
// embed the request path verbatim (see middleware.ResponseCache), so a
// SCAN on "<prefix>:GET:/v1/events*" clears every cached variant of the
// events listing after a mutation.
type Invalidator struct {
	rdb    *redis.Client
	prefix string
}

// NewInvalidator returns a no-op invalidator when rdb is nil.
func NewInvalidator(rdb *redis.Client, prefix string) *Invalidator {
	return &Invalidator{rdb: rdb, prefix: prefix}
}

// InvalidatePaths removes all cached entries whose key starts with any of
// the given route paths. Failures are logged, never surfaced: losing an
// invalidation only extends staleness until the TTL expires.
func (i *Invalidator) InvalidatePaths(ctx context.Context, paths ...string) {
	if i == nil || i.rdb == nil {
		return
	}
	for _, p := range paths {
		pattern := i.prefix + ":GET:" + p + "*"
		iter := i.rdb.Scan(ctx, 0, pattern, 100).Iterator()
		var keys []string
		for iter.Next(ctx) {
			keys = append(keys, iter.Val())
		}
		if err := iter.Err(); err != nil {
			log.Printf("cache: scan %s failed: %v", pattern, err)
			continue
		}
		if len(keys) == 0 {
			continue
		}
		if err := i.rdb.Del(ctx, keys...).Err(); err != nil {
			log.Printf("cache: delete %d keys for %s failed: %v", len(keys), p, err)
		}
	}
}
