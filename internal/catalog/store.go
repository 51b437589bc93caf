package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKey = "agenda:catalog:v1"

// Store layers a Redis cache over a slower catalog source. A cache miss
// or a Redis failure falls through to the source; the scheduler never
// fails a booking because the cache is down.
type Store struct {
	source Catalog
	redis  *redis.Client
	ttl    time.Duration
}

// NewStore wraps source with a Redis cache.
func NewStore(source Catalog, redisClient *redis.Client, ttl time.Duration) *Store {
	if source == nil {
		panic("catalog: source catalog required")
	}
	if redisClient == nil {
		panic("catalog: redis client required")
	}
	return &Store{source: source, redis: redisClient, ttl: ttl}
}

// DefaultDuration implements Catalog via the cached entry list.
func (s *Store) DefaultDuration(ctx context.Context, service string) (int, bool) {
	entries, err := s.List(ctx)
	if err != nil {
		return 0, false
	}
	for _, e := range entries {
		if e.Name == service && e.DurationMins > 0 {
			return e.DurationMins, true
		}
	}
	return 0, false
}

// List implements Catalog, serving from Redis when warm.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	data, err := s.redis.Get(ctx, cacheKey).Bytes()
	if err == nil {
		var entries []Entry
		if jsonErr := json.Unmarshal(data, &entries); jsonErr == nil {
			return entries, nil
		}
		// Corrupt payload; fall through and rewrite it.
	} else if !errors.Is(err, redis.Nil) {
		// Redis unavailable; serve from source without caching.
		return s.source.List(ctx)
	}

	entries, err := s.source.List(ctx)
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("catalog: marshal cache payload: %w", err)
	}
	if err := s.redis.Set(ctx, cacheKey, payload, s.ttl).Err(); err != nil {
		// Cache write failure is not fatal.
		return entries, nil
	}
	return entries, nil
}

// Invalidate drops the cached entry list, e.g. after the admin edits a
// service.
func (s *Store) Invalidate(ctx context.Context) error {
	if err := s.redis.Del(ctx, cacheKey).Err(); err != nil {
		return fmt.Errorf("catalog: invalidate cache: %w", err)
	}
	return nil
}
