// Package cache stores completed generation outcomes in Redis under a
// caller-supplied key; internal/jobs keys each outcome by its run ID so a
// submitted run can be polled later. Mirrors the proposalStore TTL semantics
// (pkg/cache.NewRedis/schedule_generator_service.proposalStore) but backed
// by Redis's own expiry instead of a hand-rolled sweep.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kanjilab/jhs-scheduler/internal/engine"
)

const keyPrefix = "jhs-scheduler:schedule:"

// redisCommander is the slice of *redis.Client this package actually calls,
// narrowed so tests can substitute a fake without a live Redis server.
type redisCommander interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// ResultCache wraps a Redis client with the engine.Outcome JSON codec and a
// fixed TTL, mirroring the proposalStore.Save/Get/Delete shape.
type ResultCache struct {
	client redisCommander
	ttl    time.Duration
}

// New builds a ResultCache over any redisCommander (*redis.Client
// satisfies it). ttl <= 0 defaults to 30 minutes, matching
// pkg/config.SchedulerConfig.ProposalTTL's default.
func New(client redisCommander, ttl time.Duration) *ResultCache {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &ResultCache{client: client, ttl: ttl}
}

// Key derives the cache key for a caller-supplied identifier
// (internal/jobs passes the run ID); this package does not interpret it.
func Key(contentHash string) string {
	return keyPrefix + contentHash
}

// Save stores outcome under key with the configured TTL.
func (c *ResultCache) Save(ctx context.Context, key string, outcome *engine.Outcome) error {
	data, err := json.Marshal(outcome)
	if err != nil {
		return fmt.Errorf("cache: marshal outcome: %w", err)
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}

// Get retrieves the outcome stored under key, if present and unexpired.
func (c *ResultCache) Get(ctx context.Context, key string) (*engine.Outcome, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache: get %s: %w", key, err)
	}
	var outcome engine.Outcome
	if err := json.Unmarshal(data, &outcome); err != nil {
		return nil, false, fmt.Errorf("cache: unmarshal outcome: %w", err)
	}
	return &outcome, true, nil
}

// Delete evicts key, used when a caller explicitly invalidates a run.
func (c *ResultCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}
