package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"archersedge/scoring"

	"github.com/redis/go-redis/v9"
)

const profileSnapshotKey = "archers:profiles:snapshot"

var ErrSnapshotMissing = errors.New("no profile snapshot available")

// ProfileCache keeps the last known profile list in memory and in redis so
// results can still show names while the profile store is unavailable.
type ProfileCache struct {
	redis    *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	memory   []scoring.Profile
	storedAt time.Time
}

// NewProfileCache builds the cache. A nil client keeps the snapshot in memory only.
func NewProfileCache(client *redis.Client, ttl time.Duration) *ProfileCache {
	return &ProfileCache{redis: client, ttl: ttl}
}

// Store replaces the snapshot. The in-memory copy is always updated, the
// returned error only reports a failed redis write.
func (c *ProfileCache) Store(ctx context.Context, profiles []scoring.Profile) error {
	snapshot := make([]scoring.Profile, len(profiles))
	copy(snapshot, profiles)

	c.mu.Lock()
	c.memory = snapshot
	c.storedAt = time.Now()
	c.mu.Unlock()

	if c.redis == nil {
		return nil
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	if err := c.redis.Set(ctx, profileSnapshotKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("error storing profile snapshot in redis: %w", err)
	}
	return nil
}

// Profiles serves the in-memory snapshot while it is fresh and falls back to redis.
func (c *ProfileCache) Profiles(ctx context.Context) ([]scoring.Profile, error) {
	c.mu.RLock()
	if c.memory != nil && time.Since(c.storedAt) < c.ttl {
		profiles := make([]scoring.Profile, len(c.memory))
		copy(profiles, c.memory)
		c.mu.RUnlock()
		return profiles, nil
	}
	c.mu.RUnlock()

	if c.redis == nil {
		return nil, ErrSnapshotMissing
	}
	data, err := c.redis.Get(ctx, profileSnapshotKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSnapshotMissing
	}
	if err != nil {
		return nil, fmt.Errorf("error getting profile snapshot from redis: %w", err)
	}

	var profiles []scoring.Profile
	if err := json.Unmarshal(data, &profiles); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile snapshot: %w", err)
	}

	c.mu.Lock()
	c.memory = profiles
	c.storedAt = time.Now()
	c.mu.Unlock()

	out := make([]scoring.Profile, len(profiles))
	copy(out, profiles)
	return out, nil
}

func (c *ProfileCache) StoredAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.storedAt
}

func (c *ProfileCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.memory)
}
