package resolver

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// OwnerNameCache fronts the owner display-name lookup with redis. The owner
// name join runs on every single-entity fetch, and display names change
// rarely, so a short TTL takes most of that read load off the users table.
//
// The cache is strictly best-effort: every redis error reads as a miss and
// writes are fire-and-forget. If redis is down, fetches still work — they
// just hit Postgres.
type OwnerNameCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewOwnerNameCache(client *redis.Client, ttl time.Duration) *OwnerNameCache {
	return &OwnerNameCache{client: client, ttl: ttl}
}

func cacheKey(ownerID uuid.UUID) string {
	return "owner_name:" + ownerID.String()
}

func (c *OwnerNameCache) Get(ctx context.Context, ownerID uuid.UUID) (string, bool) {
	name, err := c.client.Get(ctx, cacheKey(ownerID)).Result()
	if err != nil {
		return "", false
	}
	return name, true
}

func (c *OwnerNameCache) Set(ctx context.Context, ownerID uuid.UUID, name string) {
	c.client.Set(ctx, cacheKey(ownerID), name, c.ttl)
}

// Invalidate drops a cached name. Called when a user renames themselves so
// the stale name doesn't linger for a full TTL.
func (c *OwnerNameCache) Invalidate(ctx context.Context, ownerID uuid.UUID) {
	c.client.Del(ctx, cacheKey(ownerID))
}
