package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/umar-essayed/Courses-backend/internal/auth/domain"
)

// IdentityCache keeps short-lived identity summaries in Redis so that
// authenticated requests do not hit Postgres on every call. Entries are
// JSON values with a TTL; a missing key is a miss, not an error. Writers
// that change a user's role, blocked or deleted state must invalidate the
// entry in the same logical operation.
type IdentityCache struct {
	client redis.UniversalClient
	prefix string
}

func NewIdentityCache(client redis.UniversalClient) *IdentityCache {
	return &IdentityCache{
		client: client,
		prefix: "identity:",
	}
}

func (c *IdentityCache) key(id string) string {
	return c.prefix + id
}

func (c *IdentityCache) Get(ctx context.Context, id string) (*domain.IdentitySummary, error) {
	val, err := c.client.Get(ctx, c.key(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("identity cache get: %w", err)
	}

	var s domain.IdentitySummary
	if err := json.Unmarshal([]byte(val), &s); err != nil {
		return nil, fmt.Errorf("identity cache unmarshal: %w", err)
	}

	return &s, nil
}

func (c *IdentityCache) Set(ctx context.Context, summary *domain.IdentitySummary, ttl time.Duration) error {
	if summary == nil || summary.ID == "" {
		return fmt.Errorf("identity cache: missing id")
	}
	if ttl <= 0 {
		return fmt.Errorf("identity cache: ttl must be positive")
	}

	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("identity cache marshal: %w", err)
	}

	return c.client.Set(ctx, c.key(summary.ID), data, ttl).Err()
}

func (c *IdentityCache) Invalidate(ctx context.Context, id string) error {
	return c.client.Del(ctx, c.key(id)).Err()
}
