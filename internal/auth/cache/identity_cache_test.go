package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umar-essayed/Courses-backend/internal/auth/domain"
)

func newTestCache(t *testing.T) (*IdentityCache, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewIdentityCache(client), mr
}

func TestIdentityCache_SetAndGet(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	deleted := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	summary := &domain.IdentitySummary{
		ID:        "user-123",
		Role:      "student",
		Blocked:   true,
		DeletedAt: &deleted,
	}

	require.NoError(t, c.Set(ctx, summary, time.Minute))

	got, err := c.Get(ctx, "user-123")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, summary.ID, got.ID)
	assert.Equal(t, summary.Role, got.Role)
	assert.True(t, got.Blocked)
	require.NotNil(t, got.DeletedAt)
	assert.True(t, deleted.Equal(*got.DeletedAt))
}

func TestIdentityCache_MissReturnsNil(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	got, err := c.Get(ctx, "absent")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestIdentityCache_EntryExpires(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	summary := &domain.IdentitySummary{ID: "user-123", Role: "admin"}
	require.NoError(t, c.Set(ctx, summary, time.Minute))

	mr.FastForward(time.Minute + time.Second)

	got, err := c.Get(ctx, "user-123")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestIdentityCache_Invalidate(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	summary := &domain.IdentitySummary{ID: "user-123", Role: "hr"}
	require.NoError(t, c.Set(ctx, summary, time.Minute))
	require.NoError(t, c.Invalidate(ctx, "user-123"))

	got, err := c.Get(ctx, "user-123")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestIdentityCache_InvalidateAbsentKey(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	assert.NoError(t, c.Invalidate(ctx, "never-cached"))
}

func TestIdentityCache_SetValidation(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	assert.Error(t, c.Set(ctx, nil, time.Minute))
	assert.Error(t, c.Set(ctx, &domain.IdentitySummary{}, time.Minute))
	assert.Error(t, c.Set(ctx, &domain.IdentitySummary{ID: "user-123"}, 0))
}
