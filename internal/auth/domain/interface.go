package domain

import (
	"context"
	"time"
)

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByIDIncludingDeleted(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, user *User) error
	SetRole(ctx context.Context, id, role string) error
	SetBlocked(ctx context.Context, id string, blocked bool) error
	SoftDelete(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) error
}

type RefreshTokenRepository interface {
	Store(ctx context.Context, rt *RefreshToken) error
	GetActiveByToken(ctx context.Context, token string) (*RefreshToken, error)
	// Rotate revokes the active record holding oldToken and inserts newToken
	// as one transaction. If oldToken is not active the rotation fails and
	// nothing is inserted.
	Rotate(ctx context.Context, oldToken string, newToken *RefreshToken) error
	Revoke(ctx context.Context, token string) error
	RevokeAllForUser(ctx context.Context, userID string) error
	GetActiveCountByUserID(ctx context.Context, userID string) (int, error)
	GetActiveByUserID(ctx context.Context, userID string) ([]RefreshToken, error)
	DeleteOldestByUserID(ctx context.Context, userID string, keep int) error
}

type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hashed string) bool
}

type LoginThrottle interface {
	RecordFailure(ctx context.Context, identifier string) error
	IsLockedOut(ctx context.Context, identifier string) (bool, error)
	Reset(ctx context.Context, identifier string) error
}

type IdentityCache interface {
	Get(ctx context.Context, id string) (*IdentitySummary, error)
	Set(ctx context.Context, summary *IdentitySummary, ttl time.Duration) error
	Invalidate(ctx context.Context, id string) error
}
