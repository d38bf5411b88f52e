package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/umar-essayed/Courses-backend/internal/auth/domain"
	autherror "github.com/umar-essayed/Courses-backend/internal/errors"
)

type RefreshTokenRepository struct {
	db DB
}

func NewRefreshTokenRepository(db DB) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

func (r *RefreshTokenRepository) Store(ctx context.Context, rt *domain.RefreshToken) error {
	query := `INSERT INTO refresh_tokens (id, user_id, token, ip_address, user_agent, expires_at, created_at, revoked)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.Exec(ctx, query,
		rt.ID, rt.UserID, rt.Token, rt.IPAddress, rt.UserAgent, rt.ExpiresAt, rt.CreatedAt, rt.Revoked)
	if err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	return nil
}

// GetActiveByToken returns the non-revoked, non-expired record holding the
// token value, or nil when no such record exists.
func (r *RefreshTokenRepository) GetActiveByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	query := `
		SELECT id, user_id, token, ip_address, user_agent, expires_at, created_at, revoked
		FROM refresh_tokens
		WHERE token = $1 AND revoked = FALSE AND expires_at > now()
		LIMIT 1;
	`
	row := r.db.QueryRow(ctx, query, token)

	var rt domain.RefreshToken
	err := row.Scan(&rt.ID, &rt.UserID, &rt.Token, &rt.IPAddress, &rt.UserAgent,
		&rt.ExpiresAt, &rt.CreatedAt, &rt.Revoked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get refresh token: %w", err)
	}

	return &rt, nil
}

// Rotate consumes oldToken and inserts newToken in one transaction. The
// conditional UPDATE only matches a record that is still active, so of any
// number of concurrent rotations of the same value exactly one commits; the
// rest fail with ErrTokenInvalid and insert nothing.
func (r *RefreshTokenRepository) Rotate(ctx context.Context, oldToken string, newToken *domain.RefreshToken) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin rotation: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
		UPDATE refresh_tokens SET revoked = TRUE
		WHERE token = $1 AND revoked = FALSE AND expires_at > now()
	`, oldToken)
	if err != nil {
		return fmt.Errorf("failed to revoke old refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return autherror.ErrTokenInvalid
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO refresh_tokens (id, user_id, token, ip_address, user_agent, expires_at, created_at, revoked)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, newToken.ID, newToken.UserID, newToken.Token, newToken.IPAddress, newToken.UserAgent,
		newToken.ExpiresAt, newToken.CreatedAt, newToken.Revoked)
	if err != nil {
		return fmt.Errorf("failed to store rotated refresh token: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit rotation: %w", err)
	}

	return nil
}

// Revoke marks the record revoked. Revoking an unknown or already-revoked
// token is not an error.
func (r *RefreshTokenRepository) Revoke(ctx context.Context, token string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE refresh_tokens SET revoked = TRUE WHERE token = $1
	`, token)
	if err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

func (r *RefreshTokenRepository) RevokeAllForUser(ctx context.Context, userID string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE refresh_tokens SET revoked = TRUE WHERE user_id = $1 AND revoked = FALSE
	`, userID)
	if err != nil {
		return fmt.Errorf("failed to revoke refresh tokens for user: %w", err)
	}
	return nil
}

func (r *RefreshTokenRepository) GetActiveCountByUserID(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM refresh_tokens
		WHERE user_id = $1 AND revoked = FALSE AND expires_at > now()
	`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count active refresh tokens: %w", err)
	}
	return count, nil
}

func (r *RefreshTokenRepository) GetActiveByUserID(ctx context.Context, userID string) ([]domain.RefreshToken, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, token, ip_address, user_agent, expires_at, created_at, revoked
		FROM refresh_tokens
		WHERE user_id = $1 AND revoked = FALSE AND expires_at > now()
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list refresh tokens: %w", err)
	}
	defer rows.Close()

	var tokens []domain.RefreshToken
	for rows.Next() {
		var rt domain.RefreshToken
		if err := rows.Scan(&rt.ID, &rt.UserID, &rt.Token, &rt.IPAddress, &rt.UserAgent,
			&rt.ExpiresAt, &rt.CreatedAt, &rt.Revoked); err != nil {
			return nil, fmt.Errorf("failed to scan refresh token: %w", err)
		}
		tokens = append(tokens, rt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read refresh tokens: %w", err)
	}

	return tokens, nil
}

// DeleteOldestByUserID trims a user's active tokens down to the newest keep
// records, revoking the overflow.
func (r *RefreshTokenRepository) DeleteOldestByUserID(ctx context.Context, userID string, keep int) error {
	_, err := r.db.Exec(ctx, `
		UPDATE refresh_tokens SET revoked = TRUE
		WHERE id IN (
			SELECT id FROM refresh_tokens
			WHERE user_id = $1 AND revoked = FALSE AND expires_at > now()
			ORDER BY created_at DESC
			OFFSET $2
		)
	`, userID, keep)
	if err != nil {
		return fmt.Errorf("failed to trim refresh tokens: %w", err)
	}
	return nil
}
