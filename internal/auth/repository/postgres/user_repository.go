package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/umar-essayed/Courses-backend/internal/auth/domain"
	autherror "github.com/umar-essayed/Courses-backend/internal/errors"
)

type UserRepository struct {
	db DB
}

func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, name, email, phone_number, password_hash, role, blocked, deleted_at, created_at, updated_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PhoneNumber, &user.PasswordHash,
		&user.Role, &user.Blocked, &user.DeletedAt, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetByEmail returns the active user with the given email, or nil when no
// such user exists. Soft-deleted users are excluded.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE lower(email) = lower($1) AND deleted_at IS NULL
		LIMIT 1;
	`
	user, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1 AND deleted_at IS NULL
		LIMIT 1;
	`
	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user, nil
}

// GetByIDIncludingDeleted also returns soft-deleted users, for restore and
// for authorization checks that must see the deletion mark.
func (r *UserRepository) GetByIDIncludingDeleted(ctx context.Context, id string) (*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1
		LIMIT 1;
	`
	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user, nil
}

// Create inserts the user. Email uniqueness among active users is enforced
// by a partial unique index; a violation surfaces as ErrEmailAlreadyInUse so
// concurrent registrations race on the index, not on a pre-check.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO users (id, name, email, phone_number, password_hash, role, blocked, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    `, user.ID, user.Name, user.Email, user.PhoneNumber, user.PasswordHash,
		user.Role, user.Blocked, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return autherror.ErrEmailAlreadyInUse
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *UserRepository) SetRole(ctx context.Context, id, role string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE users SET role = $2, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
	`, id, role)
	if err != nil {
		return fmt.Errorf("failed to set role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return autherror.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) SetBlocked(ctx context.Context, id string, blocked bool) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE users SET blocked = $2, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
	`, id, blocked)
	if err != nil {
		return fmt.Errorf("failed to set blocked: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return autherror.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) SoftDelete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE users SET deleted_at = now(), updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
	`, id)
	if err != nil {
		return fmt.Errorf("failed to soft delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return autherror.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) Restore(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE users SET deleted_at = NULL, updated_at = now()
		WHERE id = $1 AND deleted_at IS NOT NULL
	`, id)
	if err != nil {
		return fmt.Errorf("failed to restore user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return autherror.ErrUserNotFound
	}
	return nil
}
