package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"mediashelf/internal/model"
)

// userRepository implements UserRepository using sqlx
type userRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new user within the caller's transaction. Registration
// provisions the default lists in the same transaction, so a partial signup
// never becomes visible.
func (r *userRepository) Create(ctx context.Context, tx *sqlx.Tx, u *model.User) error {
	query := `
		INSERT INTO users (username, email, password_hashed, bio, avatar, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, created_at
	`

	row := tx.QueryRowxContext(ctx, query, u.Username, u.Email, u.PasswordHashed, u.Bio, u.Avatar)
	if err := row.Scan(&u.ID, &u.CreatedAt); err != nil {
		if mapped := mapUserUniqueViolation(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by their ID
func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := `
		SELECT id, username, email, password_hashed, bio, avatar, created_at
		FROM users
		WHERE id = $1
	`

	var u model.User
	err := r.db.GetContext(ctx, &u, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return &u, nil
}

// GetByEmail retrieves a user by their email
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `
		SELECT id, username, email, password_hashed, bio, avatar, created_at
		FROM users
		WHERE email = $1
	`

	var u model.User
	err := r.db.GetContext(ctx, &u, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return &u, nil
}

// GetByUsername retrieves a user by their username
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `
		SELECT id, username, email, password_hashed, bio, avatar, created_at
		FROM users
		WHERE username = $1
	`

	var u model.User
	err := r.db.GetContext(ctx, &u, query, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	return &u, nil
}

// ExistsByEmail checks if an email is already registered
func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, email)
	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}

	return exists, nil
}

// Update saves the user's mutable profile fields
func (r *userRepository) Update(ctx context.Context, u *model.User) error {
	query := `
		UPDATE users
		SET username = $1, email = $2, password_hashed = $3, bio = $4
		WHERE id = $5
	`

	res, err := r.db.ExecContext(ctx, query, u.Username, u.Email, u.PasswordHashed, u.Bio, u.ID)
	if err != nil {
		if mapped := mapUserUniqueViolation(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("failed to update user: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return model.ErrUserNotFound
	}

	return nil
}

// UpdatePassword replaces the credential for the account with this email
func (r *userRepository) UpdatePassword(ctx context.Context, email, passwordHashed string) error {
	query := `UPDATE users SET password_hashed = $1 WHERE email = $2`

	res, err := r.db.ExecContext(ctx, query, passwordHashed, email)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return model.ErrUserNotFound
	}

	return nil
}

// UpdateAvatar stores a new avatar reference for the user
func (r *userRepository) UpdateAvatar(ctx context.Context, id int64, avatar string) error {
	query := `UPDATE users SET avatar = $1 WHERE id = $2`

	res, err := r.db.ExecContext(ctx, query, avatar, id)
	if err != nil {
		return fmt.Errorf("failed to update avatar: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return model.ErrUserNotFound
	}

	return nil
}

// Delete removes the user row. Owned lists and media are intentionally left
// in place, mirroring the long-standing deletion behavior.
func (r *userRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM users WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rows == 0 {
		return model.ErrUserNotFound
	}

	return nil
}

// mapUserUniqueViolation translates Postgres unique violations on the users
// table into sentinel errors. Returns nil for unrelated errors.
func mapUserUniqueViolation(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != "23505" {
		return nil
	}
	switch {
	case strings.Contains(pqErr.Constraint, "email"):
		return model.ErrEmailExists
	case strings.Contains(pqErr.Constraint, "username"):
		return model.ErrUsernameExists
	}
	return nil
}
