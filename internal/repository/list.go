package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"mediashelf/internal/model"
)

// listRepository implements ListRepository using sqlx
type listRepository struct {
	db *sqlx.DB
}

// NewListRepository creates a new list repository
func NewListRepository(db *sqlx.DB) ListRepository {
	return &listRepository{db: db}
}

// Create inserts a new list within the caller's transaction.
func (r *listRepository) Create(ctx context.Context, tx *sqlx.Tx, l *model.List) error {
	query := `
		INSERT INTO lists (title, description, user_id, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at
	`

	row := tx.QueryRowxContext(ctx, query, l.Title, l.Description, l.UserID)
	if err := row.Scan(&l.ID, &l.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert list: %w", err)
	}

	return nil
}

// GetByID retrieves a list by its ID
func (r *listRepository) GetByID(ctx context.Context, id int64) (*model.List, error) {
	query := `
		SELECT id, title, description, user_id, created_at
		FROM lists
		WHERE id = $1
	`

	var l model.List
	err := r.db.GetContext(ctx, &l, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrListNotFound
		}
		return nil, fmt.Errorf("failed to get list by id: %w", err)
	}

	return &l, nil
}

// GetByUser retrieves all lists owned by a user, oldest first. Default lists
// land at the front because they are created at registration.
func (r *listRepository) GetByUser(ctx context.Context, userID int64) ([]model.List, error) {
	query := `
		SELECT id, title, description, user_id, created_at
		FROM lists
		WHERE user_id = $1
		ORDER BY id
	`

	var lists []model.List
	err := r.db.SelectContext(ctx, &lists, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get lists by user: %w", err)
	}

	return lists, nil
}

// Update edits title and/or description, leaving nil fields untouched.
func (r *listRepository) Update(ctx context.Context, id int64, title, description *string) (*model.List, error) {
	query := `
		UPDATE lists
		SET title = COALESCE($1, title),
		    description = COALESCE($2, description)
		WHERE id = $3
		RETURNING id, title, description, user_id, created_at
	`

	var l model.List
	err := r.db.GetContext(ctx, &l, query, title, description, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrListNotFound
		}
		return nil, fmt.Errorf("failed to update list: %w", err)
	}

	return &l, nil
}

// Delete removes the list row within the caller's transaction. The caller
// deletes the list's media entries in the same transaction.
func (r *listRepository) Delete(ctx context.Context, tx *sqlx.Tx, id int64) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM lists WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete list: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rows == 0 {
		return model.ErrListNotFound
	}

	return nil
}
