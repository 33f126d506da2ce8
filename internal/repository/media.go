package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"mediashelf/internal/model"
)

// mediaRepository implements MediaRepository using sqlx
type mediaRepository struct {
	db *sqlx.DB
}

// NewMediaRepository creates a new media repository
func NewMediaRepository(db *sqlx.DB) MediaRepository {
	return &mediaRepository{db: db}
}

// Create inserts a media entry. The unique index on (tmdb_id, list_id) is the
// single authority for the no-duplicates-per-list invariant; violations come
// back as model.ErrDuplicateMedia.
func (r *mediaRepository) Create(ctx context.Context, m *model.Media) error {
	query := `
		INSERT INTO media (tmdb_id, title, type, rating, review, list_id, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING id, created_at
	`

	row := r.db.QueryRowxContext(ctx, query, m.TmdbID, m.Title, m.Type, m.Rating, m.Review, m.ListID, m.UserID)
	if err := row.Scan(&m.ID, &m.CreatedAt); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return model.ErrDuplicateMedia
		}
		return fmt.Errorf("failed to insert media: %w", err)
	}

	return nil
}

// GetByID retrieves a media entry by its ID
func (r *mediaRepository) GetByID(ctx context.Context, id int64) (*model.Media, error) {
	query := `
		SELECT id, tmdb_id, title, type, rating, review, list_id, user_id, created_at
		FROM media
		WHERE id = $1
	`

	var m model.Media
	err := r.db.GetContext(ctx, &m, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrMediaNotFound
		}
		return nil, fmt.Errorf("failed to get media by id: %w", err)
	}

	return &m, nil
}

// GetByListAndTmdbID finds the entry for a catalog item within one list
func (r *mediaRepository) GetByListAndTmdbID(ctx context.Context, listID, tmdbID int64) (*model.Media, error) {
	query := `
		SELECT id, tmdb_id, title, type, rating, review, list_id, user_id, created_at
		FROM media
		WHERE list_id = $1 AND tmdb_id = $2
	`

	var m model.Media
	err := r.db.GetContext(ctx, &m, query, listID, tmdbID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrMediaNotFound
		}
		return nil, fmt.Errorf("failed to get media by list and tmdb id: %w", err)
	}

	return &m, nil
}

// GetPageByList returns one slice of the list's media in membership order.
func (r *mediaRepository) GetPageByList(ctx context.Context, listID int64, offset, limit int) ([]model.Media, error) {
	query := `
		SELECT id, tmdb_id, title, type, rating, review, list_id, user_id, created_at
		FROM media
		WHERE list_id = $1
		ORDER BY id
		OFFSET $2 LIMIT $3
	`

	var items []model.Media
	err := r.db.SelectContext(ctx, &items, query, listID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get media page: %w", err)
	}

	return items, nil
}

// CountByList counts the media entries in a list
func (r *mediaRepository) CountByList(ctx context.Context, listID int64) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM media WHERE list_id = $1`, listID)
	if err != nil {
		return 0, fmt.Errorf("failed to count media: %w", err)
	}

	return count, nil
}

// Update saves the entry's mutable fields
func (r *mediaRepository) Update(ctx context.Context, m *model.Media) error {
	query := `
		UPDATE media
		SET title = $1, type = $2, rating = $3, review = $4
		WHERE id = $5
	`

	res, err := r.db.ExecContext(ctx, query, m.Title, m.Type, m.Rating, m.Review, m.ID)
	if err != nil {
		return fmt.Errorf("failed to update media: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return model.ErrMediaNotFound
	}

	return nil
}

// Delete removes one media entry
func (r *mediaRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM media WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete media: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rows == 0 {
		return model.ErrMediaNotFound
	}

	return nil
}

// DeleteByList removes all of a list's media entries within the caller's
// transaction, as part of the list-delete cascade.
func (r *mediaRepository) DeleteByList(ctx context.Context, tx *sqlx.Tx, listID int64) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM media WHERE list_id = $1`, listID)
	if err != nil {
		return fmt.Errorf("failed to delete media for list: %w", err)
	}

	return nil
}

// GetLatestByType returns the user's most recently created entries of a type.
func (r *mediaRepository) GetLatestByType(ctx context.Context, userID int64, mediaType string, limit int) ([]model.Media, error) {
	query := `
		SELECT id, tmdb_id, title, type, rating, review, list_id, user_id, created_at
		FROM media
		WHERE user_id = $1 AND type = $2
		ORDER BY created_at DESC, id DESC
		LIMIT $3
	`

	var items []model.Media
	err := r.db.SelectContext(ctx, &items, query, userID, mediaType, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest media: %w", err)
	}

	return items, nil
}

// CountsByType groups a list's entries by media type
func (r *mediaRepository) CountsByType(ctx context.Context, listID int64) (map[string]int, error) {
	query := `SELECT type, COUNT(*) AS count FROM media WHERE list_id = $1 GROUP BY type`

	rows, err := r.db.QueryxContext(ctx, query, listID)
	if err != nil {
		return nil, fmt.Errorf("failed to count media by type: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var mediaType string
		var count int
		if err := rows.Scan(&mediaType, &count); err != nil {
			return nil, fmt.Errorf("failed to scan media count: %w", err)
		}
		counts[mediaType] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate media counts: %w", err)
	}

	return counts, nil
}

// RatedCountsByType groups the user's rated entries (rating > 0) by type.
func (r *mediaRepository) RatedCountsByType(ctx context.Context, userID int64) (map[string]int, error) {
	query := `SELECT type, COUNT(*) AS count FROM media WHERE user_id = $1 AND rating > 0 GROUP BY type`

	rows, err := r.db.QueryxContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count rated media: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var mediaType string
		var count int
		if err := rows.Scan(&mediaType, &count); err != nil {
			return nil, fmt.Errorf("failed to scan rated count: %w", err)
		}
		counts[mediaType] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rated counts: %w", err)
	}

	return counts, nil
}

// AverageRating returns the mean rating over rated entries, 0 when none.
func (r *mediaRepository) AverageRating(ctx context.Context, userID int64) (float64, error) {
	query := `SELECT COALESCE(AVG(rating), 0) FROM media WHERE user_id = $1 AND rating > 0`

	var avg float64
	err := r.db.GetContext(ctx, &avg, query, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to average ratings: %w", err)
	}

	return avg, nil
}

// MostRatedListID finds the list holding the most rated entries. Ties break
// toward the earliest-created list.
func (r *mediaRepository) MostRatedListID(ctx context.Context, userID int64) (int64, bool, error) {
	query := `
		SELECT list_id
		FROM media
		WHERE user_id = $1 AND rating > 0
		GROUP BY list_id
		ORDER BY COUNT(*) DESC, list_id ASC
		LIMIT 1
	`

	var listID int64
	err := r.db.GetContext(ctx, &listID, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to find most rated list: %w", err)
	}

	return listID, true, nil
}
