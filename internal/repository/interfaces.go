package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"mediashelf/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, tx *sqlx.Tx, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, user *model.User) error
	UpdatePassword(ctx context.Context, email, passwordHashed string) error
	UpdateAvatar(ctx context.Context, id int64, avatar string) error
	Delete(ctx context.Context, id int64) error
}

type ListRepository interface {
	Create(ctx context.Context, tx *sqlx.Tx, list *model.List) error
	GetByID(ctx context.Context, id int64) (*model.List, error)
	// GetByUser returns the user's lists in creation order.
	GetByUser(ctx context.Context, userID int64) ([]model.List, error)
	Update(ctx context.Context, id int64, title, description *string) (*model.List, error)
	Delete(ctx context.Context, tx *sqlx.Tx, id int64) error
}

type MediaRepository interface {
	// Create inserts a media entry, returning model.ErrDuplicateMedia when
	// the (tmdb_id, list_id) pair is already present.
	Create(ctx context.Context, media *model.Media) error
	GetByID(ctx context.Context, id int64) (*model.Media, error)
	GetByListAndTmdbID(ctx context.Context, listID, tmdbID int64) (*model.Media, error)
	// GetPageByList returns one slice of the list's media collection in
	// membership (creation) order.
	GetPageByList(ctx context.Context, listID int64, offset, limit int) ([]model.Media, error)
	CountByList(ctx context.Context, listID int64) (int, error)
	Update(ctx context.Context, media *model.Media) error
	Delete(ctx context.Context, id int64) error
	DeleteByList(ctx context.Context, tx *sqlx.Tx, listID int64) error
	GetLatestByType(ctx context.Context, userID int64, mediaType string, limit int) ([]model.Media, error)
	CountsByType(ctx context.Context, listID int64) (map[string]int, error)
	// RatedCountsByType groups the user's rated entries (rating > 0) by type.
	RatedCountsByType(ctx context.Context, userID int64) (map[string]int, error)
	// AverageRating returns the mean rating over the user's rated entries,
	// or 0 when none exist.
	AverageRating(ctx context.Context, userID int64) (float64, error)
	// MostRatedListID returns the id of the user's list holding the most
	// rated entries. Ties go to the earliest-created list. ok is false when
	// the user has no rated entries.
	MostRatedListID(ctx context.Context, userID int64) (listID int64, ok bool, err error)
}
