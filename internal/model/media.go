package model

import (
	"errors"
	"time"
)

// Media types accepted by the API.
const (
	MediaTypeMovie = "movie"
	MediaTypeTV    = "tv"
	MediaTypeAnime = "anime"
)

// IsValidMediaType reports whether t is one of movie, tv or anime.
func IsValidMediaType(t string) bool {
	switch t {
	case MediaTypeMovie, MediaTypeTV, MediaTypeAnime:
		return true
	}
	return false
}

// Media is a user's personal annotation of one catalog item within one list.
// The (tmdb_id, list_id) pair is unique: a catalog item can appear at most
// once per list.
type Media struct {
	ID        int64     `db:"id" json:"id"`
	TmdbID    int64     `db:"tmdb_id" json:"tmdbId"`
	Title     string    `db:"title" json:"title"`
	Type      string    `db:"type" json:"type"`
	Rating    int       `db:"rating" json:"rating"` // 1-10; 0 means unrated
	Review    string    `db:"review" json:"review"`
	ListID    int64     `db:"list_id" json:"listId"`
	UserID    int64     `db:"user_id" json:"userId"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// AddMediaRequest carries a new media entry for a list.
type AddMediaRequest struct {
	TmdbID int64  `json:"tmdbId"`
	Title  string `json:"title"`
	Type   string `json:"type"`
	Rating int    `json:"rating"`
	Review string `json:"review"`
	UserID int64  `json:"userId"`
}

// UpdateMediaRequest carries a media edit. Nil fields are left untouched.
type UpdateMediaRequest struct {
	Title  *string `json:"title"`
	Type   *string `json:"type"`
	Rating *int    `json:"rating"`
	Review *string `json:"review"`
}

// MediaStats summarizes a user's rated entries across all their lists.
type MediaStats struct {
	TotalRatedMovies  int     `json:"totalRatedMovies"`
	TotalRatedTVShows int     `json:"totalRatedTVShows"`
	AverageRating     float64 `json:"averageRating"`
	MostUsedList      *List   `json:"mostUsedList"`
}

var (
	// ErrMediaNotFound is returned when a media entry cannot be found
	ErrMediaNotFound = errors.New("media not found")

	// ErrDuplicateMedia is returned when the catalog item is already in the list
	ErrDuplicateMedia = errors.New("media already exists in this list")

	// ErrInvalidMediaType is returned for a type outside movie/tv/anime
	ErrInvalidMediaType = errors.New("invalid media type")

	// ErrMediaTitleRequired is returned when an entry is missing its title
	ErrMediaTitleRequired = errors.New("media title is required")

	// ErrInvalidRating is returned for a rating outside 1-10
	ErrInvalidRating = errors.New("rating must be between 1 and 10")
)
