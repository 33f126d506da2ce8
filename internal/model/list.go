package model

import (
	"errors"
	"time"
)

// List is a named, user-owned collection of media entries.
type List struct {
	ID          int64     `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description *string   `db:"description" json:"description"`
	UserID      int64     `db:"user_id" json:"user_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// DefaultList describes one of the lists provisioned at registration.
type DefaultList struct {
	Title       string
	Description string
}

// DefaultLists are created for every new user, in this order.
var DefaultLists = []DefaultList{
	{Title: "Completed", Description: "Your completed movies or TV shows."},
	{Title: "Currently Watching", Description: "Movies or TV shows you are currently watching."},
	{Title: "Plan to watch", Description: "Movies or TV shows you plan to watch."},
	{Title: "Dropped", Description: "Movies or TV shows you have dropped."},
}

// CreateListRequest carries a new list's fields.
type CreateListRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

// UpdateListRequest carries a list edit. Nil fields are left untouched.
type UpdateListRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

var (
	// ErrListNotFound is returned when a list cannot be found
	ErrListNotFound = errors.New("list not found")

	// ErrListNotOwned is returned when a list exists but belongs to another user
	ErrListNotOwned = errors.New("list not associated with this user")

	// ErrListTitleRequired is returned when creating a list without a title
	ErrListTitleRequired = errors.New("list title is required")
)
