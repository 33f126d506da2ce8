package model

import (
	"errors"
	"time"
)

// MaxBioLength caps the profile bio, matching the users.bio column check.
const MaxBioLength = 150

// User represents a registered account.
type User struct {
	ID             int64     `db:"id" json:"id"`
	Username       string    `db:"username" json:"username"`
	Email          string    `db:"email" json:"email"`
	PasswordHashed string    `db:"password_hashed" json:"-"` // "-" hides from JSON output
	Bio            string    `db:"bio" json:"bio"`
	Avatar         string    `db:"avatar" json:"avatar"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// PublicProfile is the password/email-free view served on the public
// profile endpoint.
type PublicProfile struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Bio       string    `json:"bio"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"created_at"`
	Lists     []List    `json:"lists"`
}

// RegisterRequest represents the data needed to register a new user.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the data needed to log in.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the signed token alongside basic user info.
type LoginResponse struct {
	Message string    `json:"message"`
	Token   string    `json:"token"`
	User    LoginUser `json:"user"`
}

// LoginUser is the trimmed user payload returned on login.
type LoginUser struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// ResetPasswordRequest carries a password reset for the given email.
type ResetPasswordRequest struct {
	Email       string `json:"email"`
	NewPassword string `json:"newPassword"`
}

// UpdateUserRequest carries a partial profile update. Nil fields are left
// untouched.
type UpdateUserRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Bio      *string `json:"bio"`
}

var (
	// ErrUserNotFound is returned when a user cannot be found
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailExists is returned when attempting to register with a taken email
	ErrEmailExists = errors.New("email already exists")

	// ErrUsernameExists is returned when attempting to take an existing username
	ErrUsernameExists = errors.New("username already exists")

	// ErrInvalidCredentials is returned when login credentials are incorrect
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrBioTooLong is returned when a bio exceeds MaxBioLength
	ErrBioTooLong = errors.New("bio exceeds maximum length")
)
