package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"mediashelf/internal/config"
	"mediashelf/internal/model"
	"mediashelf/internal/repository"
)

// UserService handles business logic for user accounts.
type UserService struct {
	db            *sqlx.DB
	userRepo      repository.UserRepository
	listRepo      repository.ListRepository
	auth          *AuthService
	defaultAvatar string
}

func NewUserService(db *sqlx.DB, userRepo repository.UserRepository, listRepo repository.ListRepository, auth *AuthService, cfg *config.Config) *UserService {
	return &UserService{
		db:            db,
		userRepo:      userRepo,
		listRepo:      listRepo,
		auth:          auth,
		defaultAvatar: cfg.DefaultAvatar,
	}
}

// Register creates a new account together with its four default lists. The
// user row and the lists are written in one transaction, so an account never
// exists without its starter lists.
func (s *UserService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, []model.List, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, nil, model.ErrEmailExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:       req.Username,
		Email:          req.Email,
		PasswordHashed: string(hashedPassword),
		Avatar:         s.defaultAvatar,
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.userRepo.Create(ctx, tx, user); err != nil {
		return nil, nil, err
	}

	lists := make([]model.List, 0, len(model.DefaultLists))
	for _, dl := range model.DefaultLists {
		description := dl.Description
		list := model.List{
			Title:       dl.Title,
			Description: &description,
			UserID:      user.ID,
		}
		if err := s.listRepo.Create(ctx, tx, &list); err != nil {
			return nil, nil, fmt.Errorf("failed to create default list: %w", err)
		}
		lists = append(lists, list)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("failed to commit registration: %w", err)
	}

	return user, lists, nil
}

// Login authenticates by email and password and returns a signed token.
func (s *UserService) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			// Don't reveal whether the email exists or not
			return nil, model.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHashed), []byte(req.Password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}

	token, err := s.auth.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &model.LoginResponse{
		Message: "Login successful",
		Token:   token,
		User: model.LoginUser{
			Username: user.Username,
			Email:    user.Email,
		},
	}, nil
}

// ResetPassword replaces the password of the account registered under the
// given email.
func (s *UserService) ResetPassword(ctx context.Context, req *model.ResetPasswordRequest) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.userRepo.UpdatePassword(ctx, req.Email, string(hashedPassword))
}

// GetByID retrieves a user by ID.
func (s *UserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// Update applies a partial profile edit. Nil request fields are left alone.
func (s *UserService) Update(ctx context.Context, id int64, req *model.UpdateUserRequest) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Bio != nil {
		if len(*req.Bio) > model.MaxBioLength {
			return nil, model.ErrBioTooLong
		}
		user.Bio = *req.Bio
	}
	if req.Password != nil {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHashed = string(hashedPassword)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// SetAvatar stores the user's new avatar URL.
func (s *UserService) SetAvatar(ctx context.Context, id int64, avatar string) error {
	return s.userRepo.UpdateAvatar(ctx, id, avatar)
}

// Delete removes the account. Lists and media are left in place.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	return s.userRepo.Delete(ctx, id)
}

// PublicProfile returns the public view of a user by username, including
// their lists.
func (s *UserService) PublicProfile(ctx context.Context, username string) (*model.PublicProfile, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	lists, err := s.listRepo.GetByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load lists: %w", err)
	}

	return &model.PublicProfile{
		ID:        user.ID,
		Username:  user.Username,
		Bio:       user.Bio,
		Avatar:    user.Avatar,
		CreatedAt: user.CreatedAt,
		Lists:     lists,
	}, nil
}
