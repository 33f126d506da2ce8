package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"mediashelf/internal/config"
	"mediashelf/internal/model"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:     "test-secret",
		TokenMaxAge:   3600,
		DefaultAvatar: "boy1.png",
	}
}

func newUserService(db *sqlx.DB, userRepo *mockUserRepository, listRepo *mockListRepository) *UserService {
	cfg := testConfig()
	return NewUserService(db, userRepo, listRepo, NewAuthService(cfg), cfg)
}

func TestUserService_Register_CreatesDefaultLists(t *testing.T) {
	db, mock := newTestDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	userRepo := &mockUserRepository{
		createFn: func(ctx context.Context, tx *sqlx.Tx, user *model.User) error {
			user.ID = 1
			user.CreatedAt = time.Now()
			return nil
		},
	}
	listRepo := &mockListRepository{}
	svc := newUserService(db, userRepo, listRepo)

	req := &model.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "securepassword123",
	}

	user, lists, err := svc.Register(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != 1 {
		t.Errorf("user ID = %d, want 1", user.ID)
	}
	if user.Avatar != "boy1.png" {
		t.Errorf("avatar = %q, want default", user.Avatar)
	}

	// Password must be stored hashed
	if user.PasswordHashed == req.Password {
		t.Error("password should be hashed, not stored in plain text")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHashed), []byte(req.Password)); err != nil {
		t.Error("password hash should be valid bcrypt hash")
	}

	// Exactly the four default lists, in declaration order, owned by the user
	if len(lists) != len(model.DefaultLists) {
		t.Fatalf("created %d lists, want %d", len(lists), len(model.DefaultLists))
	}
	for i, dl := range model.DefaultLists {
		if lists[i].Title != dl.Title {
			t.Errorf("list[%d].Title = %q, want %q", i, lists[i].Title, dl.Title)
		}
		if lists[i].Description == nil || *lists[i].Description != dl.Description {
			t.Errorf("list[%d] description mismatch", i)
		}
		if lists[i].UserID != 1 {
			t.Errorf("list[%d].UserID = %d, want 1", i, lists[i].UserID)
		}
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("transaction expectations: %v", err)
	}
}

func TestUserService_Register_EmailExists(t *testing.T) {
	db, _ := newTestDB(t)
	userRepo := &mockUserRepository{
		existsByEmailFn: func(ctx context.Context, email string) (bool, error) {
			return true, nil
		},
	}
	listRepo := &mockListRepository{}
	svc := newUserService(db, userRepo, listRepo)

	_, _, err := svc.Register(context.Background(), &model.RegisterRequest{
		Username: "alice",
		Email:    "taken@example.com",
		Password: "password123",
	})

	if !errors.Is(err, model.ErrEmailExists) {
		t.Errorf("error = %v, want %v", err, model.ErrEmailExists)
	}
	if len(userRepo.createCalls) != 0 {
		t.Error("Create should not be called when email is taken")
	}
	if len(listRepo.createCalls) != 0 {
		t.Error("no lists should be created when registration fails")
	}
}

func TestUserService_Register_ListCreateFailureRollsBack(t *testing.T) {
	db, mock := newTestDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	insertErr := errors.New("insert failed")
	userRepo := &mockUserRepository{
		createFn: func(ctx context.Context, tx *sqlx.Tx, user *model.User) error {
			user.ID = 1
			return nil
		},
	}
	listRepo := &mockListRepository{
		createFn: func(ctx context.Context, tx *sqlx.Tx, list *model.List) error {
			return insertErr
		},
	}
	svc := newUserService(db, userRepo, listRepo)

	_, _, err := svc.Register(context.Background(), &model.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password123",
	})

	if !errors.Is(err, insertErr) {
		t.Errorf("error should wrap the list insert failure, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("transaction expectations: %v", err)
	}
}

func TestUserService_Login(t *testing.T) {
	validPassword := "correctpassword"
	validHash, _ := bcrypt.GenerateFromPassword([]byte(validPassword), bcrypt.MinCost)

	testUser := &model.User{
		ID:             1,
		Username:       "alice",
		Email:          "alice@example.com",
		PasswordHashed: string(validHash),
	}
	dbErr := errors.New("database error")

	tests := []struct {
		name       string
		email      string
		password   string
		getByEmail func(ctx context.Context, email string) (*model.User, error)
		wantErr    error
		wantToken  bool
	}{
		{
			name:     "successful login",
			email:    "alice@example.com",
			password: validPassword,
			getByEmail: func(ctx context.Context, email string) (*model.User, error) {
				return testUser, nil
			},
			wantToken: true,
		},
		{
			name:     "unknown email",
			email:    "nobody@example.com",
			password: "anypassword",
			getByEmail: func(ctx context.Context, email string) (*model.User, error) {
				return nil, model.ErrUserNotFound
			},
			wantErr: model.ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			email:    "alice@example.com",
			password: "wrongpassword",
			getByEmail: func(ctx context.Context, email string) (*model.User, error) {
				return testUser, nil
			},
			wantErr: model.ErrInvalidCredentials,
		},
		{
			name:     "database error",
			email:    "alice@example.com",
			password: validPassword,
			getByEmail: func(ctx context.Context, email string) (*model.User, error) {
				return nil, dbErr
			},
			wantErr: dbErr,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, _ := newTestDB(t)
			userRepo := &mockUserRepository{getByEmailFn: tt.getByEmail}
			svc := newUserService(db, userRepo, &mockListRepository{})

			resp, err := svc.Login(context.Background(), &model.LoginRequest{
				Email:    tt.email,
				Password: tt.password,
			})

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantToken && resp.Token == "" {
				t.Error("expected a signed token")
			}
			if resp.User.Username != testUser.Username || resp.User.Email != testUser.Email {
				t.Errorf("login user = %+v", resp.User)
			}
		})
	}
}

func TestUserService_ResetPassword(t *testing.T) {
	db, _ := newTestDB(t)

	var savedEmail, savedHash string
	userRepo := &mockUserRepository{
		updatePassFn: func(ctx context.Context, email, passwordHashed string) error {
			savedEmail = email
			savedHash = passwordHashed
			return nil
		},
	}
	svc := newUserService(db, userRepo, &mockListRepository{})

	err := svc.ResetPassword(context.Background(), &model.ResetPasswordRequest{
		Email:       "alice@example.com",
		NewPassword: "newpassword456",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if savedEmail != "alice@example.com" {
		t.Errorf("saved email = %q", savedEmail)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(savedHash), []byte("newpassword456")); err != nil {
		t.Error("saved password should be a bcrypt hash of the new password")
	}
}

func TestUserService_Update(t *testing.T) {
	longBio := make([]byte, model.MaxBioLength+1)
	for i := range longBio {
		longBio[i] = 'a'
	}

	tests := []struct {
		name    string
		req     model.UpdateUserRequest
		wantErr error
		check   func(t *testing.T, u *model.User)
	}{
		{
			name: "partial update keeps other fields",
			req:  model.UpdateUserRequest{Bio: strPtr("new bio")},
			check: func(t *testing.T, u *model.User) {
				if u.Bio != "new bio" {
					t.Errorf("bio = %q", u.Bio)
				}
				if u.Username != "alice" {
					t.Errorf("username changed to %q", u.Username)
				}
			},
		},
		{
			name:    "bio too long",
			req:     model.UpdateUserRequest{Bio: strPtr(string(longBio))},
			wantErr: model.ErrBioTooLong,
		},
		{
			name: "password is rehashed",
			req:  model.UpdateUserRequest{Password: strPtr("changed123")},
			check: func(t *testing.T, u *model.User) {
				if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHashed), []byte("changed123")); err != nil {
					t.Error("password should be rehashed")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, _ := newTestDB(t)
			userRepo := &mockUserRepository{
				getByIDFn: func(ctx context.Context, id int64) (*model.User, error) {
					return &model.User{ID: id, Username: "alice", Email: "alice@example.com", Bio: "old bio"}, nil
				},
			}
			svc := newUserService(db, userRepo, &mockListRepository{})

			user, err := svc.Update(context.Background(), 1, &tt.req)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.check(t, user)
		})
	}
}

func TestUserService_PublicProfile(t *testing.T) {
	db, _ := newTestDB(t)
	userRepo := &mockUserRepository{
		getByUsernameFn: func(ctx context.Context, username string) (*model.User, error) {
			return &model.User{ID: 7, Username: username, Bio: "hi", Avatar: "a.png", Email: "secret@example.com"}, nil
		},
	}
	listRepo := &mockListRepository{
		getByUserFn: func(ctx context.Context, userID int64) ([]model.List, error) {
			return []model.List{{ID: 1, Title: "Completed", UserID: userID}}, nil
		},
	}
	svc := newUserService(db, userRepo, listRepo)

	profile, err := svc.PublicProfile(context.Background(), "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.Username != "alice" || profile.ID != 7 {
		t.Errorf("profile = %+v", profile)
	}
	if len(profile.Lists) != 1 || profile.Lists[0].Title != "Completed" {
		t.Errorf("profile lists = %+v", profile.Lists)
	}
}

func strPtr(s string) *string { return &s }
