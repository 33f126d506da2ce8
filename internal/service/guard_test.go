package service

import (
	"context"
	"errors"
	"testing"

	"mediashelf/internal/model"
)

func TestOwnershipGuard_Verify(t *testing.T) {
	knownUser := func(ctx context.Context, id int64) (*model.User, error) {
		return &model.User{ID: id, Username: "alice"}, nil
	}
	ownedList := func(ctx context.Context, id int64) (*model.List, error) {
		return &model.List{ID: id, Title: "Completed", UserID: 1}, nil
	}

	tests := []struct {
		name      string
		userID    int64
		listID    int64
		getUserFn func(ctx context.Context, id int64) (*model.User, error)
		getListFn func(ctx context.Context, id int64) (*model.List, error)
		wantErr   error
	}{
		{
			name:      "owner passes",
			userID:    1,
			listID:    10,
			getUserFn: knownUser,
			getListFn: ownedList,
		},
		{
			name:   "unknown user reported before list state",
			userID: 99,
			listID: 10,
			getUserFn: func(ctx context.Context, id int64) (*model.User, error) {
				return nil, model.ErrUserNotFound
			},
			getListFn: ownedList,
			wantErr:   model.ErrUserNotFound,
		},
		{
			name:      "missing list",
			userID:    1,
			listID:    99,
			getUserFn: knownUser,
			getListFn: func(ctx context.Context, id int64) (*model.List, error) {
				return nil, model.ErrListNotFound
			},
			wantErr: model.ErrListNotFound,
		},
		{
			name:      "foreign list is forbidden",
			userID:    2,
			listID:    10,
			getUserFn: knownUser,
			getListFn: ownedList,
			wantErr:   model.ErrListNotOwned,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			guard := NewOwnershipGuard(
				&mockUserRepository{getByIDFn: tt.getUserFn},
				&mockListRepository{getByIDFn: tt.getListFn},
			)

			list, err := guard.Verify(context.Background(), tt.userID, tt.listID)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				if list != nil {
					t.Error("list should be nil on failure")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if list == nil || list.ID != tt.listID {
				t.Errorf("list = %+v, want id %d", list, tt.listID)
			}
		})
	}
}
