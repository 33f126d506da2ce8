package http

import (
	stdhttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"mediashelf/internal/handler"
)

func testRouter() stdhttp.Handler {
	return NewRouter(RouterConfig{
		UserHandler:    handler.NewUserHandler(nil, nil),
		ListHandler:    handler.NewListHandler(nil),
		MediaHandler:   handler.NewMediaHandler(nil),
		CatalogHandler: handler.NewCatalogHandler(nil),
		JWTSecret:      "test-secret",
	})
}

func signToken(t *testing.T, secret string, userID int64) string {
	t.Helper()
	claims := jwt.MapClaims{
		"id":    userID,
		"email": "alice@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func TestRouter_AccountRoutesRequireToken(t *testing.T) {
	router := testRouter()

	tests := []struct {
		method string
		path   string
	}{
		{stdhttp.MethodGet, "/users/1"},
		{stdhttp.MethodPut, "/users/1"},
		{stdhttp.MethodDelete, "/users/1"},
		{stdhttp.MethodPut, "/users/1/avatar"},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != stdhttp.StatusUnauthorized {
			t.Errorf("%s %s without token = %d, want 401", tt.method, tt.path, rec.Code)
		}
	}
}

func TestRouter_AccountMutationsRejectForeignToken(t *testing.T) {
	router := testRouter()
	token := signToken(t, "test-secret", 2)

	tests := []struct {
		method string
		path   string
	}{
		{stdhttp.MethodPut, "/users/1"},
		{stdhttp.MethodDelete, "/users/1"},
		{stdhttp.MethodPut, "/users/1/avatar"},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != stdhttp.StatusForbidden {
			t.Errorf("%s %s with another user's token = %d, want 403", tt.method, tt.path, rec.Code)
		}
	}
}

func TestRouter_InvalidTokenRejected(t *testing.T) {
	router := testRouter()
	token := signToken(t, "wrong-secret", 1)

	req := httptest.NewRequest(stdhttp.MethodGet, "/users/1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != stdhttp.StatusForbidden {
		t.Errorf("status = %d, want 403 for a token signed with the wrong secret", rec.Code)
	}
}
