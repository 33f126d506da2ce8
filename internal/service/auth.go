package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"mediashelf/internal/config"
	"mediashelf/internal/model"
)

// AuthService issues signed access tokens.
type AuthService struct {
	config *config.Config
}

func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{config: cfg}
}

// GenerateToken signs a token carrying the user's id and email. Tokens live
// for TokenMaxAge seconds (10 days by default).
func (s *AuthService) GenerateToken(user *model.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"id":    user.ID,
		"email": user.Email,
		"jti":   uuid.NewString(),
		"exp":   now.Add(time.Duration(s.config.TokenMaxAge) * time.Second).Unix(),
		"iat":   now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}
