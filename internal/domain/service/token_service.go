package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims defines the custom claims for access tokens.
type Claims struct {
	UserID uuid.UUID `json:"uid"`
	Admin  bool      `json:"adm,omitempty"`
	jwt.RegisteredClaims
}

// TokenService issues and validates bearer access tokens.
type TokenService interface {
	GenerateAccessToken(userID uuid.UUID, admin bool) (string, error)

	ValidateAccessToken(tokenString string) (*Claims, error)

	AccessTokenDuration() time.Duration
}
