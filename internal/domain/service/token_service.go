package service

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token validation errors. Expiry is distinguished from every other defect so
// callers can surface it separately.
var (
	// ErrTokenExpired is returned when a token's TTL has lapsed.
	ErrTokenExpired = errors.New("token has expired")
	// ErrTokenInvalid is returned for any other verification failure.
	ErrTokenInvalid = errors.New("token is invalid")
)

// AccessClaims is the payload of a short-lived access token.
type AccessClaims struct {
	UserID   uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Username string    `json:"username"`
	jwt.RegisteredClaims
}

// RefreshClaims is the payload of a refresh token. It carries only the user id.
type RefreshClaims struct {
	UserID uuid.UUID `json:"id"`
	jwt.RegisteredClaims
}

// TokenService defines the interface for minting and verifying JWTs.
// Access and refresh tokens use separate signing secrets and TTLs.
type TokenService interface {
	// GenerateAccessToken signs a short-lived token embedding id, email and username.
	GenerateAccessToken(userID uuid.UUID, email, username string) (string, error)

	// GenerateRefreshToken signs a longer-lived token embedding only the user id.
	GenerateRefreshToken(userID uuid.UUID) (string, error)

	// ValidateAccessToken checks signature and expiry against the access secret.
	ValidateAccessToken(token string) (*AccessClaims, error)

	// ValidateRefreshToken checks signature and expiry against the refresh secret.
	ValidateRefreshToken(token string) (*RefreshClaims, error)
}
