package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TokenPair represents an access and refresh token pair.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// TokenClaims represents the claims contained in a JWT token.
type TokenClaims struct {
	UserID    uuid.UUID
	Email     string
	ExpiresAt time.Time
}

// TokenService defines the interface for JWT token operations.
type TokenService interface {
	// GenerateTokenPair generates a new access and refresh token pair.
	GenerateTokenPair(ctx context.Context, userID uuid.UUID, email string) (*TokenPair, error)

	// ValidateAccessToken validates an access token and returns its claims.
	ValidateAccessToken(ctx context.Context, token string) (*TokenClaims, error)

	// ConsumeRefreshToken validates a refresh token and revokes it in the same
	// step. Only one caller can consume a given token; the others get
	// domainerror.ErrInvalidToken.
	ConsumeRefreshToken(ctx context.Context, token string) (*TokenClaims, error)

	// RevokeRefreshToken revokes a refresh token and reports whether it was
	// still active.
	RevokeRefreshToken(ctx context.Context, token string) (bool, error)
}

// RefreshTokenStore keeps track of issued refresh tokens until they expire or are revoked.
type RefreshTokenStore interface {
	// Save records a refresh token for a user until expiresAt.
	Save(ctx context.Context, token string, userID uuid.UUID, expiresAt time.Time) error

	// Revoke removes a token atomically and reports whether it was active.
	Revoke(ctx context.Context, token string) (bool, error)
}
