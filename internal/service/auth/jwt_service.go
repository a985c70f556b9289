package auth

import (
	"context"
	"time"
)

// Token types carried in the "type" claim.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// JWTService issues and validates signed session tokens.
type JWTService interface {
	// GenerateToken creates a short-lived access token for subject.
	GenerateToken(ctx context.Context, subject string) (string, error)

	// ValidateToken checks an access token and returns its claims.
	// Every failure wraps ErrInvalidToken.
	ValidateToken(ctx context.Context, token string) (*Claims, error)

	// GenerateRefreshToken creates a long-lived refresh token for subject.
	GenerateRefreshToken(ctx context.Context, subject string) (string, error)

	// ValidateRefreshToken checks a refresh token and returns its claims.
	// Every failure wraps ErrInvalidToken.
	ValidateRefreshToken(ctx context.Context, token string) (*Claims, error)
}

// Claims are the validated contents of a token.
type Claims struct {
	// Subject is the email of the user the token was issued for.
	Subject   string
	TokenType string
	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string
}
