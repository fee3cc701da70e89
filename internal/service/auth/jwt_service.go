package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// JWTService defines operations for managing JWT authentication tokens.
// Four token purposes exist: short-lived access tokens, long-lived refresh
// tokens, and single-purpose password reset and account verification tokens.
type JWTService interface {
	// GenerateToken creates a signed JWT access token for the user.
	GenerateToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateToken validates an access token string and extracts the claims.
	// Returns ErrExpiredToken, ErrWrongTokenType, or ErrInvalidToken on
	// failure.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)

	// GenerateRefreshToken creates a signed JWT refresh token for the user.
	GenerateRefreshToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateRefreshToken validates a refresh token string and extracts the
	// claims. Returns ErrExpiredRefreshToken, ErrWrongTokenType, or
	// ErrInvalidRefreshToken on failure.
	ValidateRefreshToken(ctx context.Context, tokenString string) (*Claims, error)

	// GenerateResetToken creates a signed JWT password reset token for the
	// user. Reset tokens are delivered by email and accepted only by the
	// reset-password endpoint.
	GenerateResetToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateResetToken validates a password reset token string and extracts
	// the claims. Returns ErrInvalidResetToken on any failure.
	ValidateResetToken(ctx context.Context, tokenString string) (*Claims, error)

	// GenerateVerificationToken creates a signed JWT account verification
	// token for the user. Verification tokens are delivered by email and
	// accepted only by the verify endpoint.
	GenerateVerificationToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateVerificationToken validates an account verification token
	// string and extracts the claims. Returns ErrInvalidVerificationToken on
	// any failure.
	ValidateVerificationToken(ctx context.Context, tokenString string) (*Claims, error)

	// AccessTokenLifetime reports the configured access token lifetime,
	// used to populate expiry hints in auth responses.
	AccessTokenLifetime() time.Duration
}

// Claims represents the custom claims structure for the JWT tokens.
// It extends standard JWT registered claims with application-specific fields.
type Claims struct {
	// UserID is the unique identifier of the user the token was issued for.
	UserID uuid.UUID `json:"uid,omitempty"`

	// TokenType indicates the purpose of the token ("access", "refresh",
	// "reset", or "verify"). Used to prevent token misuse across contexts.
	TokenType string `json:"type,omitempty"`

	// Standard registered JWT claims
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
