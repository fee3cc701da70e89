package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pluresque/taskify-api/internal/config"
	"github.com/pluresque/taskify-api/internal/platform/logger"
)

// Token purpose values stored in the "type" claim.
const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
	tokenTypeReset   = "reset"
	tokenTypeVerify  = "verify"
)

// hmacJWTService is an implementation of JWTService using HMAC-SHA signing.
type hmacJWTService struct {
	signingKey                []byte
	tokenLifetime             time.Duration
	refreshTokenLifetime      time.Duration
	resetTokenLifetime        time.Duration
	verificationTokenLifetime time.Duration
	timeFunc                  func() time.Time // Injectable for testing
	clockSkew                 time.Duration    // Leeway for clock drift during validation
}

// jwtCustomClaims defines the structure of the JWT claims we issue.
type jwtCustomClaims struct {
	UserID    uuid.UUID `json:"uid"`
	TokenType string    `json:"type"`
	jwt.RegisteredClaims
}

// Ensure hmacJWTService implements the JWTService interface.
var _ JWTService = (*hmacJWTService)(nil)

// NewJWTService creates a new JWT service using HMAC-SHA256 signing.
func NewJWTService(cfg config.AuthConfig) (JWTService, error) {
	if len(cfg.JWTSecret) < 32 {
		return nil, fmt.Errorf("jwt secret must be at least 32 characters")
	}

	return &hmacJWTService{
		signingKey:                []byte(cfg.JWTSecret),
		tokenLifetime:             time.Duration(cfg.TokenLifetimeMinutes) * time.Minute,
		refreshTokenLifetime:      time.Duration(cfg.RefreshTokenLifetimeMinutes) * time.Minute,
		resetTokenLifetime:        time.Duration(cfg.ResetTokenLifetimeMinutes) * time.Minute,
		verificationTokenLifetime: time.Duration(cfg.VerificationTokenLifetimeMinutes) * time.Minute,
		timeFunc:                  time.Now,
		clockSkew:                 2 * time.Minute,
	}, nil
}

// AccessTokenLifetime implements JWTService.AccessTokenLifetime.
func (s *hmacJWTService) AccessTokenLifetime() time.Duration {
	return s.tokenLifetime
}

// GenerateToken creates a signed JWT access token with user claims.
func (s *hmacJWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	return s.generate(ctx, userID, tokenTypeAccess, s.tokenLifetime)
}

// GenerateRefreshToken creates a signed JWT refresh token with user claims.
func (s *hmacJWTService) GenerateRefreshToken(ctx context.Context, userID uuid.UUID) (string, error) {
	return s.generate(ctx, userID, tokenTypeRefresh, s.refreshTokenLifetime)
}

// GenerateResetToken creates a signed JWT password reset token with user claims.
func (s *hmacJWTService) GenerateResetToken(ctx context.Context, userID uuid.UUID) (string, error) {
	return s.generate(ctx, userID, tokenTypeReset, s.resetTokenLifetime)
}

// GenerateVerificationToken creates a signed JWT account verification token
// with user claims.
func (s *hmacJWTService) GenerateVerificationToken(ctx context.Context, userID uuid.UUID) (string, error) {
	return s.generate(ctx, userID, tokenTypeVerify, s.verificationTokenLifetime)
}

// generate builds and signs a token of the given purpose and lifetime.
func (s *hmacJWTService) generate(
	ctx context.Context,
	userID uuid.UUID,
	tokenType string,
	lifetime time.Duration,
) (string, error) {
	log := logger.FromContext(ctx)
	now := s.timeFunc()

	claims := jwtCustomClaims{
		UserID:    userID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(s.signingKey)
	if err != nil {
		log.Error("failed to sign JWT token",
			"error", err,
			"user_id", userID,
			"token_type", tokenType,
			"signing_method", jwt.SigningMethodHS256.Name)
		return "", fmt.Errorf("failed to sign %s token with HMAC-SHA256: %w", tokenType, err)
	}

	return signedToken, nil
}

// ValidateToken validates a JWT access token and returns the claims if valid.
func (s *hmacJWTService) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	claims, err := s.parse(ctx, tokenString, tokenTypeAccess)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return nil, ErrTokenNotYetValid
		case errors.Is(err, ErrWrongTokenType):
			return nil, ErrWrongTokenType
		default:
			return nil, ErrInvalidToken
		}
	}
	return claims, nil
}

// ValidateRefreshToken validates a JWT refresh token and returns the claims
// if valid.
func (s *hmacJWTService) ValidateRefreshToken(ctx context.Context, tokenString string) (*Claims, error) {
	claims, err := s.parse(ctx, tokenString, tokenTypeRefresh)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredRefreshToken
		case errors.Is(err, ErrWrongTokenType):
			return nil, ErrWrongTokenType
		default:
			return nil, ErrInvalidRefreshToken
		}
	}
	return claims, nil
}

// ValidateResetToken validates a JWT password reset token and returns the
// claims if valid. All failures collapse into ErrInvalidResetToken so the
// endpoint can't be used to probe token state.
func (s *hmacJWTService) ValidateResetToken(ctx context.Context, tokenString string) (*Claims, error) {
	claims, err := s.parse(ctx, tokenString, tokenTypeReset)
	if err != nil {
		return nil, ErrInvalidResetToken
	}
	return claims, nil
}

// ValidateVerificationToken validates a JWT account verification token and
// returns the claims if valid. As with reset tokens, all failures collapse
// into a single error.
func (s *hmacJWTService) ValidateVerificationToken(ctx context.Context, tokenString string) (*Claims, error) {
	claims, err := s.parse(ctx, tokenString, tokenTypeVerify)
	if err != nil {
		return nil, ErrInvalidVerificationToken
	}
	return claims, nil
}

// parse validates signature, time claims, and token purpose, returning the
// extracted claims. JWT library errors pass through for the caller to map.
func (s *hmacJWTService) parse(ctx context.Context, tokenString, wantType string) (*Claims, error) {
	log := logger.FromContext(ctx)
	now := s.timeFunc()

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithLeeway(s.clockSkew),
		jwt.WithTimeFunc(func() time.Time {
			return now
		}),
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&jwtCustomClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.signingKey, nil
		},
		parserOpts...)

	if err != nil {
		log.Debug("token validation failed",
			"error", err,
			"token_type", wantType,
			"error_type", fmt.Sprintf("%T", err))
		return nil, err
	}

	claims, ok := token.Claims.(*jwtCustomClaims)
	if !ok || !token.Valid {
		log.Debug("token validation failed: invalid claims", "token_type", wantType)
		return nil, ErrInvalidToken
	}

	if claims.TokenType != wantType {
		log.Debug("token validation failed: wrong token type",
			"expected", wantType,
			"actual", claims.TokenType)
		return nil, ErrWrongTokenType
	}

	log.Debug("token validated successfully",
		"user_id", claims.UserID,
		"token_id", claims.ID,
		"token_type", claims.TokenType,
		"expiry", claims.ExpiresAt.Time)

	return &Claims{
		UserID:    claims.UserID,
		TokenType: claims.TokenType,
		Subject:   claims.Subject,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
		ID:        claims.ID,
	}, nil
}
