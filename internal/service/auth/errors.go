package auth

import "errors"

// Common authentication service errors.
var (
	// ErrInvalidToken indicates the token format is invalid or the signature
	// doesn't match.
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the token has expired.
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrTokenNotYetValid indicates the token is not yet valid (nbf claim in
	// the future).
	ErrTokenNotYetValid = errors.New("authentication token not yet valid")

	// ErrWrongTokenType indicates a token of one purpose was presented where
	// another was expected (e.g. a refresh token sent as an access token).
	ErrWrongTokenType = errors.New("wrong token type")

	// ErrInvalidRefreshToken indicates the refresh token is malformed or has
	// a bad signature.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")

	// ErrExpiredRefreshToken indicates the refresh token has expired.
	ErrExpiredRefreshToken = errors.New("refresh token has expired")

	// ErrInvalidResetToken indicates the password reset token is malformed,
	// expired, or has a bad signature.
	ErrInvalidResetToken = errors.New("invalid password reset token")

	// ErrInvalidVerificationToken indicates the account verification token
	// is malformed, expired, or has a bad signature.
	ErrInvalidVerificationToken = errors.New("invalid verification token")
)
