package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/pluresque/taskify-api/internal/api/shared"
	"github.com/pluresque/taskify-api/internal/events"
	"github.com/pluresque/taskify-api/internal/service"
	"github.com/pluresque/taskify-api/internal/service/auth"
	"github.com/pluresque/taskify-api/internal/store"
	"github.com/pluresque/taskify-api/internal/worker"
)

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	userService      service.UserService
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	emitter          events.EventEmitter
	frontendBaseURL  string
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
// frontendBaseURL is the base for password-reset and verification links
// sent by email.
func NewAuthHandler(
	userService service.UserService,
	jwtService auth.JWTService,
	passwordVerifier auth.PasswordVerifier,
	emitter events.EventEmitter,
	frontendBaseURL string,
) *AuthHandler {
	return &AuthHandler{
		userService:      userService,
		jwtService:       jwtService,
		passwordVerifier: passwordVerifier,
		emitter:          emitter,
		frontendBaseURL:  frontendBaseURL,
	}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	user, err := h.userService.CreateUser(r.Context(), req.Email, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create user")
		return
	}

	h.respondWithTokens(w, r, user.ID, http.StatusCreated)
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	user, err := h.userService.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		HandleAPIError(w, r, err, "Failed to authenticate user")
		return
	}

	if err := h.passwordVerifier.Compare(user.HashedPassword, req.Password); err != nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	h.respondWithTokens(w, r, user.ID, http.StatusOK)
}

// RefreshToken handles POST /auth/refresh. A valid refresh token yields a
// fresh access/refresh token pair.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req RefreshTokenRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	claims, err := h.jwtService.ValidateRefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	// Reject tokens for accounts that no longer exist.
	if _, err := h.userService.GetUser(r.Context(), claims.UserID); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid refresh token")
			return
		}
		HandleAPIError(w, r, err, "Failed to refresh token")
		return
	}

	h.respondWithTokens(w, r, claims.UserID, http.StatusOK)
}

// ForgotPassword handles POST /auth/forgot-password. The response is 202
// regardless of whether the email matched an account, so the endpoint
// cannot be used to probe for registered addresses.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	user, err := h.userService.GetUserByEmail(r.Context(), req.Email)
	if err == nil {
		h.queueResetEmail(r, user.ID, user.Email)
	} else if !errors.Is(err, store.ErrUserNotFound) {
		slog.Error("failed to look up user for password reset", "error", err)
	}

	shared.RespondWithJSON(w, r, http.StatusAccepted, map[string]string{
		"message": "If the email is registered, a reset link has been sent",
	})
}

// ResetPassword handles POST /auth/reset-password.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	claims, err := h.jwtService.ValidateResetToken(r.Context(), req.Token)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if _, err := h.userService.UpdateUser(r.Context(), claims.UserID, service.UserUpdate{
		Password: &req.NewPassword,
	}); err != nil {
		HandleAPIError(w, r, err, "Failed to reset password")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{
		"message": "Password updated",
	})
}

// RequestVerify handles POST /auth/request-verify. Like ForgotPassword, the
// response is 202 whether or not the email matched an account. Already
// verified accounts are skipped silently.
func (h *AuthHandler) RequestVerify(w http.ResponseWriter, r *http.Request) {
	var req RequestVerifyRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	user, err := h.userService.GetUserByEmail(r.Context(), req.Email)
	if err == nil {
		if !user.IsVerified {
			h.queueVerificationEmail(r, user.ID, user.Email)
		}
	} else if !errors.Is(err, store.ErrUserNotFound) {
		slog.Error("failed to look up user for verification", "error", err)
	}

	shared.RespondWithJSON(w, r, http.StatusAccepted, map[string]string{
		"message": "If the email is registered, a verification link has been sent",
	})
}

// Verify handles POST /auth/verify.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	claims, err := h.jwtService.ValidateVerificationToken(r.Context(), req.Token)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.userService.VerifyUser(r.Context(), claims.UserID); err != nil {
		HandleAPIError(w, r, err, "Failed to verify account")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{
		"message": "Email verified",
	})
}

// respondWithTokens issues an access/refresh token pair for the user.
func (h *AuthHandler) respondWithTokens(w http.ResponseWriter, r *http.Request, userID uuid.UUID, status int) {
	accessToken, err := h.jwtService.GenerateToken(r.Context(), userID)
	if err != nil {
		slog.Error("failed to generate access token", "error", err, "user_id", userID)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to generate authentication token")
		return
	}

	refreshToken, err := h.jwtService.GenerateRefreshToken(r.Context(), userID)
	if err != nil {
		slog.Error("failed to generate refresh token", "error", err, "user_id", userID)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to generate authentication token")
		return
	}

	shared.RespondWithJSON(w, r, status, AuthResponse{
		UserID:       userID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    int64(h.jwtService.AccessTokenLifetime().Seconds()),
	})
}

// queueResetEmail emits a password-reset notification event. Failures are
// logged, never surfaced to the caller.
func (h *AuthHandler) queueResetEmail(r *http.Request, userID uuid.UUID, email string) {
	resetToken, err := h.jwtService.GenerateResetToken(r.Context(), userID)
	if err != nil {
		slog.Error("failed to generate reset token", "error", err, "user_id", userID)
		return
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", h.frontendBaseURL, url.QueryEscape(resetToken))

	event, err := events.NewNotificationEvent(worker.JobTypePasswordResetEmail, worker.PasswordResetEmailPayload{
		Email:    email,
		ResetURL: resetURL,
	})
	if err != nil {
		slog.Error("failed to build reset notification event", "error", err, "user_id", userID)
		return
	}

	if h.emitter == nil {
		return
	}

	if err := h.emitter.EmitEvent(r.Context(), event); err != nil {
		slog.Error("failed to emit reset notification event", "error", err, "user_id", userID)
	}
}

// queueVerificationEmail emits an account verification notification event.
// Failures are logged, never surfaced to the caller.
func (h *AuthHandler) queueVerificationEmail(r *http.Request, userID uuid.UUID, email string) {
	verifyToken, err := h.jwtService.GenerateVerificationToken(r.Context(), userID)
	if err != nil {
		slog.Error("failed to generate verification token", "error", err, "user_id", userID)
		return
	}

	verifyURL := fmt.Sprintf("%s/verify-email?token=%s", h.frontendBaseURL, url.QueryEscape(verifyToken))

	event, err := events.NewNotificationEvent(worker.JobTypeVerificationEmail, worker.VerificationEmailPayload{
		Email:     email,
		VerifyURL: verifyURL,
	})
	if err != nil {
		slog.Error("failed to build verification notification event", "error", err, "user_id", userID)
		return
	}

	if h.emitter == nil {
		return
	}

	if err := h.emitter.EmitEvent(r.Context(), event); err != nil {
		slog.Error("failed to emit verification notification event", "error", err, "user_id", userID)
	}
}
