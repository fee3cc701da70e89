package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/pluresque/taskify-api/internal/api/shared"
	"github.com/pluresque/taskify-api/internal/domain"
	"github.com/pluresque/taskify-api/internal/service"
	"github.com/pluresque/taskify-api/internal/service/auth"
	"github.com/pluresque/taskify-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrInvalidResetToken),
		errors.Is(err, auth.ErrInvalidVerificationToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, service.ErrNotOwned),
		errors.Is(err, domain.ErrNotOwner):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrTaskNotFound),
		errors.Is(err, store.ErrCategoryNotFound),
		errors.Is(err, store.ErrShareNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrEmailExists),
		errors.Is(err, store.ErrCategoryExists),
		errors.Is(err, store.ErrShareExists):
		return http.StatusConflict

	// Semantically invalid requests
	case errors.Is(err, service.ErrInvalidReference),
		errors.Is(err, service.ErrSelfShare):
		return http.StatusUnprocessableEntity

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid):
		return "Invalid token"

	case errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid refresh token"

	case errors.Is(err, auth.ErrInvalidResetToken):
		return "Invalid or expired reset token"

	case errors.Is(err, auth.ErrInvalidVerificationToken):
		return "Invalid or expired verification token"

	case errors.Is(err, domain.ErrUnauthorized):
		return "Authentication required"

	// Authorization errors
	case errors.Is(err, service.ErrNotOwned),
		errors.Is(err, domain.ErrNotOwner):
		return "Only the owner may perform this action"

	// Not found errors
	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrTaskNotFound):
		return "Task not found"

	case errors.Is(err, store.ErrCategoryNotFound):
		return "Category not found"

	case errors.Is(err, store.ErrShareNotFound):
		return "Share not found"

	// Conflict errors
	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	case errors.Is(err, store.ErrCategoryExists):
		return "Category already exists"

	case errors.Is(err, store.ErrShareExists):
		return "Task is already shared with this user"

	// Semantically invalid requests
	case errors.Is(err, service.ErrSelfShare):
		return "Cannot share a task with its owner"

	case errors.Is(err, service.ErrInvalidReference):
		return "Referenced priority or category does not exist"

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID):
		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) {
			return fmt.Sprintf("Invalid %s: %s", validationErr.Field, validationErr.Reason)
		}
		return "Invalid request data"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError maps an error to a status code and safe message and writes
// the response. A non-empty fallbackMessage overrides the generic message
// for unexpected errors.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallbackMessage string) {
	status := MapErrorToStatusCode(err)

	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallbackMessage != "" {
		message = fallbackMessage
	}

	shared.RespondWithErrorAndLog(w, r, status, message, err)
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	if strings.Contains(errMsg, "Field validation") {
		// Example format:
		// "Key: 'LoginRequest.Email' Error:Field validation for 'Email' failed on the 'required' tag"
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}

				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "gt":
		return "must be positive"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
