package api

import (
	"net/http"

	"github.com/pluresque/taskify-api/internal/api/shared"
	"github.com/pluresque/taskify-api/internal/domain"
	"github.com/pluresque/taskify-api/internal/service"
)

// UserHandler handles requests about the authenticated user's own account.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new UserHandler with the given dependencies.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// GetMe handles GET /users/me.
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	user, err := h.userService.GetUser(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to retrieve account")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewUserResponse(user))
}

// UpdateMe handles PATCH /users/me.
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	var req UpdateUserRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	if req.Email == nil && req.Password == nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "No fields to update")
		return
	}

	user, err := h.userService.UpdateUser(r.Context(), userID, service.UserUpdate{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update account")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewUserResponse(user))
}

// DeleteMe handles DELETE /users/me. Owned tasks and share grants go with
// the account.
func (h *UserHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	if err := h.userService.DeleteUser(r.Context(), userID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete account")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
