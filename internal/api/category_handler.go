package api

import (
	"net/http"

	"github.com/pluresque/taskify-api/internal/api/shared"
	"github.com/pluresque/taskify-api/internal/domain"
	"github.com/pluresque/taskify-api/internal/service"
)

// CategoryHandler handles category and priority API requests.
type CategoryHandler struct {
	categoryService service.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler with the given
// dependencies.
func NewCategoryHandler(categoryService service.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
	}
}

// CreateCategory handles POST /categories.
func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	var req CreateCategoryRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	category, err := h.categoryService.CreateCategory(r.Context(), userID, req.Name)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create category")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, NewCategoryResponse(category))
}

// ListCategories handles GET /categories. Returns system defaults plus the
// user's own categories.
func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	limit, offset := getPagination(r)

	categories, err := h.categoryService.ListCategories(r.Context(), userID, limit, offset)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list categories")
		return
	}

	responses := make([]CategoryResponse, 0, len(categories))
	for _, category := range categories {
		responses = append(responses, NewCategoryResponse(category))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// DeleteCategory handles DELETE /categories/{id}. Creator only; system
// defaults cannot be deleted.
func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	categoryID, err := getPathInt64(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.categoryService.DeleteCategory(r.Context(), userID, categoryID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete category")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListPriorities handles GET /priorities.
func (h *CategoryHandler) ListPriorities(w http.ResponseWriter, r *http.Request) {
	priorities, err := h.categoryService.ListPriorities(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list priorities")
		return
	}

	responses := make([]PriorityResponse, 0, len(priorities))
	for _, priority := range priorities {
		responses = append(responses, PriorityResponse{
			ID:   priority.ID,
			Name: priority.Name,
		})
	}

	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}
