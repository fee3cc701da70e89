package api

import (
	"net/http"

	"github.com/pluresque/taskify-api/internal/api/shared"
	"github.com/pluresque/taskify-api/internal/domain"
	"github.com/pluresque/taskify-api/internal/service"
)

// TaskHandler handles task and share API requests.
type TaskHandler struct {
	taskService service.TaskService
}

// NewTaskHandler creates a new TaskHandler with the given dependencies.
func NewTaskHandler(taskService service.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// CreateTask handles POST /tasks.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	task, err := h.taskService.CreateTask(r.Context(), userID, req.Title, req.Description, req.PriorityID, req.CategoryIDs)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, NewTaskResponse(task))
}

// ListTasks handles GET /tasks. Returns tasks the user owns plus tasks
// shared with them, newest first. Supports skip/limit pagination.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	limit, offset := getPagination(r)

	tasks, err := h.taskService.ListTasks(r.Context(), userID, limit, offset)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list tasks")
		return
	}

	responses := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		responses = append(responses, NewTaskResponse(task))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// GetTask handles GET /tasks/{id}.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := requireUserAndTaskID(w, r)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(r.Context(), userID, taskID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to retrieve task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewTaskResponse(task))
}

// UpdateTask handles PATCH /tasks/{id}. Owner and collaborators may edit.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := requireUserAndTaskID(w, r)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	task, err := h.taskService.UpdateTask(r.Context(), userID, taskID, service.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		PriorityID:  req.PriorityID,
		CategoryIDs: req.CategoryIDs,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewTaskResponse(task))
}

// DeleteTask handles DELETE /tasks/{id}. Owner only.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := requireUserAndTaskID(w, r)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(r.Context(), userID, taskID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete task")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ShareTask handles POST /tasks/{id}/shares. Owner only; the recipient is
// identified by email and notified asynchronously.
func (h *TaskHandler) ShareTask(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := requireUserAndTaskID(w, r)
	if !ok {
		return
	}

	var req ShareTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	share, err := h.taskService.ShareTask(r.Context(), userID, taskID, req.Email)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to share task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, NewShareResponse(share))
}

// ListShares handles GET /tasks/{id}/shares. Owner only.
func (h *TaskHandler) ListShares(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := requireUserAndTaskID(w, r)
	if !ok {
		return
	}

	shares, err := h.taskService.ListShares(r.Context(), userID, taskID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list shares")
		return
	}

	responses := make([]ShareResponse, 0, len(shares))
	for _, share := range shares {
		responses = append(responses, NewShareResponse(share))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// UnshareTask handles DELETE /tasks/{id}/shares/{userID}. Owner only.
func (h *TaskHandler) UnshareTask(w http.ResponseWriter, r *http.Request) {
	ownerID, taskID, ok := requireUserAndTaskID(w, r)
	if !ok {
		return
	}

	collaboratorID, err := getPathUUID(r, "userID")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.taskService.UnshareTask(r.Context(), ownerID, taskID, collaboratorID); err != nil {
		HandleAPIError(w, r, err, "Failed to revoke share")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
