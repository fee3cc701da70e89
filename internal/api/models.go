package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/pluresque/taskify-api/internal/domain"
)

// Auth request/response models

// RegisterRequest holds the registration payload.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest holds the login payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshTokenRequest holds the token refresh payload.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// ForgotPasswordRequest holds the password reset request payload.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest holds the password reset completion payload.
type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=72"`
}

// RequestVerifyRequest holds the account verification request payload.
type RequestVerifyRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// VerifyRequest holds the account verification completion payload.
type VerifyRequest struct {
	Token string `json:"token" validate:"required"`
}

// AuthResponse is returned by register, login and refresh.
type AuthResponse struct {
	UserID       uuid.UUID `json:"user_id"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresIn    int64     `json:"expires_in"`
}

// User models

// UserResponse is the public view of a user account.
type UserResponse struct {
	ID         uuid.UUID `json:"id"`
	Email      string    `json:"email"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewUserResponse converts a domain user to its public view.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:         user.ID,
		Email:      user.Email,
		IsVerified: user.IsVerified,
		CreatedAt:  user.CreatedAt,
		UpdatedAt:  user.UpdatedAt,
	}
}

// UpdateUserRequest holds a partial account update. Absent fields are left
// unchanged.
type UpdateUserRequest struct {
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=8,max=72"`
}

// Task models

// CreateTaskRequest holds the task creation payload.
type CreateTaskRequest struct {
	Title       string  `json:"title" validate:"required,max=255"`
	Description string  `json:"description"`
	PriorityID  int64   `json:"priority_id" validate:"required,gt=0"`
	CategoryIDs []int64 `json:"category_ids"`
}

// UpdateTaskRequest holds a partial task update. Absent fields are left
// unchanged.
type UpdateTaskRequest struct {
	Title       *string  `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	Description *string  `json:"description,omitempty"`
	Completed   *bool    `json:"completed,omitempty"`
	PriorityID  *int64   `json:"priority_id,omitempty" validate:"omitempty,gt=0"`
	CategoryIDs *[]int64 `json:"category_ids,omitempty"`
}

// TaskResponse is the public view of a task.
type TaskResponse struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	PriorityID  int64     `json:"priority_id"`
	CategoryIDs []int64   `json:"category_ids"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewTaskResponse converts a domain task to its public view.
func NewTaskResponse(task *domain.Task) TaskResponse {
	categoryIDs := task.CategoryIDs
	if categoryIDs == nil {
		categoryIDs = []int64{}
	}
	return TaskResponse{
		ID:          task.ID,
		OwnerID:     task.OwnerID,
		Title:       task.Title,
		Description: task.Description,
		Completed:   task.Completed,
		PriorityID:  task.PriorityID,
		CategoryIDs: categoryIDs,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

// Share models

// ShareTaskRequest holds the share creation payload. The recipient is
// identified by email.
type ShareTaskRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ShareResponse is the public view of a share grant.
type ShareResponse struct {
	TaskID    uuid.UUID `json:"task_id"`
	UserID    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// NewShareResponse converts a domain share to its public view.
func NewShareResponse(share *domain.Share) ShareResponse {
	return ShareResponse{
		TaskID:    share.TaskID,
		UserID:    share.UserID,
		CreatedAt: share.CreatedAt,
	}
}

// Category and priority models

// CreateCategoryRequest holds the category creation payload.
type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// CategoryResponse is the public view of a category.
type CategoryResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	IsDefault bool   `json:"is_default"`
}

// NewCategoryResponse converts a domain category to its public view.
func NewCategoryResponse(category *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:        category.ID,
		Name:      category.Name,
		IsDefault: category.IsSystemDefault(),
	}
}

// PriorityResponse is the public view of a priority level.
type PriorityResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
