package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Task.
var (
	ErrEmptyTaskID      = errors.New("task ID cannot be empty")
	ErrEmptyTaskOwnerID = errors.New("task owner ID cannot be empty")
	ErrEmptyTaskTitle   = errors.New("task title cannot be empty")
	ErrTaskTitleTooLong = errors.New("task title must be at most 255 characters long")
	ErrInvalidPriority  = errors.New("task priority is not valid")
)

// MaxTaskTitleLength bounds the title column.
const MaxTaskTitleLength = 255

// Task is a trackable unit of work. A task always has exactly one owner;
// access for other users is granted through share relations.
type Task struct {
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

// NewTask creates a new Task owned by the given user.
// It generates a new UUID for the task ID and sets the creation/update
// timestamps. Returns an error if validation fails.
func NewTask(ownerID uuid.UUID, title, description string, priorityID int64, categoryIDs []int64) (*Task, error) {
	task := &Task{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		Completed:   false,
		PriorityID:  priorityID,
		CategoryIDs: categoryIDs,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}

	if t.OwnerID == uuid.Nil {
		return ErrEmptyTaskOwnerID
	}

	if t.Title == "" {
		return ErrEmptyTaskTitle
	}

	if len(t.Title) > MaxTaskTitleLength {
		return ErrTaskTitleTooLong
	}

	if t.PriorityID <= 0 {
		return ErrInvalidPriority
	}

	return nil
}

// IsOwnedBy reports whether the given user owns the task.
func (t *Task) IsOwnedBy(userID uuid.UUID) bool {
	return t.OwnerID == userID
}
