package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Share.
var (
	ErrEmptyShareTaskID = errors.New("share task ID cannot be empty")
	ErrEmptyShareUserID = errors.New("share user ID cannot be empty")
	ErrShareWithOwner   = errors.New("a task cannot be shared with its owner")
)

// Share grants a non-owner user access to a task. Collaborators may read and
// edit the task; deleting it and managing its shares remain owner-only.
type Share struct {
	TaskID    uuid.UUID `json:"task_id"`
	UserID    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// NewShare creates a Share granting userID access to the given task.
// Returns ErrShareWithOwner if the grantee already owns the task.
func NewShare(task *Task, userID uuid.UUID) (*Share, error) {
	if userID == uuid.Nil {
		return nil, ErrEmptyShareUserID
	}

	if task.IsOwnedBy(userID) {
		return nil, ErrShareWithOwner
	}

	share := &Share{
		TaskID:    task.ID,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}

	if err := share.Validate(); err != nil {
		return nil, err
	}

	return share, nil
}

// Validate checks if the Share has valid data.
func (s *Share) Validate() error {
	if s.TaskID == uuid.Nil {
		return ErrEmptyShareTaskID
	}

	if s.UserID == uuid.Nil {
		return ErrEmptyShareUserID
	}

	return nil
}
