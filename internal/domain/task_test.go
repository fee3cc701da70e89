package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestNewTask(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()
	task, err := NewTask(ownerID, "Write report", "Quarterly numbers", 2, []int64{1, 3})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if task.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}

	if task.OwnerID != ownerID {
		t.Errorf("Expected owner ID %s, got %s", ownerID, task.OwnerID)
	}

	if task.Completed {
		t.Error("Expected new task to be incomplete")
	}

	if len(task.CategoryIDs) != 2 {
		t.Errorf("Expected 2 category IDs, got %d", len(task.CategoryIDs))
	}

	if task.CreatedAt.IsZero() || task.UpdatedAt.IsZero() {
		t.Error("Expected non-zero timestamps")
	}
}

func TestNewTaskValidation(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()

	tests := []struct {
		name       string
		ownerID    uuid.UUID
		title      string
		priorityID int64
		wantErr    error
	}{
		{"empty owner", uuid.Nil, "Write report", 1, ErrEmptyTaskOwnerID},
		{"empty title", ownerID, "", 1, ErrEmptyTaskTitle},
		{"title too long", ownerID, strings.Repeat("t", 256), 1, ErrTaskTitleTooLong},
		{"zero priority", ownerID, "Write report", 0, ErrInvalidPriority},
		{"negative priority", ownerID, "Write report", -4, ErrInvalidPriority},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTask(tt.ownerID, tt.title, "", tt.priorityID, nil)
			if err != tt.wantErr {
				t.Errorf("Expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestTaskIsOwnedBy(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()
	task, err := NewTask(ownerID, "Write report", "", 1, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !task.IsOwnedBy(ownerID) {
		t.Error("Expected task to be owned by its owner")
	}

	if task.IsOwnedBy(uuid.New()) {
		t.Error("Expected task not to be owned by a stranger")
	}
}

func TestNewShare(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()
	task, err := NewTask(ownerID, "Write report", "", 1, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	collaboratorID := uuid.New()
	share, err := NewShare(task, collaboratorID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if share.TaskID != task.ID {
		t.Errorf("Expected task ID %s, got %s", task.ID, share.TaskID)
	}

	if share.UserID != collaboratorID {
		t.Errorf("Expected user ID %s, got %s", collaboratorID, share.UserID)
	}

	// Sharing with the owner is rejected
	if _, err := NewShare(task, ownerID); err != ErrShareWithOwner {
		t.Errorf("Expected error %v, got %v", ErrShareWithOwner, err)
	}

	if _, err := NewShare(task, uuid.Nil); err != ErrEmptyShareUserID {
		t.Errorf("Expected error %v, got %v", ErrEmptyShareUserID, err)
	}
}
