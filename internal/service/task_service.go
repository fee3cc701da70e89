package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/pluresque/taskify-api/internal/domain"
	"github.com/pluresque/taskify-api/internal/events"
	"github.com/pluresque/taskify-api/internal/store"
	"github.com/pluresque/taskify-api/internal/worker"
)

// TaskUpdate describes a partial update to a task. Nil fields are left
// unchanged.
type TaskUpdate struct {
	Title       *string
	Description *string
	Completed   *bool
	PriorityID  *int64
	CategoryIDs *[]int64
}

// TaskService provides task, share and access-control operations.
//
// Access rules: the owner and every collaborator may read and edit a task.
// Deleting a task and managing its shares are owner-only. Users with no
// relation to a task get ErrTaskNotFound, never confirmation that the task
// exists.
type TaskService interface {
	// CreateTask creates a task owned by ownerID after validating its
	// priority and category references
	CreateTask(ctx context.Context, ownerID uuid.UUID, title, description string, priorityID int64, categoryIDs []int64) (*domain.Task, error)

	// GetTask retrieves a task the user owns or has been granted access to
	GetTask(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error)

	// ListTasks retrieves tasks the user owns plus tasks shared with them,
	// newest first
	ListTasks(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Task, error)

	// UpdateTask applies a partial update. Owner and collaborators may edit.
	UpdateTask(ctx context.Context, userID, taskID uuid.UUID, update TaskUpdate) (*domain.Task, error)

	// DeleteTask removes a task. Owner only.
	DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error

	// ShareTask grants the user with the given email access to the task and
	// queues a notification email. Owner only.
	ShareTask(ctx context.Context, ownerID, taskID uuid.UUID, email string) (*domain.Share, error)

	// UnshareTask revokes a collaborator's access. Owner only.
	UnshareTask(ctx context.Context, ownerID, taskID, userID uuid.UUID) error

	// ListShares retrieves the task's share grants. Owner only.
	ListShares(ctx context.Context, ownerID, taskID uuid.UUID) ([]*domain.Share, error)
}

// TaskServiceImpl implements the TaskService interface
type TaskServiceImpl struct {
	db            *sql.DB
	taskStore     store.TaskStore
	userStore     store.UserStore
	categoryStore store.CategoryStore
	priorityStore store.PriorityStore
	emitter       events.EventEmitter
	logger        *slog.Logger
}

// NewTaskService creates a new TaskService
func NewTaskService(
	db *sql.DB,
	taskStore store.TaskStore,
	userStore store.UserStore,
	categoryStore store.CategoryStore,
	priorityStore store.PriorityStore,
	emitter events.EventEmitter,
	logger *slog.Logger,
) TaskService {
	return &TaskServiceImpl{
		db:            db,
		taskStore:     taskStore,
		userStore:     userStore,
		categoryStore: categoryStore,
		priorityStore: priorityStore,
		emitter:       emitter,
		logger:        logger.With("component", "task_service"),
	}
}

// CreateTask creates a task owned by ownerID. The priority must exist and
// every category must be visible to the owner.
func (s *TaskServiceImpl) CreateTask(
	ctx context.Context,
	ownerID uuid.UUID,
	title, description string,
	priorityID int64,
	categoryIDs []int64,
) (*domain.Task, error) {
	task, err := domain.NewTask(ownerID, title, description, priorityID, categoryIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	if err := s.validateReferences(ctx, ownerID, priorityID, categoryIDs); err != nil {
		return nil, err
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.taskStore.WithTx(tx).Create(ctx, task)
	})

	if err != nil {
		if errors.Is(err, store.ErrInvalidEntity) {
			return nil, ErrInvalidReference
		}
		s.logger.Error("failed to save task",
			"error", err,
			"owner_id", ownerID)
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.logger.Info("task created",
		"task_id", task.ID,
		"owner_id", ownerID)

	return task, nil
}

// GetTask retrieves a task visible to the user
func (s *TaskServiceImpl) GetTask(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error) {
	return s.loadAccessible(ctx, userID, taskID)
}

// ListTasks retrieves the tasks visible to the user, newest first
func (s *TaskServiceImpl) ListTasks(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Task, error) {
	tasks, err := s.taskStore.ListForUser(ctx, userID, limit, offset)
	if err != nil {
		s.logger.Error("failed to list tasks",
			"error", err,
			"user_id", userID)
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}

// UpdateTask applies a partial update to a task the user can edit
func (s *TaskServiceImpl) UpdateTask(ctx context.Context, userID, taskID uuid.UUID, update TaskUpdate) (*domain.Task, error) {
	var updated *domain.Task

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txTasks := s.taskStore.WithTx(tx)

		task, err := s.loadAccessibleTx(ctx, txTasks, userID, taskID)
		if err != nil {
			return err
		}

		if update.Title != nil {
			task.Title = *update.Title
		}
		if update.Description != nil {
			task.Description = *update.Description
		}
		if update.Completed != nil {
			task.Completed = *update.Completed
		}
		if update.PriorityID != nil {
			task.PriorityID = *update.PriorityID
		}
		if update.CategoryIDs != nil {
			task.CategoryIDs = *update.CategoryIDs
		}

		// Category visibility is checked against the owner, not the editor,
		// so collaborators cannot attach categories the owner cannot see.
		if update.PriorityID != nil || update.CategoryIDs != nil {
			refErr := s.validateReferencesTx(ctx, tx, task.OwnerID, task.PriorityID, task.CategoryIDs)
			if refErr != nil {
				return refErr
			}
		}

		if err := txTasks.Update(ctx, task); err != nil {
			if errors.Is(err, store.ErrInvalidEntity) {
				return ErrInvalidReference
			}
			return fmt.Errorf("failed to update task: %w", err)
		}

		updated = task
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.logger.Info("task updated",
		"task_id", taskID,
		"user_id", userID)

	return updated, nil
}

// DeleteTask removes a task. Only the owner may delete; collaborators get
// ErrNotOwned.
func (s *TaskServiceImpl) DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error {
	return store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txTasks := s.taskStore.WithTx(tx)

		task, err := s.loadAccessibleTx(ctx, txTasks, userID, taskID)
		if err != nil {
			return err
		}

		if !task.IsOwnedBy(userID) {
			return ErrNotOwned
		}

		if err := txTasks.Delete(ctx, taskID); err != nil {
			return fmt.Errorf("failed to delete task: %w", err)
		}

		s.logger.Info("task deleted",
			"task_id", taskID,
			"owner_id", userID)
		return nil
	})
}

// ShareTask grants the user with the given email access to the task.
// On success a task-shared notification email is queued; delivery is best
// effort and never fails the share.
func (s *TaskServiceImpl) ShareTask(ctx context.Context, ownerID, taskID uuid.UUID, email string) (*domain.Share, error) {
	var (
		share     *domain.Share
		recipient *domain.User
		owner     *domain.User
		task      *domain.Task
	)

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txTasks := s.taskStore.WithTx(tx)
		txUsers := s.userStore.WithTx(tx)

		var err error
		task, err = s.loadAccessibleTx(ctx, txTasks, ownerID, taskID)
		if err != nil {
			return err
		}

		if !task.IsOwnedBy(ownerID) {
			return ErrNotOwned
		}

		recipient, err = txUsers.GetByEmail(ctx, email)
		if err != nil {
			return fmt.Errorf("failed to resolve share recipient: %w", err)
		}

		share, err = domain.NewShare(task, recipient.ID)
		if err != nil {
			if errors.Is(err, domain.ErrShareWithOwner) {
				return ErrSelfShare
			}
			return err
		}

		if err := txTasks.CreateShare(ctx, share); err != nil {
			return fmt.Errorf("failed to create share: %w", err)
		}

		owner, err = txUsers.GetByID(ctx, ownerID)
		if err != nil {
			return fmt.Errorf("failed to load task owner: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	s.logger.Info("task shared",
		"task_id", taskID,
		"owner_id", ownerID,
		"recipient_id", share.UserID)

	s.emitShareNotification(ctx, task, owner, recipient)

	return share, nil
}

// UnshareTask revokes a collaborator's access. Owner only.
func (s *TaskServiceImpl) UnshareTask(ctx context.Context, ownerID, taskID, userID uuid.UUID) error {
	return store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txTasks := s.taskStore.WithTx(tx)

		task, err := s.loadAccessibleTx(ctx, txTasks, ownerID, taskID)
		if err != nil {
			return err
		}

		if !task.IsOwnedBy(ownerID) {
			return ErrNotOwned
		}

		if err := txTasks.DeleteShare(ctx, taskID, userID); err != nil {
			return fmt.Errorf("failed to revoke share: %w", err)
		}

		s.logger.Info("share revoked",
			"task_id", taskID,
			"user_id", userID)
		return nil
	})
}

// ListShares retrieves the task's share grants. Owner only.
func (s *TaskServiceImpl) ListShares(ctx context.Context, ownerID, taskID uuid.UUID) ([]*domain.Share, error) {
	task, err := s.loadAccessible(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}

	if !task.IsOwnedBy(ownerID) {
		return nil, ErrNotOwned
	}

	shares, err := s.taskStore.ListShares(ctx, taskID)
	if err != nil {
		s.logger.Error("failed to list shares",
			"error", err,
			"task_id", taskID)
		return nil, fmt.Errorf("failed to list shares: %w", err)
	}

	return shares, nil
}

// loadAccessible fetches a task and verifies the user may see it. Users
// with no relation to the task get store.ErrTaskNotFound.
func (s *TaskServiceImpl) loadAccessible(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error) {
	return s.loadAccessibleTx(ctx, s.taskStore, userID, taskID)
}

func (s *TaskServiceImpl) loadAccessibleTx(ctx context.Context, tasks store.TaskStore, userID, taskID uuid.UUID) (*domain.Task, error) {
	task, err := tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if task.IsOwnedBy(userID) {
		return task, nil
	}

	shared, err := tasks.HasShare(ctx, taskID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check task access: %w", err)
	}
	if !shared {
		return nil, store.ErrTaskNotFound
	}

	return task, nil
}

func (s *TaskServiceImpl) validateReferences(ctx context.Context, ownerID uuid.UUID, priorityID int64, categoryIDs []int64) error {
	exists, err := s.priorityStore.Exists(ctx, priorityID)
	if err != nil {
		return fmt.Errorf("failed to check priority: %w", err)
	}
	if !exists {
		return ErrInvalidReference
	}

	unique := uniqueInt64(categoryIDs)
	if len(unique) == 0 {
		return nil
	}

	count, err := s.categoryStore.CountVisibleByIDs(ctx, ownerID, unique)
	if err != nil {
		return fmt.Errorf("failed to check categories: %w", err)
	}
	if count != len(unique) {
		return ErrInvalidReference
	}

	return nil
}

func (s *TaskServiceImpl) validateReferencesTx(ctx context.Context, tx *sql.Tx, ownerID uuid.UUID, priorityID int64, categoryIDs []int64) error {
	exists, err := s.priorityStore.Exists(ctx, priorityID)
	if err != nil {
		return fmt.Errorf("failed to check priority: %w", err)
	}
	if !exists {
		return ErrInvalidReference
	}

	unique := uniqueInt64(categoryIDs)
	if len(unique) == 0 {
		return nil
	}

	count, err := s.categoryStore.WithTx(tx).CountVisibleByIDs(ctx, ownerID, unique)
	if err != nil {
		return fmt.Errorf("failed to check categories: %w", err)
	}
	if count != len(unique) {
		return ErrInvalidReference
	}

	return nil
}

// emitShareNotification queues the task-shared email. Failures are logged
// and swallowed.
func (s *TaskServiceImpl) emitShareNotification(ctx context.Context, task *domain.Task, owner, recipient *domain.User) {
	if s.emitter == nil {
		return
	}

	event, err := events.NewNotificationEvent(worker.JobTypeTaskSharedEmail, worker.TaskSharedEmailPayload{
		RecipientEmail: recipient.Email,
		TaskTitle:      task.Title,
		OwnerEmail:     owner.Email,
	})
	if err != nil {
		s.logger.Error("failed to build share notification event",
			"error", err,
			"task_id", task.ID)
		return
	}

	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		s.logger.Error("failed to emit share notification event",
			"error", err,
			"task_id", task.ID)
	}
}

func uniqueInt64(ids []int64) []int64 {
	if len(ids) == 0 {
		return nil
	}

	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
