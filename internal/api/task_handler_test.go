package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pluresque/taskify-api/internal/domain"
	"github.com/pluresque/taskify-api/internal/service"
	"github.com/pluresque/taskify-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTask(ownerID uuid.UUID) *domain.Task {
	return &domain.Task{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Title:       "Write report",
		Description: "quarterly numbers",
		PriorityID:  1,
		CategoryIDs: []int64{1, 2},
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
}

func TestTaskHandlerCreateTask(t *testing.T) {
	userID := uuid.New()

	t.Run("success", func(t *testing.T) {
		task := sampleTask(userID)
		tasks := &stubTaskService{
			createTask: func(_ context.Context, ownerID uuid.UUID, title, _ string, priorityID int64, categoryIDs []int64) (*domain.Task, error) {
				assert.Equal(t, userID, ownerID)
				assert.Equal(t, "Write report", title)
				assert.Equal(t, int64(1), priorityID)
				assert.Equal(t, []int64{1, 2}, categoryIDs)
				return task, nil
			},
		}
		handler := NewTaskHandler(tasks)

		req := newJSONRequest(t, http.MethodPost, "/api/tasks",
			`{"title":"Write report","description":"quarterly numbers","priority_id":1,"category_ids":[1,2]}`,
			userID, nil)
		rec := httptest.NewRecorder()
		handler.CreateTask(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)

		var resp TaskResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, task.ID, resp.ID)
		assert.Equal(t, []int64{1, 2}, resp.CategoryIDs)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		handler := NewTaskHandler(&stubTaskService{})

		req := newJSONRequest(t, http.MethodPost, "/api/tasks",
			`{"title":"Write report","priority_id":1}`, uuid.Nil, nil)
		rec := httptest.NewRecorder()
		handler.CreateTask(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("missing title", func(t *testing.T) {
		handler := NewTaskHandler(&stubTaskService{})

		req := newJSONRequest(t, http.MethodPost, "/api/tasks",
			`{"priority_id":1}`, userID, nil)
		rec := httptest.NewRecorder()
		handler.CreateTask(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid category reference", func(t *testing.T) {
		tasks := &stubTaskService{
			createTask: func(_ context.Context, _ uuid.UUID, _, _ string, _ int64, _ []int64) (*domain.Task, error) {
				return nil, service.ErrInvalidReference
			},
		}
		handler := NewTaskHandler(tasks)

		req := newJSONRequest(t, http.MethodPost, "/api/tasks",
			`{"title":"Write report","priority_id":1,"category_ids":[42]}`, userID, nil)
		rec := httptest.NewRecorder()
		handler.CreateTask(rec, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestTaskHandlerGetTask(t *testing.T) {
	userID := uuid.New()
	task := sampleTask(userID)

	t.Run("success", func(t *testing.T) {
		tasks := &stubTaskService{
			getTask: func(_ context.Context, uid, tid uuid.UUID) (*domain.Task, error) {
				assert.Equal(t, userID, uid)
				assert.Equal(t, task.ID, tid)
				return task, nil
			},
		}
		handler := NewTaskHandler(tasks)

		req := newJSONRequest(t, http.MethodGet, "/api/tasks/"+task.ID.String(), "",
			userID, map[string]string{"id": task.ID.String()})
		rec := httptest.NewRecorder()
		handler.GetTask(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("inaccessible task reads as missing", func(t *testing.T) {
		tasks := &stubTaskService{
			getTask: func(_ context.Context, _, _ uuid.UUID) (*domain.Task, error) {
				return nil, store.ErrTaskNotFound
			},
		}
		handler := NewTaskHandler(tasks)

		req := newJSONRequest(t, http.MethodGet, "/api/tasks/"+task.ID.String(), "",
			userID, map[string]string{"id": task.ID.String()})
		rec := httptest.NewRecorder()
		handler.GetTask(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed task id", func(t *testing.T) {
		handler := NewTaskHandler(&stubTaskService{})

		req := newJSONRequest(t, http.MethodGet, "/api/tasks/not-a-uuid", "",
			userID, map[string]string{"id": "not-a-uuid"})
		rec := httptest.NewRecorder()
		handler.GetTask(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestTaskHandlerListTasks(t *testing.T) {
	userID := uuid.New()

	t.Run("pagination is clamped", func(t *testing.T) {
		tasks := &stubTaskService{
			listTasks: func(_ context.Context, _ uuid.UUID, limit, offset int) ([]*domain.Task, error) {
				assert.Equal(t, store.MaxListLimit, limit)
				assert.Equal(t, 10, offset)
				return nil, nil
			},
		}
		handler := NewTaskHandler(tasks)

		req := newJSONRequest(t, http.MethodGet, "/api/tasks?limit=9999&skip=10", "", userID, nil)
		rec := httptest.NewRecorder()
		handler.ListTasks(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("empty result is an empty array, not null", func(t *testing.T) {
		tasks := &stubTaskService{
			listTasks: func(_ context.Context, _ uuid.UUID, _, _ int) ([]*domain.Task, error) {
				return nil, nil
			},
		}
		handler := NewTaskHandler(tasks)

		req := newJSONRequest(t, http.MethodGet, "/api/tasks", "", userID, nil)
		rec := httptest.NewRecorder()
		handler.ListTasks(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())
	})
}

func TestTaskHandlerUpdateTask(t *testing.T) {
	userID := uuid.New()
	task := sampleTask(userID)

	t.Run("partial update", func(t *testing.T) {
		tasks := &stubTaskService{
			updateTask: func(_ context.Context, _, _ uuid.UUID, update service.TaskUpdate) (*domain.Task, error) {
				require.NotNil(t, update.Completed)
				assert.True(t, *update.Completed)
				assert.Nil(t, update.Title)
				assert.Nil(t, update.PriorityID)
				return task, nil
			},
		}
		handler := NewTaskHandler(tasks)

		req := newJSONRequest(t, http.MethodPatch, "/api/tasks/"+task.ID.String(),
			`{"completed":true}`, userID, map[string]string{"id": task.ID.String()})
		rec := httptest.NewRecorder()
		handler.UpdateTask(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("empty title rejected", func(t *testing.T) {
		handler := NewTaskHandler(&stubTaskService{})

		req := newJSONRequest(t, http.MethodPatch, "/api/tasks/"+task.ID.String(),
			`{"title":""}`, userID, map[string]string{"id": task.ID.String()})
		rec := httptest.NewRecorder()
		handler.UpdateTask(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestTaskHandlerDeleteTask(t *testing.T) {
	userID := uuid.New()
	taskID := uuid.New()

	t.Run("owner deletes", func(t *testing.T) {
		tasks := &stubTaskService{
			deleteTask: func(_ context.Context, _, _ uuid.UUID) error { return nil },
		}
		handler := NewTaskHandler(tasks)

		req := newJSONRequest(t, http.MethodDelete, "/api/tasks/"+taskID.String(), "",
			userID, map[string]string{"id": taskID.String()})
		rec := httptest.NewRecorder()
		handler.DeleteTask(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("collaborator is forbidden", func(t *testing.T) {
		tasks := &stubTaskService{
			deleteTask: func(_ context.Context, _, _ uuid.UUID) error { return service.ErrNotOwned },
		}
		handler := NewTaskHandler(tasks)

		req := newJSONRequest(t, http.MethodDelete, "/api/tasks/"+taskID.String(), "",
			userID, map[string]string{"id": taskID.String()})
		rec := httptest.NewRecorder()
		handler.DeleteTask(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestTaskHandlerShareTask(t *testing.T) {
	userID := uuid.New()
	taskID := uuid.New()

	t.Run("success", func(t *testing.T) {
		recipientID := uuid.New()
		tasks := &stubTaskService{
			shareTask: func(_ context.Context, ownerID, tid uuid.UUID, email string) (*domain.Share, error) {
				assert.Equal(t, userID, ownerID)
				assert.Equal(t, taskID, tid)
				assert.Equal(t, "bob@example.com", email)
				return &domain.Share{TaskID: tid, UserID: recipientID, CreatedAt: time.Now().UTC()}, nil
			},
		}
		handler := NewTaskHandler(tasks)

		req := newJSONRequest(t, http.MethodPost, "/api/tasks/"+taskID.String()+"/shares",
			`{"email":"bob@example.com"}`, userID, map[string]string{"id": taskID.String()})
		rec := httptest.NewRecorder()
		handler.ShareTask(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)

		var resp ShareResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, recipientID, resp.UserID)
	})

	t.Run("sharing with the owner", func(t *testing.T) {
		tasks := &stubTaskService{
			shareTask: func(_ context.Context, _, _ uuid.UUID, _ string) (*domain.Share, error) {
				return nil, service.ErrSelfShare
			},
		}
		handler := NewTaskHandler(tasks)

		req := newJSONRequest(t, http.MethodPost, "/api/tasks/"+taskID.String()+"/shares",
			`{"email":"owner@example.com"}`, userID, map[string]string{"id": taskID.String()})
		rec := httptest.NewRecorder()
		handler.ShareTask(rec, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("duplicate share", func(t *testing.T) {
		tasks := &stubTaskService{
			shareTask: func(_ context.Context, _, _ uuid.UUID, _ string) (*domain.Share, error) {
				return nil, store.ErrShareExists
			},
		}
		handler := NewTaskHandler(tasks)

		req := newJSONRequest(t, http.MethodPost, "/api/tasks/"+taskID.String()+"/shares",
			`{"email":"bob@example.com"}`, userID, map[string]string{"id": taskID.String()})
		rec := httptest.NewRecorder()
		handler.ShareTask(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestTaskHandlerUnshareTask(t *testing.T) {
	userID := uuid.New()
	taskID := uuid.New()
	collaboratorID := uuid.New()

	t.Run("success", func(t *testing.T) {
		tasks := &stubTaskService{
			unshareTask: func(_ context.Context, ownerID, tid, uid uuid.UUID) error {
				assert.Equal(t, userID, ownerID)
				assert.Equal(t, taskID, tid)
				assert.Equal(t, collaboratorID, uid)
				return nil
			},
		}
		handler := NewTaskHandler(tasks)

		req := newJSONRequest(t, http.MethodDelete,
			"/api/tasks/"+taskID.String()+"/shares/"+collaboratorID.String(), "",
			userID, map[string]string{"id": taskID.String(), "userID": collaboratorID.String()})
		rec := httptest.NewRecorder()
		handler.UnshareTask(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("missing share", func(t *testing.T) {
		tasks := &stubTaskService{
			unshareTask: func(_ context.Context, _, _, _ uuid.UUID) error {
				return store.ErrShareNotFound
			},
		}
		handler := NewTaskHandler(tasks)

		req := newJSONRequest(t, http.MethodDelete,
			"/api/tasks/"+taskID.String()+"/shares/"+collaboratorID.String(), "",
			userID, map[string]string{"id": taskID.String(), "userID": collaboratorID.String()})
		rec := httptest.NewRecorder()
		handler.UnshareTask(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
