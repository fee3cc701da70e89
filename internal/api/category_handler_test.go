package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/pluresque/taskify-api/internal/domain"
	"github.com/pluresque/taskify-api/internal/service"
	"github.com/pluresque/taskify-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryHandlerCreateCategory(t *testing.T) {
	userID := uuid.New()

	t.Run("success", func(t *testing.T) {
		categories := &stubCategoryService{
			createCategory: func(_ context.Context, uid uuid.UUID, name string) (*domain.Category, error) {
				assert.Equal(t, userID, uid)
				assert.Equal(t, "Errands", name)
				return &domain.Category{ID: 7, Name: name, CreatedBy: &uid}, nil
			},
		}
		handler := NewCategoryHandler(categories)

		req := newJSONRequest(t, http.MethodPost, "/api/categories",
			`{"name":"Errands"}`, userID, nil)
		rec := httptest.NewRecorder()
		handler.CreateCategory(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)

		var resp CategoryResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, int64(7), resp.ID)
		assert.False(t, resp.IsDefault)
	})

	t.Run("duplicate name", func(t *testing.T) {
		categories := &stubCategoryService{
			createCategory: func(_ context.Context, _ uuid.UUID, _ string) (*domain.Category, error) {
				return nil, store.ErrCategoryExists
			},
		}
		handler := NewCategoryHandler(categories)

		req := newJSONRequest(t, http.MethodPost, "/api/categories",
			`{"name":"Errands"}`, userID, nil)
		rec := httptest.NewRecorder()
		handler.CreateCategory(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("missing name", func(t *testing.T) {
		handler := NewCategoryHandler(&stubCategoryService{})

		req := newJSONRequest(t, http.MethodPost, "/api/categories", `{}`, userID, nil)
		rec := httptest.NewRecorder()
		handler.CreateCategory(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCategoryHandlerListCategories(t *testing.T) {
	userID := uuid.New()

	categories := &stubCategoryService{
		listCategories: func(_ context.Context, _ uuid.UUID, _, _ int) ([]*domain.Category, error) {
			return []*domain.Category{
				{ID: 1, Name: "Work"},
				{ID: 7, Name: "Errands", CreatedBy: &userID},
			}, nil
		},
	}
	handler := NewCategoryHandler(categories)

	req := newJSONRequest(t, http.MethodGet, "/api/categories", "", userID, nil)
	rec := httptest.NewRecorder()
	handler.ListCategories(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp []CategoryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.True(t, resp[0].IsDefault, "category with no creator is a system default")
	assert.False(t, resp[1].IsDefault)
}

func TestCategoryHandlerDeleteCategory(t *testing.T) {
	userID := uuid.New()

	t.Run("success", func(t *testing.T) {
		categories := &stubCategoryService{
			deleteCategory: func(_ context.Context, _ uuid.UUID, categoryID int64) error {
				assert.Equal(t, int64(7), categoryID)
				return nil
			},
		}
		handler := NewCategoryHandler(categories)

		req := newJSONRequest(t, http.MethodDelete, "/api/categories/7", "",
			userID, map[string]string{"id": "7"})
		rec := httptest.NewRecorder()
		handler.DeleteCategory(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("system default is forbidden", func(t *testing.T) {
		categories := &stubCategoryService{
			deleteCategory: func(_ context.Context, _ uuid.UUID, _ int64) error {
				return service.ErrNotOwned
			},
		}
		handler := NewCategoryHandler(categories)

		req := newJSONRequest(t, http.MethodDelete, "/api/categories/1", "",
			userID, map[string]string{"id": "1"})
		rec := httptest.NewRecorder()
		handler.DeleteCategory(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("non-numeric id", func(t *testing.T) {
		handler := NewCategoryHandler(&stubCategoryService{})

		req := newJSONRequest(t, http.MethodDelete, "/api/categories/abc", "",
			userID, map[string]string{"id": "abc"})
		rec := httptest.NewRecorder()
		handler.DeleteCategory(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCategoryHandlerListPriorities(t *testing.T) {
	categories := &stubCategoryService{
		listPriorities: func(_ context.Context) ([]*domain.Priority, error) {
			return []*domain.Priority{
				{ID: 1, Name: "low"},
				{ID: 2, Name: "medium"},
				{ID: 3, Name: "high"},
			}, nil
		},
	}
	handler := NewCategoryHandler(categories)

	req := newJSONRequest(t, http.MethodGet, "/api/priorities", "", uuid.New(), nil)
	rec := httptest.NewRecorder()
	handler.ListPriorities(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp []PriorityResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 3)
	assert.Equal(t, "low", resp[0].Name)
}
