package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/pluresque/taskify-api/internal/api/shared"
	"github.com/pluresque/taskify-api/internal/domain"
	"github.com/pluresque/taskify-api/internal/service"
	"github.com/pluresque/taskify-api/internal/service/auth"
)

// Function-field stubs for the service interfaces. Unset fields panic, which
// makes a test calling an unexpected method fail loudly.

type stubUserService struct {
	getUser        func(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	getUserByEmail func(ctx context.Context, email string) (*domain.User, error)
	createUser     func(ctx context.Context, email, password string) (*domain.User, error)
	updateUser     func(ctx context.Context, userID uuid.UUID, update service.UserUpdate) (*domain.User, error)
	verifyUser     func(ctx context.Context, userID uuid.UUID) error
	deleteUser     func(ctx context.Context, userID uuid.UUID) error
}

func (s *stubUserService) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return s.getUser(ctx, userID)
}

func (s *stubUserService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.getUserByEmail(ctx, email)
}

func (s *stubUserService) CreateUser(ctx context.Context, email, password string) (*domain.User, error) {
	return s.createUser(ctx, email, password)
}

func (s *stubUserService) UpdateUser(ctx context.Context, userID uuid.UUID, update service.UserUpdate) (*domain.User, error) {
	return s.updateUser(ctx, userID, update)
}

func (s *stubUserService) VerifyUser(ctx context.Context, userID uuid.UUID) error {
	return s.verifyUser(ctx, userID)
}

func (s *stubUserService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	return s.deleteUser(ctx, userID)
}

type stubTaskService struct {
	createTask  func(ctx context.Context, ownerID uuid.UUID, title, description string, priorityID int64, categoryIDs []int64) (*domain.Task, error)
	getTask     func(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error)
	listTasks   func(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Task, error)
	updateTask  func(ctx context.Context, userID, taskID uuid.UUID, update service.TaskUpdate) (*domain.Task, error)
	deleteTask  func(ctx context.Context, userID, taskID uuid.UUID) error
	shareTask   func(ctx context.Context, ownerID, taskID uuid.UUID, email string) (*domain.Share, error)
	unshareTask func(ctx context.Context, ownerID, taskID, userID uuid.UUID) error
	listShares  func(ctx context.Context, ownerID, taskID uuid.UUID) ([]*domain.Share, error)
}

func (s *stubTaskService) CreateTask(ctx context.Context, ownerID uuid.UUID, title, description string, priorityID int64, categoryIDs []int64) (*domain.Task, error) {
	return s.createTask(ctx, ownerID, title, description, priorityID, categoryIDs)
}

func (s *stubTaskService) GetTask(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error) {
	return s.getTask(ctx, userID, taskID)
}

func (s *stubTaskService) ListTasks(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Task, error) {
	return s.listTasks(ctx, userID, limit, offset)
}

func (s *stubTaskService) UpdateTask(ctx context.Context, userID, taskID uuid.UUID, update service.TaskUpdate) (*domain.Task, error) {
	return s.updateTask(ctx, userID, taskID, update)
}

func (s *stubTaskService) DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error {
	return s.deleteTask(ctx, userID, taskID)
}

func (s *stubTaskService) ShareTask(ctx context.Context, ownerID, taskID uuid.UUID, email string) (*domain.Share, error) {
	return s.shareTask(ctx, ownerID, taskID, email)
}

func (s *stubTaskService) UnshareTask(ctx context.Context, ownerID, taskID, userID uuid.UUID) error {
	return s.unshareTask(ctx, ownerID, taskID, userID)
}

func (s *stubTaskService) ListShares(ctx context.Context, ownerID, taskID uuid.UUID) ([]*domain.Share, error) {
	return s.listShares(ctx, ownerID, taskID)
}

type stubCategoryService struct {
	createCategory func(ctx context.Context, userID uuid.UUID, name string) (*domain.Category, error)
	listCategories func(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Category, error)
	deleteCategory func(ctx context.Context, userID uuid.UUID, categoryID int64) error
	listPriorities func(ctx context.Context) ([]*domain.Priority, error)
}

func (s *stubCategoryService) CreateCategory(ctx context.Context, userID uuid.UUID, name string) (*domain.Category, error) {
	return s.createCategory(ctx, userID, name)
}

func (s *stubCategoryService) ListCategories(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Category, error) {
	return s.listCategories(ctx, userID, limit, offset)
}

func (s *stubCategoryService) DeleteCategory(ctx context.Context, userID uuid.UUID, categoryID int64) error {
	return s.deleteCategory(ctx, userID, categoryID)
}

func (s *stubCategoryService) ListPriorities(ctx context.Context) ([]*domain.Priority, error) {
	return s.listPriorities(ctx)
}

// stubJWTService issues predictable token strings.
type stubJWTService struct {
	validateToken             func(ctx context.Context, token string) (*auth.Claims, error)
	validateRefreshToken      func(ctx context.Context, token string) (*auth.Claims, error)
	validateResetToken        func(ctx context.Context, token string) (*auth.Claims, error)
	validateVerificationToken func(ctx context.Context, token string) (*auth.Claims, error)
}

func (s *stubJWTService) GenerateToken(_ context.Context, userID uuid.UUID) (string, error) {
	return "access-" + userID.String(), nil
}

func (s *stubJWTService) GenerateRefreshToken(_ context.Context, userID uuid.UUID) (string, error) {
	return "refresh-" + userID.String(), nil
}

func (s *stubJWTService) GenerateResetToken(_ context.Context, userID uuid.UUID) (string, error) {
	return "reset-" + userID.String(), nil
}

func (s *stubJWTService) ValidateToken(ctx context.Context, token string) (*auth.Claims, error) {
	return s.validateToken(ctx, token)
}

func (s *stubJWTService) ValidateRefreshToken(ctx context.Context, token string) (*auth.Claims, error) {
	return s.validateRefreshToken(ctx, token)
}

func (s *stubJWTService) ValidateResetToken(ctx context.Context, token string) (*auth.Claims, error) {
	return s.validateResetToken(ctx, token)
}

func (s *stubJWTService) GenerateVerificationToken(_ context.Context, userID uuid.UUID) (string, error) {
	return "verify-" + userID.String(), nil
}

func (s *stubJWTService) ValidateVerificationToken(ctx context.Context, token string) (*auth.Claims, error) {
	return s.validateVerificationToken(ctx, token)
}

func (s *stubJWTService) AccessTokenLifetime() time.Duration {
	return time.Hour
}

type stubPasswordVerifier struct {
	compare func(hashedPassword, password string) error
}

func (s *stubPasswordVerifier) Compare(hashedPassword, password string) error {
	return s.compare(hashedPassword, password)
}

// newJSONRequest builds a request carrying a JSON body, the authenticated
// user and any chi path parameters.
func newJSONRequest(t *testing.T, method, target, body string, userID uuid.UUID, pathParams map[string]string) *http.Request {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")

	ctx := req.Context()
	if userID != uuid.Nil {
		ctx = context.WithValue(ctx, shared.UserIDContextKey, userID)
	}

	if len(pathParams) > 0 {
		rctx := chi.NewRouteContext()
		for key, value := range pathParams {
			rctx.URLParams.Add(key, value)
		}
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}

	return req.WithContext(ctx)
}
