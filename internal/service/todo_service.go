package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/khairulz/tripmate/internal/errs"
	"github.com/khairulz/tripmate/internal/middleware"
	"github.com/khairulz/tripmate/internal/models"
	"github.com/khairulz/tripmate/internal/storage"
)

// TodoService implements the todo and assignment operations.
type TodoService struct {
	store    storage.Store
	logger   *slog.Logger
	resolver *resolver
}

// NewTodoService creates a todo service backed by the given store.
func NewTodoService(store storage.Store, logger *slog.Logger) *TodoService {
	return &TodoService{store: store, logger: logger, resolver: &resolver{store: store}}
}

// CreateTodo adds a shared task. Open operation; duplicate items are
// rejected by the store.
func (s *TodoService) CreateTodo(ctx context.Context, item string, details map[string]any) (*models.Todo, error) {
	if strings.TrimSpace(item) == "" {
		return nil, errs.Validationf("item must not be empty")
	}

	todo := &models.Todo{Item: item, Details: details}
	if err := s.store.CreateTodo(ctx, todo); err != nil {
		s.logger.Warn("create todo failed", "item", item, "error", err)
		return nil, err
	}

	s.logger.Info("todo created", "todo_id", todo.ID, "item", item)
	return todo, nil
}

// ListTodos returns all todos.
func (s *TodoService) ListTodos(ctx context.Context) ([]*models.Todo, error) {
	return s.store.ListTodos(ctx)
}

// AssignTodo assigns a todo to one or more users, each starting at
// "in progress". Guarded: assignment mutates other users' task lists, so
// an anonymous caller is rejected. The batch is atomic: either every
// assignment is created or none is.
func (s *TodoService) AssignTodo(ctx context.Context, todoID int64, userIDs []int64) ([]*Assignment, error) {
	if err := check(ctx, Authenticated); err != nil {
		return nil, err
	}
	if len(userIDs) == 0 {
		return nil, errs.Validationf("at least one user id is required")
	}

	assignments, err := s.store.AssignTodo(ctx, todoID, userIDs)
	if err != nil {
		s.logger.Warn("assign todo failed", "todo_id", todoID, "error", err)
		return nil, err
	}

	s.logger.Info("todo assigned", "todo_id", todoID, "users", len(assignments))
	return s.resolver.resolveAssignments(ctx, assignments)
}

// UpdateMyAssignmentStatus sets the calling principal's status on a todo.
// Guarded and principal-scoped: the assignment is looked up by (principal,
// todo), so another user's assignment is indistinguishable from an absent
// one and fails with ErrNotFound.
func (s *TodoService) UpdateMyAssignmentStatus(ctx context.Context, todoID int64, status string) (*Assignment, error) {
	if err := check(ctx, Authenticated); err != nil {
		return nil, err
	}
	if !models.ValidStatus(status) {
		return nil, errs.Validationf("status must be %q or %q", models.StatusInProgress, models.StatusDone)
	}
	principal := middleware.PrincipalFrom(ctx)

	assignment, err := s.store.UpdateAssignmentStatus(ctx, principal.ID, todoID, status)
	if err != nil {
		s.logger.Warn("update assignment status failed",
			"user_id", principal.ID, "todo_id", todoID, "error", err)
		return nil, err
	}
	return s.resolver.resolveAssignment(ctx, assignment)
}

// MyAssignments lists the calling principal's assignments with their todos
// resolved. Guarded.
func (s *TodoService) MyAssignments(ctx context.Context) ([]*Assignment, error) {
	if err := check(ctx, Authenticated); err != nil {
		return nil, err
	}
	principal := middleware.PrincipalFrom(ctx)

	assignments, err := s.store.ListAssignmentsForUser(ctx, principal.ID)
	if err != nil {
		return nil, err
	}
	return s.resolver.resolveAssignments(ctx, assignments)
}
