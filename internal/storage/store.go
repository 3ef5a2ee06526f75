// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/khairulz/tripmate/internal/models"
)

// Store defines the interface for entity storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the service layer.
//
// Uniqueness rules (username, todo item, the (user, todo) assignment pair)
// are enforced by the storage layer itself, atomically; implementations
// must not rely on a prior existence check. Violations surface as
// errs.ValidationError; absent rows as errs.ErrNotFound.
type Store interface {
	// CreateUser persists a new user. The user.ID and user.CreatedAt
	// fields are populated by the store. A duplicate username fails with
	// a ValidationError.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByID retrieves a user by id. Returns errs.ErrNotFound if the
	// user does not exist.
	GetUserByID(ctx context.Context, id int64) (*models.User, error)

	// GetUserByUsername retrieves a user by username. Absence is a normal
	// (nil, nil) result, not an error: callers decide what a missing user
	// means (sign-in turns it into a ValidationError).
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// ListUsers returns all users.
	ListUsers(ctx context.Context) ([]*models.User, error)

	// GetUsersByIDs retrieves multiple users by id, returning a map keyed
	// by id. Ids that don't resolve to a live user are omitted.
	GetUsersByIDs(ctx context.Context, ids []int64) (map[int64]*models.User, error)

	// SetPurchaseFlightTicket sets the purchase flag for a user.
	// Idempotent; fails with errs.ErrNotFound for an unknown id.
	SetPurchaseFlightTicket(ctx context.Context, userID int64, value bool) error

	// CreateExpense persists a new expense. ID and CreatedAt are populated
	// by the store; an empty currency is defaulted. SharedWith is stored
	// as the raw id list. Resolution to users happens at read time above
	// the store.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense retrieves an expense by id. Returns errs.ErrNotFound if
	// no row matches.
	GetExpense(ctx context.Context, id int64) (*models.Expense, error)

	// ListExpenses returns all expenses.
	ListExpenses(ctx context.Context) ([]*models.Expense, error)

	// UpdateExpense full-replaces the mutable fields (item, value,
	// sharedWith, currency) of the expense with the given id. There are no
	// partial-field semantics; callers resend unchanged fields. Fails with
	// errs.ErrNotFound if no row matches.
	UpdateExpense(ctx context.Context, expense *models.Expense) error

	// DeleteExpense removes an expense. Fails with errs.ErrNotFound if
	// zero rows were affected. Assignments and todos are untouched.
	DeleteExpense(ctx context.Context, id int64) error

	// CreateTodo persists a new todo. A duplicate item fails with a
	// ValidationError.
	CreateTodo(ctx context.Context, todo *models.Todo) error

	// GetTodo retrieves a todo by id. Returns errs.ErrNotFound if absent.
	GetTodo(ctx context.Context, id int64) (*models.Todo, error)

	// ListTodos returns all todos.
	ListTodos(ctx context.Context) ([]*models.Todo, error)

	// AssignTodo creates one Assignment per user id, all with status
	// "in progress", in a single transaction. The batch is all-or-nothing:
	// if any (user, todo) pair already has an assignment, or any user or
	// the todo does not exist, every insert rolls back and the call fails.
	AssignTodo(ctx context.Context, todoID int64, userIDs []int64) ([]*models.Assignment, error)

	// GetAssignment retrieves the assignment for a (user, todo) pair.
	// Returns errs.ErrNotFound if none exists.
	GetAssignment(ctx context.Context, userID, todoID int64) (*models.Assignment, error)

	// UpdateAssignmentStatus sets the status of the assignment for a
	// (user, todo) pair and returns the updated assignment. Returns
	// errs.ErrNotFound if no such assignment exists; another user's
	// assignment is indistinguishable from an absent one.
	UpdateAssignmentStatus(ctx context.Context, userID, todoID int64, status string) (*models.Assignment, error)

	// ListAssignmentsForUser returns all assignments for one user.
	ListAssignmentsForUser(ctx context.Context, userID int64) ([]*models.Assignment, error)

	// Close releases any resources held by the store.
	Close() error
}
