package service

import (
	"context"
	"fmt"

	"github.com/khairulz/tripmate/internal/models"
	"github.com/khairulz/tripmate/internal/storage"
)

// Expense is an expense as callers see it: the stored id references
// replaced by the entities they point to. Raw ids never cross this
// boundary.
type Expense struct {
	ID         int64          `json:"id"`
	Item       string         `json:"item"`
	Value      float64        `json:"value"`
	Currency   string         `json:"currency"`
	SharedWith []*models.User `json:"sharedWith"`
	User       *models.User   `json:"user"`
	CreatedAt  int64          `json:"createdAt"`
}

// Assignment is an assignment with its user and todo references resolved.
type Assignment struct {
	ID        int64        `json:"id"`
	Status    string       `json:"status"`
	User      *models.User `json:"user"`
	Todo      *models.Todo `json:"todo"`
	CreatedAt int64        `json:"createdAt"`
}

// resolver lazily expands stored foreign keys into full entities at read
// time. All resolutions are read-only.
type resolver struct {
	store storage.Store
}

// resolveExpense expands one expense. SharedWith ids that no longer
// resolve to a live user are silently dropped; an empty or nil id list
// yields an empty slice, never nil and never an error.
func (r *resolver) resolveExpense(ctx context.Context, expense *models.Expense) (*Expense, error) {
	users, err := r.store.GetUsersByIDs(ctx, expense.SharedWith)
	if err != nil {
		return nil, fmt.Errorf("resolve sharedWith: %w", err)
	}

	shared := make([]*models.User, 0, len(expense.SharedWith))
	for _, id := range expense.SharedWith {
		if user, ok := users[id]; ok {
			shared = append(shared, user)
		}
	}

	owner, err := r.store.GetUserByID(ctx, expense.UserID)
	if err != nil {
		return nil, fmt.Errorf("resolve expense owner: %w", err)
	}

	return &Expense{
		ID:         expense.ID,
		Item:       expense.Item,
		Value:      expense.Value,
		Currency:   expense.Currency,
		SharedWith: shared,
		User:       owner,
		CreatedAt:  expense.CreatedAt,
	}, nil
}

// resolveExpenses expands a list of expenses with a single batched user
// lookup covering every sharedWith list and every owner.
func (r *resolver) resolveExpenses(ctx context.Context, expenses []*models.Expense) ([]*Expense, error) {
	var ids []int64
	seen := make(map[int64]bool)
	collect := func(id int64) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, expense := range expenses {
		collect(expense.UserID)
		for _, id := range expense.SharedWith {
			collect(id)
		}
	}

	users, err := r.store.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve users: %w", err)
	}

	resolved := make([]*Expense, 0, len(expenses))
	for _, expense := range expenses {
		shared := make([]*models.User, 0, len(expense.SharedWith))
		for _, id := range expense.SharedWith {
			if user, ok := users[id]; ok {
				shared = append(shared, user)
			}
		}
		resolved = append(resolved, &Expense{
			ID:         expense.ID,
			Item:       expense.Item,
			Value:      expense.Value,
			Currency:   expense.Currency,
			SharedWith: shared,
			User:       users[expense.UserID],
			CreatedAt:  expense.CreatedAt,
		})
	}
	return resolved, nil
}

// resolveAssignment expands an assignment's user and todo references.
func (r *resolver) resolveAssignment(ctx context.Context, assignment *models.Assignment) (*Assignment, error) {
	user, err := r.store.GetUserByID(ctx, assignment.UserID)
	if err != nil {
		return nil, fmt.Errorf("resolve assignment user: %w", err)
	}
	todo, err := r.store.GetTodo(ctx, assignment.TodoID)
	if err != nil {
		return nil, fmt.Errorf("resolve assignment todo: %w", err)
	}

	return &Assignment{
		ID:        assignment.ID,
		Status:    assignment.Status,
		User:      user,
		Todo:      todo,
		CreatedAt: assignment.CreatedAt,
	}, nil
}

// resolveAssignments expands a list of assignments.
func (r *resolver) resolveAssignments(ctx context.Context, assignments []*models.Assignment) ([]*Assignment, error) {
	resolved := make([]*Assignment, 0, len(assignments))
	for _, assignment := range assignments {
		a, err := r.resolveAssignment(ctx, assignment)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, a)
	}
	return resolved, nil
}
