package service

import (
	"context"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/khairulz/tripmate/internal/errs"
	"github.com/khairulz/tripmate/internal/middleware"
	"github.com/khairulz/tripmate/internal/models"
	"github.com/khairulz/tripmate/internal/storage"
)

// ExpenseService implements the expense operations.
//
// Creation, update, and delete require authentication. Update and delete do
// NOT check ownership: trip expenses are maintained collaboratively, so any
// signed-in user may correct any expense. Reads are open.
type ExpenseService struct {
	store    storage.Store
	logger   *slog.Logger
	resolver *resolver
}

// NewExpenseService creates an expense service backed by the given store.
func NewExpenseService(store storage.Store, logger *slog.Logger) *ExpenseService {
	return &ExpenseService{store: store, logger: logger, resolver: &resolver{store: store}}
}

// ExpenseInput carries the mutable fields of an expense. Update semantics
// are full replacement: unchanged fields must be resent, an absent
// SharedWith clears the list, an empty Currency resets to the default.
type ExpenseInput struct {
	Item       string  `json:"item"`
	Value      float64 `json:"value"`
	SharedWith []int64 `json:"sharedWith"`
	Currency   string  `json:"currency"`
}

// validate checks the input invariants: non-empty item, finite non-negative
// value with at most two fractional digits.
func (in *ExpenseInput) validate() error {
	if strings.TrimSpace(in.Item) == "" {
		return errs.Validationf("item must not be empty")
	}
	if math.IsNaN(in.Value) || math.IsInf(in.Value, 0) {
		return errs.Validationf("value must be a finite number")
	}
	if in.Value < 0 {
		return errs.Validationf("value must not be negative")
	}
	// Check the shortest decimal representation of the value; exact at any
	// magnitude, unlike a scaled-epsilon comparison.
	s := strconv.FormatFloat(in.Value, 'f', -1, 64)
	if dot := strings.IndexByte(s, '.'); dot >= 0 && len(s)-dot-1 > 2 {
		return errs.Validationf("value must have at most two fractional digits")
	}
	return nil
}

// ListExpenses returns all expenses with sharedWith and owner resolved.
func (s *ExpenseService) ListExpenses(ctx context.Context) ([]*Expense, error) {
	expenses, err := s.store.ListExpenses(ctx)
	if err != nil {
		return nil, err
	}
	return s.resolver.resolveExpenses(ctx, expenses)
}

// GetExpense returns one expense with sharedWith and owner resolved.
func (s *ExpenseService) GetExpense(ctx context.Context, id int64) (*Expense, error) {
	expense, err := s.store.GetExpense(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.resolver.resolveExpense(ctx, expense)
}

// CreateExpense records a new expense owned by the calling principal.
// Guarded.
func (s *ExpenseService) CreateExpense(ctx context.Context, input ExpenseInput) (*Expense, error) {
	if err := check(ctx, Authenticated); err != nil {
		return nil, err
	}
	if err := input.validate(); err != nil {
		return nil, err
	}
	principal := middleware.PrincipalFrom(ctx)

	expense := &models.Expense{
		Item:       input.Item,
		Value:      input.Value,
		Currency:   input.Currency,
		SharedWith: input.SharedWith,
		UserID:     principal.ID,
	}
	if err := s.store.CreateExpense(ctx, expense); err != nil {
		s.logger.Error("create expense failed", "user_id", principal.ID, "error", err)
		return nil, err
	}

	s.logger.Info("expense created", "expense_id", expense.ID, "user_id", principal.ID)
	return s.resolver.resolveExpense(ctx, expense)
}

// UpdateExpense full-replaces the mutable fields of an expense. Guarded.
func (s *ExpenseService) UpdateExpense(ctx context.Context, id int64, input ExpenseInput) (*Expense, error) {
	if err := check(ctx, Authenticated); err != nil {
		return nil, err
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	existing, err := s.store.GetExpense(ctx, id)
	if err != nil {
		return nil, err
	}

	expense := &models.Expense{
		ID:         id,
		Item:       input.Item,
		Value:      input.Value,
		Currency:   input.Currency,
		SharedWith: input.SharedWith,
		UserID:     existing.UserID,
		CreatedAt:  existing.CreatedAt,
	}
	if err := s.store.UpdateExpense(ctx, expense); err != nil {
		s.logger.Warn("update expense failed", "expense_id", id, "error", err)
		return nil, err
	}
	return s.resolver.resolveExpense(ctx, expense)
}

// DeleteExpense removes an expense. Guarded. Deleting a missing (or
// already deleted) expense fails with ErrNotFound; todos and assignments
// are never touched.
func (s *ExpenseService) DeleteExpense(ctx context.Context, id int64) error {
	if err := check(ctx, Authenticated); err != nil {
		return err
	}
	if err := s.store.DeleteExpense(ctx, id); err != nil {
		s.logger.Warn("delete expense failed", "expense_id", id, "error", err)
		return err
	}
	s.logger.Info("expense deleted", "expense_id", id)
	return nil
}
