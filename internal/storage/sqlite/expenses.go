package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/khairulz/tripmate/internal/errs"
	"github.com/khairulz/tripmate/internal/models"
)

// sharedWith is (de)serialized as a JSON integer array in the shared_with
// column. An ordered id list on the expense row, not a join table: sharing
// has no lifecycle of its own.

func encodeSharedWith(ids []int64) (string, error) {
	if ids == nil {
		ids = []int64{}
	}
	b, err := json.Marshal(ids)
	if err != nil {
		return "", fmt.Errorf("failed to encode shared_with: %w", err)
	}
	return string(b), nil
}

func decodeSharedWith(raw string) ([]int64, error) {
	ids := []int64{}
	if raw == "" {
		return ids, nil
	}
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, fmt.Errorf("failed to decode shared_with: %w", err)
	}
	return ids, nil
}

// CreateExpense persists a new expense. ID and CreatedAt are assigned here;
// an empty currency falls back to the default.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}
	if expense.Currency == "" {
		expense.Currency = models.DefaultCurrency
	}

	shared, err := encodeSharedWith(expense.SharedWith)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO expenses (item, value, currency, shared_with, user_id, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		expense.Item, expense.Value, expense.Currency, shared, expense.UserID, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create expense: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read expense id: %w", err)
	}
	expense.ID = id
	return nil
}

func scanExpense(scan func(dest ...any) error) (*models.Expense, error) {
	expense := &models.Expense{}
	var shared string
	if err := scan(&expense.ID, &expense.Item, &expense.Value, &expense.Currency,
		&shared, &expense.UserID, &expense.CreatedAt); err != nil {
		return nil, err
	}

	ids, err := decodeSharedWith(shared)
	if err != nil {
		return nil, err
	}
	expense.SharedWith = ids
	return expense, nil
}

// GetExpense retrieves an expense by id.
func (s *SQLiteStore) GetExpense(ctx context.Context, id int64) (*models.Expense, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, item, value, currency, shared_with, user_id, created_at FROM expenses WHERE id = ?",
		id,
	)

	expense, err := scanExpense(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("expense %d: %w", id, errs.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	return expense, nil
}

// ListExpenses returns all expenses ordered by id.
func (s *SQLiteStore) ListExpenses(ctx context.Context) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, item, value, currency, shared_with, user_id, created_at FROM expenses ORDER BY id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	expenses := make([]*models.Expense, 0)
	for rows.Next() {
		expense, err := scanExpense(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expenses: %w", err)
	}
	return expenses, nil
}

// UpdateExpense full-replaces the mutable fields of an expense. Rows are
// only ever written whole, so concurrent readers never see a partial row;
// concurrent writers are ordered by SQLite, last write wins.
func (s *SQLiteStore) UpdateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.Currency == "" {
		expense.Currency = models.DefaultCurrency
	}

	shared, err := encodeSharedWith(expense.SharedWith)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		"UPDATE expenses SET item = ?, value = ?, currency = ?, shared_with = ? WHERE id = ?",
		expense.Item, expense.Value, expense.Currency, shared, expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("expense %d: %w", expense.ID, errs.ErrNotFound)
	}
	return nil
}

// DeleteExpense removes an expense. Zero affected rows means the expense
// was never there (or already deleted) and fails with ErrNotFound.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("expense %d: %w", id, errs.ErrNotFound)
	}
	return nil
}
