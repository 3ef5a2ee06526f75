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

// details is opaque to the store: a JSON blob in, the same JSON blob out.

func encodeDetails(details map[string]any) (sql.NullString, error) {
	if details == nil {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(details)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to encode details: %w", err)
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func decodeDetails(raw sql.NullString) (map[string]any, error) {
	if !raw.Valid || raw.String == "" {
		return nil, nil
	}
	var details map[string]any
	if err := json.Unmarshal([]byte(raw.String), &details); err != nil {
		return nil, fmt.Errorf("failed to decode details: %w", err)
	}
	return details, nil
}

// CreateTodo persists a new todo. The UNIQUE constraint on item enforces
// duplicate rejection.
func (s *SQLiteStore) CreateTodo(ctx context.Context, todo *models.Todo) error {
	if todo.CreatedAt == 0 {
		todo.CreatedAt = time.Now().Unix()
	}

	details, err := encodeDetails(todo.Details)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO todos (item, details, created_at) VALUES (?, ?, ?)",
		todo.Item, details, todo.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return errs.Validationf("todo %q already exists", todo.Item)
		}
		return fmt.Errorf("failed to create todo: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read todo id: %w", err)
	}
	todo.ID = id
	return nil
}

// GetTodo retrieves a todo by id.
func (s *SQLiteStore) GetTodo(ctx context.Context, id int64) (*models.Todo, error) {
	todo := &models.Todo{}
	var details sql.NullString
	err := s.db.QueryRowContext(ctx,
		"SELECT id, item, details, created_at FROM todos WHERE id = ?",
		id,
	).Scan(&todo.ID, &todo.Item, &details, &todo.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("todo %d: %w", id, errs.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get todo: %w", err)
	}

	todo.Details, err = decodeDetails(details)
	if err != nil {
		return nil, err
	}
	return todo, nil
}

// ListTodos returns all todos ordered by id.
func (s *SQLiteStore) ListTodos(ctx context.Context) ([]*models.Todo, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, item, details, created_at FROM todos ORDER BY id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	defer rows.Close()

	todos := make([]*models.Todo, 0)
	for rows.Next() {
		todo := &models.Todo{}
		var details sql.NullString
		if err := rows.Scan(&todo.ID, &todo.Item, &details, &todo.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan todo: %w", err)
		}
		todo.Details, err = decodeDetails(details)
		if err != nil {
			return nil, err
		}
		todos = append(todos, todo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating todos: %w", err)
	}
	return todos, nil
}
