package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/khairulz/tripmate/internal/errs"
	"github.com/khairulz/tripmate/internal/models"
)

// AssignTodo creates one assignment per user, all inside a single
// transaction. All-or-nothing: a duplicate (user, todo) pair, an unknown
// user, or an unknown todo rolls back every insert. Partial assignment
// never survives.
func (s *SQLiteStore) AssignTodo(ctx context.Context, todoID int64, userIDs []int64) ([]*models.Assignment, error) {
	if len(userIDs) == 0 {
		return nil, errs.Validationf("at least one user id is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// The todo must exist; foreign keys alone would report this as a
	// generic constraint error per insert.
	var exists int
	err = tx.QueryRowContext(ctx, "SELECT 1 FROM todos WHERE id = ?", todoID).Scan(&exists)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("todo %d: %w", todoID, errs.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to check todo: %w", err)
	}

	now := time.Now().Unix()
	assignments := make([]*models.Assignment, 0, len(userIDs))
	for _, userID := range userIDs {
		res, err := tx.ExecContext(ctx,
			"INSERT INTO assignments (user_id, todo_id, status, created_at) VALUES (?, ?, ?, ?)",
			userID, todoID, models.StatusInProgress, now,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return nil, errs.Validationf("user %d is already assigned to todo %d", userID, todoID)
			}
			if isForeignKeyViolation(err) {
				return nil, fmt.Errorf("user %d: %w", userID, errs.ErrNotFound)
			}
			return nil, fmt.Errorf("failed to create assignment for user %d: %w", userID, err)
		}

		id, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("failed to read assignment id: %w", err)
		}
		assignments = append(assignments, &models.Assignment{
			ID:        id,
			UserID:    userID,
			TodoID:    todoID,
			Status:    models.StatusInProgress,
			CreatedAt: now,
		})
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return assignments, nil
}

// GetAssignment retrieves the assignment for a (user, todo) pair.
func (s *SQLiteStore) GetAssignment(ctx context.Context, userID, todoID int64) (*models.Assignment, error) {
	assignment := &models.Assignment{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, user_id, todo_id, status, created_at FROM assignments WHERE user_id = ? AND todo_id = ?",
		userID, todoID,
	).Scan(&assignment.ID, &assignment.UserID, &assignment.TodoID, &assignment.Status, &assignment.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("assignment for user %d, todo %d: %w", userID, todoID, errs.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}
	return assignment, nil
}

// UpdateAssignmentStatus sets the status of the caller's assignment for a
// todo. Zero affected rows fails with ErrNotFound, whether the assignment
// is absent or belongs to a different user; the two cases are not
// distinguishable from the outside.
func (s *SQLiteStore) UpdateAssignmentStatus(ctx context.Context, userID, todoID int64, status string) (*models.Assignment, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE assignments SET status = ? WHERE user_id = ? AND todo_id = ?",
		status, userID, todoID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update assignment status: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("assignment for user %d, todo %d: %w", userID, todoID, errs.ErrNotFound)
	}

	return s.GetAssignment(ctx, userID, todoID)
}

// ListAssignmentsForUser returns all assignments for one user ordered by id.
func (s *SQLiteStore) ListAssignmentsForUser(ctx context.Context, userID int64) ([]*models.Assignment, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, user_id, todo_id, status, created_at FROM assignments WHERE user_id = ? ORDER BY id",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	defer rows.Close()

	assignments := make([]*models.Assignment, 0)
	for rows.Next() {
		assignment := &models.Assignment{}
		if err := rows.Scan(&assignment.ID, &assignment.UserID, &assignment.TodoID,
			&assignment.Status, &assignment.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		assignments = append(assignments, assignment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assignments: %w", err)
	}
	return assignments, nil
}
