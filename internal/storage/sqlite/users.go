package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/khairulz/tripmate/internal/errs"
	"github.com/khairulz/tripmate/internal/models"
)

// CreateUser inserts a new user. The UNIQUE constraint on username is the
// enforcement mechanism for duplicates; there is no prior existence check.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	if user.CreatedAt == 0 {
		user.CreatedAt = time.Now().Unix()
	}

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO users (username, purchase_flight_ticket, created_at) VALUES (?, ?, ?)",
		user.Username, user.PurchaseFlightTicket, user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return errs.Validationf("username %q is already taken", user.Username)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read user id: %w", err)
	}
	user.ID = id
	return nil
}

// GetUserByID retrieves a user by id.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	user := &models.User{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, username, purchase_flight_ticket, created_at FROM users WHERE id = ?",
		id,
	).Scan(&user.ID, &user.Username, &user.PurchaseFlightTicket, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %d: %w", id, errs.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user, nil
}

// GetUserByUsername retrieves a user by username. Absence is a normal
// (nil, nil) result: sign-in decides what a missing user means.
func (s *SQLiteStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	user := &models.User{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, username, purchase_flight_ticket, created_at FROM users WHERE username = ?",
		username,
	).Scan(&user.ID, &user.Username, &user.PurchaseFlightTicket, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return user, nil
}

// ListUsers returns all users ordered by id.
func (s *SQLiteStore) ListUsers(ctx context.Context) ([]*models.User, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, username, purchase_flight_ticket, created_at FROM users ORDER BY id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	// Non-nil even when empty so the list serializes as [], not null.
	users := make([]*models.User, 0)
	for rows.Next() {
		user := &models.User{}
		if err := rows.Scan(&user.ID, &user.Username, &user.PurchaseFlightTicket, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	return users, nil
}

// GetUsersByIDs retrieves multiple users by their ids.
// Returns a map of user id to User. Ids that don't exist are omitted from
// the result, so callers above can drop stale references silently.
func (s *SQLiteStore) GetUsersByIDs(ctx context.Context, ids []int64) (map[int64]*models.User, error) {
	users := make(map[int64]*models.User)
	if len(ids) == 0 {
		return users, nil
	}

	query := "SELECT id, username, purchase_flight_ticket, created_at FROM users WHERE id IN (?" +
		strings.Repeat(", ?", len(ids)-1) + ")"

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get users by ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		user := &models.User{}
		if err := rows.Scan(&user.ID, &user.Username, &user.PurchaseFlightTicket, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users[user.ID] = user
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	return users, nil
}

// SetPurchaseFlightTicket sets the purchase flag. Idempotent: setting the
// current value again still counts the row as updated.
func (s *SQLiteStore) SetPurchaseFlightTicket(ctx context.Context, userID int64, value bool) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET purchase_flight_ticket = ? WHERE id = ?",
		value, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to set purchase flag: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("user %d: %w", userID, errs.ErrNotFound)
	}
	return nil
}
