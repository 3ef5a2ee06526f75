package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/khairulz/tripmate/internal/errs"
	"github.com/khairulz/tripmate/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "tripmate-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func mustCreateUser(t *testing.T, store *SQLiteStore, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username}
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser(%q) failed: %v", username, err)
	}
	return user
}

func TestUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateUser assigns id and timestamp", func(t *testing.T) {
		user := mustCreateUser(t, store, "alice")
		if user.ID == 0 {
			t.Error("Expected user ID to be assigned")
		}
		if user.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}
		if user.PurchaseFlightTicket {
			t.Error("Expected purchase flag to default to false")
		}
	})

	t.Run("duplicate username fails with ValidationError and leaves one row", func(t *testing.T) {
		mustCreateUser(t, store, "bob")

		err := store.CreateUser(ctx, &models.User{Username: "bob"})
		if !errs.IsValidation(err) {
			t.Fatalf("Expected ValidationError, got %v", err)
		}

		users, err := store.ListUsers(ctx)
		if err != nil {
			t.Fatalf("ListUsers failed: %v", err)
		}
		count := 0
		for _, u := range users {
			if u.Username == "bob" {
				count++
			}
		}
		if count != 1 {
			t.Errorf("Expected exactly one bob, got %d", count)
		}
	})

	t.Run("GetUserByUsername absence is not an error", func(t *testing.T) {
		user, err := store.GetUserByUsername(ctx, "nobody")
		if err != nil {
			t.Fatalf("Expected nil error for absent user, got %v", err)
		}
		if user != nil {
			t.Errorf("Expected nil user, got %+v", user)
		}
	})

	t.Run("GetUserByID absent is NotFound", func(t *testing.T) {
		_, err := store.GetUserByID(ctx, 99999)
		if !errors.Is(err, errs.ErrNotFound) {
			t.Fatalf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("GetUsersByIDs omits missing ids", func(t *testing.T) {
		u1 := mustCreateUser(t, store, "carol")
		u2 := mustCreateUser(t, store, "dave")

		users, err := store.GetUsersByIDs(ctx, []int64{u1.ID, 99999, u2.ID})
		if err != nil {
			t.Fatalf("GetUsersByIDs failed: %v", err)
		}
		if len(users) != 2 {
			t.Errorf("Expected 2 users, got %d", len(users))
		}
		if users[u1.ID] == nil || users[u2.ID] == nil {
			t.Error("Expected both existing users in result")
		}
	})

	t.Run("GetUsersByIDs with empty list returns empty map", func(t *testing.T) {
		users, err := store.GetUsersByIDs(ctx, nil)
		if err != nil {
			t.Fatalf("GetUsersByIDs failed: %v", err)
		}
		if users == nil || len(users) != 0 {
			t.Errorf("Expected empty map, got %v", users)
		}
	})

	t.Run("SetPurchaseFlightTicket is idempotent", func(t *testing.T) {
		user := mustCreateUser(t, store, "erin")

		for i := 0; i < 2; i++ {
			if err := store.SetPurchaseFlightTicket(ctx, user.ID, true); err != nil {
				t.Fatalf("SetPurchaseFlightTicket round %d failed: %v", i+1, err)
			}
		}

		got, err := store.GetUserByID(ctx, user.ID)
		if err != nil {
			t.Fatalf("GetUserByID failed: %v", err)
		}
		if !got.PurchaseFlightTicket {
			t.Error("Expected purchase flag to be true")
		}
	})

	t.Run("SetPurchaseFlightTicket on unknown user is NotFound", func(t *testing.T) {
		err := store.SetPurchaseFlightTicket(ctx, 99999, true)
		if !errors.Is(err, errs.ErrNotFound) {
			t.Fatalf("Expected ErrNotFound, got %v", err)
		}
	})
}

func TestEmptyListsAreNotNil(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	users, err := store.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	if users == nil {
		t.Error("Expected empty user slice, got nil")
	}

	expenses, err := store.ListExpenses(ctx)
	if err != nil {
		t.Fatalf("ListExpenses failed: %v", err)
	}
	if expenses == nil {
		t.Error("Expected empty expense slice, got nil")
	}

	todos, err := store.ListTodos(ctx)
	if err != nil {
		t.Fatalf("ListTodos failed: %v", err)
	}
	if todos == nil {
		t.Error("Expected empty todo slice, got nil")
	}

	assignments, err := store.ListAssignmentsForUser(ctx, 1)
	if err != nil {
		t.Fatalf("ListAssignmentsForUser failed: %v", err)
	}
	if assignments == nil {
		t.Error("Expected empty assignment slice, got nil")
	}
}

func TestExpenses(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	owner := mustCreateUser(t, store, "owner")
	mate := mustCreateUser(t, store, "mate")

	t.Run("CreateExpense defaults currency and stores id list", func(t *testing.T) {
		expense := &models.Expense{
			Item:       "lunch",
			Value:      12.50,
			SharedWith: []int64{mate.ID},
			UserID:     owner.ID,
		}
		if err := store.CreateExpense(ctx, expense); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
		if expense.ID == 0 {
			t.Error("Expected expense ID to be assigned")
		}
		if expense.Currency != models.DefaultCurrency {
			t.Errorf("Expected default currency %q, got %q", models.DefaultCurrency, expense.Currency)
		}

		got, err := store.GetExpense(ctx, expense.ID)
		if err != nil {
			t.Fatalf("GetExpense failed: %v", err)
		}
		if len(got.SharedWith) != 1 || got.SharedWith[0] != mate.ID {
			t.Errorf("SharedWith mismatch: got %v", got.SharedWith)
		}
	})

	t.Run("nil sharedWith reads back as empty list", func(t *testing.T) {
		expense := &models.Expense{Item: "taxi", Value: 8, UserID: owner.ID}
		if err := store.CreateExpense(ctx, expense); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}

		got, err := store.GetExpense(ctx, expense.ID)
		if err != nil {
			t.Fatalf("GetExpense failed: %v", err)
		}
		if got.SharedWith == nil {
			t.Error("Expected empty slice, got nil")
		}
		if len(got.SharedWith) != 0 {
			t.Errorf("Expected no shared ids, got %v", got.SharedWith)
		}
	})

	t.Run("UpdateExpense full-replaces mutable fields", func(t *testing.T) {
		expense := &models.Expense{Item: "dinner", Value: 30, UserID: owner.ID}
		if err := store.CreateExpense(ctx, expense); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}

		expense.Item = "dinner (corrected)"
		expense.Value = 35.50
		expense.SharedWith = []int64{mate.ID}
		expense.Currency = "SGD"
		if err := store.UpdateExpense(ctx, expense); err != nil {
			t.Fatalf("UpdateExpense failed: %v", err)
		}

		got, err := store.GetExpense(ctx, expense.ID)
		if err != nil {
			t.Fatalf("GetExpense failed: %v", err)
		}
		if got.Item != "dinner (corrected)" || got.Value != 35.50 || got.Currency != "SGD" {
			t.Errorf("Update not applied: %+v", got)
		}
		if len(got.SharedWith) != 1 {
			t.Errorf("SharedWith not replaced: %v", got.SharedWith)
		}
	})

	t.Run("UpdateExpense on unknown id is NotFound", func(t *testing.T) {
		err := store.UpdateExpense(ctx, &models.Expense{ID: 99999, Item: "x", Value: 1})
		if !errors.Is(err, errs.ErrNotFound) {
			t.Fatalf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("DeleteExpense twice: second call is NotFound", func(t *testing.T) {
		expense := &models.Expense{Item: "snacks", Value: 5, UserID: owner.ID}
		if err := store.CreateExpense(ctx, expense); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}

		if err := store.DeleteExpense(ctx, expense.ID); err != nil {
			t.Fatalf("First DeleteExpense failed: %v", err)
		}
		err := store.DeleteExpense(ctx, expense.ID)
		if !errors.Is(err, errs.ErrNotFound) {
			t.Fatalf("Expected ErrNotFound on second delete, got %v", err)
		}
	})
}

func TestTodos(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateTodo persists opaque details", func(t *testing.T) {
		todo := &models.Todo{
			Item: "book hostel",
			Details: map[string]any{
				"city": "Penang",
				"budget": map[string]any{
					"max": 120.0,
				},
			},
		}
		if err := store.CreateTodo(ctx, todo); err != nil {
			t.Fatalf("CreateTodo failed: %v", err)
		}

		got, err := store.GetTodo(ctx, todo.ID)
		if err != nil {
			t.Fatalf("GetTodo failed: %v", err)
		}
		if got.Details["city"] != "Penang" {
			t.Errorf("Details mismatch: %v", got.Details)
		}
		budget, ok := got.Details["budget"].(map[string]any)
		if !ok || budget["max"] != 120.0 {
			t.Errorf("Nested details mismatch: %v", got.Details)
		}
	})

	t.Run("duplicate item fails with ValidationError", func(t *testing.T) {
		if err := store.CreateTodo(ctx, &models.Todo{Item: "pack bags"}); err != nil {
			t.Fatalf("CreateTodo failed: %v", err)
		}
		err := store.CreateTodo(ctx, &models.Todo{Item: "pack bags"})
		if !errs.IsValidation(err) {
			t.Fatalf("Expected ValidationError, got %v", err)
		}
	})

	t.Run("todo without details reads back nil", func(t *testing.T) {
		todo := &models.Todo{Item: "buy sunscreen"}
		if err := store.CreateTodo(ctx, todo); err != nil {
			t.Fatalf("CreateTodo failed: %v", err)
		}
		got, err := store.GetTodo(ctx, todo.ID)
		if err != nil {
			t.Fatalf("GetTodo failed: %v", err)
		}
		if got.Details != nil {
			t.Errorf("Expected nil details, got %v", got.Details)
		}
	})
}

func TestAssignments(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	u1 := mustCreateUser(t, store, "u1")
	u2 := mustCreateUser(t, store, "u2")

	mustCreateTodo := func(item string) *models.Todo {
		todo := &models.Todo{Item: item}
		if err := store.CreateTodo(ctx, todo); err != nil {
			t.Fatalf("CreateTodo(%q) failed: %v", item, err)
		}
		return todo
	}

	t.Run("AssignTodo creates one in-progress assignment per user", func(t *testing.T) {
		todo := mustCreateTodo("plan route")

		assignments, err := store.AssignTodo(ctx, todo.ID, []int64{u1.ID, u2.ID})
		if err != nil {
			t.Fatalf("AssignTodo failed: %v", err)
		}
		if len(assignments) != 2 {
			t.Fatalf("Expected 2 assignments, got %d", len(assignments))
		}
		for _, a := range assignments {
			if a.Status != models.StatusInProgress {
				t.Errorf("Expected initial status %q, got %q", models.StatusInProgress, a.Status)
			}
		}
	})

	t.Run("batch with an existing pair rolls back entirely", func(t *testing.T) {
		todo := mustCreateTodo("get visas")

		if _, err := store.AssignTodo(ctx, todo.ID, []int64{u1.ID}); err != nil {
			t.Fatalf("Initial AssignTodo failed: %v", err)
		}

		// u1 is already assigned; u2's insert must not survive the rollback.
		_, err := store.AssignTodo(ctx, todo.ID, []int64{u2.ID, u1.ID})
		if !errs.IsValidation(err) {
			t.Fatalf("Expected ValidationError, got %v", err)
		}

		_, err = store.GetAssignment(ctx, u2.ID, todo.ID)
		if !errors.Is(err, errs.ErrNotFound) {
			t.Fatalf("Expected u2 assignment rolled back, got %v", err)
		}
	})

	t.Run("AssignTodo on unknown todo is NotFound", func(t *testing.T) {
		_, err := store.AssignTodo(ctx, 99999, []int64{u1.ID})
		if !errors.Is(err, errs.ErrNotFound) {
			t.Fatalf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("AssignTodo on unknown user rolls back", func(t *testing.T) {
		todo := mustCreateTodo("reserve ferry")

		_, err := store.AssignTodo(ctx, todo.ID, []int64{u1.ID, 99999})
		if !errors.Is(err, errs.ErrNotFound) {
			t.Fatalf("Expected ErrNotFound, got %v", err)
		}

		_, err = store.GetAssignment(ctx, u1.ID, todo.ID)
		if !errors.Is(err, errs.ErrNotFound) {
			t.Fatalf("Expected u1 assignment rolled back, got %v", err)
		}
	})

	t.Run("UpdateAssignmentStatus scoped to the owning user", func(t *testing.T) {
		todo := mustCreateTodo("exchange money")

		if _, err := store.AssignTodo(ctx, todo.ID, []int64{u1.ID}); err != nil {
			t.Fatalf("AssignTodo failed: %v", err)
		}

		// u2 has no assignment for this todo; the update must not leak
		// whether u1 has one.
		_, err := store.UpdateAssignmentStatus(ctx, u2.ID, todo.ID, models.StatusDone)
		if !errors.Is(err, errs.ErrNotFound) {
			t.Fatalf("Expected ErrNotFound for foreign assignment, got %v", err)
		}

		updated, err := store.UpdateAssignmentStatus(ctx, u1.ID, todo.ID, models.StatusDone)
		if err != nil {
			t.Fatalf("UpdateAssignmentStatus failed: %v", err)
		}
		if updated.Status != models.StatusDone {
			t.Errorf("Expected status %q, got %q", models.StatusDone, updated.Status)
		}
	})

	t.Run("ListAssignmentsForUser returns only that user's rows", func(t *testing.T) {
		assignments, err := store.ListAssignmentsForUser(ctx, u1.ID)
		if err != nil {
			t.Fatalf("ListAssignmentsForUser failed: %v", err)
		}
		for _, a := range assignments {
			if a.UserID != u1.ID {
				t.Errorf("Got assignment for user %d, want %d", a.UserID, u1.ID)
			}
		}
	})
}
