// Package service implements the operation surface: the closed set of
// named operations the transport binds to. Each operation is a single-shot
// transition on the store, gated by zero or more guards evaluated before
// the body. Every store failure propagates to the caller; nothing is
// swallowed.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/khairulz/tripmate/internal/auth"
	"github.com/khairulz/tripmate/internal/errs"
	"github.com/khairulz/tripmate/internal/middleware"
	"github.com/khairulz/tripmate/internal/models"
	"github.com/khairulz/tripmate/internal/storage"
)

// UserService implements the user and sign-in operations.
type UserService struct {
	store  storage.Store
	tokens *auth.TokenManager
	logger *slog.Logger
}

// NewUserService creates a user service backed by the given store and
// token manager.
func NewUserService(store storage.Store, tokens *auth.TokenManager, logger *slog.Logger) *UserService {
	return &UserService{store: store, tokens: tokens, logger: logger}
}

// ListUsers returns all registered users. Open operation.
func (s *UserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.store.ListUsers(ctx)
}

// GetUser returns the user with the given username, or ErrNotFound.
func (s *UserService) GetUser(ctx context.Context, username string) (*models.User, error) {
	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user %q: %w", username, errs.ErrNotFound)
	}
	return user, nil
}

// CreateUser signs up a new user and issues a token for the fresh account.
// Sign-up is open; duplicate usernames are rejected by the store.
func (s *UserService) CreateUser(ctx context.Context, username string) (*models.User, string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, "", errs.Validationf("username must not be empty")
	}

	user := &models.User{Username: username}
	if err := s.store.CreateUser(ctx, user); err != nil {
		s.logger.Warn("sign-up failed", "username", username, "error", err)
		return nil, "", err
	}

	token, err := s.tokens.Issue(auth.Principal{ID: user.ID, Username: user.Username})
	if err != nil {
		s.logger.Error("token issue failed", "user_id", user.ID, "error", err)
		return nil, "", err
	}

	s.logger.Info("user created", "user_id", user.ID, "username", user.Username)
	return user, token, nil
}

// SignIn resolves a username to a principal and issues a token. An unknown
// username is a ValidationError (a user-facing "no such credentials"), not
// a NotFound.
func (s *UserService) SignIn(ctx context.Context, username string) (*models.User, string, error) {
	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", errs.Validationf("no user found with these credentials")
	}

	token, err := s.tokens.Issue(auth.Principal{ID: user.ID, Username: user.Username})
	if err != nil {
		s.logger.Error("token issue failed", "user_id", user.ID, "error", err)
		return nil, "", err
	}

	s.logger.Info("user signed in", "user_id", user.ID, "username", user.Username)
	return user, token, nil
}

// Me returns the calling principal's stored user row. Guarded.
func (s *UserService) Me(ctx context.Context) (*models.User, error) {
	if err := check(ctx, Authenticated); err != nil {
		return nil, err
	}
	principal := middleware.PrincipalFrom(ctx)
	return s.store.GetUserByID(ctx, principal.ID)
}

// SetPurchaseFlightTicket records the flight-ticket purchase decision for
// the calling principal. Guarded; acts on the principal's own row only,
// and the target user id is never taken from the client.
func (s *UserService) SetPurchaseFlightTicket(ctx context.Context, value bool) (*models.User, error) {
	if err := check(ctx, Authenticated); err != nil {
		return nil, err
	}
	principal := middleware.PrincipalFrom(ctx)

	if err := s.store.SetPurchaseFlightTicket(ctx, principal.ID, value); err != nil {
		s.logger.Warn("set purchase flag failed", "user_id", principal.ID, "error", err)
		return nil, err
	}
	return s.store.GetUserByID(ctx, principal.ID)
}
