package service

import (
	"context"

	"github.com/khairulz/tripmate/internal/errs"
	"github.com/khairulz/tripmate/internal/middleware"
)

// Guard is a precondition evaluated before an operation body runs. It
// returns nil to continue or a terminal error to reject the call.
type Guard func(ctx context.Context) error

// Authenticated rejects the call with errs.ErrForbidden when no principal
// is present on the context. It never inspects the credential itself;
// identity resolution already happened (or didn't) in the middleware.
func Authenticated(ctx context.Context) error {
	if middleware.PrincipalFrom(ctx) == nil {
		return errs.ErrForbidden
	}
	return nil
}

// check evaluates guards in declared order, fail-fast: the first failing
// guard short-circuits before any later guard runs, and the operation body
// never executes. Sequential AND semantics with no partial side effects.
func check(ctx context.Context, guards ...Guard) error {
	for _, guard := range guards {
		if err := guard(ctx); err != nil {
			return err
		}
	}
	return nil
}
