package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/khairulz/tripmate/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// principalKey is the context key for the authenticated principal.
	principalKey contextKey = "principal"
)

// PrincipalFrom extracts the authenticated principal from the context.
// Returns nil for anonymous requests.
func PrincipalFrom(ctx context.Context) *auth.Principal {
	p, _ := ctx.Value(principalKey).(*auth.Principal)
	return p
}

// WithPrincipal returns a context carrying the given principal. Used by the
// identity middleware and by tests that need an authenticated context.
func WithPrincipal(ctx context.Context, p *auth.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// ResolveIdentity returns middleware that resolves the Authorization header
// into a principal on the request context.
//
// No header means an anonymous request and the handler still runs; plenty
// of operations are open. A header that is present but malformed, tampered
// with, or expired aborts the whole request with 401: a bad credential must
// never degrade to anonymous.
func ResolveIdentity(tokens *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				unauthenticated(w, "malformed authorization header")
				return
			}

			principal, err := tokens.Verify(parts[1])
			if err != nil {
				unauthenticated(w, "invalid or expired token")
				return
			}

			ctx := WithPrincipal(r.Context(), &principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthenticated(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
