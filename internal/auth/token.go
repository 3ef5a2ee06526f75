// Package auth issues and verifies the credential tokens that identify
// requests. Tokens are HS256 JWTs carrying the principal's id and username;
// signing and verification are synchronous CPU work with no shared mutable
// state.
package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/khairulz/tripmate/internal/errs"
)

// Principal is the authenticated identity attached to a request.
type Principal struct {
	ID       int64
	Username string
}

// Claims are the custom JWT claims for a session token.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies session tokens.
type TokenManager struct {
	secretKey []byte
	ttl       time.Duration
}

// NewTokenManager creates a token manager with the given signing secret.
// A zero ttl issues unbounded tokens (no exp claim); a non-zero ttl sets
// expiry, which verification then enforces.
func NewTokenManager(secretKey string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		secretKey: []byte(secretKey),
		ttl:       ttl,
	}
}

// Issue signs a token encoding the principal's id and username. Pure
// function of its input plus the signing secret.
func (m *TokenManager) Issue(p Principal) (string, error) {
	claims := &Claims{
		Username: p.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  strconv.FormatInt(p.ID, 10),
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}
	if m.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(m.ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token string, returning the principal it
// encodes. Any failure (bad signature, expired token, malformed subject)
// is reported as errs.ErrUnauthenticated.
func (m *TokenManager) Verify(tokenString string) (Principal, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.secretKey, nil
		},
	)
	if err != nil {
		return Principal{}, fmt.Errorf("%w: %v", errs.ErrUnauthenticated, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Principal{}, errs.ErrUnauthenticated
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return Principal{}, fmt.Errorf("%w: bad subject", errs.ErrUnauthenticated)
	}
	if claims.Username == "" {
		return Principal{}, fmt.Errorf("%w: missing username claim", errs.ErrUnauthenticated)
	}

	return Principal{ID: id, Username: claims.Username}, nil
}
