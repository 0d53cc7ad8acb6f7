package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"github.com/sportsfilio/tournament-hub/auth"
)

type contextKey string

const principalContextKey contextKey = "principal"

const (
	jwtClaimProfileID = "profile_id"
	jwtClaimEmail     = "email"
	jwtClaimName      = "name"
)

var ErrNoPrincipal = errors.New("no authenticated principal in context")

// ParseToken validates an HS256 token and extracts the session principal
// from its claims.
func ParseToken(tokenString string, secret []byte) (auth.Principal, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return auth.Principal{}, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return auth.Principal{}, errors.New("invalid token claims")
	}

	profileID, _ := claims[jwtClaimProfileID].(string)
	if profileID == "" {
		return auth.Principal{}, fmt.Errorf("missing %q claim in token", jwtClaimProfileID)
	}
	email, _ := claims[jwtClaimEmail].(string)
	name, _ := claims[jwtClaimName].(string)

	return auth.Principal{ProfileID: profileID, Email: email, Name: name}, nil
}

// Authenticate verifies the Bearer token and stores the principal in the
// request context. Requests without a valid token are rejected with 401.
func Authenticate(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			tokenString, found := strings.CutPrefix(header, "Bearer ")
			if !found || tokenString == "" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			principal, err := ParseToken(tokenString, secret)
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), principalContextKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetPrincipalFromContext returns the authenticated principal stored by
// Authenticate.
func GetPrincipalFromContext(ctx context.Context) (auth.Principal, error) {
	principal, ok := ctx.Value(principalContextKey).(auth.Principal)
	if !ok || principal.ProfileID == "" {
		return auth.Principal{}, ErrNoPrincipal
	}
	return principal, nil
}

// WithPrincipal returns a context carrying the given principal. Intended
// for tests and for request-scoped session construction.
func WithPrincipal(ctx context.Context, principal auth.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, principal)
}
