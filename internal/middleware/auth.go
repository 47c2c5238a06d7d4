package middleware

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const (
	userKey     contextKey = "user_id"
	usernameKey contextKey = "username"
)

// TokenValidator is what we need from the user service. The interface
// keeps this package from importing it.
type TokenValidator interface {
	ValidateToken(tokenString string) (int, string, error)
}

type Auth struct {
	validator TokenValidator
}

func NewAuth(v TokenValidator) *Auth {
	return &Auth{validator: v}
}

// UserID returns the authenticated user's id, or 0 for anonymous requests.
func UserID(ctx context.Context) int {
	id, _ := ctx.Value(userKey).(int)
	return id
}

// Username returns the authenticated username, or "" for anonymous requests.
func Username(ctx context.Context) string {
	name, _ := ctx.Value(usernameKey).(string)
	return name
}

func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 {
			return parts[1]
		}
	}
	// Fallback for websocket clients that can't set headers
	return r.URL.Query().Get("token")
}

// Require rejects requests without a valid token.
func (a *Auth) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := extractToken(r)
		if tokenString == "" {
			http.Error(w, "missing authentication token", http.StatusUnauthorized)
			return
		}

		userID, username, err := a.validator.ValidateToken(tokenString)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userKey, userID)
		ctx = context.WithValue(ctx, usernameKey, username)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Optional attaches the identity when a valid token is present and lets
// the request through anonymously otherwise. Used by the read-only entry
// endpoints where guests see public content.
func (a *Auth) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := extractToken(r)
		if tokenString != "" {
			if userID, username, err := a.validator.ValidateToken(tokenString); err == nil {
				ctx := context.WithValue(r.Context(), userKey, userID)
				ctx = context.WithValue(ctx, usernameKey, username)
				r = r.WithContext(ctx)
			}
		}
		next.ServeHTTP(w, r)
	})
}
