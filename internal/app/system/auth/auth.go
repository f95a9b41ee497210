// internal/app/system/auth/auth.go

// Package auth resolves bearer tokens to the current user and guards
// routes by sign-in state and role.
//
// Two token kinds are accepted on Authorization: Bearer <token>, tried
// in this order:
//  1. a Firebase ID token, verified through the Admin SDK
//  2. an application JWT issued by TokenManager (HS256)
package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/teamhub/internal/app/system/respond"
)

// AuthUser is what the middleware injects into r.Context().
type AuthUser struct {
	ID    string // Mongo ObjectID hex
	Name  string
	Email string
	Role  string // admin | spoc | member
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the user from context and a found flag.
func CurrentUser(r *http.Request) (*AuthUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*AuthUser)
	return u, ok
}

// WithTestUser injects a user into the request context, bypassing the
// bearer middleware. For tests only.
func WithTestUser(r *http.Request, u *AuthUser) *http.Request {
	return withUser(r, u)
}

func withUser(r *http.Request, u *AuthUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

// BearerToken extracts the token from the Authorization header.
// Returns "" if the header is missing or not Bearer-shaped.
func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// RequireSignedIn ensures a user is present in context (set by the
// bearer middleware). API callers get a plain 401 envelope.
func RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); !ok {
			respond.Unauthorized(w, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole ensures the signed-in user holds one of the allowed
// roles. Missing user → 401; wrong role → 403.
func RequireRole(allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		set[strings.ToLower(strings.TrimSpace(role))] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := CurrentUser(r)
			if !ok {
				respond.Unauthorized(w, "authentication required")
				return
			}
			if _, has := set[strings.ToLower(u.Role)]; !has {
				respond.Forbidden(w, "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
