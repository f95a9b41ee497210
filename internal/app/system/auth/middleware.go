// internal/app/system/auth/middleware.go
package auth

import (
	"context"
	"net/http"

	"go.uber.org/zap"
)

// UserFetcher resolves a verified external identity to a local user.
// Implemented by the users store; nil user means no local account.
type UserFetcher interface {
	FetchByEmail(ctx context.Context, email string) (*AuthUser, error)
}

// LoadBearerUser returns middleware that resolves Authorization: Bearer
// tokens to an AuthUser in context. Requests without a usable token
// pass through anonymously; RequireSignedIn/RequireRole do the gating.
//
// Resolution order (per the API contract): Firebase ID token first,
// then application JWT. A Firebase token identifies the user by email,
// so it only works once the account exists locally (created by the
// OAuth sign-in endpoint). App JWTs are self-contained.
func LoadBearerUser(tm *TokenManager, verifier IDTokenVerifier, users UserFetcher, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			if verifier != nil {
				if info, err := verifier.VerifyIDToken(r.Context(), token); err == nil {
					if !info.EmailVerified {
						// The IdP vouched for the token but not the
						// mailbox; treat it like no token at all.
						next.ServeHTTP(w, r)
						return
					}
					u, ferr := users.FetchByEmail(r.Context(), info.Email)
					if ferr != nil {
						logger.Warn("bearer: user lookup failed", zap.Error(ferr))
					}
					if u != nil {
						next.ServeHTTP(w, withUser(r, u))
						return
					}
					// Verified IdP token but no local account: stay
					// anonymous so the OAuth endpoint can answer 403.
					next.ServeHTTP(w, r)
					return
				}
			}

			claims, err := tm.Validate(token)
			if err != nil {
				// Bad token is treated as anonymous, not 401, so public
				// endpoints keep working; protected routes still reject.
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, withUser(r, &AuthUser{
				ID:    claims.UserID,
				Name:  claims.Name,
				Email: claims.Email,
				Role:  claims.Role,
			}))
		})
	}
}
