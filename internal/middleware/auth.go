package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/fixmate/fixmate/internal/auth"
)

type ctxKey string

const identityKey ctxKey = "identity"

// GetIdentity extracts the authenticated identity from the request context.
func GetIdentity(ctx context.Context) *auth.Identity {
	id, ok := ctx.Value(identityKey).(*auth.Identity)
	if !ok {
		return nil
	}
	return id
}

// WithIdentity injects an identity; used by handler tests.
func WithIdentity(ctx context.Context, id *auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// Auth resolves the bearer token into a caller identity. Requests without a
// valid token proceed without one; handlers decide whether identity is
// required for the operation.
func Auth(verifier auth.Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if ok && strings.TrimSpace(token) != "" {
				if id, err := verifier.Verify(r.Context(), strings.TrimSpace(token)); err == nil {
					r = r.WithContext(WithIdentity(r.Context(), &id))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
