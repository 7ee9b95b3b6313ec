package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-logr/logr"
	"github.com/xactions/a2a-runtime/internal/apperr"
)

type contextKey string

const identityContextKey contextKey = "xactions-identity"

// WithIdentity attaches an Identity to a context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, id)
}

// IdentityFromContext retrieves an Identity attached by the middleware.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityContextKey).(Identity)
	return id, ok
}

// Middleware inspects the Authorization header and, on success, attaches
// the decoded Identity to the request context. When required is true and
// authentication fails or is absent, it writes a JSON-RPC auth-required
// error and does not call next (spec.md §4.6).
func Middleware(tokens *TokenService, keys *APIKeyStore, log logr.Logger, required bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			id, err := authenticate(tokens, keys, header)
			if err == nil {
				r = r.WithContext(WithIdentity(r.Context(), id))
				next.ServeHTTP(w, r)
				return
			}

			if !required {
				next.ServeHTTP(w, r)
				return
			}

			log.V(1).Info("authentication failed", "error", err.Error())
			writeAuthRequired(w)
		})
	}
}

func authenticate(tokens *TokenService, keys *APIKeyStore, header string) (Identity, error) {
	if header == "" {
		return Identity{}, apperr.New(apperr.ErrCodeAuthRequired, "missing Authorization header", nil)
	}

	switch {
	case strings.HasPrefix(header, "Bearer "):
		token := strings.TrimPrefix(header, "Bearer ")
		claims, err := tokens.Verify(token)
		if err != nil {
			return Identity{}, err
		}
		return Identity{Subject: claims.Subject, Permissions: claims.Permissions, Scheme: "bearer"}, nil

	case strings.HasPrefix(header, "ApiKey "):
		key := strings.TrimPrefix(header, "ApiKey ")
		rec, err := keys.Validate(key)
		if err != nil {
			return Identity{}, err
		}
		return Identity{Subject: rec.Label, Permissions: rec.Permissions, Scheme: "apikey"}, nil

	default:
		return Identity{}, apperr.New(apperr.ErrCodeAuthMalformed, "unrecognized Authorization scheme", nil)
	}
}

func writeAuthRequired(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"jsonrpc":"2.0","error":{"code":-32010,"message":"auth-required"},"id":null}`))
}
