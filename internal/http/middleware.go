package http

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/Chadangdang/BookstoreApp/internal/auth"
	"github.com/google/uuid"
)

type contextKey string

const (
	sessionKey  contextKey = "session_id"
	identityKey contextKey = "identity"
)

const sessionHeader = "X-Session-ID"

// SessionMiddleware keys every request to a cart session. The client sends
// the id back on subsequent requests; a request without one gets a fresh id
// minted and echoed in the response header.
func SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.Header.Get(sessionHeader)
		if sessionID == "" {
			sessionID = uuid.NewString()
		}

		ctx := context.WithValue(r.Context(), sessionKey, sessionID)
		w.Header().Set(sessionHeader, sessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// IdentityMiddleware resolves the bearer token to the shopper's email via
// the identity provider. No token means the guest identity; shopping and
// checkout still work, orders are just recorded against the placeholder. A
// token the provider rejects is a 401. A provider outage degrades to guest
// rather than blocking the storefront.
func IdentityMiddleware(provider auth.Provider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := auth.GuestIdentity

			if token := bearerToken(r); token != "" {
				email, err := provider.Verify(r.Context(), token)
				switch {
				case err == nil:
					identity = email
				case errors.Is(err, auth.ErrInvalidToken):
					respondError(w, http.StatusUnauthorized, "unauthenticated", "invalid or expired token")
					return
				default:
					log.Printf("identity verification degraded to guest: %v", err)
				}
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

func getSessionID(ctx context.Context) string {
	if sessionID, ok := ctx.Value(sessionKey).(string); ok {
		return sessionID
	}
	return ""
}

func getIdentity(ctx context.Context) string {
	if identity, ok := ctx.Value(identityKey).(string); ok {
		return identity
	}
	return auth.GuestIdentity
}
