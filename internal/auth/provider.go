package auth

import (
	"context"
	"errors"
)

// GuestIdentity is the placeholder identity used for shoppers that are not
// signed in. Carts and checkout work for guests; their orders are recorded
// against this identity.
const GuestIdentity = "unknown@domain.com"

var ErrInvalidToken = errors.New("invalid or expired token")

// Provider is the external identity collaborator. It is consumed, never
// implemented here, beyond the HTTP client below.
type Provider interface {
	// Verify resolves a bearer token to the signed-in email.
	Verify(ctx context.Context, token string) (string, error)
	// Revoke invalidates the token (sign-out).
	Revoke(ctx context.Context, token string) error
}
