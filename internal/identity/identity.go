package identity

import (
	"context"
	"errors"
)

// Identity is what the session layer knows about a signed-in user.
// Metadata is loosely typed claim data; fields are picked out of it via
// ExtractHints with explicit present-and-non-empty checks.
type Identity struct {
	ID       string
	Email    string
	Metadata map[string]any
}

var (
	ErrNoSession    = errors.New("no session")
	ErrTokenInvalid = errors.New("invalid session token")
)

// Provider yields the identity of the current session, if any.
type Provider interface {
	CurrentIdentity(ctx context.Context) (*Identity, error)
}

type ctxKey string

const (
	identityKey   ctxKey = "identity"
	sessionKeyKey ctxKey = "session_key"
)

// WithIdentity stores a verified identity and its session key in the context.
func WithIdentity(ctx context.Context, id *Identity, sessionKey string) context.Context {
	ctx = context.WithValue(ctx, identityKey, id)
	return context.WithValue(ctx, sessionKeyKey, sessionKey)
}

// FromContext returns the identity put there by the auth middleware.
func FromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityKey).(*Identity)
	return id, ok && id != nil
}

// SessionKeyFromContext returns the opaque session key for cache scoping.
func SessionKeyFromContext(ctx context.Context) string {
	s, _ := ctx.Value(sessionKeyKey).(string)
	return s
}

// ContextProvider reads the identity back out of the request context.
type ContextProvider struct{}

func (ContextProvider) CurrentIdentity(ctx context.Context) (*Identity, error) {
	id, ok := FromContext(ctx)
	if !ok {
		return nil, ErrNoSession
	}
	return id, nil
}
