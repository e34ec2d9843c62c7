package ports

import (
	"context"

	"github.com/99minutos/auth-service/internal/core/domain"
)

// SessionStore maps issued bearer tokens to their owners.
type SessionStore interface {
	// Create mints a fresh token bound to username.
	Create(ctx context.Context, username string) (domain.Session, error)
	// Resolve returns the session for token if it is still active.
	Resolve(ctx context.Context, token string) (domain.Session, bool)
	// Revoke removes token. Revoking an unknown token is a no-op.
	Revoke(ctx context.Context, token string)
	// Count returns the number of live sessions.
	Count(ctx context.Context) int
}
