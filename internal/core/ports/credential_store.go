package ports

import (
	"context"

	"github.com/99minutos/auth-service/internal/core/domain"
)

// CredentialStore maps usernames to stored credentials. Credentials are
// insert-only: there is no update or delete.
type CredentialStore interface {
	// Register inserts cred, or returns domain.ErrUsernameTaken when the
	// username is already present. The existing credential is left untouched.
	Register(ctx context.Context, cred domain.Credential) error
	Get(ctx context.Context, username string) (domain.Credential, bool)
	Exists(ctx context.Context, username string) bool
	// Usernames returns every registered username in ascending order.
	Usernames(ctx context.Context) []string
}
