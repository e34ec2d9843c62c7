package ports

import (
	"context"

	"github.com/99minutos/auth-service/internal/core/domain"
)

// RegisterInput carries an already shape-validated registration request.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.AuthOutcome, error)
	Login(ctx context.Context, username, password string) (*domain.AuthOutcome, error)
	// Logout revokes token when it is live and always returns the same message.
	Logout(ctx context.Context, token string) string
	// Authenticate resolves a bearer token to the principal it authenticates.
	Authenticate(ctx context.Context, token string) (*domain.Principal, error)
	ListUsernames(ctx context.Context) []string
}
