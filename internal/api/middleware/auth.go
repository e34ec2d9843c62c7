package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/auth-service/internal/core/domain"
	"github.com/99minutos/auth-service/internal/pkg/metrics"
)

// Client-facing guard messages.
const (
	MsgNotAuthenticated = "Not authenticated"
	MsgInvalidToken     = "Invalid or expired token"
	MsgForbidden        = "Forbidden: Admin access required"
)

const principalKey = "principal"

// Authenticator resolves a bearer token to the principal it authenticates.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.Principal, error)
}

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header value. Any other shape counts as no credential presented.
func BearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}

// Auth resolves the bearer token through authn and stores the principal in
// the echo context. A missing or malformed header and an unknown token are
// both 401, with different messages.
func Auth(authn Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := BearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				metrics.GuardRejectionsTotal.WithLabelValues("unauthenticated").Inc()
				return unauthorized(c, MsgNotAuthenticated, domain.ErrUnauthenticated)
			}

			principal, err := authn.Authenticate(c.Request().Context(), token)
			if err != nil {
				if errors.Is(err, domain.ErrInvalidToken) || errors.Is(err, domain.ErrUnauthenticated) {
					metrics.GuardRejectionsTotal.WithLabelValues("invalid_token").Inc()
					return unauthorized(c, MsgInvalidToken, err)
				}
				return err
			}

			c.Set(principalKey, principal)
			return next(c)
		}
	}
}

// PrincipalFrom returns the principal stored by Auth, if any.
func PrincipalFrom(c echo.Context) (*domain.Principal, bool) {
	p, ok := c.Get(principalKey).(*domain.Principal)
	return p, ok && p != nil
}

func unauthorized(c echo.Context, msg string, cause error) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	return echo.NewHTTPError(http.StatusUnauthorized, msg).SetInternal(cause)
}
