package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/auth-service/internal/core/domain"
	"github.com/99minutos/auth-service/internal/pkg/metrics"
)

// RequireAdmin lets only admin principals through. It must run after Auth.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, ok := PrincipalFrom(c)
			if !ok {
				metrics.GuardRejectionsTotal.WithLabelValues("unauthenticated").Inc()
				return unauthorized(c, MsgNotAuthenticated, domain.ErrUnauthenticated)
			}
			if !principal.IsAdmin() {
				metrics.GuardRejectionsTotal.WithLabelValues("forbidden").Inc()
				return echo.NewHTTPError(http.StatusForbidden, MsgForbidden).SetInternal(domain.ErrForbidden)
			}
			return next(c)
		}
	}
}
