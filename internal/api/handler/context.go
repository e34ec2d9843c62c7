package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/auth-service/internal/api/middleware"
	"github.com/99minutos/auth-service/internal/core/domain"
)

// ctxPrincipal returns the principal injected by the Auth middleware. Its
// absence means the route was mounted without the guard; reject with 401.
func ctxPrincipal(c echo.Context) (*domain.Principal, error) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, middleware.MsgNotAuthenticated).SetInternal(domain.ErrUnauthenticated)
	}
	return p, nil
}

// bind decodes the JSON body into req and validates it. Both a body that does
// not decode and one that fails validation are reported as *ValidationError.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return &ValidationError{Fields: map[string]string{"body": "invalid JSON payload"}}
	}
	return c.Validate(req)
}
