package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/auth-service/internal/api/middleware"
	"github.com/99minutos/auth-service/internal/core/domain"
	"github.com/99minutos/auth-service/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a new user account and opens its first session.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      200   {object}  authResponse
// @Failure      422   {object}  validationErrorResponse
// @Failure      500   {object}  errorResponse
// @Router       /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	out, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toAuthResponse(out))
}

// Login authenticates a user and returns a fresh bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      422   {object}  validationErrorResponse
// @Failure      429   {object}  errorResponse
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	out, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toAuthResponse(out))
}

// Logout revokes the presented bearer token. It answers the same way whether
// or not a live token was presented.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Param        Authorization  header    string  false  "Bearer <token>"
// @Success      200            {object}  logoutResponse
// @Router       /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	token, _ := middleware.BearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
	msg := h.authService.Logout(c.Request().Context(), token)
	return c.JSON(http.StatusOK, logoutResponse{Message: msg})
}

// ListUsers returns every registered username. Mounted behind Auth and RequireAdmin.
//
// @Summary      List registered users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  usersResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /users [get]
func (h *AuthHandler) ListUsers(c echo.Context) error {
	if _, err := ctxPrincipal(c); err != nil {
		return err
	}

	users := h.authService.ListUsernames(c.Request().Context())
	if users == nil {
		users = []string{}
	}
	return c.JSON(http.StatusOK, usersResponse{Users: users, Count: len(users)})
}

func toAuthResponse(out *domain.AuthOutcome) authResponse {
	return authResponse{
		Success:  out.Success,
		Message:  out.Message,
		Username: out.Username,
		Token:    out.Token,
	}
}
