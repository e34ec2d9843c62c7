package domain

import "errors"

var (
	ErrUsernameTaken   = errors.New("username already exists")
	ErrPasswordTooLong = errors.New("password exceeds 72 bytes")
	ErrUnauthenticated = errors.New("not authenticated")
	ErrInvalidToken    = errors.New("invalid or expired token")
	ErrForbidden       = errors.New("admin access required")
	ErrTooManyAttempts = errors.New("too many failed login attempts")
)
