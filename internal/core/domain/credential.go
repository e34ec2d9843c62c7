package domain

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Credential is the stored identity of a registered user.
type Credential struct {
	Username     string    `json:"username"`
	Email        string    `json:"-"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsAdmin reports whether the credential carries elevated privilege.
func (c Credential) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// Principal is the identity a valid bearer token authenticates as.
type Principal struct {
	Username string
	Role     string
}

// IsAdmin reports whether the principal may access admin-only routes.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// MaxPasswordBytes is the longest password bcrypt accepts without truncation.
const MaxPasswordBytes = 72
