package domain

// Messages returned in business outcomes. They are part of the API contract.
const (
	MsgRegistrationSuccessful = "Registration successful"
	MsgUsernameExists         = "Username already exists"
	MsgLoginSuccessful        = "Login successful"
	MsgInvalidCredentials     = "Invalid username or password"
	MsgLoggedOut              = "Logged out successfully"
)

// AuthOutcome is the result of a register or login attempt. A failed attempt
// is a normal outcome with Success=false and a nil Token, not an error.
type AuthOutcome struct {
	Success  bool    `json:"success"`
	Message  string  `json:"message"`
	Username string  `json:"username"`
	Token    *string `json:"token"`
}

// Succeeded builds a successful outcome carrying token.
func Succeeded(message, username, token string) *AuthOutcome {
	return &AuthOutcome{Success: true, Message: message, Username: username, Token: &token}
}

// Failed builds a business failure with no token.
func Failed(message, username string) *AuthOutcome {
	return &AuthOutcome{Success: false, Message: message, Username: username}
}
