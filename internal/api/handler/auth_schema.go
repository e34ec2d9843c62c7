package handler

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// validationErrorResponse is returned with 422 for structurally invalid bodies.
type validationErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=100,bcryptlen"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6,max=100,bcryptlen"`
}

// authResponse mirrors domain.AuthOutcome; token is null on failure.
type authResponse struct {
	Success  bool    `json:"success"`
	Message  string  `json:"message"`
	Username string  `json:"username"`
	Token    *string `json:"token"`
}

type logoutResponse struct {
	Message string `json:"message"`
}

type usersResponse struct {
	Users []string `json:"users"`
	Count int      `json:"count"`
}
