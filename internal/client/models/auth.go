package models

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Age      *int   `json:"age,omitempty"`
}

// AuthResponse is returned by /auth/me, /auth/login and /auth/register.
type AuthResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}
