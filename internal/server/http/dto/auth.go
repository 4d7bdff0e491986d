package dto

// RegisterRequest describes the account creation payload.
type RegisterRequest struct {
	FirstName    string         `json:"firstName"`
	LastName     string         `json:"lastName"`
	Email        string         `json:"email"`
	Password     string         `json:"password"`
	Phone        string         `json:"phone"`
	Address      AddressPayload `json:"address"`
	CustomerType string         `json:"customerType"`
}

// LoginRequest describes email/password payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by register, login and verify. The session
// token travels only in the cookie, never in the body.
type AuthResponse struct {
	Message string        `json:"message,omitempty"`
	User    *UserResponse `json:"user"`
}

// ErrorResponse carries a client facing error message.
type ErrorResponse struct {
	Message string `json:"message"`
}
