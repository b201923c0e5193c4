package dto

// LoginRequest body para POST /api/auth/login.
type LoginRequest struct {
	PIN string `json:"pin"`
}

// LoginResponse token emitido y rol del personal.
type LoginResponse struct {
	Token     string `json:"token"`
	Role      string `json:"role"`
	ExpiresIn int    `json:"expires_in"` // segundos
}
