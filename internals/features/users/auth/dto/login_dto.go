package dto

type LoginRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,max=200"`
}

// LoginUser adalah objek user yang disimpan client setelah login.
type LoginUser struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	Fullname string `json:"fullname"`
}

type LoginResponse struct {
	LoginUser
	Token     string `json:"token,omitempty"`
	ExpiresAt int64  `json:"expires_at,omitempty"`
}
