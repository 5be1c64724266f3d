package dto

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AccessTokenResponse is returned by login and refresh.
type AccessTokenResponse struct {
	AccessToken string `json:"accessToken"`
}

// StatusResponse acknowledges an action without returning data.
type StatusResponse struct {
	Status string `json:"status"`
}

// MeResponse describes the authenticated account.
type MeResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}
