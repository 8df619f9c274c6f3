package dto

// LoginRequest carries credentials for session or token login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carries a refresh token to exchange for a new access token.
type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

// LogoutRequest carries the refresh token to revoke.
type LogoutRequest struct {
	Refresh string `json:"refresh"`
}

// TokenPairResponse is returned by login endpoints.
type TokenPairResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// AccessTokenResponse is returned by the token refresh endpoint.
type AccessTokenResponse struct {
	Access string `json:"access"`
}
