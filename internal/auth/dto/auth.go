package dto

// LoginRequest is the login payload. The identifier field accepts either
// a username or an email address.
type LoginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail" binding:"required"`
	Password        string `json:"password" binding:"required"`
}

// LoginResponse is returned on successful login. The refresh token is
// delivered in an HttpOnly cookie, never in the body.
type LoginResponse struct {
	AccessToken string   `json:"accessToken"`
	ID          string   `json:"id"`
	Username    string   `json:"username"`
	DisplayName string   `json:"displayName"`
	Email       string   `json:"email"`
	Roles       []string `json:"roles"`
}

// RefreshResponse is returned on successful token refresh
type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
}
