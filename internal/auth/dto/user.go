package dto

// CreateUserRequest is the payload for registering a new user
type CreateUserRequest struct {
	Username    string   `json:"username" binding:"required,min=3,max=50"`
	Email       string   `json:"email" binding:"required,email"`
	Password    string   `json:"password" binding:"required,min=8"`
	DisplayName string   `json:"displayName" binding:"required"`
	Cellular    string   `json:"cellular"`
	Roles       []string `json:"roles"`
}

// UpdateUserRequest is the payload for updating profile fields
type UpdateUserRequest struct {
	DisplayName string `json:"displayName"`
	Cellular    string `json:"cellular"`
}

// ChangePasswordRequest is the payload for changing a user's password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}

// AssignRolesRequest replaces the full role set of a user
type AssignRolesRequest struct {
	Roles []string `json:"roles" binding:"required"`
}

// UserResponse is the public view of a user
type UserResponse struct {
	ID          string   `json:"id"`
	Username    string   `json:"username"`
	Email       string   `json:"email"`
	DisplayName string   `json:"displayName"`
	Cellular    string   `json:"cellular,omitempty"`
	Enabled     bool     `json:"enabled"`
	Roles       []string `json:"roles"`
	CreatedAt   string   `json:"createdAt"`
}
