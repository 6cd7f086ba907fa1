package dto

// CreateRoleRequest is the payload for creating a role
type CreateRoleRequest struct {
	Code        string `json:"code" binding:"required,min=2,max=50"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// UpdateRoleRequest is the payload for updating a role
type UpdateRoleRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CreateConstantRequest is the payload for creating a constant
type CreateConstantRequest struct {
	Category string `json:"category" binding:"required"`
	Key      string `json:"key" binding:"required"`
	Value    string `json:"value" binding:"required"`
}

// UpdateConstantRequest is the payload for updating a constant
type UpdateConstantRequest struct {
	Value   string `json:"value"`
	Enabled *bool  `json:"enabled"`
}
