package repository

import (
	"context"

	"github.com/000000-cmd/SaasBack/internal/system/domain"
)

// RoleRepository defines the interface for role data access
type RoleRepository interface {
	// Create creates a new role
	Create(ctx context.Context, role *domain.Role) error
	// GetByID retrieves a role by ID
	GetByID(ctx context.Context, id string) (*domain.Role, error)
	// GetByCode retrieves a role by its code
	GetByCode(ctx context.Context, code string) (*domain.Role, error)
	// List retrieves all roles ordered by code
	List(ctx context.Context) ([]*domain.Role, error)
	// Update updates a role's name and description
	Update(ctx context.Context, role *domain.Role) error
	// Delete deletes a role
	Delete(ctx context.Context, id string) error
}

// ConstantRepository defines the interface for constant data access
type ConstantRepository interface {
	// Create creates a new constant
	Create(ctx context.Context, constant *domain.Constant) error
	// GetByID retrieves a constant by ID
	GetByID(ctx context.Context, id string) (*domain.Constant, error)
	// ListByCategory retrieves enabled constants in a category
	ListByCategory(ctx context.Context, category string) ([]*domain.Constant, error)
	// Update updates a constant's value and enabled flag
	Update(ctx context.Context, constant *domain.Constant) error
	// Delete deletes a constant
	Delete(ctx context.Context, id string) error
}
