package repository

import (
	"context"

	"github.com/000000-cmd/SaasBack/internal/auth/domain"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user with its role grants
	Create(ctx context.Context, user *domain.User) error
	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// GetByUsernameOrEmail retrieves a user matching either identifier
	GetByUsernameOrEmail(ctx context.Context, identifier string) (*domain.User, error)
	// List retrieves all users ordered by creation time
	List(ctx context.Context) ([]*domain.User, error)
	// Update updates a user's profile fields and password hash
	Update(ctx context.Context, user *domain.User) error
	// ReplaceRoles replaces the full role set of a user
	ReplaceRoles(ctx context.Context, userID string, roleCodes []string) error
	// Delete deletes a user
	Delete(ctx context.Context, id string) error
	// ExistsByUsernameOrEmail checks if either identifier is taken
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
}

// RefreshTokenRepository defines the interface for refresh token data access
type RefreshTokenRepository interface {
	// Replace atomically removes any existing token for the owner and
	// stores the new one, keeping at most one live session per user
	Replace(ctx context.Context, token *domain.RefreshToken) error
	// GetByToken retrieves a token row by its opaque value
	GetByToken(ctx context.Context, token string) (*domain.RefreshToken, error)
	// DeleteByToken deletes a token row by its opaque value
	DeleteByToken(ctx context.Context, token string) error
	// DeleteByUserID deletes the token row owned by a user
	DeleteByUserID(ctx context.Context, userID string) error
	// DeleteExpired deletes all expired token rows
	DeleteExpired(ctx context.Context) (int64, error)
}
