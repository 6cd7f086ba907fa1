package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/000000-cmd/SaasBack/internal/system/domain"
)

// PostgresRoleRepository implements RoleRepository using PostgreSQL
type PostgresRoleRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRoleRepository creates a new PostgresRoleRepository
func NewPostgresRoleRepository(pool *pgxpool.Pool) *PostgresRoleRepository {
	return &PostgresRoleRepository{pool: pool}
}

// Create creates a new role
func (r *PostgresRoleRepository) Create(ctx context.Context, role *domain.Role) error {
	query := `
		INSERT INTO roles (id, code, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query,
		role.ID,
		role.Code,
		role.Name,
		role.Description,
		role.CreatedAt,
		role.UpdatedAt,
	)
	return err
}

// GetByID retrieves a role by ID
func (r *PostgresRoleRepository) GetByID(ctx context.Context, id string) (*domain.Role, error) {
	query := `
		SELECT id, code, name, COALESCE(description, ''), created_at, updated_at
		FROM roles
		WHERE id = $1
	`
	return r.scanOne(ctx, query, id)
}

// GetByCode retrieves a role by its code
func (r *PostgresRoleRepository) GetByCode(ctx context.Context, code string) (*domain.Role, error) {
	query := `
		SELECT id, code, name, COALESCE(description, ''), created_at, updated_at
		FROM roles
		WHERE code = $1
	`
	return r.scanOne(ctx, query, code)
}

// List retrieves all roles ordered by code
func (r *PostgresRoleRepository) List(ctx context.Context) ([]*domain.Role, error) {
	query := `
		SELECT id, code, name, COALESCE(description, ''), created_at, updated_at
		FROM roles
		ORDER BY code
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []*domain.Role
	for rows.Next() {
		role := &domain.Role{}
		if err := scanRole(rows, role); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

// Update updates a role's name and description
func (r *PostgresRoleRepository) Update(ctx context.Context, role *domain.Role) error {
	query := `
		UPDATE roles
		SET name = $2, description = $3, updated_at = $4
		WHERE id = $1
	`
	role.UpdatedAt = time.Now()
	_, err := r.pool.Exec(ctx, query, role.ID, role.Name, role.Description, role.UpdatedAt)
	return err
}

// Delete deletes a role
func (r *PostgresRoleRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM roles WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

func (r *PostgresRoleRepository) scanOne(ctx context.Context, query string, arg any) (*domain.Role, error) {
	role := &domain.Role{}
	err := scanRole(r.pool.QueryRow(ctx, query, arg), role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return role, nil
}

func scanRole(row pgx.Row, role *domain.Role) error {
	return row.Scan(
		&role.ID,
		&role.Code,
		&role.Name,
		&role.Description,
		&role.CreatedAt,
		&role.UpdatedAt,
	)
}
