package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/000000-cmd/SaasBack/internal/system/domain"
)

// PostgresConstantRepository implements ConstantRepository using PostgreSQL
type PostgresConstantRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresConstantRepository creates a new PostgresConstantRepository
func NewPostgresConstantRepository(pool *pgxpool.Pool) *PostgresConstantRepository {
	return &PostgresConstantRepository{pool: pool}
}

// Create creates a new constant
func (r *PostgresConstantRepository) Create(ctx context.Context, constant *domain.Constant) error {
	query := `
		INSERT INTO constants (id, category, key, value, enabled, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, query,
		constant.ID,
		constant.Category,
		constant.Key,
		constant.Value,
		constant.Enabled,
		constant.CreatedAt,
		constant.UpdatedAt,
	)
	return err
}

// GetByID retrieves a constant by ID
func (r *PostgresConstantRepository) GetByID(ctx context.Context, id string) (*domain.Constant, error) {
	query := `
		SELECT id, category, key, value, enabled, created_at, updated_at
		FROM constants
		WHERE id = $1
	`
	constant := &domain.Constant{}
	err := scanConstant(r.pool.QueryRow(ctx, query, id), constant)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return constant, nil
}

// ListByCategory retrieves enabled constants in a category
func (r *PostgresConstantRepository) ListByCategory(ctx context.Context, category string) ([]*domain.Constant, error) {
	query := `
		SELECT id, category, key, value, enabled, created_at, updated_at
		FROM constants
		WHERE category = $1 AND enabled = TRUE
		ORDER BY key
	`
	rows, err := r.pool.Query(ctx, query, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var constants []*domain.Constant
	for rows.Next() {
		constant := &domain.Constant{}
		if err := scanConstant(rows, constant); err != nil {
			return nil, err
		}
		constants = append(constants, constant)
	}
	return constants, rows.Err()
}

// Update updates a constant's value and enabled flag
func (r *PostgresConstantRepository) Update(ctx context.Context, constant *domain.Constant) error {
	query := `
		UPDATE constants
		SET value = $2, enabled = $3, updated_at = $4
		WHERE id = $1
	`
	constant.UpdatedAt = time.Now()
	_, err := r.pool.Exec(ctx, query, constant.ID, constant.Value, constant.Enabled, constant.UpdatedAt)
	return err
}

// Delete deletes a constant
func (r *PostgresConstantRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM constants WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

func scanConstant(row pgx.Row, constant *domain.Constant) error {
	return row.Scan(
		&constant.ID,
		&constant.Category,
		&constant.Key,
		&constant.Value,
		&constant.Enabled,
		&constant.CreatedAt,
		&constant.UpdatedAt,
	)
}
