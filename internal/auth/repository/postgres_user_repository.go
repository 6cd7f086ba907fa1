package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/000000-cmd/SaasBack/internal/auth/domain"
)

// PostgresUserRepository implements UserRepository using PostgreSQL
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresUserRepository creates a new PostgresUserRepository
func NewPostgresUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

const userSelectColumns = `
	u.id, u.username, u.email, u.password_hash, u.display_name,
	COALESCE(u.cellular, ''), u.enabled, u.created_at, u.updated_at,
	COALESCE(array_agg(ur.role_code ORDER BY ur.role_code) FILTER (WHERE ur.role_code IS NOT NULL), '{}')
`

const userJoinRoles = `
	FROM users u
	LEFT JOIN user_roles ur ON ur.user_id = u.id
`

// Create creates a new user with its role grants
func (r *PostgresUserRepository) Create(ctx context.Context, user *domain.User) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO users (id, username, email, password_hash, display_name, cellular, enabled, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = tx.Exec(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.DisplayName,
		user.Cellular,
		user.Enabled,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if err := insertRoles(ctx, tx, user.ID, user.RoleCodes); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// GetByID retrieves a user by ID
func (r *PostgresUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userSelectColumns + userJoinRoles + `
		WHERE u.id = $1
		GROUP BY u.id
	`
	return r.scanOne(ctx, query, id)
}

// GetByUsernameOrEmail retrieves a user matching either identifier
func (r *PostgresUserRepository) GetByUsernameOrEmail(ctx context.Context, identifier string) (*domain.User, error) {
	query := `SELECT ` + userSelectColumns + userJoinRoles + `
		WHERE u.username = $1 OR u.email = $1
		GROUP BY u.id
	`
	return r.scanOne(ctx, query, identifier)
}

// List retrieves all users ordered by creation time
func (r *PostgresUserRepository) List(ctx context.Context) ([]*domain.User, error) {
	query := `SELECT ` + userSelectColumns + userJoinRoles + `
		GROUP BY u.id
		ORDER BY u.created_at
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user := &domain.User{}
		if err := scanUser(rows, user); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// Update updates a user's profile fields and password hash
func (r *PostgresUserRepository) Update(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users
		SET email = $2, password_hash = $3, display_name = $4, cellular = $5, enabled = $6, updated_at = $7
		WHERE id = $1
	`
	user.UpdatedAt = time.Now()
	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.DisplayName,
		user.Cellular,
		user.Enabled,
		user.UpdatedAt,
	)
	return err
}

// ReplaceRoles replaces the full role set of a user
func (r *PostgresUserRepository) ReplaceRoles(ctx context.Context, userID string, roleCodes []string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM user_roles WHERE user_id = $1`, userID); err != nil {
		return err
	}
	if err := insertRoles(ctx, tx, userID, roleCodes); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Delete deletes a user
func (r *PostgresUserRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM users WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

// ExistsByUsernameOrEmail checks if either identifier is taken
func (r *PostgresUserRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1 OR email = $2)`
	var exists bool
	err := r.pool.QueryRow(ctx, query, username, email).Scan(&exists)
	return exists, err
}

func (r *PostgresUserRepository) scanOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	user := &domain.User{}
	err := scanUser(r.pool.QueryRow(ctx, query, arg), user)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

func scanUser(row pgx.Row, user *domain.User) error {
	return row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.DisplayName,
		&user.Cellular,
		&user.Enabled,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.RoleCodes,
	)
}

func insertRoles(ctx context.Context, tx pgx.Tx, userID string, roleCodes []string) error {
	for _, code := range roleCodes {
		_, err := tx.Exec(ctx, `
			INSERT INTO user_roles (user_id, role_code)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, userID, code)
		if err != nil {
			return err
		}
	}
	return nil
}
