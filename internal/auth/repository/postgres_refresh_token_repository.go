package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/000000-cmd/SaasBack/internal/auth/domain"
)

// PostgresRefreshTokenRepository implements RefreshTokenRepository using PostgreSQL
type PostgresRefreshTokenRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRefreshTokenRepository creates a new PostgresRefreshTokenRepository
func NewPostgresRefreshTokenRepository(pool *pgxpool.Pool) *PostgresRefreshTokenRepository {
	return &PostgresRefreshTokenRepository{pool: pool}
}

// Replace atomically removes any existing token for the owner and stores
// the new one. Delete and insert run in one transaction so concurrent
// logins for the same user never leave two live sessions behind.
func (r *PostgresRefreshTokenRepository) Replace(ctx context.Context, token *domain.RefreshToken) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM refresh_tokens WHERE user_id = $1`, token.UserID); err != nil {
		return err
	}

	query := `
		INSERT INTO refresh_tokens (id, user_id, token, expiry_date, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err = tx.Exec(ctx, query,
		token.ID,
		token.UserID,
		token.Token,
		token.ExpiryDate,
		token.CreatedAt,
	)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// GetByToken retrieves a token row by its opaque value
func (r *PostgresRefreshTokenRepository) GetByToken(ctx context.Context, tokenValue string) (*domain.RefreshToken, error) {
	query := `
		SELECT id, user_id, token, expiry_date, created_at
		FROM refresh_tokens
		WHERE token = $1
	`
	token := &domain.RefreshToken{}
	err := r.pool.QueryRow(ctx, query, tokenValue).Scan(
		&token.ID,
		&token.UserID,
		&token.Token,
		&token.ExpiryDate,
		&token.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return token, nil
}

// DeleteByToken deletes a token row by its opaque value
func (r *PostgresRefreshTokenRepository) DeleteByToken(ctx context.Context, tokenValue string) error {
	query := `DELETE FROM refresh_tokens WHERE token = $1`
	_, err := r.pool.Exec(ctx, query, tokenValue)
	return err
}

// DeleteByUserID deletes the token row owned by a user
func (r *PostgresRefreshTokenRepository) DeleteByUserID(ctx context.Context, userID string) error {
	query := `DELETE FROM refresh_tokens WHERE user_id = $1`
	_, err := r.pool.Exec(ctx, query, userID)
	return err
}

// DeleteExpired deletes all expired token rows
func (r *PostgresRefreshTokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	query := `DELETE FROM refresh_tokens WHERE expiry_date < NOW()`
	tag, err := r.pool.Exec(ctx, query)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
