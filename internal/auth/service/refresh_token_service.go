package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/000000-cmd/SaasBack/internal/auth/domain"
	"github.com/000000-cmd/SaasBack/internal/auth/repository"
	"github.com/000000-cmd/SaasBack/pkg/telemetry"
)

var (
	ErrRefreshTokenNotFound = errors.New("refresh token not found")
	ErrRefreshTokenExpired  = errors.New("refresh token expired")
)

// RefreshTokenService manages server-side refresh token sessions
type RefreshTokenService interface {
	// Create issues a fresh opaque token for the user, replacing any
	// existing session so at most one stays live per user
	Create(ctx context.Context, userID string) (*domain.RefreshToken, error)
	// FindByToken looks up a token row by its opaque value
	FindByToken(ctx context.Context, token string) (*domain.RefreshToken, error)
	// VerifyExpiration returns the token if still valid. An expired
	// token is deleted on detection and reported as expired.
	VerifyExpiration(ctx context.Context, token *domain.RefreshToken) (*domain.RefreshToken, error)
	// DeleteByToken removes a session by token value
	DeleteByToken(ctx context.Context, token string) error
	// DeleteByUserID removes the session owned by a user
	DeleteByUserID(ctx context.Context, userID string) error
	// DeleteExpired removes every expired session and reports how many
	// were swept. Expired rows are normally removed when a refresh
	// touches them; the sweep catches sessions whose owners never
	// came back.
	DeleteExpired(ctx context.Context) (int64, error)
}

type refreshTokenService struct {
	repo repository.RefreshTokenRepository
	ttl  time.Duration
}

// NewRefreshTokenService creates a new RefreshTokenService
func NewRefreshTokenService(repo repository.RefreshTokenRepository, ttl time.Duration) RefreshTokenService {
	if ttl == 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &refreshTokenService{repo: repo, ttl: ttl}
}

// Create issues a fresh opaque token for the user
func (s *refreshTokenService) Create(ctx context.Context, userID string) (*domain.RefreshToken, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.refresh_token.create")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", userID))

	value, err := generateTokenValue()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	now := time.Now()
	token := &domain.RefreshToken{
		ID:         uuid.New().String(),
		UserID:     userID,
		Token:      value,
		ExpiryDate: now.Add(s.ttl),
		CreatedAt:  now,
	}

	if err := s.repo.Replace(ctx, token); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return token, nil
}

// FindByToken looks up a token row by its opaque value
func (s *refreshTokenService) FindByToken(ctx context.Context, tokenValue string) (*domain.RefreshToken, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.refresh_token.find")
	defer span.End()

	token, err := s.repo.GetByToken(ctx, tokenValue)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if token == nil {
		span.SetStatus(codes.Error, "not found")
		return nil, ErrRefreshTokenNotFound
	}

	span.SetStatus(codes.Ok, "")
	return token, nil
}

// VerifyExpiration returns the token if still valid, deleting it otherwise
func (s *refreshTokenService) VerifyExpiration(ctx context.Context, token *domain.RefreshToken) (*domain.RefreshToken, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.refresh_token.verify_expiration")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", token.UserID))

	if token.IsExpired() {
		// Remove the dead row so the user's next login starts clean
		_ = s.repo.DeleteByToken(ctx, token.Token)
		span.SetStatus(codes.Error, "expired")
		return nil, ErrRefreshTokenExpired
	}

	span.SetStatus(codes.Ok, "")
	return token, nil
}

// DeleteByToken removes a session by token value
func (s *refreshTokenService) DeleteByToken(ctx context.Context, tokenValue string) error {
	ctx, span := telemetry.StartSpan(ctx, "service.refresh_token.delete")
	defer span.End()

	if err := s.repo.DeleteByToken(ctx, tokenValue); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// DeleteByUserID removes the session owned by a user
func (s *refreshTokenService) DeleteByUserID(ctx context.Context, userID string) error {
	ctx, span := telemetry.StartSpan(ctx, "service.refresh_token.delete_by_user")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", userID))

	if err := s.repo.DeleteByUserID(ctx, userID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// DeleteExpired removes every expired session
func (s *refreshTokenService) DeleteExpired(ctx context.Context) (int64, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.refresh_token.delete_expired")
	defer span.End()

	deleted, err := s.repo.DeleteExpired(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}

	span.SetAttributes(attribute.Int64("deleted", deleted))
	span.SetStatus(codes.Ok, "")
	return deleted, nil
}

// generateTokenValue produces a 32-byte random value, URL-safe encoded
func generateTokenValue() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
