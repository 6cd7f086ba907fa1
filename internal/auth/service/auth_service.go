package service

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/crypto/bcrypt"

	"github.com/000000-cmd/SaasBack/internal/auth/audit"
	"github.com/000000-cmd/SaasBack/internal/auth/domain"
	"github.com/000000-cmd/SaasBack/internal/auth/dto"
	"github.com/000000-cmd/SaasBack/internal/auth/repository"
	"github.com/000000-cmd/SaasBack/pkg/telemetry"
	"github.com/000000-cmd/SaasBack/pkg/token"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
)

// AuthService defines the interface for authentication operations
type AuthService interface {
	// Login authenticates a user and opens a session. The returned
	// refresh token is meant for cookie transport only.
	Login(ctx context.Context, req *dto.LoginRequest, ip string) (*dto.LoginResponse, *domain.RefreshToken, error)
	// Refresh exchanges a live refresh token for a new access token.
	// The session row is kept as is until its own expiry.
	Refresh(ctx context.Context, refreshToken string) (*dto.RefreshResponse, error)
	// Logout closes the session owning the refresh token. Unknown
	// tokens are treated as already logged out.
	Logout(ctx context.Context, refreshToken string) error
}

type authService struct {
	userRepo     repository.UserRepository
	refreshSvc   RefreshTokenService
	tokenCodec   *token.Provider
	auditEmitter audit.Publisher
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo repository.UserRepository,
	refreshSvc RefreshTokenService,
	tokenCodec *token.Provider,
	auditEmitter audit.Publisher,
) AuthService {
	if auditEmitter == nil {
		auditEmitter = audit.NopPublisher{}
	}
	return &authService{
		userRepo:     userRepo,
		refreshSvc:   refreshSvc,
		tokenCodec:   tokenCodec,
		auditEmitter: auditEmitter,
	}
}

// Login authenticates a user and opens a session
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest, ip string) (*dto.LoginResponse, *domain.RefreshToken, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.login")
	defer span.End()

	user, err := s.authenticate(ctx, req.UsernameOrEmail, req.Password)
	if err != nil {
		span.SetStatus(codes.Error, "invalid credentials")
		s.auditEmitter.Publish(ctx, audit.Event{
			Type:     audit.EventLoginFailed,
			Username: req.UsernameOrEmail,
			IP:       ip,
		})
		return nil, nil, err
	}

	span.SetAttributes(attribute.String("user_id", user.ID))

	accessToken, err := s.tokenCodec.Issue(user.Username, user.ID, user.RoleCodes)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, nil, err
	}

	refreshToken, err := s.refreshSvc.Create(ctx, user.ID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, nil, err
	}

	s.auditEmitter.Publish(ctx, audit.Event{
		Type:     audit.EventLogin,
		UserID:   user.ID,
		Username: user.Username,
		IP:       ip,
	})

	span.SetStatus(codes.Ok, "")
	return &dto.LoginResponse{
		AccessToken: accessToken,
		ID:          user.ID,
		Username:    user.Username,
		DisplayName: user.DisplayName,
		Email:       user.Email,
		Roles:       user.RoleCodes,
	}, refreshToken, nil
}

// Refresh exchanges a live refresh token for a new access token. Roles
// are re-read from the user record so grants made after login take
// effect without a new password prompt.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.RefreshResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.refresh")
	defer span.End()

	session, err := s.refreshSvc.FindByToken(ctx, refreshToken)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	session, err = s.refreshSvc.VerifyExpiration(ctx, session)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("user_id", session.UserID))

	user, err := s.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if user == nil {
		span.SetStatus(codes.Error, "user not found")
		return nil, ErrUserNotFound
	}

	accessToken, err := s.tokenCodec.Issue(user.Username, user.ID, user.RoleCodes)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	s.auditEmitter.Publish(ctx, audit.Event{
		Type:     audit.EventRefresh,
		UserID:   user.ID,
		Username: user.Username,
	})

	span.SetStatus(codes.Ok, "")
	return &dto.RefreshResponse{AccessToken: accessToken}, nil
}

// Logout closes the session owning the refresh token
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.logout")
	defer span.End()

	session, err := s.refreshSvc.FindByToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, ErrRefreshTokenNotFound) {
			// Already logged out
			span.SetStatus(codes.Ok, "no session")
			return nil
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetAttributes(attribute.String("user_id", session.UserID))

	if err := s.refreshSvc.DeleteByToken(ctx, session.Token); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	s.auditEmitter.Publish(ctx, audit.Event{
		Type:   audit.EventLogout,
		UserID: session.UserID,
	})

	span.SetStatus(codes.Ok, "")
	return nil
}

// authenticate looks up the user by username or email and checks the
// password. Unknown users, wrong passwords and disabled accounts all
// return the same error so callers can't probe which accounts exist.
func (s *authService) authenticate(ctx context.Context, identifier, password string) (*domain.User, error) {
	user, err := s.userRepo.GetByUsernameOrEmail(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.Enabled {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}
