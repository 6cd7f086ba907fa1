package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/crypto/bcrypt"

	"github.com/000000-cmd/SaasBack/internal/auth/audit"
	"github.com/000000-cmd/SaasBack/internal/auth/domain"
	"github.com/000000-cmd/SaasBack/internal/auth/dto"
	"github.com/000000-cmd/SaasBack/internal/auth/repository"
	"github.com/000000-cmd/SaasBack/pkg/telemetry"
)

var (
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrWrongPassword     = errors.New("wrong password")
)

// DefaultRole is granted to new users when no roles are requested
const DefaultRole = "USER"

// UserService defines the interface for user management operations
type UserService interface {
	// Create registers a new user
	Create(ctx context.Context, req *dto.CreateUserRequest) (*domain.User, error)
	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// List retrieves all users
	List(ctx context.Context) ([]*domain.User, error)
	// Update updates profile fields
	Update(ctx context.Context, id string, req *dto.UpdateUserRequest) (*domain.User, error)
	// ChangePassword verifies the current password and sets a new one.
	// The user's active session is revoked.
	ChangePassword(ctx context.Context, id string, req *dto.ChangePasswordRequest) error
	// AssignRoles replaces the full role set of a user
	AssignRoles(ctx context.Context, id string, req *dto.AssignRolesRequest) (*domain.User, error)
	// SetEnabled enables or disables an account. Disabling revokes
	// the active session.
	SetEnabled(ctx context.Context, id string, enabled bool) (*domain.User, error)
}

type userService struct {
	userRepo     repository.UserRepository
	refreshSvc   RefreshTokenService
	bcryptCost   int
	auditEmitter audit.Publisher
}

// NewUserService creates a new UserService
func NewUserService(
	userRepo repository.UserRepository,
	refreshSvc RefreshTokenService,
	bcryptCost int,
	auditEmitter audit.Publisher,
) UserService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	if auditEmitter == nil {
		auditEmitter = audit.NopPublisher{}
	}
	return &userService{
		userRepo:     userRepo,
		refreshSvc:   refreshSvc,
		bcryptCost:   bcryptCost,
		auditEmitter: auditEmitter,
	}
}

// Create registers a new user
func (s *userService) Create(ctx context.Context, req *dto.CreateUserRequest) (*domain.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.user.create")
	defer span.End()

	span.SetAttributes(attribute.String("username", req.Username))

	exists, err := s.userRepo.ExistsByUsernameOrEmail(ctx, req.Username, req.Email)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if exists {
		span.SetStatus(codes.Error, "user already exists")
		return nil, ErrUserAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	roles := req.Roles
	if len(roles) == 0 {
		roles = []string{DefaultRole}
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New().String(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		DisplayName:  req.DisplayName,
		Cellular:     req.Cellular,
		Enabled:      true,
		RoleCodes:    roles,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	s.auditEmitter.Publish(ctx, audit.Event{
		Type:     audit.EventUserCreated,
		UserID:   user.ID,
		Username: user.Username,
	})

	span.SetAttributes(attribute.String("user_id", user.ID))
	span.SetStatus(codes.Ok, "")
	return user, nil
}

// GetByID retrieves a user by ID
func (s *userService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.user.get")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", id))

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if user == nil {
		span.SetStatus(codes.Error, "user not found")
		return nil, ErrUserNotFound
	}

	span.SetStatus(codes.Ok, "")
	return user, nil
}

// List retrieves all users
func (s *userService) List(ctx context.Context) ([]*domain.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.user.list")
	defer span.End()

	users, err := s.userRepo.List(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("count", len(users)))
	span.SetStatus(codes.Ok, "")
	return users, nil
}

// Update updates profile fields
func (s *userService) Update(ctx context.Context, id string, req *dto.UpdateUserRequest) (*domain.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.user.update")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", id))

	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != "" {
		user.DisplayName = req.DisplayName
	}
	if req.Cellular != "" {
		user.Cellular = req.Cellular
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return user, nil
}

// ChangePassword verifies the current password and sets a new one
func (s *userService) ChangePassword(ctx context.Context, id string, req *dto.ChangePasswordRequest) error {
	ctx, span := telemetry.StartSpan(ctx, "service.user.change_password")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", id))

	user, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		span.SetStatus(codes.Error, "wrong password")
		return ErrWrongPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.bcryptCost)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	user.PasswordHash = string(hash)
	if err := s.userRepo.Update(ctx, user); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	// Force re-login everywhere after a password change
	_ = s.refreshSvc.DeleteByUserID(ctx, id)

	s.auditEmitter.Publish(ctx, audit.Event{
		Type:     audit.EventPasswordChange,
		UserID:   user.ID,
		Username: user.Username,
	})

	span.SetStatus(codes.Ok, "")
	return nil
}

// AssignRoles replaces the full role set of a user
func (s *userService) AssignRoles(ctx context.Context, id string, req *dto.AssignRolesRequest) (*domain.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.user.assign_roles")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", id))

	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.ReplaceRoles(ctx, id, req.Roles); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	user.RoleCodes = req.Roles

	s.auditEmitter.Publish(ctx, audit.Event{
		Type:     audit.EventRolesChanged,
		UserID:   user.ID,
		Username: user.Username,
	})

	span.SetStatus(codes.Ok, "")
	return user, nil
}

// SetEnabled enables or disables an account
func (s *userService) SetEnabled(ctx context.Context, id string, enabled bool) (*domain.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.user.set_enabled")
	defer span.End()

	span.SetAttributes(
		attribute.String("user_id", id),
		attribute.Bool("enabled", enabled),
	)

	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Enabled = enabled
	if err := s.userRepo.Update(ctx, user); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if !enabled {
		_ = s.refreshSvc.DeleteByUserID(ctx, id)
	}

	span.SetStatus(codes.Ok, "")
	return user, nil
}
