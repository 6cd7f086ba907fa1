package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/000000-cmd/SaasBack/internal/system/domain"
	"github.com/000000-cmd/SaasBack/internal/system/dto"
	"github.com/000000-cmd/SaasBack/internal/system/repository"
	"github.com/000000-cmd/SaasBack/pkg/telemetry"
)

var (
	ErrRoleNotFound      = errors.New("role not found")
	ErrRoleAlreadyExists = errors.New("role already exists")
)

// RoleService defines the interface for role management
type RoleService interface {
	// Create creates a new role
	Create(ctx context.Context, req *dto.CreateRoleRequest) (*domain.Role, error)
	// GetByID retrieves a role by ID
	GetByID(ctx context.Context, id string) (*domain.Role, error)
	// List retrieves all roles
	List(ctx context.Context) ([]*domain.Role, error)
	// Update updates a role's name and description
	Update(ctx context.Context, id string, req *dto.UpdateRoleRequest) (*domain.Role, error)
	// Delete deletes a role
	Delete(ctx context.Context, id string) error
}

type roleService struct {
	repo repository.RoleRepository
}

// NewRoleService creates a new RoleService
func NewRoleService(repo repository.RoleRepository) RoleService {
	return &roleService{repo: repo}
}

// Create creates a new role
func (s *roleService) Create(ctx context.Context, req *dto.CreateRoleRequest) (*domain.Role, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.role.create")
	defer span.End()

	span.SetAttributes(attribute.String("code", req.Code))

	existing, err := s.repo.GetByCode(ctx, req.Code)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if existing != nil {
		span.SetStatus(codes.Error, "role already exists")
		return nil, ErrRoleAlreadyExists
	}

	now := time.Now()
	role := &domain.Role{
		ID:          uuid.New().String(),
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, role); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return role, nil
}

// GetByID retrieves a role by ID
func (s *roleService) GetByID(ctx context.Context, id string) (*domain.Role, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.role.get")
	defer span.End()

	role, err := s.repo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if role == nil {
		span.SetStatus(codes.Error, "role not found")
		return nil, ErrRoleNotFound
	}

	span.SetStatus(codes.Ok, "")
	return role, nil
}

// List retrieves all roles
func (s *roleService) List(ctx context.Context) ([]*domain.Role, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.role.list")
	defer span.End()

	roles, err := s.repo.List(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return roles, nil
}

// Update updates a role's name and description
func (s *roleService) Update(ctx context.Context, id string, req *dto.UpdateRoleRequest) (*domain.Role, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.role.update")
	defer span.End()

	role, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		role.Name = req.Name
	}
	if req.Description != "" {
		role.Description = req.Description
	}

	if err := s.repo.Update(ctx, role); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return role, nil
}

// Delete deletes a role
func (s *roleService) Delete(ctx context.Context, id string) error {
	ctx, span := telemetry.StartSpan(ctx, "service.role.delete")
	defer span.End()

	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetStatus(codes.Ok, "")
	return nil
}
