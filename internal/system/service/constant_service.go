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

var ErrConstantNotFound = errors.New("constant not found")

// ConstantService defines the interface for constant management
type ConstantService interface {
	// Create creates a new constant
	Create(ctx context.Context, req *dto.CreateConstantRequest) (*domain.Constant, error)
	// GetByID retrieves a constant by ID
	GetByID(ctx context.Context, id string) (*domain.Constant, error)
	// ListByCategory retrieves enabled constants in a category
	ListByCategory(ctx context.Context, category string) ([]*domain.Constant, error)
	// Update updates a constant's value and enabled flag
	Update(ctx context.Context, id string, req *dto.UpdateConstantRequest) (*domain.Constant, error)
	// Delete deletes a constant
	Delete(ctx context.Context, id string) error
}

type constantService struct {
	repo repository.ConstantRepository
}

// NewConstantService creates a new ConstantService
func NewConstantService(repo repository.ConstantRepository) ConstantService {
	return &constantService{repo: repo}
}

// Create creates a new constant
func (s *constantService) Create(ctx context.Context, req *dto.CreateConstantRequest) (*domain.Constant, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.constant.create")
	defer span.End()

	span.SetAttributes(
		attribute.String("category", req.Category),
		attribute.String("key", req.Key),
	)

	now := time.Now()
	constant := &domain.Constant{
		ID:        uuid.New().String(),
		Category:  req.Category,
		Key:       req.Key,
		Value:     req.Value,
		Enabled:   true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, constant); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return constant, nil
}

// GetByID retrieves a constant by ID
func (s *constantService) GetByID(ctx context.Context, id string) (*domain.Constant, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.constant.get")
	defer span.End()

	constant, err := s.repo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if constant == nil {
		span.SetStatus(codes.Error, "constant not found")
		return nil, ErrConstantNotFound
	}

	span.SetStatus(codes.Ok, "")
	return constant, nil
}

// ListByCategory retrieves enabled constants in a category
func (s *constantService) ListByCategory(ctx context.Context, category string) ([]*domain.Constant, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.constant.list")
	defer span.End()

	span.SetAttributes(attribute.String("category", category))

	constants, err := s.repo.ListByCategory(ctx, category)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return constants, nil
}

// Update updates a constant's value and enabled flag
func (s *constantService) Update(ctx context.Context, id string, req *dto.UpdateConstantRequest) (*domain.Constant, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.constant.update")
	defer span.End()

	constant, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Value != "" {
		constant.Value = req.Value
	}
	if req.Enabled != nil {
		constant.Enabled = *req.Enabled
	}

	if err := s.repo.Update(ctx, constant); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return constant, nil
}

// Delete deletes a constant
func (s *constantService) Delete(ctx context.Context, id string) error {
	ctx, span := telemetry.StartSpan(ctx, "service.constant.delete")
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
