package service

import (
	"context"
	"errors"
	"testing"

	"github.com/000000-cmd/SaasBack/internal/system/domain"
	"github.com/000000-cmd/SaasBack/internal/system/dto"
)

// mockConstantRepository is a mock implementation of ConstantRepository
type mockConstantRepository struct {
	constants map[string]*domain.Constant
}

func newMockConstantRepository() *mockConstantRepository {
	return &mockConstantRepository{constants: make(map[string]*domain.Constant)}
}

func (r *mockConstantRepository) Create(ctx context.Context, constant *domain.Constant) error {
	r.constants[constant.ID] = constant
	return nil
}

func (r *mockConstantRepository) GetByID(ctx context.Context, id string) (*domain.Constant, error) {
	return r.constants[id], nil
}

func (r *mockConstantRepository) ListByCategory(ctx context.Context, category string) ([]*domain.Constant, error) {
	var result []*domain.Constant
	for _, c := range r.constants {
		if c.Category == category && c.Enabled {
			result = append(result, c)
		}
	}
	return result, nil
}

func (r *mockConstantRepository) Update(ctx context.Context, constant *domain.Constant) error {
	r.constants[constant.ID] = constant
	return nil
}

func (r *mockConstantRepository) Delete(ctx context.Context, id string) error {
	delete(r.constants, id)
	return nil
}

func TestConstantService(t *testing.T) {
	repo := newMockConstantRepository()
	svc := NewConstantService(repo)

	t.Run("create starts enabled", func(t *testing.T) {
		constant, err := svc.Create(context.Background(), &dto.CreateConstantRequest{
			Category: "currencies",
			Key:      "USD",
			Value:    "US Dollar",
		})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if !constant.Enabled {
			t.Error("Create() constant is disabled")
		}
	})

	t.Run("list filters disabled entries", func(t *testing.T) {
		constant, err := svc.Create(context.Background(), &dto.CreateConstantRequest{
			Category: "currencies",
			Key:      "EUR",
			Value:    "Euro",
		})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		disabled := false
		if _, err := svc.Update(context.Background(), constant.ID, &dto.UpdateConstantRequest{
			Enabled: &disabled,
		}); err != nil {
			t.Fatalf("Update() error = %v", err)
		}

		constants, err := svc.ListByCategory(context.Background(), "currencies")
		if err != nil {
			t.Fatalf("ListByCategory() error = %v", err)
		}
		for _, c := range constants {
			if c.Key == "EUR" {
				t.Error("ListByCategory() returned a disabled constant")
			}
		}
	})

	t.Run("get missing", func(t *testing.T) {
		_, err := svc.GetByID(context.Background(), "missing")
		if !errors.Is(err, ErrConstantNotFound) {
			t.Errorf("GetByID() error = %v, want ErrConstantNotFound", err)
		}
	})
}
