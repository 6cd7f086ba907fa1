package repository

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/000000-cmd/SaasBack/internal/system/domain"
	"github.com/000000-cmd/SaasBack/pkg/logger"
	pkgredis "github.com/000000-cmd/SaasBack/pkg/redis"
)

const (
	constantCachePrefix = "constants:category:"
	constantCacheTTL    = 10 * time.Minute
)

// CachedConstantRepository wraps a ConstantRepository with a Redis
// read-through cache keyed by category. Writes invalidate the affected
// category. Cache failures fall back to the database.
type CachedConstantRepository struct {
	inner ConstantRepository
	redis *pkgredis.Client
	log   *logger.Logger
}

// NewCachedConstantRepository creates a new CachedConstantRepository
func NewCachedConstantRepository(inner ConstantRepository, redis *pkgredis.Client, log *logger.Logger) *CachedConstantRepository {
	return &CachedConstantRepository{inner: inner, redis: redis, log: log}
}

// Create creates a new constant and invalidates its category
func (r *CachedConstantRepository) Create(ctx context.Context, constant *domain.Constant) error {
	if err := r.inner.Create(ctx, constant); err != nil {
		return err
	}
	r.invalidate(ctx, constant.Category)
	return nil
}

// GetByID retrieves a constant by ID, bypassing the cache
func (r *CachedConstantRepository) GetByID(ctx context.Context, id string) (*domain.Constant, error) {
	return r.inner.GetByID(ctx, id)
}

// ListByCategory retrieves enabled constants in a category
func (r *CachedConstantRepository) ListByCategory(ctx context.Context, category string) ([]*domain.Constant, error) {
	key := constantCachePrefix + category

	cached, err := r.redis.Client().Get(ctx, key).Bytes()
	if err == nil {
		var constants []*domain.Constant
		if err := json.Unmarshal(cached, &constants); err == nil {
			return constants, nil
		}
	}

	constants, err := r.inner.ListByCategory(ctx, category)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(constants); err == nil {
		if err := r.redis.Client().Set(ctx, key, data, constantCacheTTL).Err(); err != nil {
			r.log.Warn("Failed to cache constants", zap.String("category", category), zap.Error(err))
		}
	}

	return constants, nil
}

// Update updates a constant and invalidates its category
func (r *CachedConstantRepository) Update(ctx context.Context, constant *domain.Constant) error {
	if err := r.inner.Update(ctx, constant); err != nil {
		return err
	}
	r.invalidate(ctx, constant.Category)
	return nil
}

// Delete deletes a constant and invalidates its category
func (r *CachedConstantRepository) Delete(ctx context.Context, id string) error {
	constant, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := r.inner.Delete(ctx, id); err != nil {
		return err
	}
	if constant != nil {
		r.invalidate(ctx, constant.Category)
	}
	return nil
}

func (r *CachedConstantRepository) invalidate(ctx context.Context, category string) {
	key := constantCachePrefix + category
	if err := r.redis.Client().Del(ctx, key).Err(); err != nil {
		r.log.Warn("Failed to invalidate constant cache", zap.String("category", category), zap.Error(err))
	}
}
