package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/ontrakhq/ontrak/internal/domain"
)

const (
	templateByIDKeyPrefix = "template:id:"
	templateListKey       = "template:list"
	templateCacheTTL      = 5 * time.Minute
)

// CachedTemplateRepository wraps MongoTemplateRepository with Redis caching.
// Templates are read on every live-status request, so reads dominate
// writes by a wide margin.
type CachedTemplateRepository struct {
	mongo *MongoTemplateRepository
	cache *RedisCacheRepository
}

// NewCachedTemplateRepository creates a new cached template repository
func NewCachedTemplateRepository(mongo *MongoTemplateRepository, cache *RedisCacheRepository) *CachedTemplateRepository {
	return &CachedTemplateRepository{
		mongo: mongo,
		cache: cache,
	}
}

// GetByID retrieves a template by ID with caching
func (r *CachedTemplateRepository) GetByID(ctx context.Context, id string) (*domain.Template, error) {
	key := templateByIDKeyPrefix + id

	var tmpl domain.Template
	if err := r.cache.Get(ctx, key, &tmpl); err == nil {
		return &tmpl, nil
	}

	result, err := r.mongo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Store in cache (ignore cache errors)
	_ = r.cache.Set(ctx, key, result, templateCacheTTL)

	return result, nil
}

// Create creates a template and invalidates list caches
func (r *CachedTemplateRepository) Create(ctx context.Context, tmpl *domain.Template) error {
	if err := r.mongo.Create(ctx, tmpl); err != nil {
		return err
	}
	r.invalidateLists(ctx, tmpl.CreatedBy)
	return nil
}

// Update updates template metadata and invalidates caches
func (r *CachedTemplateRepository) Update(ctx context.Context, tmpl *domain.Template) error {
	if err := r.mongo.Update(ctx, tmpl); err != nil {
		return err
	}
	r.invalidate(ctx, tmpl.ID, tmpl.CreatedBy)
	return nil
}

// Delete deletes a template and invalidates caches
func (r *CachedTemplateRepository) Delete(ctx context.Context, id string) error {
	tmpl, _ := r.mongo.GetByID(ctx, id)

	if err := r.mongo.Delete(ctx, id); err != nil {
		return err
	}

	if tmpl != nil {
		r.invalidate(ctx, id, tmpl.CreatedBy)
	} else {
		_ = r.cache.Delete(ctx, templateByIDKeyPrefix+id)
	}
	return nil
}

// AddActivity appends an activity and invalidates the template cache
func (r *CachedTemplateRepository) AddActivity(ctx context.Context, templateID string, activity *domain.Activity) error {
	if err := r.mongo.AddActivity(ctx, templateID, activity); err != nil {
		return err
	}
	_ = r.cache.Delete(ctx, templateByIDKeyPrefix+templateID)
	return nil
}

// AddActivities appends several activities and invalidates the template cache
func (r *CachedTemplateRepository) AddActivities(ctx context.Context, templateID string, activities []*domain.Activity) error {
	if err := r.mongo.AddActivities(ctx, templateID, activities); err != nil {
		return err
	}
	_ = r.cache.Delete(ctx, templateByIDKeyPrefix+templateID)
	return nil
}

// UpdateActivity replaces an embedded activity and invalidates the template cache
func (r *CachedTemplateRepository) UpdateActivity(ctx context.Context, templateID string, activity *domain.Activity) error {
	if err := r.mongo.UpdateActivity(ctx, templateID, activity); err != nil {
		return err
	}
	_ = r.cache.Delete(ctx, templateByIDKeyPrefix+templateID)
	return nil
}

// RemoveActivity removes an embedded activity and invalidates the template cache
func (r *CachedTemplateRepository) RemoveActivity(ctx context.Context, templateID, activityID string) error {
	if err := r.mongo.RemoveActivity(ctx, templateID, activityID); err != nil {
		return err
	}
	_ = r.cache.Delete(ctx, templateByIDKeyPrefix+templateID)
	return nil
}

// === Pass-through methods (no caching) ===

func (r *CachedTemplateRepository) List(ctx context.Context) ([]*domain.Template, error) {
	return r.mongo.List(ctx)
}

func (r *CachedTemplateRepository) ListByCreator(ctx context.Context, userID string) ([]*domain.Template, error) {
	return r.mongo.ListByCreator(ctx, userID)
}

func (r *CachedTemplateRepository) invalidate(ctx context.Context, templateID, creatorID string) {
	_ = r.cache.Delete(ctx, templateByIDKeyPrefix+templateID)
	r.invalidateLists(ctx, creatorID)
}

func (r *CachedTemplateRepository) invalidateLists(ctx context.Context, creatorID string) {
	_ = r.cache.Delete(ctx, templateListKey)
	_ = r.cache.DeleteByPattern(ctx, fmt.Sprintf("template:creator:%s:*", creatorID))
}
