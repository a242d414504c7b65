package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/ontrakhq/ontrak/internal/domain"
)

const (
	scheduleByIDKeyPrefix = "schedule:id:"
	scheduleCacheTTL      = 1 * time.Minute
)

// CachedScheduleRepository wraps MongoScheduleRepository with Redis
// caching. The TTL is short because live-status polling reads the
// schedule every few seconds while runs mutate it.
type CachedScheduleRepository struct {
	mongo *MongoScheduleRepository
	cache *RedisCacheRepository
}

// NewCachedScheduleRepository creates a new cached schedule repository
func NewCachedScheduleRepository(mongo *MongoScheduleRepository, cache *RedisCacheRepository) *CachedScheduleRepository {
	return &CachedScheduleRepository{
		mongo: mongo,
		cache: cache,
	}
}

// GetByID retrieves a schedule by ID with caching
func (r *CachedScheduleRepository) GetByID(ctx context.Context, id string) (*domain.Schedule, error) {
	key := scheduleByIDKeyPrefix + id

	var schedule domain.Schedule
	if err := r.cache.Get(ctx, key, &schedule); err == nil {
		return &schedule, nil
	}

	result, err := r.mongo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Store in cache (ignore cache errors)
	_ = r.cache.Set(ctx, key, result, scheduleCacheTTL)

	return result, nil
}

// Create creates a schedule and invalidates the trainer's lists
func (r *CachedScheduleRepository) Create(ctx context.Context, schedule *domain.Schedule) error {
	if err := r.mongo.Create(ctx, schedule); err != nil {
		return err
	}
	_ = r.cache.DeleteByPattern(ctx, fmt.Sprintf("schedule:trainer:%s:*", schedule.TrainerID))
	return nil
}

// UpdateStatus updates schedule status and invalidates caches
func (r *CachedScheduleRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	schedule, _ := r.mongo.GetByID(ctx, id)

	if err := r.mongo.UpdateStatus(ctx, id, status); err != nil {
		return err
	}

	_ = r.cache.Delete(ctx, scheduleByIDKeyPrefix+id)
	if schedule != nil {
		_ = r.cache.DeleteByPattern(ctx, fmt.Sprintf("schedule:trainer:%s:*", schedule.TrainerID))
	}
	return nil
}

// UpdateActivityRun persists live-run fields and drops the stale copy
func (r *CachedScheduleRepository) UpdateActivityRun(ctx context.Context, scheduleID string, activity *domain.Activity) error {
	if err := r.mongo.UpdateActivityRun(ctx, scheduleID, activity); err != nil {
		return err
	}
	_ = r.cache.Delete(ctx, scheduleByIDKeyPrefix+scheduleID)
	return nil
}

// CancelByTemplate cancels active schedules of a template. The affected
// ids are unknown here, so the whole schedule keyspace is dropped.
func (r *CachedScheduleRepository) CancelByTemplate(ctx context.Context, templateID string) error {
	if err := r.mongo.CancelByTemplate(ctx, templateID); err != nil {
		return err
	}
	_ = r.cache.DeleteByPattern(ctx, "schedule:*")
	return nil
}

// === Pass-through methods (no caching) ===

func (r *CachedScheduleRepository) ListByTrainer(ctx context.Context, trainerID string, from, to time.Time) ([]*domain.Schedule, error) {
	return r.mongo.ListByTrainer(ctx, trainerID, from, to)
}

func (r *CachedScheduleRepository) ListByTrainerAndStatus(ctx context.Context, trainerID string, statuses []string) ([]*domain.Schedule, error) {
	return r.mongo.ListByTrainerAndStatus(ctx, trainerID, statuses)
}
