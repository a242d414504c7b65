package service

import (
	"context"
	"errors"
	"time"

	"github.com/ontrakhq/ontrak/internal/domain"
)

var (
	ErrScheduleNotActive    = errors.New("schedule is not active")
	ErrActivityAlreadyEnded = errors.New("activity already completed")
)

// LiveStatusResponse is the live endpoint payload: the resolver output
// plus the run context a dashboard needs.
type LiveStatusResponse struct {
	ScheduleID string `json:"schedule_id"`
	Day        int    `json:"day"`
	Timezone   string `json:"timezone"`
	*domain.LiveStatus
}

// ScheduleService owns the lifecycle of running schedules: starting one
// from a template, recording activity runs, and deriving live status.
type ScheduleService struct {
	scheduleRepo domain.ScheduleRepository
	templateRepo domain.TemplateRepository
	converter    *domain.TimezoneConverter
	baseLoc      *time.Location
}

// NewScheduleService creates a new schedule service
func NewScheduleService(
	scheduleRepo domain.ScheduleRepository,
	templateRepo domain.TemplateRepository,
	converter *domain.TimezoneConverter,
	baseLoc *time.Location,
) *ScheduleService {
	return &ScheduleService{
		scheduleRepo: scheduleRepo,
		templateRepo: templateRepo,
		converter:    converter,
		baseLoc:      baseLoc,
	}
}

// StartSchedule creates an active schedule from a template. Activities
// are deep-copied with fresh IDs, so later template edits or deletion
// never reach a running schedule.
func (s *ScheduleService) StartSchedule(ctx context.Context, templateID, trainerID, name string, startDate time.Time) (*domain.Schedule, error) {
	tmpl, err := s.templateRepo.GetByID(ctx, templateID)
	if err != nil {
		return nil, err
	}

	if name == "" {
		name = tmpl.Name
	}
	if startDate.IsZero() {
		now := timeNow().In(s.baseLoc)
		startDate = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.baseLoc)
	}

	activities := make([]*domain.Activity, len(tmpl.Activities))
	for i, a := range tmpl.Activities {
		copied := *a
		copied.ID = generateULID()
		copied.ActualStartTime = nil
		copied.ActualEndTime = nil
		copied.Completed = false
		copied.DisplayTime = ""
		activities[i] = &copied
	}

	schedule := &domain.Schedule{
		TemplateID: templateID,
		TrainerID:  trainerID,
		Name:       name,
		StartDate:  startDate,
		Days:       tmpl.Days,
		Status:     domain.ScheduleStatusActive,
		Activities: activities,
	}
	if err := s.scheduleRepo.Create(ctx, schedule); err != nil {
		return nil, err
	}
	return schedule, nil
}

// GetSchedule fetches a schedule the caller owns, optionally rendering
// display times for a viewer zone.
func (s *ScheduleService) GetSchedule(ctx context.Context, id, trainerID, viewerZone string) (*domain.Schedule, error) {
	schedule, err := s.ownedSchedule(ctx, id, trainerID)
	if err != nil {
		return nil, err
	}
	if viewerZone != "" && viewerZone != s.converter.BaseZone() {
		display, err := s.converter.ProcessActivitiesForDisplay(schedule.Activities, viewerZone, timeNow().In(s.baseLoc))
		if err != nil {
			return nil, err
		}
		schedule.Activities = display
	}
	return schedule, nil
}

// ListSchedules returns the caller's schedules, optionally filtered by
// status.
func (s *ScheduleService) ListSchedules(ctx context.Context, trainerID string, statuses []string) ([]*domain.Schedule, error) {
	if len(statuses) > 0 {
		return s.scheduleRepo.ListByTrainerAndStatus(ctx, trainerID, statuses)
	}
	return s.scheduleRepo.ListByTrainer(ctx, trainerID, time.Time{}, time.Time{})
}

// GetLiveStatus resolves the current/previous/next view of today's
// activities. Current day is derived from the start date in the base
// zone; the returned activities carry viewer-zone display times.
func (s *ScheduleService) GetLiveStatus(ctx context.Context, id, trainerID, viewerZone string) (*LiveStatusResponse, error) {
	schedule, err := s.ownedSchedule(ctx, id, trainerID)
	if err != nil {
		return nil, err
	}

	now := timeNow().In(s.baseLoc)
	day := schedule.DayFor(now)

	activities := schedule.Activities
	zone := viewerZone
	if zone == "" {
		zone = s.converter.BaseZone()
	}
	if zone != s.converter.BaseZone() {
		activities, err = s.converter.ProcessActivitiesForDisplay(activities, zone, now)
		if err != nil {
			return nil, err
		}
	}

	status, err := domain.ResolveLiveStatus(activities, day, now)
	if err != nil {
		return nil, err
	}

	return &LiveStatusResponse{
		ScheduleID: schedule.ID,
		Day:        day,
		Timezone:   zone,
		LiveStatus: status,
	}, nil
}

// StartActivity records the actual start instant of one activity.
// Restarting a finished activity reopens it.
func (s *ScheduleService) StartActivity(ctx context.Context, scheduleID, trainerID, activityID string) (*domain.Activity, error) {
	schedule, activity, err := s.runTarget(ctx, scheduleID, trainerID, activityID)
	if err != nil {
		return nil, err
	}

	now := timeNow()
	activity.ActualStartTime = &now
	activity.ActualEndTime = nil
	activity.Completed = false

	if err := s.scheduleRepo.UpdateActivityRun(ctx, schedule.ID, activity); err != nil {
		return nil, err
	}
	return activity, nil
}

// CompleteActivity records the actual end instant and marks the
// activity done. Completing an unstarted activity (a skip) records only
// the completed flag.
func (s *ScheduleService) CompleteActivity(ctx context.Context, scheduleID, trainerID, activityID string) (*domain.Activity, error) {
	schedule, activity, err := s.runTarget(ctx, scheduleID, trainerID, activityID)
	if err != nil {
		return nil, err
	}
	if activity.Completed {
		return nil, ErrActivityAlreadyEnded
	}

	if activity.ActualStartTime != nil {
		now := timeNow()
		activity.ActualEndTime = &now
	}
	activity.Completed = true

	if err := s.scheduleRepo.UpdateActivityRun(ctx, schedule.ID, activity); err != nil {
		return nil, err
	}
	return activity, nil
}

// CompleteSchedule ends a run. Any still-open activity is left as-is;
// the status change is what takes the schedule out of live rotation.
func (s *ScheduleService) CompleteSchedule(ctx context.Context, id, trainerID string) error {
	return s.setStatus(ctx, id, trainerID, domain.ScheduleStatusCompleted)
}

// CancelSchedule aborts a run.
func (s *ScheduleService) CancelSchedule(ctx context.Context, id, trainerID string) error {
	return s.setStatus(ctx, id, trainerID, domain.ScheduleStatusCancelled)
}

func (s *ScheduleService) setStatus(ctx context.Context, id, trainerID, status string) error {
	schedule, err := s.ownedSchedule(ctx, id, trainerID)
	if err != nil {
		return err
	}
	if schedule.Status != domain.ScheduleStatusActive {
		return ErrScheduleNotActive
	}
	return s.scheduleRepo.UpdateStatus(ctx, id, status)
}

func (s *ScheduleService) ownedSchedule(ctx context.Context, id, trainerID string) (*domain.Schedule, error) {
	schedule, err := s.scheduleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if trainerID != "" && schedule.TrainerID != trainerID {
		return nil, domain.ErrForbidden
	}
	return schedule, nil
}

func (s *ScheduleService) runTarget(ctx context.Context, scheduleID, trainerID, activityID string) (*domain.Schedule, *domain.Activity, error) {
	schedule, err := s.ownedSchedule(ctx, scheduleID, trainerID)
	if err != nil {
		return nil, nil, err
	}
	if schedule.Status != domain.ScheduleStatusActive {
		return nil, nil, ErrScheduleNotActive
	}
	activity := schedule.ActivityByID(activityID)
	if activity == nil {
		return nil, nil, domain.ErrActivityNotFound
	}
	return schedule, activity, nil
}
