package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/ontrakhq/ontrak/internal/domain"
)

// timeNow is swapped in tests to pin the wall clock.
var timeNow = time.Now

// TemplateService owns template CRUD and the conflict gate on every
// activity mutation. A mutation that would leave the template with
// overlaps or missing breaks is rejected with the full conflict list
// unless the caller explicitly forces the save.
type TemplateService struct {
	templateRepo domain.TemplateRepository
	scheduleRepo domain.ScheduleRepository
	converter    *domain.TimezoneConverter
}

// NewTemplateService creates a new template service
func NewTemplateService(
	templateRepo domain.TemplateRepository,
	scheduleRepo domain.ScheduleRepository,
	converter *domain.TimezoneConverter,
) *TemplateService {
	return &TemplateService{
		templateRepo: templateRepo,
		scheduleRepo: scheduleRepo,
		converter:    converter,
	}
}

// CreateTemplate creates an empty template owned by the caller.
func (s *TemplateService) CreateTemplate(ctx context.Context, name, description string, days int, createdBy string) (*domain.Template, error) {
	if name == "" {
		return nil, domain.ErrTemplateNameRequired
	}
	if days < 1 {
		return nil, domain.ErrInvalidDay
	}

	tmpl := &domain.Template{
		Name:        name,
		Description: description,
		Days:        days,
		CreatedBy:   createdBy,
		Activities:  []*domain.Activity{},
	}
	if err := s.templateRepo.Create(ctx, tmpl); err != nil {
		return nil, err
	}
	return tmpl, nil
}

// GetTemplate fetches one template, optionally rendering display times
// for a viewer zone.
func (s *TemplateService) GetTemplate(ctx context.Context, id, viewerZone string) (*domain.Template, error) {
	tmpl, err := s.templateRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if viewerZone != "" && viewerZone != s.converter.BaseZone() {
		display, err := s.converter.ProcessActivitiesForDisplay(tmpl.Activities, viewerZone, timeNow())
		if err != nil {
			return nil, err
		}
		tmpl.Activities = display
	}
	return tmpl, nil
}

// ListTemplates returns all templates visible to the caller. Admins see
// everything, trainers see their own.
func (s *TemplateService) ListTemplates(ctx context.Context, userID string, isAdmin bool) ([]*domain.Template, error) {
	if isAdmin {
		return s.templateRepo.List(ctx)
	}
	return s.templateRepo.ListByCreator(ctx, userID)
}

// UpdateTemplate changes name/description/days. Shrinking the day count
// below an existing activity's day is rejected.
func (s *TemplateService) UpdateTemplate(ctx context.Context, id, name, description string, days int) (*domain.Template, error) {
	tmpl, err := s.templateRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if name != "" {
		tmpl.Name = name
	}
	tmpl.Description = description
	if days > 0 {
		for _, a := range tmpl.Activities {
			if a.Day > days {
				return nil, domain.ErrDayOutOfRange
			}
		}
		tmpl.Days = days
	}

	if err := s.templateRepo.Update(ctx, tmpl); err != nil {
		return nil, err
	}
	return tmpl, nil
}

// DeleteTemplate removes a template and cancels every active schedule
// started from it. Started schedules keep their copied activities; only
// their status changes.
func (s *TemplateService) DeleteTemplate(ctx context.Context, id string) error {
	if err := s.templateRepo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.scheduleRepo.CancelByTemplate(ctx, id); err != nil {
		return fmt.Errorf("template deleted but cancelling schedules failed: %w", err)
	}
	return nil
}

// AddActivity validates and conflict-checks one activity against the
// template's existing ones, then appends it. The activity's start time
// is interpreted in authorZone when given and stored in the base zone.
func (s *TemplateService) AddActivity(ctx context.Context, templateID string, activity *domain.Activity, authorZone string, force bool) (*domain.Activity, error) {
	tmpl, err := s.templateRepo.GetByID(ctx, templateID)
	if err != nil {
		return nil, err
	}

	prepared, err := s.prepareActivity(tmpl, activity, authorZone)
	if err != nil {
		return nil, err
	}

	if !force {
		if err := s.checkConflicts(append(tmpl.Activities, prepared)); err != nil {
			return nil, err
		}
	}

	prepared.ID = generateULID()
	if err := s.templateRepo.AddActivity(ctx, templateID, prepared); err != nil {
		return nil, err
	}
	return prepared, nil
}

// AddActivities appends a batch atomically: either every activity passes
// validation and the combined conflict check, or nothing is saved.
func (s *TemplateService) AddActivities(ctx context.Context, templateID string, activities []*domain.Activity, authorZone string, force bool) ([]*domain.Activity, error) {
	tmpl, err := s.templateRepo.GetByID(ctx, templateID)
	if err != nil {
		return nil, err
	}

	prepared := make([]*domain.Activity, 0, len(activities))
	prospective := append([]*domain.Activity{}, tmpl.Activities...)
	for _, a := range activities {
		p, err := s.prepareActivity(tmpl, a, authorZone)
		if err != nil {
			return nil, err
		}
		prepared = append(prepared, p)
		prospective = append(prospective, p)
	}

	if !force {
		if err := s.checkConflicts(prospective); err != nil {
			return nil, err
		}
	}

	for _, p := range prepared {
		p.ID = generateULID()
	}
	if err := s.templateRepo.AddActivities(ctx, templateID, prepared); err != nil {
		return nil, err
	}
	return prepared, nil
}

// UpdateActivity replaces an existing activity after conflict-checking
// the template as it would look post-update.
func (s *TemplateService) UpdateActivity(ctx context.Context, templateID string, activity *domain.Activity, authorZone string, force bool) (*domain.Activity, error) {
	tmpl, err := s.templateRepo.GetByID(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if tmpl.ActivityByID(activity.ID) == nil {
		return nil, domain.ErrActivityNotFound
	}

	prepared, err := s.prepareActivity(tmpl, activity, authorZone)
	if err != nil {
		return nil, err
	}

	if !force {
		prospective := make([]*domain.Activity, 0, len(tmpl.Activities))
		for _, a := range tmpl.Activities {
			if a.ID == activity.ID {
				continue
			}
			prospective = append(prospective, a)
		}
		if err := s.checkConflicts(append(prospective, prepared)); err != nil {
			return nil, err
		}
	}

	if err := s.templateRepo.UpdateActivity(ctx, templateID, prepared); err != nil {
		return nil, err
	}
	return prepared, nil
}

// RemoveActivity deletes one activity. Removal can never introduce a
// conflict, so there is no gate.
func (s *TemplateService) RemoveActivity(ctx context.Context, templateID, activityID string) error {
	return s.templateRepo.RemoveActivity(ctx, templateID, activityID)
}

// CheckConflicts runs the detector over an arbitrary activity list
// without persisting anything. Backs the dry-run endpoint.
func (s *TemplateService) CheckConflicts(ctx context.Context, activities []*domain.Activity) ([]domain.ActivityConflict, error) {
	for _, a := range activities {
		if err := a.Validate(); err != nil {
			return nil, err
		}
	}
	return domain.DetectConflicts(activities)
}

func (s *TemplateService) prepareActivity(tmpl *domain.Template, activity *domain.Activity, authorZone string) (*domain.Activity, error) {
	if err := activity.Validate(); err != nil {
		return nil, err
	}
	if activity.Day > tmpl.Days {
		return nil, domain.ErrDayOutOfRange
	}

	if authorZone != "" && authorZone != s.converter.BaseZone() {
		return s.converter.PrepareActivityForSave(activity, authorZone, timeNow())
	}
	copied := *activity
	copied.DisplayTime = ""
	return &copied, nil
}

func (s *TemplateService) checkConflicts(prospective []*domain.Activity) error {
	conflicts, err := domain.DetectConflicts(prospective)
	if err != nil {
		return err
	}
	if len(conflicts) > 0 {
		return &domain.ConflictError{Conflicts: conflicts}
	}
	return nil
}

// generateULID creates a lexicographically sortable unique ID for
// embedded activities.
func generateULID() string {
	return ulid.MustNew(ulid.Timestamp(timeNow()), rand.Reader).String()
}
