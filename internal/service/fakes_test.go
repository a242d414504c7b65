package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ontrakhq/ontrak/internal/domain"
)

// In-memory repository fakes for service tests. They follow the same
// copy discipline as the Mongo implementations: what goes in and out is
// detached from internal state.

type fakeTemplateRepo struct {
	templates map[string]*domain.Template
	nextID    int
}

func newFakeTemplateRepo() *fakeTemplateRepo {
	return &fakeTemplateRepo{templates: make(map[string]*domain.Template)}
}

func (f *fakeTemplateRepo) Create(_ context.Context, tmpl *domain.Template) error {
	f.nextID++
	tmpl.ID = fmt.Sprintf("tmpl-%d", f.nextID)
	tmpl.CreatedAt = time.Now()
	tmpl.UpdatedAt = time.Now()
	f.templates[tmpl.ID] = copyTemplate(tmpl)
	return nil
}

func (f *fakeTemplateRepo) GetByID(_ context.Context, id string) (*domain.Template, error) {
	tmpl, ok := f.templates[id]
	if !ok {
		return nil, domain.ErrTemplateNotFound
	}
	return copyTemplate(tmpl), nil
}

func (f *fakeTemplateRepo) List(_ context.Context) ([]*domain.Template, error) {
	var out []*domain.Template
	for _, tmpl := range f.templates {
		out = append(out, copyTemplate(tmpl))
	}
	return out, nil
}

func (f *fakeTemplateRepo) ListByCreator(_ context.Context, userID string) ([]*domain.Template, error) {
	var out []*domain.Template
	for _, tmpl := range f.templates {
		if tmpl.CreatedBy == userID {
			out = append(out, copyTemplate(tmpl))
		}
	}
	return out, nil
}

func (f *fakeTemplateRepo) Update(_ context.Context, tmpl *domain.Template) error {
	stored, ok := f.templates[tmpl.ID]
	if !ok {
		return domain.ErrTemplateNotFound
	}
	stored.Name = tmpl.Name
	stored.Description = tmpl.Description
	stored.Days = tmpl.Days
	return nil
}

func (f *fakeTemplateRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.templates[id]; !ok {
		return domain.ErrTemplateNotFound
	}
	delete(f.templates, id)
	return nil
}

func (f *fakeTemplateRepo) AddActivity(_ context.Context, templateID string, activity *domain.Activity) error {
	tmpl, ok := f.templates[templateID]
	if !ok {
		return domain.ErrTemplateNotFound
	}
	copied := *activity
	tmpl.Activities = append(tmpl.Activities, &copied)
	return nil
}

func (f *fakeTemplateRepo) AddActivities(_ context.Context, templateID string, activities []*domain.Activity) error {
	for _, a := range activities {
		if err := f.AddActivity(nil, templateID, a); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeTemplateRepo) UpdateActivity(_ context.Context, templateID string, activity *domain.Activity) error {
	tmpl, ok := f.templates[templateID]
	if !ok {
		return domain.ErrTemplateNotFound
	}
	for i, a := range tmpl.Activities {
		if a.ID == activity.ID {
			copied := *activity
			tmpl.Activities[i] = &copied
			return nil
		}
	}
	return domain.ErrActivityNotFound
}

func (f *fakeTemplateRepo) RemoveActivity(_ context.Context, templateID, activityID string) error {
	tmpl, ok := f.templates[templateID]
	if !ok {
		return domain.ErrTemplateNotFound
	}
	for i, a := range tmpl.Activities {
		if a.ID == activityID {
			tmpl.Activities = append(tmpl.Activities[:i], tmpl.Activities[i+1:]...)
			return nil
		}
	}
	return domain.ErrActivityNotFound
}

func copyTemplate(tmpl *domain.Template) *domain.Template {
	copied := *tmpl
	copied.Activities = make([]*domain.Activity, len(tmpl.Activities))
	for i, a := range tmpl.Activities {
		ac := *a
		copied.Activities[i] = &ac
	}
	return &copied
}

type fakeScheduleRepo struct {
	schedules         map[string]*domain.Schedule
	nextID            int
	cancelledTemplate string
}

func newFakeScheduleRepo() *fakeScheduleRepo {
	return &fakeScheduleRepo{schedules: make(map[string]*domain.Schedule)}
}

func (f *fakeScheduleRepo) Create(_ context.Context, schedule *domain.Schedule) error {
	f.nextID++
	schedule.ID = fmt.Sprintf("sched-%d", f.nextID)
	schedule.CreatedAt = time.Now()
	schedule.UpdatedAt = time.Now()
	f.schedules[schedule.ID] = copySchedule(schedule)
	return nil
}

func (f *fakeScheduleRepo) GetByID(_ context.Context, id string) (*domain.Schedule, error) {
	schedule, ok := f.schedules[id]
	if !ok {
		return nil, domain.ErrScheduleNotFound
	}
	return copySchedule(schedule), nil
}

func (f *fakeScheduleRepo) ListByTrainer(_ context.Context, trainerID string, _, _ time.Time) ([]*domain.Schedule, error) {
	var out []*domain.Schedule
	for _, s := range f.schedules {
		if s.TrainerID == trainerID {
			out = append(out, copySchedule(s))
		}
	}
	return out, nil
}

func (f *fakeScheduleRepo) ListByTrainerAndStatus(_ context.Context, trainerID string, statuses []string) ([]*domain.Schedule, error) {
	var out []*domain.Schedule
	for _, s := range f.schedules {
		if s.TrainerID != trainerID {
			continue
		}
		for _, status := range statuses {
			if s.Status == status {
				out = append(out, copySchedule(s))
				break
			}
		}
	}
	return out, nil
}

func (f *fakeScheduleRepo) UpdateStatus(_ context.Context, id string, status string) error {
	schedule, ok := f.schedules[id]
	if !ok {
		return domain.ErrScheduleNotFound
	}
	schedule.Status = status
	return nil
}

func (f *fakeScheduleRepo) UpdateActivityRun(_ context.Context, scheduleID string, activity *domain.Activity) error {
	schedule, ok := f.schedules[scheduleID]
	if !ok {
		return domain.ErrScheduleNotFound
	}
	for _, a := range schedule.Activities {
		if a.ID == activity.ID {
			a.ActualStartTime = activity.ActualStartTime
			a.ActualEndTime = activity.ActualEndTime
			a.Completed = activity.Completed
			return nil
		}
	}
	return domain.ErrActivityNotFound
}

func (f *fakeScheduleRepo) CancelByTemplate(_ context.Context, templateID string) error {
	f.cancelledTemplate = templateID
	for _, s := range f.schedules {
		if s.TemplateID == templateID && s.Status == domain.ScheduleStatusActive {
			s.Status = domain.ScheduleStatusCancelled
		}
	}
	return nil
}

func copySchedule(schedule *domain.Schedule) *domain.Schedule {
	copied := *schedule
	copied.Activities = make([]*domain.Activity, len(schedule.Activities))
	for i, a := range schedule.Activities {
		ac := *a
		copied.Activities[i] = &ac
	}
	return &copied
}
