package domain

import (
	"context"
	"errors"
	"time"
)

var ErrScheduleNotFound = errors.New("schedule not found")

// Schedule Status Constants
const (
	ScheduleStatusActive    = "active"
	ScheduleStatusCompleted = "completed"
	ScheduleStatusCancelled = "cancelled"
)

// Schedule is a live run of a Template starting on a specific calendar
// date. It owns a deep copy of the template's activities taken at start
// time; actual start/end timestamps are recorded on these copies as the
// trainer works through the day.
type Schedule struct {
	ID         string      `json:"id" bson:"_id,omitempty"`
	TemplateID string      `json:"template_id" bson:"template_id"`
	TrainerID  string      `json:"trainer_id" bson:"trainer_id"`
	Name       string      `json:"name" bson:"name"`
	StartDate  time.Time   `json:"start_date" bson:"start_date"` // midnight of day 1, base timezone
	Days       int         `json:"days" bson:"days"`
	Status     string      `json:"status" bson:"status"`
	Activities []*Activity `json:"activities" bson:"activities"`
	CreatedAt  time.Time   `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at" bson:"updated_at"`
}

// DayFor maps an instant to the 1-based day index of this run. Instants
// before the start date map to day 1; the caller checks the upper bound
// against Days if it matters.
func (s *Schedule) DayFor(now time.Time) int {
	// StartDate may come back from storage in UTC; read its calendar
	// date in the evaluation zone.
	sd := s.StartDate.In(now.Location())
	start := time.Date(sd.Year(), sd.Month(), sd.Day(), 0, 0, 0, 0, now.Location())
	day := int(now.Sub(start).Hours()/24) + 1
	if day < 1 {
		return 1
	}
	return day
}

// ActivityByID finds an embedded activity, or nil.
func (s *Schedule) ActivityByID(id string) *Activity {
	for _, a := range s.Activities {
		if a.ID == id {
			return a
		}
	}
	return nil
}

type ScheduleRepository interface {
	Create(ctx context.Context, schedule *Schedule) error
	GetByID(ctx context.Context, id string) (*Schedule, error)
	ListByTrainer(ctx context.Context, trainerID string, from, to time.Time) ([]*Schedule, error)
	ListByTrainerAndStatus(ctx context.Context, trainerID string, statuses []string) ([]*Schedule, error)
	UpdateStatus(ctx context.Context, id string, status string) error
	// UpdateActivityRun persists the live-run fields of one embedded activity.
	UpdateActivityRun(ctx context.Context, scheduleID string, activity *Activity) error
	// CancelByTemplate marks every active schedule of a deleted template
	// cancelled. Schedules are never cascaded-deleted.
	CancelByTemplate(ctx context.Context, templateID string) error
}
