package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrTemplateNotFound     = errors.New("training template not found")
	ErrTemplateNameRequired = errors.New("template name is required")
	ErrActivityNotFound     = errors.New("activity not found in template")
	ErrDayOutOfRange        = errors.New("activity day exceeds the template's day count")
)

// Template is a reusable multi-day training plan owned by a trainer.
// Activities are embedded; schedules copy them at start so later
// template edits never leak into a running schedule.
type Template struct {
	ID          string      `json:"id" bson:"_id,omitempty"`
	Name        string      `json:"name" bson:"name"`
	Description string      `json:"description,omitempty" bson:"description,omitempty"`
	Days        int         `json:"days" bson:"days"`
	CreatedBy   string      `json:"created_by" bson:"created_by"`
	Activities  []*Activity `json:"activities" bson:"activities"`
	CreatedAt   time.Time   `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at" bson:"updated_at"`
}

// ActivityByID finds an embedded activity, or nil.
func (t *Template) ActivityByID(id string) *Activity {
	for _, a := range t.Activities {
		if a.ID == id {
			return a
		}
	}
	return nil
}

type TemplateRepository interface {
	Create(ctx context.Context, tmpl *Template) error
	GetByID(ctx context.Context, id string) (*Template, error)
	List(ctx context.Context) ([]*Template, error)
	ListByCreator(ctx context.Context, userID string) ([]*Template, error)
	Update(ctx context.Context, tmpl *Template) error
	Delete(ctx context.Context, id string) error

	AddActivity(ctx context.Context, templateID string, activity *Activity) error
	AddActivities(ctx context.Context, templateID string, activities []*Activity) error
	UpdateActivity(ctx context.Context, templateID string, activity *Activity) error
	RemoveActivity(ctx context.Context, templateID, activityID string) error
}
