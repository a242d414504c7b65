package domain

import (
	"errors"
	"fmt"
	"time"
)

// Validation errors for activity fields
var (
	ErrActivityNameRequired = errors.New("activity name is required")
	ErrInvalidDuration      = errors.New("activity duration must be a positive number of minutes")
	ErrInvalidDay           = errors.New("activity day must be 1 or greater")
	ErrInvalidTime          = errors.New("invalid time format, expected HH:mm")
)

// Activity is a scheduled unit of training time within a template or a
// running schedule. StartTime is a wall-clock value in the base timezone;
// ActualStartTime/ActualEndTime are absolute instants recorded during a
// live run and may differ from the scheduled window.
type Activity struct {
	ID              string     `json:"id" bson:"id"`
	Name            string     `json:"name" bson:"name"`
	Description     string     `json:"description,omitempty" bson:"description,omitempty"`
	Day             int        `json:"day" bson:"day"`
	StartTime       string     `json:"start_time" bson:"start_time"` // HH:mm, base timezone
	Duration        int        `json:"duration" bson:"duration"`     // minutes
	ActualStartTime *time.Time `json:"actual_start_time,omitempty" bson:"actual_start_time,omitempty"`
	ActualEndTime   *time.Time `json:"actual_end_time,omitempty" bson:"actual_end_time,omitempty"`
	Completed       bool       `json:"completed" bson:"completed"`

	// DisplayTime is the viewer-local rendering of StartTime. Derived,
	// never persisted.
	DisplayTime string `json:"display_time,omitempty" bson:"-"`
}

// Validate checks the fields required by the conflict detector and the
// live resolver. Activities failing validation must not reach either.
func (a *Activity) Validate() error {
	if a.Name == "" {
		return ErrActivityNameRequired
	}
	if a.Duration <= 0 {
		return ErrInvalidDuration
	}
	if a.Day < 1 {
		return ErrInvalidDay
	}
	if _, err := ParseClock(a.StartTime); err != nil {
		return err
	}
	return nil
}

// IsValidationError reports whether err is one of the activity field
// validation errors, so handlers can map it to a 400.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrActivityNameRequired) ||
		errors.Is(err, ErrInvalidDuration) ||
		errors.Is(err, ErrInvalidDay) ||
		errors.Is(err, ErrInvalidTime)
}

// ParseClock parses a zero-padded 24-hour "HH:mm" value into minutes
// since midnight.
func ParseClock(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
		}
	}
	hours := int(s[0]-'0')*10 + int(s[1]-'0')
	mins := int(s[3]-'0')*10 + int(s[4]-'0')
	if hours > 23 || mins > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	return hours*60 + mins, nil
}

// FormatClock renders minutes since midnight as "HH:mm", wrapping
// values outside a single day.
func FormatClock(minutes int) string {
	const day = 24 * 60
	minutes %= day
	if minutes < 0 {
		minutes += day
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
