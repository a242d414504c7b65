package domain

import (
	"errors"
	"testing"
)

func TestParseClock(t *testing.T) {
	valid := map[string]int{
		"00:00": 0,
		"07:30": 450,
		"23:59": 1439,
	}
	for in, want := range valid {
		got, err := ParseClock(in)
		if err != nil {
			t.Errorf("ParseClock(%q) error = %v", in, err)
		}
		if got != want {
			t.Errorf("ParseClock(%q) = %d, want %d", in, got, want)
		}
	}

	invalid := []string{"", "9:00", "09:5", "24:00", "12:60", "ab:cd", "12.30", "12:300"}
	for _, in := range invalid {
		if _, err := ParseClock(in); !errors.Is(err, ErrInvalidTime) {
			t.Errorf("ParseClock(%q) error = %v, want ErrInvalidTime", in, err)
		}
	}
}

func TestFormatClock(t *testing.T) {
	tests := map[int]string{
		0:    "00:00",
		450:  "07:30",
		1439: "23:59",
		1500: "01:00", // wraps past midnight
		-30:  "23:30", // wraps backwards
	}
	for in, want := range tests {
		if got := FormatClock(in); got != want {
			t.Errorf("FormatClock(%d) = %s, want %s", in, got, want)
		}
	}
}

func TestActivityValidate(t *testing.T) {
	tests := []struct {
		name     string
		activity *Activity
		wantErr  error
	}{
		{"valid", act("Warmup", 1, "09:00", 30), nil},
		{"missing name", act("", 1, "09:00", 30), ErrActivityNameRequired},
		{"zero duration", act("Warmup", 1, "09:00", 0), ErrInvalidDuration},
		{"negative duration", act("Warmup", 1, "09:00", -10), ErrInvalidDuration},
		{"day zero", act("Warmup", 0, "09:00", 30), ErrInvalidDay},
		{"bad time", act("Warmup", 1, "900", 30), ErrInvalidTime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.activity.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
			if !IsValidationError(err) {
				t.Errorf("IsValidationError(%v) = false, want true", err)
			}
		})
	}
}
