package domain

import (
	"errors"
	"testing"
	"time"
)

const testBaseZone = "Europe/Amsterdam"

var testZones = []string{"America/Curacao", "America/Paramaribo"}

func newTestConverter(t *testing.T) *TimezoneConverter {
	t.Helper()
	tc, err := NewTimezoneConverter(testBaseZone, testZones)
	if err != nil {
		t.Fatalf("NewTimezoneConverter() error = %v", err)
	}
	return tc
}

// Mid-January: Amsterdam UTC+1, Curaçao UTC-4, Paramaribo UTC-3.
var winterDate = time.Date(2026, time.January, 15, 12, 0, 0, 0, time.UTC)

func TestToLocal(t *testing.T) {
	tc := newTestConverter(t)

	got, err := tc.ToLocal("13:00", "America/Curacao", winterDate)
	if err != nil {
		t.Fatal(err)
	}
	if got != "08:00" {
		t.Errorf("ToLocal(13:00, Curacao) = %s, want 08:00", got)
	}

	got, err = tc.ToLocal("09:30", testBaseZone, winterDate)
	if err != nil {
		t.Fatal(err)
	}
	if got != "09:30" {
		t.Errorf("ToLocal in base zone = %s, want unchanged 09:30", got)
	}
}

func TestRoundTrip(t *testing.T) {
	tc := newTestConverter(t)

	dates := []time.Time{
		winterDate,
		time.Date(2026, time.July, 15, 12, 0, 0, 0, time.UTC), // Amsterdam on DST
	}
	clocks := []string{"00:00", "07:30", "12:00", "18:45", "23:59"}

	for _, on := range dates {
		for _, zone := range append([]string{testBaseZone}, testZones...) {
			for _, clock := range clocks {
				local, err := tc.ToLocal(clock, zone, on)
				if err != nil {
					t.Fatalf("ToLocal(%s, %s) error = %v", clock, zone, err)
				}
				back, err := tc.ToBase(local, zone, on)
				if err != nil {
					t.Fatalf("ToBase(%s, %s) error = %v", local, zone, err)
				}
				if back != clock {
					t.Errorf("round trip %s via %s on %s = %s, want %s", clock, zone, on.Format("2006-01-02"), back, clock)
				}
			}
		}
	}
}

func TestUnrecognizedZoneFails(t *testing.T) {
	tc := newTestConverter(t)

	if _, err := tc.ToLocal("09:00", "Mars/Olympus", winterDate); !errors.Is(err, ErrInvalidTimezone) {
		t.Errorf("ToLocal error = %v, want ErrInvalidTimezone", err)
	}
	if _, err := tc.ToBase("09:00", "Mars/Olympus", winterDate); !errors.Is(err, ErrInvalidTimezone) {
		t.Errorf("ToBase error = %v, want ErrInvalidTimezone", err)
	}
	if _, err := tc.ProcessActivitiesForDisplay(nil, "Mars/Olympus", winterDate); !errors.Is(err, ErrInvalidTimezone) {
		t.Errorf("ProcessActivitiesForDisplay error = %v, want ErrInvalidTimezone", err)
	}
}

func TestAnchorZoneDisplay(t *testing.T) {
	tc := newTestConverter(t)

	activities := []*Activity{
		act("d1-late", 1, "10:30", 60),
		act("d1-first", 1, "09:00", 60),
		act("d2-first", 2, "08:00", 45),
	}

	out, err := tc.ProcessActivitiesForDisplay(activities, AnchorZone, winterDate)
	if err != nil {
		t.Fatal(err)
	}

	byName := make(map[string]*Activity)
	for _, a := range out {
		byName[a.Name] = a
	}

	// First activity of every day pins to 07:30.
	if got := byName["d1-first"].DisplayTime; got != AnchorClock {
		t.Errorf("day 1 first display = %s, want %s", got, AnchorClock)
	}
	if got := byName["d2-first"].DisplayTime; got != AnchorClock {
		t.Errorf("day 2 first display = %s, want %s", got, AnchorClock)
	}

	// Spacing within the day matches the base-zone spacing (90 minutes).
	first, _ := ParseClock(byName["d1-first"].DisplayTime)
	late, _ := ParseClock(byName["d1-late"].DisplayTime)
	if late-first != 90 {
		t.Errorf("day 1 spacing = %d minutes, want 90", late-first)
	}

	// Stored times must be untouched.
	for _, a := range activities {
		if a.DisplayTime != "" {
			t.Errorf("input activity %q was mutated: display %q", a.Name, a.DisplayTime)
		}
	}
}

func TestAnchorZoneSingleActivityDay(t *testing.T) {
	tc := newTestConverter(t)

	out, err := tc.ProcessActivitiesForDisplay([]*Activity{act("only", 1, "14:00", 30)}, AnchorZone, winterDate)
	if err != nil {
		t.Fatal(err)
	}
	if out[0].DisplayTime != AnchorClock {
		t.Errorf("single activity display = %s, want %s", out[0].DisplayTime, AnchorClock)
	}
}

func TestNonAnchorZoneDisplayIsPlainConversion(t *testing.T) {
	tc := newTestConverter(t)

	out, err := tc.ProcessActivitiesForDisplay([]*Activity{act("a", 1, "13:00", 30)}, "America/Paramaribo", winterDate)
	if err != nil {
		t.Fatal(err)
	}
	// 13:00 Amsterdam (UTC+1) = 09:00 Paramaribo (UTC-3).
	if out[0].DisplayTime != "09:00" {
		t.Errorf("display = %s, want 09:00", out[0].DisplayTime)
	}
}

func TestPrepareActivityForSave(t *testing.T) {
	tc := newTestConverter(t)

	entered := act("session", 1, "07:30", 60)
	saved, err := tc.PrepareActivityForSave(entered, AnchorZone, winterDate)
	if err != nil {
		t.Fatal(err)
	}
	// 07:30 Curaçao (UTC-4) = 12:30 Amsterdam (UTC+1).
	if saved.StartTime != "12:30" {
		t.Errorf("saved start = %s, want 12:30", saved.StartTime)
	}
	if entered.StartTime != "07:30" {
		t.Errorf("input was mutated: %s", entered.StartTime)
	}
}
