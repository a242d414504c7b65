package domain

import (
	"errors"
	"testing"
)

func act(name string, day int, start string, duration int) *Activity {
	return &Activity{ID: name, Name: name, Day: day, StartTime: start, Duration: duration}
}

func TestDetectConflicts(t *testing.T) {
	tests := []struct {
		name       string
		activities []*Activity
		want       []struct {
			first, second string
			typ           ConflictType
			day           int
		}
	}{
		{
			name: "exact overlap on same day",
			activities: []*Activity{
				act("A", 1, "09:00", 60),
				act("B", 1, "09:30", 60),
			},
			want: []struct {
				first, second string
				typ           ConflictType
				day           int
			}{
				{"A", "B", ConflictOverlap, 1},
			},
		},
		{
			name: "same times on different days never conflict",
			activities: []*Activity{
				act("A", 1, "09:00", 60),
				act("B", 2, "09:30", 60),
			},
		},
		{
			name: "exactly fifteen minutes break is fine",
			activities: []*Activity{
				act("A", 1, "09:00", 60), // ends 10:00
				act("B", 1, "10:15", 30),
			},
		},
		{
			name: "fourteen minutes break is too tight",
			activities: []*Activity{
				act("A", 1, "09:00", 60), // ends 10:00
				act("B", 1, "10:14", 30),
			},
			want: []struct {
				first, second string
				typ           ConflictType
				day           int
			}{
				{"A", "B", ConflictNoBreak, 1},
			},
		},
		{
			name: "overlapping pair is not also flagged for missing break",
			activities: []*Activity{
				act("A", 1, "09:00", 90),
				act("B", 1, "10:00", 30),
			},
			want: []struct {
				first, second string
				typ           ConflictType
				day           int
			}{
				{"A", "B", ConflictOverlap, 1},
			},
		},
		{
			name: "unsorted input, results ordered by day then scan order",
			activities: []*Activity{
				act("D2-B", 2, "09:10", 30),
				act("D1-B", 1, "10:00", 30),
				act("D2-A", 2, "09:00", 30),
				act("D1-A", 1, "09:30", 45),
			},
			want: []struct {
				first, second string
				typ           ConflictType
				day           int
			}{
				{"D1-A", "D1-B", ConflictOverlap, 1},
				{"D2-A", "D2-B", ConflictOverlap, 2},
			},
		},
		{
			name: "single activity per day",
			activities: []*Activity{
				act("A", 1, "09:00", 60),
				act("B", 2, "09:00", 60),
				act("C", 3, "09:00", 60),
			},
		},
		{
			name:       "no activities",
			activities: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectConflicts(tt.activities)
			if err != nil {
				t.Fatalf("DetectConflicts() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("DetectConflicts() returned %d conflicts, want %d: %+v", len(got), len(tt.want), got)
			}
			for i, w := range tt.want {
				c := got[i]
				if c.Activity1.Name != w.first || c.Activity2.Name != w.second {
					t.Errorf("conflict[%d] pair = (%s, %s), want (%s, %s)", i, c.Activity1.Name, c.Activity2.Name, w.first, w.second)
				}
				if c.Type != w.typ {
					t.Errorf("conflict[%d] type = %s, want %s", i, c.Type, w.typ)
				}
				if c.Day != w.day {
					t.Errorf("conflict[%d] day = %d, want %d", i, c.Day, w.day)
				}
			}
		})
	}
}

func TestDetectConflictsRejectedAddScenario(t *testing.T) {
	// Day 2 already holds A 09:00+30; adding B at 09:15 must surface an
	// overlap so the caller rejects the mutation.
	existing := act("A", 2, "09:00", 30)
	incoming := act("B", 2, "09:15", 30)

	conflicts, err := DetectConflicts([]*Activity{existing, incoming})
	if err != nil {
		t.Fatalf("DetectConflicts() error = %v", err)
	}
	if len(conflicts) != 1 {
		t.Fatalf("got %d conflicts, want 1", len(conflicts))
	}
	if conflicts[0].Type != ConflictOverlap || conflicts[0].Day != 2 {
		t.Errorf("got %s on day %d, want OVERLAP on day 2", conflicts[0].Type, conflicts[0].Day)
	}

	// A clean 15-minute gap after A ends passes.
	clean := act("C", 2, "09:45", 30)
	conflicts, err = DetectConflicts([]*Activity{existing, clean})
	if err != nil {
		t.Fatalf("DetectConflicts() error = %v", err)
	}
	if len(conflicts) != 0 {
		t.Errorf("got %d conflicts, want none: %+v", len(conflicts), conflicts)
	}
}

func TestDetectConflictsMalformedTime(t *testing.T) {
	_, err := DetectConflicts([]*Activity{act("Warmup", 1, "9am", 30)})
	if !errors.Is(err, ErrInvalidTime) {
		t.Fatalf("DetectConflicts() error = %v, want ErrInvalidTime", err)
	}
}

func TestConflictMessage(t *testing.T) {
	c := ActivityConflict{
		Activity1: act("Warmup", 1, "09:00", 60),
		Activity2: act("Sprint", 1, "09:30", 30),
		Type:      ConflictOverlap,
		Day:       1,
	}
	if got, want := c.Message(), `"Warmup" overlaps with "Sprint" on day 1`; got != want {
		t.Errorf("Message() = %q, want %q", got, want)
	}
}
