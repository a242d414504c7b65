package domain

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// LiveStatus is the derived, non-persisted view of a running day:
// which activity the wall clock falls in, its neighbours, and the
// progress/overtime of the current one. Recomputed on every query;
// stored completed flags are never trusted for selection.
type LiveStatus struct {
	Current  *Activity `json:"current_activity"`
	Previous *Activity `json:"previous_activity"`
	Next     *Activity `json:"next_activity"`

	// ProgressPercent is 0 until the current activity is actually
	// started. Values above 100 signal overtime; display clamping is
	// the caller's concern.
	ProgressPercent float64 `json:"progress_percent"`
	IsOvertime      bool    `json:"is_overtime"`
	OvertimeMinutes int     `json:"overtime_minutes"`
	// TimeRemaining is minutes until the scheduled end, negative once
	// the current activity runs over.
	TimeRemaining int `json:"time_remaining"`
}

// ResolveLiveStatus derives the live state of one day of a schedule at
// the instant now. Scheduled windows are [start, start+duration) on
// now's calendar date.
//
// An activity the trainer has started and not yet finished stays
// current past its scheduled end, so overtime can be reported. Absent a
// running activity, the first whose window contains now is current;
// under overlap (which the detector should have prevented) the first
// match in start-time order wins. When neither applies, Current is nil,
// Previous is the last finished activity and Next the first upcoming
// one.
//
// Pure: safe to call once per second against the same slice.
func ResolveLiveStatus(activities []*Activity, day int, now time.Time) (*LiveStatus, error) {
	type slot struct {
		activity *Activity
		start    time.Time
		end      time.Time
	}

	var slots []slot
	for _, a := range activities {
		if a.Day != day {
			continue
		}
		mins, err := ParseClock(a.StartTime)
		if err != nil {
			return nil, fmt.Errorf("activity %q: %w", a.Name, err)
		}
		y, m, d := now.Date()
		start := time.Date(y, m, d, mins/60, mins%60, 0, 0, now.Location())
		slots = append(slots, slot{
			activity: a,
			start:    start,
			end:      start.Add(time.Duration(a.Duration) * time.Minute),
		})
	}

	status := &LiveStatus{}
	if len(slots) == 0 {
		return status, nil
	}

	sort.SliceStable(slots, func(i, j int) bool { return slots[i].start.Before(slots[j].start) })

	current := -1
	for i, s := range slots {
		if s.activity.ActualStartTime != nil && s.activity.ActualEndTime == nil {
			current = i
			break
		}
	}
	if current < 0 {
		for i, s := range slots {
			if !now.Before(s.start) && now.Before(s.end) {
				current = i
				break
			}
		}
	}

	if current >= 0 {
		s := slots[current]
		status.Current = s.activity
		if current > 0 {
			status.Previous = slots[current-1].activity
		}
		if current+1 < len(slots) {
			status.Next = slots[current+1].activity
		}

		if now.After(s.end) {
			status.IsOvertime = true
			status.OvertimeMinutes = ceilMinutes(now.Sub(s.end))
			status.TimeRemaining = -status.OvertimeMinutes
		} else {
			status.TimeRemaining = ceilMinutes(s.end.Sub(now))
		}

		// Progress targets the original scheduled end regardless of a
		// late or early actual start.
		if actual := s.activity.ActualStartTime; actual != nil {
			effective := s.end.Sub(*actual)
			if effective > 0 {
				progress := 100 * now.Sub(*actual).Minutes() / effective.Minutes()
				status.ProgressPercent = math.Max(0, progress)
			}
		}
		return status, nil
	}

	for i := len(slots) - 1; i >= 0; i-- {
		if !slots[i].end.After(now) {
			status.Previous = slots[i].activity
			break
		}
	}
	for _, s := range slots {
		if s.start.After(now) {
			status.Next = s.activity
			break
		}
	}
	return status, nil
}

func ceilMinutes(d time.Duration) int {
	return int(math.Ceil(d.Minutes()))
}
