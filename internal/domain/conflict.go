package domain

import (
	"fmt"
	"sort"
)

// MinimumBreakMinutes is the shortest acceptable gap between two
// consecutive activities on the same day.
const MinimumBreakMinutes = 15

type ConflictType string

const (
	ConflictOverlap ConflictType = "OVERLAP"
	ConflictNoBreak ConflictType = "NO_BREAK"
)

// ActivityConflict reports a problematic adjacent pair within one day.
type ActivityConflict struct {
	Activity1 *Activity    `json:"activity1"`
	Activity2 *Activity    `json:"activity2"`
	Type      ConflictType `json:"type"`
	Day       int          `json:"day"`
}

// Message renders the conflict for end users.
func (c ActivityConflict) Message() string {
	if c.Type == ConflictOverlap {
		return fmt.Sprintf("%q overlaps with %q on day %d", c.Activity1.Name, c.Activity2.Name, c.Day)
	}
	return fmt.Sprintf("less than %d minutes break between %q and %q on day %d",
		MinimumBreakMinutes, c.Activity1.Name, c.Activity2.Name, c.Day)
}

// ConflictError carries a non-empty conflict list across the service
// boundary. It is an expected outcome, not a fault: callers decide
// whether to block the mutation or save anyway.
type ConflictError struct {
	Conflicts []ActivityConflict
}

func (e *ConflictError) Error() string {
	if len(e.Conflicts) == 1 {
		return "1 scheduling conflict detected"
	}
	return fmt.Sprintf("%d scheduling conflicts detected", len(e.Conflicts))
}

// DetectConflicts scans activities for overlapping or too-tight adjacent
// pairs. Activities are grouped by day; days never conflict with each
// other. Within a day the activities are sorted by start time and only
// consecutive pairs are compared, which is sufficient for the small
// per-day counts templates carry. A pair is either an OVERLAP or, when
// the sequence is non-overlapping but tight, a NO_BREAK; never both.
//
// Pure function: input order is not disturbed and nothing is mutated.
func DetectConflicts(activities []*Activity) ([]ActivityConflict, error) {
	byDay := make(map[int][]*Activity)
	var days []int
	for _, a := range activities {
		if _, err := ParseClock(a.StartTime); err != nil {
			return nil, fmt.Errorf("activity %q: %w", a.Name, err)
		}
		if _, seen := byDay[a.Day]; !seen {
			days = append(days, a.Day)
		}
		byDay[a.Day] = append(byDay[a.Day], a)
	}
	sort.Ints(days)

	var conflicts []ActivityConflict
	for _, day := range days {
		group := byDay[day]
		// Lexical order equals chronological order for zero-padded HH:mm.
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].StartTime < group[j].StartTime
		})

		for i := 0; i+1 < len(group); i++ {
			a, b := group[i], group[i+1]
			aStart, _ := ParseClock(a.StartTime)
			bStart, _ := ParseClock(b.StartTime)
			aEnd := aStart + a.Duration

			switch gap := bStart - aEnd; {
			case gap < 0:
				conflicts = append(conflicts, ActivityConflict{
					Activity1: a, Activity2: b, Type: ConflictOverlap, Day: day,
				})
			case gap < MinimumBreakMinutes:
				conflicts = append(conflicts, ActivityConflict{
					Activity1: a, Activity2: b, Type: ConflictNoBreak, Day: day,
				})
			}
		}
	}
	return conflicts, nil
}
