package domain

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

var ErrInvalidTimezone = errors.New("unrecognized timezone")

const (
	// AnchorZone is the one viewer zone whose trainers run sessions
	// against a fixed local day start. The first activity of each day
	// must display at AnchorClock there, with the rest of the day
	// shifted by the same offset.
	AnchorZone  = "America/Curacao"
	AnchorClock = "07:30"
)

// TimezoneConverter converts the base-zone wall-clock times activities
// are stored in to a viewer's local wall clock and back. Each zone's
// own DST rule is resolved on the evaluation date via the IANA
// database; nothing here assumes fixed offsets.
type TimezoneConverter struct {
	baseName string
	base     *time.Location
	zones    map[string]*time.Location
}

// NewTimezoneConverter builds a converter for the base zone and the set
// of zones user profiles may reference. The base zone is always
// supported.
func NewTimezoneConverter(baseZone string, supported []string) (*TimezoneConverter, error) {
	base, err := time.LoadLocation(baseZone)
	if err != nil {
		return nil, fmt.Errorf("base timezone %q: %w", baseZone, err)
	}

	zones := map[string]*time.Location{baseZone: base}
	for _, name := range supported {
		loc, err := time.LoadLocation(name)
		if err != nil {
			return nil, fmt.Errorf("supported timezone %q: %w", name, err)
		}
		zones[name] = loc
	}

	return &TimezoneConverter{baseName: baseZone, base: base, zones: zones}, nil
}

// BaseZone returns the canonical zone name activities are stored in.
func (tc *TimezoneConverter) BaseZone() string {
	return tc.baseName
}

func (tc *TimezoneConverter) lookup(zone string) (*time.Location, error) {
	loc, ok := tc.zones[zone]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, zone)
	}
	return loc, nil
}

// ToLocal interprets clock as a base-zone wall-clock value on the
// calendar date of "on" and returns the zone's local equivalent.
// Unknown zones fail; times are never silently shown in the wrong zone.
func (tc *TimezoneConverter) ToLocal(clock, zone string, on time.Time) (string, error) {
	loc, err := tc.lookup(zone)
	if err != nil {
		return "", err
	}
	t, err := tc.onBaseDate(clock, on)
	if err != nil {
		return "", err
	}
	return t.In(loc).Format("15:04"), nil
}

// ToBase is the inverse of ToLocal.
func (tc *TimezoneConverter) ToBase(clock, zone string, on time.Time) (string, error) {
	loc, err := tc.lookup(zone)
	if err != nil {
		return "", err
	}
	mins, err := ParseClock(clock)
	if err != nil {
		return "", err
	}
	y, m, d := on.In(tc.base).Date()
	t := time.Date(y, m, d, mins/60, mins%60, 0, 0, loc)
	return t.In(tc.base).Format("15:04"), nil
}

// ProcessActivitiesForDisplay returns copies of activities with
// DisplayTime set to the viewer-local wall clock. For the anchor zone,
// each day's first activity is pinned to AnchorClock and the rest of
// the day shifted by the same per-day offset, so relative spacing is
// preserved. Stored StartTime values are untouched.
func (tc *TimezoneConverter) ProcessActivitiesForDisplay(activities []*Activity, zone string, on time.Time) ([]*Activity, error) {
	if _, err := tc.lookup(zone); err != nil {
		return nil, err
	}

	out := make([]*Activity, len(activities))
	for i, a := range activities {
		copied := *a
		local, err := tc.ToLocal(a.StartTime, zone, on)
		if err != nil {
			return nil, fmt.Errorf("activity %q: %w", a.Name, err)
		}
		copied.DisplayTime = local
		out[i] = &copied
	}

	if zone != AnchorZone {
		return out, nil
	}

	anchorMins, _ := ParseClock(AnchorClock)
	byDay := make(map[int][]*Activity)
	for _, a := range out {
		byDay[a.Day] = append(byDay[a.Day], a)
	}
	for _, group := range byDay {
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].StartTime < group[j].StartTime
		})
		firstLocal, err := ParseClock(group[0].DisplayTime)
		if err != nil {
			return nil, err
		}
		offset := anchorMins - firstLocal
		for _, a := range group {
			local, _ := ParseClock(a.DisplayTime)
			a.DisplayTime = FormatClock(local + offset)
		}
	}
	return out, nil
}

// PrepareActivityForSave converts an activity authored in a viewer zone
// back to the base zone for persistence. This is the opt-in step for
// writes coming from non-base viewers; display adjustment alone never
// changes stored times.
func (tc *TimezoneConverter) PrepareActivityForSave(a *Activity, zone string, on time.Time) (*Activity, error) {
	base, err := tc.ToBase(a.StartTime, zone, on)
	if err != nil {
		return nil, err
	}
	copied := *a
	copied.StartTime = base
	copied.DisplayTime = ""
	return &copied, nil
}

func (tc *TimezoneConverter) onBaseDate(clock string, on time.Time) (time.Time, error) {
	mins, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := on.In(tc.base).Date()
	return time.Date(y, m, d, mins/60, mins%60, 0, 0, tc.base), nil
}
