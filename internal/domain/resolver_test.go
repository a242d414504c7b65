package domain

import (
	"errors"
	"testing"
	"time"
)

func at(hour, min int) time.Time {
	return time.Date(2026, time.March, 9, hour, min, 0, 0, time.UTC)
}

func TestResolveLiveStatusSelection(t *testing.T) {
	day := []*Activity{
		act("first", 1, "09:00", 60),
		act("second", 1, "10:00", 60),
		act("third", 1, "11:00", 60),
	}

	t.Run("mid-activity picks current with both neighbours", func(t *testing.T) {
		status, err := ResolveLiveStatus(day, 1, at(10, 30))
		if err != nil {
			t.Fatal(err)
		}
		if status.Current == nil || status.Current.StartTime != "10:00" {
			t.Fatalf("current = %+v, want start 10:00", status.Current)
		}
		if status.Previous == nil || status.Previous.StartTime != "09:00" {
			t.Errorf("previous = %+v, want start 09:00", status.Previous)
		}
		if status.Next == nil || status.Next.StartTime != "11:00" {
			t.Errorf("next = %+v, want start 11:00", status.Next)
		}
		if status.TimeRemaining != 30 {
			t.Errorf("time remaining = %d, want 30", status.TimeRemaining)
		}
	})

	t.Run("before the day starts only next is set", func(t *testing.T) {
		status, err := ResolveLiveStatus(day, 1, at(8, 0))
		if err != nil {
			t.Fatal(err)
		}
		if status.Current != nil {
			t.Errorf("current = %+v, want nil", status.Current)
		}
		if status.Previous != nil {
			t.Errorf("previous = %+v, want nil", status.Previous)
		}
		if status.Next == nil || status.Next.StartTime != "09:00" {
			t.Errorf("next = %+v, want start 09:00", status.Next)
		}
	})

	t.Run("after the day ends only previous is set", func(t *testing.T) {
		status, err := ResolveLiveStatus(day, 1, at(13, 0))
		if err != nil {
			t.Fatal(err)
		}
		if status.Current != nil || status.Next != nil {
			t.Errorf("current/next = %+v/%+v, want nil/nil", status.Current, status.Next)
		}
		if status.Previous == nil || status.Previous.StartTime != "11:00" {
			t.Errorf("previous = %+v, want start 11:00", status.Previous)
		}
	})

	t.Run("gap between activities resolves neighbours around it", func(t *testing.T) {
		gapped := []*Activity{
			act("first", 1, "09:00", 30), // ends 09:30
			act("second", 1, "10:00", 60),
		}
		status, err := ResolveLiveStatus(gapped, 1, at(9, 45))
		if err != nil {
			t.Fatal(err)
		}
		if status.Current != nil {
			t.Errorf("current = %+v, want nil", status.Current)
		}
		if status.Previous == nil || status.Previous.Name != "first" {
			t.Errorf("previous = %+v, want first", status.Previous)
		}
		if status.Next == nil || status.Next.Name != "second" {
			t.Errorf("next = %+v, want second", status.Next)
		}
	})

	t.Run("activities of other days are ignored", func(t *testing.T) {
		status, err := ResolveLiveStatus(day, 2, at(10, 30))
		if err != nil {
			t.Fatal(err)
		}
		if status.Current != nil || status.Previous != nil || status.Next != nil {
			t.Errorf("day 2 has no activities, got %+v", status)
		}
	})

	t.Run("empty list resolves to all nil", func(t *testing.T) {
		status, err := ResolveLiveStatus(nil, 1, at(10, 0))
		if err != nil {
			t.Fatal(err)
		}
		if status.Current != nil || status.Previous != nil || status.Next != nil {
			t.Errorf("want empty status, got %+v", status)
		}
	})

	t.Run("overlapping schedule does not crash, first match wins", func(t *testing.T) {
		overlapping := []*Activity{
			act("first", 1, "09:00", 120),
			act("second", 1, "09:30", 60),
		}
		status, err := ResolveLiveStatus(overlapping, 1, at(9, 45))
		if err != nil {
			t.Fatal(err)
		}
		if status.Current == nil || status.Current.Name != "first" {
			t.Errorf("current = %+v, want first", status.Current)
		}
	})

	t.Run("malformed start time fails", func(t *testing.T) {
		_, err := ResolveLiveStatus([]*Activity{act("bad", 1, "nine", 30)}, 1, at(9, 0))
		if !errors.Is(err, ErrInvalidTime) {
			t.Fatalf("error = %v, want ErrInvalidTime", err)
		}
	})
}

func TestResolveLiveStatusProgressAndOvertime(t *testing.T) {
	t.Run("overtime reported against scheduled end", func(t *testing.T) {
		started := at(9, 0)
		a := act("run", 1, "09:00", 30) // scheduled end 09:30
		a.ActualStartTime = &started

		status, err := ResolveLiveStatus([]*Activity{a}, 1, at(9, 45))
		if err != nil {
			t.Fatal(err)
		}
		if status.Current == nil || status.Current.Name != "run" {
			t.Fatalf("current = %+v, want the started activity", status.Current)
		}
		if !status.IsOvertime {
			t.Error("IsOvertime = false, want true")
		}
		if status.OvertimeMinutes != 15 {
			t.Errorf("OvertimeMinutes = %d, want 15", status.OvertimeMinutes)
		}
		if status.TimeRemaining != -15 {
			t.Errorf("TimeRemaining = %d, want -15", status.TimeRemaining)
		}
		if status.ProgressPercent != 150 {
			t.Errorf("ProgressPercent = %v, want 150 (not capped at 100)", status.ProgressPercent)
		}
	})

	t.Run("late actual start targets original scheduled end", func(t *testing.T) {
		started := at(9, 10)
		a := act("run", 1, "09:00", 30) // scheduled end 09:30, effective 20m
		a.ActualStartTime = &started

		status, err := ResolveLiveStatus([]*Activity{a}, 1, at(9, 20))
		if err != nil {
			t.Fatal(err)
		}
		if status.ProgressPercent != 50 {
			t.Errorf("ProgressPercent = %v, want 50", status.ProgressPercent)
		}
		if status.IsOvertime {
			t.Error("IsOvertime = true, want false")
		}
		if status.TimeRemaining != 10 {
			t.Errorf("TimeRemaining = %d, want 10", status.TimeRemaining)
		}
	})

	t.Run("current by schedule but not yet started has no progress", func(t *testing.T) {
		a := act("run", 1, "09:00", 30)
		status, err := ResolveLiveStatus([]*Activity{a}, 1, at(9, 10))
		if err != nil {
			t.Fatal(err)
		}
		if status.Current == nil {
			t.Fatal("current = nil, want the scheduled activity")
		}
		if status.ProgressPercent != 0 {
			t.Errorf("ProgressPercent = %v, want 0", status.ProgressPercent)
		}
		if status.TimeRemaining != 20 {
			t.Errorf("TimeRemaining = %d, want 20", status.TimeRemaining)
		}
	})

	t.Run("finished activity is no longer current", func(t *testing.T) {
		started := at(9, 0)
		ended := at(9, 28)
		a := act("run", 1, "09:00", 30)
		a.ActualStartTime = &started
		a.ActualEndTime = &ended
		a.Completed = true

		status, err := ResolveLiveStatus([]*Activity{a}, 1, at(9, 45))
		if err != nil {
			t.Fatal(err)
		}
		if status.Current != nil {
			t.Errorf("current = %+v, want nil", status.Current)
		}
		if status.Previous == nil || status.Previous.Name != "run" {
			t.Errorf("previous = %+v, want the finished activity", status.Previous)
		}
	})

	t.Run("input flags are not mutated", func(t *testing.T) {
		a := act("run", 1, "09:00", 30)
		if _, err := ResolveLiveStatus([]*Activity{a}, 1, at(9, 10)); err != nil {
			t.Fatal(err)
		}
		if a.Completed || a.ActualStartTime != nil {
			t.Errorf("resolver mutated its input: %+v", a)
		}
	})
}
