package service

import (
	"context"
	"math"
	"time"

	"github.com/ontrakhq/ontrak/internal/domain"
	"golang.org/x/sync/errgroup"
)

// TrainerStats are the adherence aggregates for one trainer across all
// of their schedules.
type TrainerStats struct {
	TotalSchedules     int `json:"total_schedules"`
	ActiveSchedules    int `json:"active_schedules"`
	CompletedSchedules int `json:"completed_schedules"`
	CancelledSchedules int `json:"cancelled_schedules"`

	TotalActivities     int `json:"total_activities"`
	CompletedActivities int `json:"completed_activities"`

	// CompletionRate and OnTimeRate are percentages; zero when there is
	// nothing to measure.
	CompletionRate float64 `json:"completion_rate"`
	OnTimeRate     float64 `json:"on_time_rate"`
	// AvgOvertimeMinutes averages actual-vs-scheduled duration overrun
	// across activities with both run timestamps recorded.
	AvgOvertimeMinutes float64 `json:"avg_overtime_minutes"`
}

// StatsService derives adherence statistics from schedule history.
type StatsService struct {
	scheduleRepo domain.ScheduleRepository
	baseLoc      *time.Location
}

// NewStatsService creates a new stats service
func NewStatsService(scheduleRepo domain.ScheduleRepository, baseLoc *time.Location) *StatsService {
	return &StatsService{
		scheduleRepo: scheduleRepo,
		baseLoc:      baseLoc,
	}
}

// GetTrainerStats aggregates a trainer's schedules. The three status
// buckets are fetched concurrently.
func (s *StatsService) GetTrainerStats(ctx context.Context, trainerID string) (*TrainerStats, error) {
	var active, completed, cancelled []*domain.Schedule

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		active, err = s.scheduleRepo.ListByTrainerAndStatus(gctx, trainerID, []string{domain.ScheduleStatusActive})
		return err
	})
	g.Go(func() error {
		var err error
		completed, err = s.scheduleRepo.ListByTrainerAndStatus(gctx, trainerID, []string{domain.ScheduleStatusCompleted})
		return err
	})
	g.Go(func() error {
		var err error
		cancelled, err = s.scheduleRepo.ListByTrainerAndStatus(gctx, trainerID, []string{domain.ScheduleStatusCancelled})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := &TrainerStats{
		ActiveSchedules:    len(active),
		CompletedSchedules: len(completed),
		CancelledSchedules: len(cancelled),
	}
	stats.TotalSchedules = stats.ActiveSchedules + stats.CompletedSchedules + stats.CancelledSchedules

	var onTimeStarts, measuredStarts int
	var overtimeTotal float64
	var overtimeCount int

	// Cancelled runs are excluded: their unfinished activities say
	// nothing about adherence.
	for _, schedule := range append(active, completed...) {
		for _, a := range schedule.Activities {
			stats.TotalActivities++
			if a.Completed {
				stats.CompletedActivities++
			}

			if a.ActualStartTime == nil {
				continue
			}
			scheduled, err := scheduledStart(a, schedule.StartDate.In(s.baseLoc), s.baseLoc)
			if err != nil {
				continue
			}
			measuredStarts++
			if !a.ActualStartTime.After(scheduled) {
				onTimeStarts++
			}

			if a.ActualEndTime != nil {
				actual := a.ActualEndTime.Sub(*a.ActualStartTime).Minutes()
				overrun := actual - float64(a.Duration)
				overtimeTotal += math.Max(0, overrun)
				overtimeCount++
			}
		}
	}

	if stats.TotalActivities > 0 {
		stats.CompletionRate = 100 * float64(stats.CompletedActivities) / float64(stats.TotalActivities)
	}
	if measuredStarts > 0 {
		stats.OnTimeRate = 100 * float64(onTimeStarts) / float64(measuredStarts)
	}
	if overtimeCount > 0 {
		stats.AvgOvertimeMinutes = overtimeTotal / float64(overtimeCount)
	}
	return stats, nil
}

// scheduledStart places an activity's base-zone wall-clock start on its
// calendar day of the run.
func scheduledStart(a *domain.Activity, startDate time.Time, loc *time.Location) (time.Time, error) {
	mins, err := domain.ParseClock(a.StartTime)
	if err != nil {
		return time.Time{}, err
	}
	day := startDate.AddDate(0, 0, a.Day-1)
	return time.Date(day.Year(), day.Month(), day.Day(), mins/60, mins%60, 0, 0, loc), nil
}
