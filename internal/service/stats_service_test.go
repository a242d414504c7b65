package service

import (
	"context"
	"testing"
	"time"

	"github.com/ontrakhq/ontrak/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTrainerStats(t *testing.T) {
	scheduleRepo := newFakeScheduleRepo()
	svc := NewStatsService(scheduleRepo, time.UTC)
	ctx := context.Background()

	startDate := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	onTime := time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)
	// B is scheduled at 10:00 and starts ten minutes late
	late := time.Date(2026, 1, 15, 10, 10, 0, 0, time.UTC)
	// 30-minute activity run for 45 minutes: 15 minutes of overrun
	overEnd := onTime.Add(45 * time.Minute)

	completed := &domain.Schedule{
		TrainerID: "trainer-1",
		Status:    domain.ScheduleStatusCompleted,
		StartDate: startDate,
		Activities: []*domain.Activity{
			{ID: "a1", Name: "A", Day: 1, StartTime: "09:00", Duration: 30,
				ActualStartTime: &onTime, ActualEndTime: &overEnd, Completed: true},
			{ID: "a2", Name: "B", Day: 1, StartTime: "10:00", Duration: 30,
				ActualStartTime: &late, Completed: true},
		},
	}
	active := &domain.Schedule{
		TrainerID: "trainer-1",
		Status:    domain.ScheduleStatusActive,
		StartDate: startDate,
		Activities: []*domain.Activity{
			{ID: "a3", Name: "C", Day: 1, StartTime: "11:00", Duration: 30},
			{ID: "a4", Name: "D", Day: 2, StartTime: "09:00", Duration: 30},
		},
	}
	cancelled := &domain.Schedule{
		TrainerID: "trainer-1",
		Status:    domain.ScheduleStatusCancelled,
		StartDate: startDate,
		Activities: []*domain.Activity{
			{ID: "a5", Name: "E", Day: 1, StartTime: "09:00", Duration: 30},
		},
	}
	other := &domain.Schedule{
		TrainerID:  "trainer-2",
		Status:     domain.ScheduleStatusActive,
		StartDate:  startDate,
		Activities: []*domain.Activity{{ID: "a6", Name: "F", Day: 1, StartTime: "09:00", Duration: 30}},
	}
	for _, s := range []*domain.Schedule{completed, active, cancelled, other} {
		require.NoError(t, scheduleRepo.Create(ctx, s))
	}

	stats, err := svc.GetTrainerStats(ctx, "trainer-1")
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalSchedules)
	assert.Equal(t, 1, stats.ActiveSchedules)
	assert.Equal(t, 1, stats.CompletedSchedules)
	assert.Equal(t, 1, stats.CancelledSchedules)

	// Cancelled run's activity is excluded from adherence figures
	assert.Equal(t, 4, stats.TotalActivities)
	assert.Equal(t, 2, stats.CompletedActivities)
	assert.InDelta(t, 50.0, stats.CompletionRate, 0.001)

	// a1 started on time (09:00), a2 ten minutes late
	assert.InDelta(t, 50.0, stats.OnTimeRate, 0.001)
	// Only a1 has both timestamps: 45 actual vs 30 scheduled
	assert.InDelta(t, 15.0, stats.AvgOvertimeMinutes, 0.001)
}

func TestGetTrainerStatsEmpty(t *testing.T) {
	svc := NewStatsService(newFakeScheduleRepo(), time.UTC)

	stats, err := svc.GetTrainerStats(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalSchedules)
	assert.Zero(t, stats.CompletionRate)
	assert.Zero(t, stats.OnTimeRate)
	assert.Zero(t, stats.AvgOvertimeMinutes)
}
