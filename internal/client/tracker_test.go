package client

import (
	"context"
	"testing"
	"time"

	"scalecoach/internal/models"
)

func TestTrackerAccumulatesAndPersists(t *testing.T) {
	facade := newTestFacade(t, "", true)
	ctx := context.Background()

	tracker := NewDailyTracker(ctx, facade)
	tracker.Add(ctx, 60)
	tracker.Add(ctx, 90)

	if got := tracker.Seconds(); got != 150 {
		t.Errorf("Seconds() = %d, want 150", got)
	}

	today := time.Now().Format(models.DateLayout)
	record := facade.Cache().GetDaily(today)
	if record == nil || record.TotalTime != 150 {
		t.Errorf("Persisted record = %+v, want total 150", record)
	}
}

func TestTrackerPrimesFromStoredTotal(t *testing.T) {
	facade := newTestFacade(t, "", true)
	ctx := context.Background()

	today := time.Now().Format(models.DateLayout)
	if err := facade.Cache().SaveDaily(&models.DailyPractice{Date: today, TotalTime: 300}); err != nil {
		t.Fatalf("SaveDaily failed: %v", err)
	}

	tracker := NewDailyTracker(ctx, facade)
	if got := tracker.Seconds(); got != 300 {
		t.Errorf("Cold start should resume at 300 seconds, got %d", got)
	}

	tracker.Add(ctx, 60)
	record := facade.Cache().GetDaily(today)
	if record == nil || record.TotalTime != 360 {
		t.Errorf("Persisted record = %+v, want total 360", record)
	}
}

func TestTrackerRollsOverAtMidnight(t *testing.T) {
	facade := newTestFacade(t, "", true)
	ctx := context.Background()

	day1 := time.Date(2026, 1, 5, 23, 50, 0, 0, time.Local)
	current := day1

	tracker := NewDailyTracker(ctx, facade)
	tracker.now = func() time.Time { return current }
	tracker.mu.Lock()
	tracker.date = day1.Format(models.DateLayout)
	tracker.seconds = 0
	tracker.mu.Unlock()

	tracker.Add(ctx, 120)
	if got := tracker.Seconds(); got != 120 {
		t.Fatalf("Seconds before midnight = %d, want 120", got)
	}

	// Cross midnight
	current = day1.Add(15 * time.Minute)

	if got := tracker.Seconds(); got != 0 {
		t.Errorf("Seconds after rollover = %d, want 0", got)
	}

	tracker.Add(ctx, 30)
	if got := tracker.Seconds(); got != 30 {
		t.Errorf("Seconds on the new day = %d, want 30", got)
	}

	// Yesterday's total survives untouched
	yesterday := facade.Cache().GetDaily(day1.Format(models.DateLayout))
	if yesterday == nil || yesterday.TotalTime != 120 {
		t.Errorf("Yesterday's record = %+v, want total 120", yesterday)
	}
	today := facade.Cache().GetDaily(current.Format(models.DateLayout))
	if today == nil || today.TotalTime != 30 {
		t.Errorf("Today's record = %+v, want total 30", today)
	}
}
