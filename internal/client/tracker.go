package client

import (
	"context"
	"sync"
	"time"

	"scalecoach/internal/models"
)

// DailyTracker accumulates practice seconds for the current calendar day and
// persists the running total through the façade. The day boundary is checked
// on every update and once per minute in the background, so a session left
// running over midnight starts a fresh zeroed record instead of inflating
// yesterday's.
type DailyTracker struct {
	facade *Facade

	mu      sync.Mutex
	date    string
	seconds int

	now func() time.Time
}

// NewDailyTracker creates a tracker primed with today's stored total, if any
func NewDailyTracker(ctx context.Context, facade *Facade) *DailyTracker {
	t := &DailyTracker{facade: facade, now: time.Now}
	t.date = t.now().Format(models.DateLayout)

	if record := facade.DailyPractice(ctx, t.date); record != nil {
		t.seconds = record.TotalTime
	}
	return t
}

// Add accumulates practiced seconds and persists the new total
func (t *DailyTracker) Add(ctx context.Context, seconds int) {
	t.mu.Lock()
	t.rolloverLocked()
	t.seconds += seconds
	record := &models.DailyPractice{Date: t.date, TotalTime: t.seconds}
	t.mu.Unlock()

	t.facade.SaveDailyPractice(ctx, record)
}

// Seconds returns today's accumulated practice time
func (t *DailyTracker) Seconds() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rolloverLocked()
	return t.seconds
}

// Run re-checks the day boundary once per minute until the context ends.
// Intended to run in its own goroutine alongside a practice session.
func (t *DailyTracker) Run(ctx context.Context) {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.mu.Lock()
			t.rolloverLocked()
			t.mu.Unlock()
		}
	}
}

// rolloverLocked resets the counter when the calendar day has changed.
// Caller holds t.mu.
func (t *DailyTracker) rolloverLocked() {
	today := t.now().Format(models.DateLayout)
	if today != t.date {
		t.date = today
		t.seconds = 0
	}
}
