package repository

import (
	"testing"
	"time"

	"scalecoach/internal/models"
)

func TestDailyGetMissingDay(t *testing.T) {
	repo := NewDailyRepository(newTestDB(t))

	record, err := repo.Get("Mon Jan 05 2026")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if record != nil {
		t.Errorf("Expected nil for unlogged day, got %+v", record)
	}
}

func TestDailySaveUpsertsByDate(t *testing.T) {
	repo := NewDailyRepository(newTestDB(t))

	date := time.Now().Format(models.DateLayout)

	if err := repo.Save(&models.DailyPractice{Date: date, TotalTime: 300}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := repo.Save(&models.DailyPractice{Date: date, TotalTime: 450}); err != nil {
		t.Fatalf("Second save failed: %v", err)
	}

	record, err := repo.Get(date)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if record == nil {
		t.Fatal("Expected a record after save")
	}
	if record.TotalTime != 450 {
		t.Errorf("TotalTime = %d, want 450 (upsert should replace)", record.TotalTime)
	}

	// One row per day, not one per save
	records, err := repo.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("Expected 1 row for the day, got %d", len(records))
	}
}

func TestDailySeparateDays(t *testing.T) {
	repo := NewDailyRepository(newTestDB(t))

	if err := repo.Save(&models.DailyPractice{Date: "Sun Jan 04 2026", TotalTime: 100}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := repo.Save(&models.DailyPractice{Date: "Mon Jan 05 2026", TotalTime: 200}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	records, err := repo.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 days, got %d", len(records))
	}

	sunday, err := repo.Get("Sun Jan 04 2026")
	if err != nil || sunday == nil {
		t.Fatalf("Get Sunday failed: record=%v err=%v", sunday, err)
	}
	if sunday.TotalTime != 100 {
		t.Errorf("Sunday TotalTime = %d, want 100", sunday.TotalTime)
	}
}

func TestDailyClearAll(t *testing.T) {
	repo := NewDailyRepository(newTestDB(t))

	if err := repo.Save(&models.DailyPractice{Date: "Mon Jan 05 2026", TotalTime: 60}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := repo.ClearAll(); err != nil {
		t.Fatalf("ClearAll failed: %v", err)
	}

	records, err := repo.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("Expected empty ledger, got %d records", len(records))
	}
}
