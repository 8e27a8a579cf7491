package service

import (
	"log"
	"time"

	"scalecoach/internal/models"
	"scalecoach/internal/repository"
)

// DailyService wraps the daily practice ledger
type DailyService struct {
	daily *repository.DailyRepository
}

// NewDailyService creates a new daily practice service
func NewDailyService(daily *repository.DailyRepository) *DailyService {
	return &DailyService{daily: daily}
}

// Get returns the record for a calendar day, defaulting to today. A nil
// result means no practice has been logged for that day yet.
func (s *DailyService) Get(date string) *models.DailyPractice {
	if date == "" {
		date = time.Now().Format(models.DateLayout)
	}

	record, err := s.daily.Get(date)
	if err != nil {
		log.Printf("Error getting daily practice for %q: %v", date, err)
		return nil
	}
	return record
}

// Save upserts a day's running total. Idempotent under the typical
// once-per-second caller pattern with a non-decreasing total.
func (s *DailyService) Save(record *models.DailyPractice) bool {
	if err := s.daily.Save(record); err != nil {
		log.Printf("Error saving daily practice for %q: %v", record.Date, err)
		return false
	}
	return true
}

// ClearAll deletes every day's record. Errors propagate for user alerting.
func (s *DailyService) ClearAll() error {
	return s.daily.ClearAll()
}
