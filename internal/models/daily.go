package models

import "time"

// DailyPractice is the per-calendar-day accumulation of practice seconds.
// Exactly one record exists per distinct date value.
type DailyPractice struct {
	ID          int64     `json:"id"`
	Date        string    `json:"date" validate:"required"`
	TotalTime   int       `json:"total_time" validate:"min=0"`
	LastUpdated string    `json:"last_updated"`
	CreatedAt   time.Time `json:"created_at,omitzero"`
}
