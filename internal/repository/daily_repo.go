package repository

import (
	"database/sql"
	"time"

	"scalecoach/internal/database"
	"scalecoach/internal/models"
)

// DailyRepository handles the per-day practice time ledger
type DailyRepository struct {
	db *database.DB
}

// NewDailyRepository creates a new daily practice repository
func NewDailyRepository(db *database.DB) *DailyRepository {
	return &DailyRepository{db: db}
}

// Get retrieves the record for a calendar day, or nil if none exists yet
func (r *DailyRepository) Get(date string) (*models.DailyPractice, error) {
	query := `
		SELECT id, date, total_time, last_updated, created_at
		FROM daily_practice
		WHERE date = ?
	`

	record := &models.DailyPractice{}
	err := r.db.QueryRow(query, date).Scan(
		&record.ID, &record.Date, &record.TotalTime, &record.LastUpdated, &record.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return record, nil
}

// Save upserts the record for its date using the engine's native conflict
// handling, so repeated saves within a day replace the running total in place.
func (r *DailyRepository) Save(record *models.DailyPractice) error {
	if record.LastUpdated == "" {
		record.LastUpdated = time.Now().Format(time.RFC3339)
	}

	query := r.db.GetDialect().UpsertDailyPracticeQuery()
	_, err := r.db.Exec(query, record.Date, record.TotalTime, record.LastUpdated)
	return err
}

// List returns every day's record, oldest first. Used by backups.
func (r *DailyRepository) List() ([]models.DailyPractice, error) {
	query := `
		SELECT id, date, total_time, last_updated, created_at
		FROM daily_practice
		ORDER BY id ASC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.DailyPractice
	for rows.Next() {
		var record models.DailyPractice
		err := rows.Scan(&record.ID, &record.Date, &record.TotalTime, &record.LastUpdated, &record.CreatedAt)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// ClearAll deletes every day's record
func (r *DailyRepository) ClearAll() error {
	_, err := r.db.Exec("DELETE FROM daily_practice")
	return err
}
