package repository

import (
	"database/sql"
	"time"

	"scalecoach/internal/database"
	"scalecoach/internal/models"
)

// allSessionsCap bounds the result of GetAll to keep responses small; the
// UI never shows more than 50 historical sessions at once.
const allSessionsCap = 50

// SessionRepository handles practice session database operations
type SessionRepository struct {
	db *database.DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *database.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

const sessionColumns = "id, scale, practice_type, octaves, bpm, duration, timestamp, date, created_at"

// Insert appends a new session row unconditionally. Duplicate exercise
// configurations are allowed on this path; it exists for bulk imports and
// the legacy-cache migration endpoint.
func (r *SessionRepository) Insert(session *models.Session) (*models.Session, error) {
	session.Normalize(time.Now())

	query := `
		INSERT INTO practice_sessions (scale, practice_type, octaves, bpm, duration, timestamp, date)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	id, err := r.db.ExecReturningID(query,
		session.Scale, session.PracticeType, session.Octaves,
		session.BPM, session.Duration, session.Timestamp, session.Date)
	if err != nil {
		return nil, err
	}

	return r.GetByID(id)
}

// InsertUnique replaces any stored session for the same exercise
// configuration with the incoming one. The delete and insert run in a single
// transaction so a concurrent reader never observes the key as unpracticed
// mid-replace.
func (r *SessionRepository) InsertUnique(session *models.Session) (*models.Session, error) {
	session.Normalize(time.Now())

	tx, err := r.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		DELETE FROM practice_sessions
		WHERE scale = ? AND practice_type = ? AND octaves = ?
	`, session.Scale, session.PracticeType, session.Octaves)
	if err != nil {
		return nil, err
	}

	id, err := tx.ExecReturningID(`
		INSERT INTO practice_sessions (scale, practice_type, octaves, bpm, duration, timestamp, date)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, session.Scale, session.PracticeType, session.Octaves,
		session.BPM, session.Duration, session.Timestamp, session.Date)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return r.GetByID(id)
}

// GetByID retrieves a session by ID
func (r *SessionRepository) GetByID(id int64) (*models.Session, error) {
	query := "SELECT " + sessionColumns + " FROM practice_sessions WHERE id = ?"

	session := &models.Session{}
	err := r.db.QueryRow(query, id).Scan(
		&session.ID, &session.Scale, &session.PracticeType, &session.Octaves,
		&session.BPM, &session.Duration, &session.Timestamp, &session.Date,
		&session.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return session, nil
}

// GetRecent retrieves sessions ordered newest first, truncated to limit.
// id breaks ties between same-instant inserts.
func (r *SessionRepository) GetRecent(limit int) ([]models.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM practice_sessions
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`
	return r.querySessions(query, limit)
}

// GetAll retrieves all sessions newest first, capped at 50 rows
func (r *SessionRepository) GetAll() ([]models.Session, error) {
	return r.GetRecent(allSessionsCap)
}

// ListAll retrieves the entire uncapped history, newest first. Only backups
// use this; API reads go through the capped GetAll.
func (r *SessionRepository) ListAll() ([]models.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM practice_sessions
		ORDER BY timestamp DESC, id DESC
	`
	return r.querySessions(query)
}

// GetForScale retrieves all sessions for a scale, newest first
func (r *SessionRepository) GetForScale(scaleName string) ([]models.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM practice_sessions
		WHERE scale = ?
		ORDER BY timestamp DESC, id DESC
	`
	return r.querySessions(query, scaleName)
}

// GetLastForScale retrieves the most recent sessions for a scale
func (r *SessionRepository) GetLastForScale(scaleName string, limit int) ([]models.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM practice_sessions
		WHERE scale = ?
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`
	return r.querySessions(query, scaleName, limit)
}

// GetBestBPM returns the highest bpm stored for an exercise configuration,
// or nil when no session matches the key. Implemented as a MAX aggregate so
// it stays correct when duplicate rows exist via the plain insert path.
func (r *SessionRepository) GetBestBPM(key models.ExerciseKey) (*int, error) {
	query := `
		SELECT MAX(bpm)
		FROM practice_sessions
		WHERE scale = ? AND practice_type = ? AND octaves = ?
	`

	var best sql.NullInt64
	err := r.db.QueryRow(query, key.Scale, key.PracticeType, key.Octaves).Scan(&best)
	if err != nil {
		return nil, err
	}
	if !best.Valid {
		return nil, nil
	}

	bpm := int(best.Int64)
	return &bpm, nil
}

// HasBeenPracticed reports whether any session matches scale and practice
// type, ignoring octaves
func (r *SessionRepository) HasBeenPracticed(scale, practiceType string) (bool, error) {
	query := `
		SELECT COUNT(*)
		FROM practice_sessions
		WHERE scale = ? AND practice_type = ?
	`

	var count int
	err := r.db.QueryRow(query, scale, practiceType).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetPracticedTypesForScale returns the distinct practice types recorded for a scale
func (r *SessionRepository) GetPracticedTypesForScale(scale string) ([]string, error) {
	query := `
		SELECT DISTINCT practice_type
		FROM practice_sessions
		WHERE scale = ?
	`

	rows, err := r.db.Query(query, scale)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []string
	for rows.Next() {
		var practiceType string
		if err := rows.Scan(&practiceType); err != nil {
			return nil, err
		}
		types = append(types, practiceType)
	}

	return types, rows.Err()
}

// GetStats aggregates session totals and the most practiced scale
func (r *SessionRepository) GetStats(today string) (*models.PracticeStats, error) {
	stats := &models.PracticeStats{}

	err := r.db.QueryRow("SELECT COUNT(*) FROM practice_sessions").Scan(&stats.TotalSessions)
	if err != nil {
		return nil, err
	}

	err = r.db.QueryRow("SELECT COUNT(*) FROM practice_sessions WHERE date = ?", today).Scan(&stats.TodaySessions)
	if err != nil {
		return nil, err
	}

	var totalTime sql.NullInt64
	err = r.db.QueryRow("SELECT SUM(duration) FROM practice_sessions").Scan(&totalTime)
	if err != nil {
		return nil, err
	}
	stats.TotalPracticeTime = int(totalTime.Int64)

	// Ties are broken arbitrarily by whichever scale the engine returns first
	var favorite string
	err = r.db.QueryRow(`
		SELECT scale
		FROM practice_sessions
		GROUP BY scale
		ORDER BY COUNT(*) DESC
		LIMIT 1
	`).Scan(&favorite)
	if err == nil {
		stats.FavoriteScale = &favorite
	} else if err != sql.ErrNoRows {
		return nil, err
	}

	return stats, nil
}

// ClearAll deletes every session row
func (r *SessionRepository) ClearAll() error {
	_, err := r.db.Exec("DELETE FROM practice_sessions")
	return err
}

// querySessions runs a query returning full session rows
func (r *SessionRepository) querySessions(query string, args ...interface{}) ([]models.Session, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []models.Session
	for rows.Next() {
		var session models.Session
		err := rows.Scan(
			&session.ID, &session.Scale, &session.PracticeType, &session.Octaves,
			&session.BPM, &session.Duration, &session.Timestamp, &session.Date,
			&session.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}

	return sessions, rows.Err()
}
