package models

import "time"

// DateLayout is the calendar-day bucket format used for session dates and the
// daily practice ledger, e.g. "Mon Jan 02 2026". Dates are compared as opaque
// strings, so client and server must derive them with the same layout.
const DateLayout = "Mon Jan 02 2006"

// TimestampLayout is the stored session timestamp format: UTC with fixed
// millisecond precision. Queries order sessions lexically by this column, so
// the format must make lexical order equal chronological order — a local
// offset or variable fractional width would break that.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// ExerciseKey identifies a distinct practice configuration. Sessions are
// deduplicated per key by the unique write path.
type ExerciseKey struct {
	Scale        string
	PracticeType string
	Octaves      int
}

// Session represents one completed practice attempt.
type Session struct {
	ID           int64     `json:"id"`
	Scale        string    `json:"scale" validate:"required"`
	PracticeType string    `json:"practice_type" validate:"required"`
	Octaves      int       `json:"octaves" validate:"required,min=1"`
	BPM          int       `json:"bpm" validate:"required,min=1"`
	Duration     int       `json:"duration" validate:"min=0"`
	Timestamp    string    `json:"timestamp"`
	Date         string    `json:"date"`
	CreatedAt    time.Time `json:"created_at,omitzero"`
}

// Key returns the exercise key of a session.
func (s *Session) Key() ExerciseKey {
	return ExerciseKey{Scale: s.Scale, PracticeType: s.PracticeType, Octaves: s.Octaves}
}

// Normalize fills in the timestamp and date fields when the caller did not
// provide them, using the given instant. A provided timestamp is rewritten to
// UTC in TimestampLayout so imported rows with arbitrary offsets sort
// correctly next to locally created ones; unparseable values are kept as-is.
func (s *Session) Normalize(now time.Time) {
	if s.Timestamp == "" {
		s.Timestamp = now.UTC().Format(TimestampLayout)
	} else if parsed, err := time.Parse(time.RFC3339, s.Timestamp); err == nil {
		s.Timestamp = parsed.UTC().Format(TimestampLayout)
	}
	if s.Date == "" {
		s.Date = now.Format(DateLayout)
	}
}

// PracticeStats summarises the stored session history.
type PracticeStats struct {
	TotalSessions     int     `json:"totalSessions"`
	TodaySessions     int     `json:"todaySessions"`
	TotalPracticeTime int     `json:"totalPracticeTime"`
	FavoriteScale     *string `json:"favoriteScale"`
}
