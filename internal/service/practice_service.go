package service

import (
	"log"
	"time"

	"scalecoach/internal/models"
	"scalecoach/internal/repository"
)

// PracticeService wraps the session repository and applies the boundary
// failure policy: read errors degrade to empty results, non-destructive
// write errors degrade to a nil "not persisted" signal. Only the explicit
// destructive operation propagates its error so callers can alert the user.
type PracticeService struct {
	sessions *repository.SessionRepository
}

// NewPracticeService creates a new practice service
func NewPracticeService(sessions *repository.SessionRepository) *PracticeService {
	return &PracticeService{sessions: sessions}
}

// SaveSession appends a session unconditionally. Returns nil when the write
// failed; callers must not assume persistence on nil.
func (s *PracticeService) SaveSession(session *models.Session) *models.Session {
	saved, err := s.sessions.Insert(session)
	if err != nil {
		log.Printf("Error saving session: %v", err)
		return nil
	}
	return saved
}

// SaveUniqueSession replaces any stored session for the same exercise
// configuration. This is the default write path for real practice attempts.
func (s *PracticeService) SaveUniqueSession(session *models.Session) *models.Session {
	saved, err := s.sessions.InsertUnique(session)
	if err != nil {
		log.Printf("Error saving unique session: %v", err)
		return nil
	}
	return saved
}

// RecentSessions returns the newest sessions, most recent first
func (s *PracticeService) RecentSessions(limit int) []models.Session {
	if limit <= 0 {
		limit = 10
	}

	sessions, err := s.sessions.GetRecent(limit)
	if err != nil {
		log.Printf("Error getting recent sessions: %v", err)
		return []models.Session{}
	}
	if sessions == nil {
		sessions = []models.Session{}
	}
	return sessions
}

// AllSessions returns the stored history, capped at 50 rows
func (s *PracticeService) AllSessions() []models.Session {
	sessions, err := s.sessions.GetAll()
	if err != nil {
		log.Printf("Error getting all sessions: %v", err)
		return []models.Session{}
	}
	if sessions == nil {
		sessions = []models.Session{}
	}
	return sessions
}

// SessionsForScale returns every session for a scale, newest first
func (s *PracticeService) SessionsForScale(scale string) []models.Session {
	sessions, err := s.sessions.GetForScale(scale)
	if err != nil {
		log.Printf("Error getting sessions for scale %q: %v", scale, err)
		return []models.Session{}
	}
	if sessions == nil {
		sessions = []models.Session{}
	}
	return sessions
}

// LastSessionsForScale returns the most recent sessions for a scale
func (s *PracticeService) LastSessionsForScale(scale string, limit int) []models.Session {
	if limit <= 0 {
		limit = 2
	}

	sessions, err := s.sessions.GetLastForScale(scale, limit)
	if err != nil {
		log.Printf("Error getting last sessions for scale %q: %v", scale, err)
		return []models.Session{}
	}
	if sessions == nil {
		sessions = []models.Session{}
	}
	return sessions
}

// BestBPM returns the highest recorded tempo for an exercise configuration,
// or nil when it has never been practiced
func (s *PracticeService) BestBPM(key models.ExerciseKey) *int {
	best, err := s.sessions.GetBestBPM(key)
	if err != nil {
		log.Printf("Error getting best BPM: %v", err)
		return nil
	}
	return best
}

// HasBeenPracticed reports whether a scale/practice-type pair has any history
func (s *PracticeService) HasBeenPracticed(scale, practiceType string) bool {
	practiced, err := s.sessions.HasBeenPracticed(scale, practiceType)
	if err != nil {
		log.Printf("Error checking practice history: %v", err)
		return false
	}
	return practiced
}

// PracticedTypesForScale returns the distinct practice types recorded for a scale
func (s *PracticeService) PracticedTypesForScale(scale string) []string {
	types, err := s.sessions.GetPracticedTypesForScale(scale)
	if err != nil {
		log.Printf("Error getting practiced types for scale %q: %v", scale, err)
		return []string{}
	}
	if types == nil {
		types = []string{}
	}
	return types
}

// Stats aggregates the stored history into headline numbers
func (s *PracticeService) Stats() *models.PracticeStats {
	stats, err := s.sessions.GetStats(time.Now().Format(models.DateLayout))
	if err != nil {
		log.Printf("Error getting practice stats: %v", err)
		return &models.PracticeStats{}
	}
	return stats
}

// ClearAll deletes every stored session. Errors propagate: this is a
// user-initiated destructive action and failures must be surfaced.
func (s *PracticeService) ClearAll() error {
	return s.sessions.ClearAll()
}
