package client

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"scalecoach/internal/models"
)

// cachedSessionLimit mirrors the server-side history cap so switching between
// online and offline mode never changes what the user sees.
const cachedSessionLimit = 50

// Cache is the local fallback store: three JSON files under a directory,
// guarded by a single mutex. Every operation the server offers has a cache
// equivalent with the same dedup rules, so the façade can degrade without
// changing observable behaviour.
type Cache struct {
	mu  sync.Mutex
	dir string
}

// NewCache creates the cache directory if needed
func NewCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &Cache{dir: dir}, nil
}

func (c *Cache) sessionsPath() string { return filepath.Join(c.dir, "sessions.json") }
func (c *Cache) dailyPath() string    { return filepath.Join(c.dir, "daily.json") }
func (c *Cache) scalesPath() string   { return filepath.Join(c.dir, "scales.json") }

// readJSON loads a file into out. A missing or unreadable file leaves out
// untouched; the caller's zero value is the empty store.
func readJSON(path string, out interface{}) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	// Corrupt cache files are treated as empty rather than fatal
	_ = json.Unmarshal(data, out)
}

// writeJSON writes atomically: temp file, fsync, rename
func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

func (c *Cache) loadSessions() []models.Session {
	var sessions []models.Session
	readJSON(c.sessionsPath(), &sessions)
	return sessions
}

// nextSessionID returns one past the highest id in use. Ids derived from the
// wall clock collide when writes land in the same millisecond.
func nextSessionID(sessions []models.Session) int64 {
	var max int64
	for _, s := range sessions {
		if s.ID > max {
			max = s.ID
		}
	}
	return max + 1
}

// SaveSession appends a session unconditionally, newest first
func (c *Cache) SaveSession(session *models.Session) (*models.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	existing := c.loadSessions()

	stored := *session
	stored.Normalize(time.Now())
	stored.ID = nextSessionID(existing)

	sessions := append([]models.Session{stored}, existing...)
	if len(sessions) > cachedSessionLimit {
		sessions = sessions[:cachedSessionLimit]
	}

	if err := writeJSON(c.sessionsPath(), sessions); err != nil {
		return nil, err
	}
	return &stored, nil
}

// SaveUniqueSession drops any session with the same exercise configuration
// before prepending the new one
func (c *Cache) SaveUniqueSession(session *models.Session) (*models.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	existing := c.loadSessions()

	stored := *session
	stored.Normalize(time.Now())
	stored.ID = nextSessionID(existing)

	kept := make([]models.Session, 0, len(existing)+1)
	kept = append(kept, stored)
	for _, s := range existing {
		if s.Key() == stored.Key() {
			continue
		}
		kept = append(kept, s)
	}
	if len(kept) > cachedSessionLimit {
		kept = kept[:cachedSessionLimit]
	}

	if err := writeJSON(c.sessionsPath(), kept); err != nil {
		return nil, err
	}
	return &stored, nil
}

// RecentSessions returns the newest sessions, truncated to limit
func (c *Cache) RecentSessions(limit int) []models.Session {
	c.mu.Lock()
	defer c.mu.Unlock()

	sessions := c.loadSessions()
	if limit > 0 && len(sessions) > limit {
		sessions = sessions[:limit]
	}
	if sessions == nil {
		sessions = []models.Session{}
	}
	return sessions
}

// AllSessions returns the cached history, newest first
func (c *Cache) AllSessions() []models.Session {
	return c.RecentSessions(cachedSessionLimit)
}

// SessionsForScale returns every cached session for a scale
func (c *Cache) SessionsForScale(scale string) []models.Session {
	c.mu.Lock()
	defer c.mu.Unlock()

	matched := []models.Session{}
	for _, s := range c.loadSessions() {
		if s.Scale == scale {
			matched = append(matched, s)
		}
	}
	return matched
}

// LastSessionsForScale returns the newest sessions for a scale
func (c *Cache) LastSessionsForScale(scale string, limit int) []models.Session {
	matched := c.SessionsForScale(scale)
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched
}

// BestBPM returns the highest cached tempo for an exercise configuration,
// or nil when it has never been practiced
func (c *Cache) BestBPM(key models.ExerciseKey) *int {
	c.mu.Lock()
	defer c.mu.Unlock()

	var best *int
	for _, s := range c.loadSessions() {
		if s.Key() != key {
			continue
		}
		if best == nil || s.BPM > *best {
			bpm := s.BPM
			best = &bpm
		}
	}
	return best
}

// HasBeenPracticed reports whether any cached session matches scale and
// practice type
func (c *Cache) HasBeenPracticed(scale, practiceType string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, s := range c.loadSessions() {
		if s.Scale == scale && s.PracticeType == practiceType {
			return true
		}
	}
	return false
}

// PracticedTypesForScale returns the distinct practice types cached for a scale
func (c *Cache) PracticedTypesForScale(scale string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	seen := map[string]bool{}
	types := []string{}
	for _, s := range c.loadSessions() {
		if s.Scale != scale || seen[s.PracticeType] {
			continue
		}
		seen[s.PracticeType] = true
		types = append(types, s.PracticeType)
	}
	return types
}

// Stats aggregates the cached history
func (c *Cache) Stats() *models.PracticeStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	sessions := c.loadSessions()
	today := time.Now().Format(models.DateLayout)

	stats := &models.PracticeStats{TotalSessions: len(sessions)}
	counts := map[string]int{}
	for _, s := range sessions {
		if s.Date == today {
			stats.TodaySessions++
		}
		stats.TotalPracticeTime += s.Duration
		counts[s.Scale]++
	}

	bestCount := 0
	for scale, count := range counts {
		if count > bestCount {
			bestCount = count
			name := scale
			stats.FavoriteScale = &name
		}
	}

	return stats
}

// ClearSessions empties the cached history
func (c *Cache) ClearSessions() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return writeJSON(c.sessionsPath(), []models.Session{})
}

// GetDaily returns the cached record for a day, or nil
func (c *Cache) GetDaily(date string) *models.DailyPractice {
	c.mu.Lock()
	defer c.mu.Unlock()

	var records []models.DailyPractice
	readJSON(c.dailyPath(), &records)
	for i := range records {
		if records[i].Date == date {
			return &records[i]
		}
	}
	return nil
}

// SaveDaily upserts a day's record by date
func (c *Cache) SaveDaily(record *models.DailyPractice) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if record.LastUpdated == "" {
		record.LastUpdated = time.Now().Format(time.RFC3339)
	}

	var records []models.DailyPractice
	readJSON(c.dailyPath(), &records)

	replaced := false
	for i := range records {
		if records[i].Date == record.Date {
			records[i].TotalTime = record.TotalTime
			records[i].LastUpdated = record.LastUpdated
			replaced = true
			break
		}
	}
	if !replaced {
		stored := *record
		var maxID int64
		for _, r := range records {
			if r.ID > maxID {
				maxID = r.ID
			}
		}
		stored.ID = maxID + 1
		records = append(records, stored)
	}

	return writeJSON(c.dailyPath(), records)
}

// ClearDaily empties the daily ledger
func (c *Cache) ClearDaily() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return writeJSON(c.dailyPath(), []models.DailyPractice{})
}

// Scales returns the cached collection in insertion order
func (c *Cache) Scales() []models.Scale {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadScales()
}

func (c *Cache) loadScales() []models.Scale {
	scales := []models.Scale{}
	readJSON(c.scalesPath(), &scales)
	return scales
}

func nextScaleID(scales []models.Scale) int64 {
	var max int64
	for _, s := range scales {
		if s.ID > max {
			max = s.ID
		}
	}
	return max + 1
}

// AddScale appends a scale unless its name already exists; nil means duplicate
func (c *Cache) AddScale(scale *models.Scale) (*models.Scale, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	scales := c.loadScales()
	for _, s := range scales {
		if s.Name == scale.Name {
			return nil, nil
		}
	}

	stored := *scale
	stored.ID = nextScaleID(scales)
	scales = append(scales, stored)

	if err := writeJSON(c.scalesPath(), scales); err != nil {
		return nil, err
	}
	return &stored, nil
}

// RemoveScale deletes a scale by id, reporting whether anything was removed
func (c *Cache) RemoveScale(id int64) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	scales := c.loadScales()
	kept := make([]models.Scale, 0, len(scales))
	removed := false
	for _, s := range scales {
		if s.ID == id {
			removed = true
			continue
		}
		kept = append(kept, s)
	}
	if !removed {
		return false, nil
	}

	if err := writeJSON(c.scalesPath(), kept); err != nil {
		return false, err
	}
	return true, nil
}

// SeedDefaults ensures the default scales exist in the cache
func (c *Cache) SeedDefaults() ([]models.Scale, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seedDefaultsLocked()
}

func (c *Cache) seedDefaultsLocked() ([]models.Scale, error) {
	scales := c.loadScales()
	names := map[string]bool{}
	for _, s := range scales {
		names[s.Name] = true
	}

	id := nextScaleID(scales)
	for _, d := range models.DefaultScales {
		if names[d.Name] {
			continue
		}
		d.ID = id
		id++
		scales = append(scales, d)
	}

	if err := writeJSON(c.scalesPath(), scales); err != nil {
		return nil, err
	}
	return scales, nil
}

// ResetToDefaults replaces the collection with the default set
func (c *Cache) ResetToDefaults() ([]models.Scale, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := writeJSON(c.scalesPath(), []models.Scale{}); err != nil {
		return nil, err
	}
	return c.seedDefaultsLocked()
}

// ClearScales empties the collection without reseeding
func (c *Cache) ClearScales() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return writeJSON(c.scalesPath(), []models.Scale{})
}
