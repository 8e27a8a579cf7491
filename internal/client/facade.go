package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"

	"scalecoach/internal/models"
)

// Config controls how the façade talks to the server. StaticMode pins every
// operation to the local cache; it is decided once at construction rather
// than sniffed per call.
type Config struct {
	ServerURL  string
	StaticMode bool
	Timeout    time.Duration
	CacheDir   string
}

// Facade is the single entry point for reading and writing practice data.
// It prefers the HTTP API and falls back to the local cache on any failure,
// applying the same dedup rules either way.
//
// Each logical request type has at most one request in flight: issuing a new
// one cancels its predecessor, which keeps a fast-clicking user from queueing
// stale reads behind slow ones.
type Facade struct {
	cfg   Config
	http  *http.Client
	cache *Cache

	mu       sync.Mutex
	inflight map[string]*inflightEntry
}

// inflightEntry identifies one registered request so its cleanup can tell
// whether a newer request of the same type has already replaced it
type inflightEntry struct {
	cancel context.CancelFunc
}

// statusError is a non-2xx response; the status code survives for callers
// that treat specific codes as answers rather than outages
type statusError struct {
	code   int
	status string
}

func (e *statusError) Error() string {
	return "server returned " + e.status
}

func isConflict(err error) bool {
	var se *statusError
	return errors.As(err, &se) && se.code == http.StatusConflict
}

func urlEscape(s string) string {
	return url.QueryEscape(s)
}

// New creates a façade and its backing cache
func New(cfg Config) (*Facade, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	cache, err := NewCache(cfg.CacheDir)
	if err != nil {
		return nil, err
	}

	return &Facade{
		cfg:      cfg,
		http:     &http.Client{},
		cache:    cache,
		inflight: make(map[string]*inflightEntry),
	}, nil
}

// Cache exposes the backing cache, mainly for the CLI's offline commands
func (f *Facade) Cache() *Cache {
	return f.cache
}

// CancelAll aborts every in-flight request. Used at teardown.
func (f *Facade) CancelAll() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for requestType, entry := range f.inflight {
		entry.cancel()
		delete(f.inflight, requestType)
	}
}

// begin registers a request of the given type, cancelling any predecessor.
// The returned context carries the configured timeout.
func (f *Facade) begin(ctx context.Context, requestType string) (context.Context, context.CancelFunc) {
	reqCtx, cancel := context.WithTimeout(ctx, f.cfg.Timeout)
	entry := &inflightEntry{cancel: cancel}

	f.mu.Lock()
	if prev, ok := f.inflight[requestType]; ok {
		prev.cancel()
	}
	f.inflight[requestType] = entry
	f.mu.Unlock()

	return reqCtx, func() {
		cancel()
		f.mu.Lock()
		if f.inflight[requestType] == entry {
			delete(f.inflight, requestType)
		}
		f.mu.Unlock()
	}
}

// errStaticMode marks the configured cache-only mode, as opposed to a
// degradation worth warning about
var errStaticMode = errors.New("static mode: cache only")

// requestJSON performs one HTTP exchange. Any error, including a non-2xx
// status, is returned so the caller can fall back to the cache. The generated
// request id travels in the X-Request-ID header and is wrapped into every
// failure so façade warnings and server logs can be correlated.
func (f *Facade) requestJSON(ctx context.Context, requestType, method, path string, body, out interface{}) error {
	if f.cfg.StaticMode {
		return errStaticMode
	}

	reqCtx, done := f.begin(ctx, requestType)
	defer done()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(reqCtx, method, f.cfg.ServerURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	requestID := uuid.New().String()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	resp, err := f.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s failed: %w", requestID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("request %s: %w", requestID, &statusError{code: resp.StatusCode, status: resp.Status})
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("request %s: failed to decode response: %w", requestID, err)
		}
	}
	return nil
}

// fallback logs the network failure once and hands control to the cache path.
// Static mode is silent: the cache is the configured store there.
func fallback(operation string, err error) {
	if errors.Is(err, errStaticMode) {
		return
	}
	log.Printf("WARNING: %s falling back to local cache: %v", operation, err)
}

// SaveSession records a session unconditionally
func (f *Facade) SaveSession(ctx context.Context, session *models.Session) *models.Session {
	var resp struct {
		Session *models.Session `json:"session"`
	}
	err := f.requestJSON(ctx, "saveSession", http.MethodPost, "/api/sessions",
		map[string]interface{}{"action": "save", "session": session}, &resp)
	if err == nil {
		return resp.Session
	}
	fallback("SaveSession", err)

	saved, cacheErr := f.cache.SaveSession(session)
	if cacheErr != nil {
		log.Printf("Error saving session to cache: %v", cacheErr)
		return nil
	}
	return saved
}

// SaveUniqueSession records a session, replacing any previous attempt at the
// same exercise configuration
func (f *Facade) SaveUniqueSession(ctx context.Context, session *models.Session) *models.Session {
	var resp struct {
		Session *models.Session `json:"session"`
	}
	err := f.requestJSON(ctx, "saveUniqueSession", http.MethodPost, "/api/sessions",
		map[string]interface{}{"action": "saveUnique", "session": session}, &resp)
	if err == nil {
		return resp.Session
	}
	fallback("SaveUniqueSession", err)

	saved, cacheErr := f.cache.SaveUniqueSession(session)
	if cacheErr != nil {
		log.Printf("Error saving unique session to cache: %v", cacheErr)
		return nil
	}
	return saved
}

// RecentSessions returns the newest sessions, most recent first
func (f *Facade) RecentSessions(ctx context.Context, limit int) []models.Session {
	if limit <= 0 {
		limit = 10
	}

	var sessions []models.Session
	path := fmt.Sprintf("/api/sessions?query=recent&limit=%d", limit)
	if err := f.requestJSON(ctx, "recentSessions", http.MethodGet, path, nil, &sessions); err != nil {
		fallback("RecentSessions", err)
		return f.cache.RecentSessions(limit)
	}
	return sessions
}

// AllSessions returns the stored history, capped at 50 rows
func (f *Facade) AllSessions(ctx context.Context) []models.Session {
	var sessions []models.Session
	if err := f.requestJSON(ctx, "allSessions", http.MethodGet, "/api/sessions?query=all", nil, &sessions); err != nil {
		fallback("AllSessions", err)
		return f.cache.AllSessions()
	}
	return sessions
}

// SessionsForScale returns every session for a scale, newest first
func (f *Facade) SessionsForScale(ctx context.Context, scale string) []models.Session {
	var sessions []models.Session
	path := "/api/sessions?query=forScale&scale=" + urlEscape(scale)
	if err := f.requestJSON(ctx, "sessionsForScale", http.MethodGet, path, nil, &sessions); err != nil {
		fallback("SessionsForScale", err)
		return f.cache.SessionsForScale(scale)
	}
	return sessions
}

// LastSessionsForScale returns the most recent sessions for a scale
func (f *Facade) LastSessionsForScale(ctx context.Context, scale string, limit int) []models.Session {
	if limit <= 0 {
		limit = 2
	}

	var sessions []models.Session
	path := fmt.Sprintf("/api/sessions?query=lastForScale&scale=%s&limit=%d", urlEscape(scale), limit)
	if err := f.requestJSON(ctx, "lastSessionsForScale", http.MethodGet, path, nil, &sessions); err != nil {
		fallback("LastSessionsForScale", err)
		return f.cache.LastSessionsForScale(scale, limit)
	}
	return sessions
}

// BestBPM returns the highest recorded tempo for an exercise configuration,
// or nil when it has never been practiced
func (f *Facade) BestBPM(ctx context.Context, key models.ExerciseKey) *int {
	var resp struct {
		BestBPM *int `json:"bestBPM"`
	}
	path := fmt.Sprintf("/api/sessions/exercise?query=bestBPM&scale=%s&practiceType=%s&octaves=%d",
		urlEscape(key.Scale), urlEscape(key.PracticeType), key.Octaves)
	if err := f.requestJSON(ctx, "bestBPM", http.MethodGet, path, nil, &resp); err != nil {
		fallback("BestBPM", err)
		return f.cache.BestBPM(key)
	}
	return resp.BestBPM
}

// HasBeenPracticed reports whether a scale/practice-type pair has any history
func (f *Facade) HasBeenPracticed(ctx context.Context, scale, practiceType string) bool {
	var resp struct {
		Practiced bool `json:"practiced"`
	}
	path := fmt.Sprintf("/api/sessions/exercise?query=hasBeenPracticed&scale=%s&practiceType=%s",
		urlEscape(scale), urlEscape(practiceType))
	if err := f.requestJSON(ctx, "hasBeenPracticed", http.MethodGet, path, nil, &resp); err != nil {
		fallback("HasBeenPracticed", err)
		return f.cache.HasBeenPracticed(scale, practiceType)
	}
	return resp.Practiced
}

// PracticedTypesForScale returns the distinct practice types recorded for a scale
func (f *Facade) PracticedTypesForScale(ctx context.Context, scale string) []string {
	var resp struct {
		Exercises []string `json:"exercises"`
	}
	path := "/api/sessions/exercise?query=practicedForScale&scale=" + urlEscape(scale)
	if err := f.requestJSON(ctx, "practicedForScale", http.MethodGet, path, nil, &resp); err != nil {
		fallback("PracticedTypesForScale", err)
		return f.cache.PracticedTypesForScale(scale)
	}
	return resp.Exercises
}

// Stats aggregates the stored history into headline numbers
func (f *Facade) Stats(ctx context.Context) *models.PracticeStats {
	var stats models.PracticeStats
	if err := f.requestJSON(ctx, "stats", http.MethodGet, "/api/sessions?query=stats", nil, &stats); err != nil {
		fallback("Stats", err)
		return f.cache.Stats()
	}
	return &stats
}

// DailyPractice returns the record for a calendar day, defaulting to today
func (f *Facade) DailyPractice(ctx context.Context, date string) *models.DailyPractice {
	if date == "" {
		date = time.Now().Format(models.DateLayout)
	}

	var record *models.DailyPractice
	path := "/api/daily-practice?date=" + urlEscape(date)
	if err := f.requestJSON(ctx, "dailyPractice", http.MethodGet, path, nil, &record); err != nil {
		fallback("DailyPractice", err)
		return f.cache.GetDaily(date)
	}
	return record
}

// SaveDailyPractice upserts a day's running total
func (f *Facade) SaveDailyPractice(ctx context.Context, record *models.DailyPractice) bool {
	var resp struct {
		Success bool `json:"success"`
	}
	err := f.requestJSON(ctx, "saveDailyPractice", http.MethodPost, "/api/daily-practice",
		map[string]interface{}{"action": "save", "record": record}, &resp)
	if err == nil {
		return resp.Success
	}
	fallback("SaveDailyPractice", err)

	if cacheErr := f.cache.SaveDaily(record); cacheErr != nil {
		log.Printf("Error saving daily practice to cache: %v", cacheErr)
		return false
	}
	return true
}

// Scales returns the collection in insertion order
func (f *Facade) Scales(ctx context.Context) []models.Scale {
	var scales []models.Scale
	if err := f.requestJSON(ctx, "scales", http.MethodGet, "/api/scales", nil, &scales); err != nil {
		fallback("Scales", err)
		return f.cache.Scales()
	}
	return scales
}

// AddScale inserts a scale; nil means the name is already in the collection
func (f *Facade) AddScale(ctx context.Context, scale *models.Scale) *models.Scale {
	var added models.Scale
	err := f.requestJSON(ctx, "addScale", http.MethodPost, "/api/scales",
		map[string]interface{}{"action": "addScale", "scale": scale}, &added)
	if err == nil {
		return &added
	}
	// A 409 is a definitive duplicate answer from the server, not an outage
	if isConflict(err) {
		return nil
	}
	fallback("AddScale", err)

	saved, cacheErr := f.cache.AddScale(scale)
	if cacheErr != nil {
		log.Printf("Error adding scale to cache: %v", cacheErr)
		return nil
	}
	return saved
}

// RemoveScale deletes a scale by id
func (f *Facade) RemoveScale(ctx context.Context, id int64) bool {
	var resp struct {
		Success bool `json:"success"`
	}
	err := f.requestJSON(ctx, "removeScale", http.MethodPost, "/api/scales",
		map[string]interface{}{"action": "removeScale", "id": id}, &resp)
	if err == nil {
		return resp.Success
	}
	fallback("RemoveScale", err)

	removed, cacheErr := f.cache.RemoveScale(id)
	if cacheErr != nil {
		log.Printf("Error removing scale from cache: %v", cacheErr)
		return false
	}
	return removed
}

// ResetScales restores the default scale collection
func (f *Facade) ResetScales(ctx context.Context) []models.Scale {
	var scales []models.Scale
	err := f.requestJSON(ctx, "resetScales", http.MethodPost, "/api/scales",
		map[string]interface{}{"action": "resetToDefaults"}, &scales)
	if err == nil {
		return scales
	}
	fallback("ResetScales", err)

	reset, cacheErr := f.cache.ResetToDefaults()
	if cacheErr != nil {
		log.Printf("Error resetting scales in cache: %v", cacheErr)
		return []models.Scale{}
	}
	return reset
}

// ClearAllData wipes every collection and reseeds the default scales
func (f *Facade) ClearAllData(ctx context.Context) []models.Scale {
	var resp struct {
		Success       bool           `json:"success"`
		DefaultScales []models.Scale `json:"defaultScales"`
	}
	err := f.requestJSON(ctx, "clearAllData", http.MethodPost, "/api/database",
		map[string]interface{}{"action": "clearAll"}, &resp)
	if err == nil {
		return resp.DefaultScales
	}
	fallback("ClearAllData", err)

	if cacheErr := f.cache.ClearSessions(); cacheErr != nil {
		log.Printf("Error clearing cached sessions: %v", cacheErr)
	}
	if cacheErr := f.cache.ClearDaily(); cacheErr != nil {
		log.Printf("Error clearing cached daily practice: %v", cacheErr)
	}
	defaults, cacheErr := f.cache.ResetToDefaults()
	if cacheErr != nil {
		log.Printf("Error resetting cached scales: %v", cacheErr)
		return []models.Scale{}
	}
	return defaults
}
