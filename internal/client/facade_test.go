package client

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"regexp"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"scalecoach/internal/models"
)

// captureLog redirects the standard logger into a buffer for the duration of
// the test
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })
	return &buf
}

func newTestFacade(t *testing.T, serverURL string, static bool) *Facade {
	t.Helper()

	facade, err := New(Config{
		ServerURL:  serverURL,
		StaticMode: static,
		Timeout:    2 * time.Second,
		CacheDir:   t.TempDir(),
	})
	if err != nil {
		t.Fatalf("Failed to create facade: %v", err)
	}
	t.Cleanup(facade.CancelAll)
	return facade
}

func TestFacadePrefersServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/sessions" || r.Method != http.MethodPost {
			t.Errorf("Unexpected request: %s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"session": models.Session{ID: 42, Scale: "C Major", PracticeType: "scales", Octaves: 2, BPM: 60},
		})
	}))
	defer server.Close()

	facade := newTestFacade(t, server.URL, false)

	saved := facade.SaveUniqueSession(context.Background(), &models.Session{
		Scale: "C Major", PracticeType: "scales", Octaves: 2, BPM: 60, Duration: 30,
	})
	if saved == nil || saved.ID != 42 {
		t.Errorf("Expected the server's session back, got %+v", saved)
	}

	// Nothing should have landed in the cache on the online path
	if got := len(facade.Cache().AllSessions()); got != 0 {
		t.Errorf("Cache should stay empty when the server answers, got %d sessions", got)
	}
}

func TestFacadeFallsBackToCache(t *testing.T) {
	// A closed server guarantees connection errors
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	facade := newTestFacade(t, server.URL, false)
	ctx := context.Background()

	facade.SaveUniqueSession(ctx, &models.Session{Scale: "C Major", PracticeType: "scales", Octaves: 2, BPM: 60, Duration: 30})
	facade.SaveUniqueSession(ctx, &models.Session{Scale: "C Major", PracticeType: "scales", Octaves: 2, BPM: 85, Duration: 30})

	// The cache applied the same replace-on-save rule the server would have
	sessions := facade.AllSessions(ctx)
	if len(sessions) != 1 {
		t.Fatalf("Expected 1 session in fallback store, got %d", len(sessions))
	}
	if sessions[0].BPM != 85 {
		t.Errorf("Surviving BPM = %d, want 85", sessions[0].BPM)
	}

	key := models.ExerciseKey{Scale: "C Major", PracticeType: "scales", Octaves: 2}
	if best := facade.BestBPM(ctx, key); best == nil || *best != 85 {
		t.Errorf("BestBPM from fallback = %v, want 85", best)
	}
}

func TestFacadeFallbackWarningCarriesRequestID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	facade := newTestFacade(t, server.URL, false)
	logged := captureLog(t)

	facade.RecentSessions(context.Background(), 5)

	output := logged.String()
	if !strings.Contains(output, "WARNING") {
		t.Fatalf("Expected a fallback warning, got %q", output)
	}
	// The warning must carry the id sent in X-Request-ID so a failed call can
	// be matched against server logs
	if !regexp.MustCompile(`request [0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`).MatchString(output) {
		t.Errorf("Warning should include the request id, got %q", output)
	}
}

func TestFacadeStaticModeLogsNoWarnings(t *testing.T) {
	facade := newTestFacade(t, "http://unused.invalid", true)
	logged := captureLog(t)
	ctx := context.Background()

	facade.SaveUniqueSession(ctx, &models.Session{Scale: "C Major", PracticeType: "scales", Octaves: 2, BPM: 60, Duration: 30})
	facade.RecentSessions(ctx, 5)
	facade.Scales(ctx)

	// Cache-only mode is the configured behaviour, not a degradation
	if strings.Contains(logged.String(), "WARNING") {
		t.Errorf("Static mode should not warn about falling back, got %q", logged.String())
	}
}

func TestFacadeStaticModeNeverTouchesNetwork(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer server.Close()

	facade := newTestFacade(t, server.URL, true)
	ctx := context.Background()

	facade.SaveUniqueSession(ctx, &models.Session{Scale: "G Major", PracticeType: "scales", Octaves: 2, BPM: 60, Duration: 30})
	facade.RecentSessions(ctx, 5)
	facade.Scales(ctx)

	if hits.Load() != 0 {
		t.Errorf("Static mode made %d network requests", hits.Load())
	}
	if got := len(facade.AllSessions(ctx)); got != 1 {
		t.Errorf("Static mode should use the cache, got %d sessions", got)
	}
}

func TestFacadeAddScaleConflictIsNotAnOutage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"error": "Scale is already in your collection"})
	}))
	defer server.Close()

	facade := newTestFacade(t, server.URL, false)

	added := facade.AddScale(context.Background(), &models.Scale{Name: "C Major", Level: "Easy"})
	if added != nil {
		t.Errorf("409 means duplicate, expected nil, got %+v", added)
	}
	// The duplicate answer must not be retried against the cache
	if got := len(facade.Cache().Scales()); got != 0 {
		t.Errorf("Cache should stay empty after a server 409, got %d scales", got)
	}
}

func TestFacadeNewRequestCancelsPrevious(t *testing.T) {
	entered := make(chan struct{})
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			close(entered)
			// Hold the first request until its context is cancelled
			<-r.Context().Done()
			return
		}
		json.NewEncoder(w).Encode([]models.Session{{ID: 7, Scale: "C Major"}})
	}))
	defer server.Close()

	facade := newTestFacade(t, server.URL, false)

	firstDone := make(chan []models.Session, 1)
	go func() {
		firstDone <- facade.AllSessions(context.Background())
	}()

	<-entered
	second := facade.AllSessions(context.Background())

	if len(second) != 1 || second[0].ID != 7 {
		t.Errorf("Second request should get the server answer, got %+v", second)
	}

	select {
	case first := <-firstDone:
		// The cancelled request fell back to the (empty) cache
		if len(first) != 0 {
			t.Errorf("Cancelled request should return the empty cache, got %+v", first)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("First request was not cancelled")
	}
}

func TestFacadeTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	facade, err := New(Config{
		ServerURL: server.URL,
		Timeout:   50 * time.Millisecond,
		CacheDir:  t.TempDir(),
	})
	if err != nil {
		t.Fatalf("Failed to create facade: %v", err)
	}
	defer facade.CancelAll()

	start := time.Now()
	sessions := facade.RecentSessions(context.Background(), 5)
	elapsed := time.Since(start)

	if elapsed > time.Second {
		t.Errorf("Timed-out request took %v", elapsed)
	}
	if len(sessions) != 0 {
		t.Errorf("Timed-out read should return the empty cache, got %+v", sessions)
	}
}
