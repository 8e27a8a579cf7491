package client

import (
	"fmt"
	"testing"
	"time"

	"scalecoach/internal/models"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	cache, err := NewCache(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create cache: %v", err)
	}
	return cache
}

func cacheSession(scale, practiceType string, octaves, bpm int) *models.Session {
	return &models.Session{
		Scale:        scale,
		PracticeType: practiceType,
		Octaves:      octaves,
		BPM:          bpm,
		Duration:     60,
	}
}

func TestCacheSaveUniqueReplaces(t *testing.T) {
	cache := newTestCache(t)

	if _, err := cache.SaveUniqueSession(cacheSession("C Major", "scales", 2, 60)); err != nil {
		t.Fatalf("SaveUniqueSession failed: %v", err)
	}
	if _, err := cache.SaveUniqueSession(cacheSession("C Major", "scales", 2, 90)); err != nil {
		t.Fatalf("SaveUniqueSession failed: %v", err)
	}

	sessions := cache.AllSessions()
	if len(sessions) != 1 {
		t.Fatalf("Expected 1 session after replace, got %d", len(sessions))
	}
	if sessions[0].BPM != 90 {
		t.Errorf("Surviving BPM = %d, want 90", sessions[0].BPM)
	}
}

func TestCacheSaveUniqueKeepsOtherExercises(t *testing.T) {
	cache := newTestCache(t)

	if _, err := cache.SaveUniqueSession(cacheSession("C Major", "scales", 2, 60)); err != nil {
		t.Fatalf("SaveUniqueSession failed: %v", err)
	}
	if _, err := cache.SaveUniqueSession(cacheSession("C Major", "scales", 4, 60)); err != nil {
		t.Fatalf("SaveUniqueSession failed: %v", err)
	}

	if got := len(cache.AllSessions()); got != 2 {
		t.Errorf("Different octaves are different exercises, got %d sessions", got)
	}
}

func TestCacheTrimsToFifty(t *testing.T) {
	cache := newTestCache(t)

	for i := 0; i < 55; i++ {
		if _, err := cache.SaveSession(cacheSession(fmt.Sprintf("Scale %d", i), "scales", 2, 60)); err != nil {
			t.Fatalf("SaveSession failed: %v", err)
		}
	}

	sessions := cache.AllSessions()
	if len(sessions) != 50 {
		t.Fatalf("Cache should trim to 50 sessions, got %d", len(sessions))
	}
	// Newest entry survives the trim
	if sessions[0].Scale != "Scale 54" {
		t.Errorf("Newest session first, got %s", sessions[0].Scale)
	}
}

func TestCacheAssignsDistinctSessionIDs(t *testing.T) {
	cache := newTestCache(t)

	// Back-to-back saves land within the same millisecond, so ids derived
	// from the wall clock would collide
	seen := map[int64]bool{}
	for i := 0; i < 20; i++ {
		saved, err := cache.SaveSession(cacheSession(fmt.Sprintf("Scale %d", i), "scales", 2, 60))
		if err != nil {
			t.Fatalf("SaveSession failed: %v", err)
		}
		if seen[saved.ID] {
			t.Fatalf("Duplicate session id %d on save %d", saved.ID, i)
		}
		seen[saved.ID] = true
	}
}

func TestCacheAssignsDistinctScaleIDs(t *testing.T) {
	cache := newTestCache(t)

	seen := map[int64]bool{}
	for i := 0; i < 10; i++ {
		added, err := cache.AddScale(&models.Scale{Name: fmt.Sprintf("Mode %d", i), Level: "Easy"})
		if err != nil || added == nil {
			t.Fatalf("AddScale failed: scale=%v err=%v", added, err)
		}
		if seen[added.ID] {
			t.Fatalf("Duplicate scale id %d", added.ID)
		}
		seen[added.ID] = true
	}

	// RemoveScale keys on id, so a collision would delete the wrong row
	if removed, err := cache.RemoveScale(3); err != nil || !removed {
		t.Fatalf("RemoveScale failed: removed=%v err=%v", removed, err)
	}
	if got := len(cache.Scales()); got != 9 {
		t.Errorf("Expected exactly one scale removed, got %d remaining", got)
	}
}

func TestCacheBestBPM(t *testing.T) {
	cache := newTestCache(t)

	key := models.ExerciseKey{Scale: "D Major", PracticeType: "scales", Octaves: 2}
	if best := cache.BestBPM(key); best != nil {
		t.Errorf("Empty cache best = %v, want nil", *best)
	}

	for _, bpm := range []int{70, 95, 80} {
		if _, err := cache.SaveSession(cacheSession("D Major", "scales", 2, bpm)); err != nil {
			t.Fatalf("SaveSession failed: %v", err)
		}
	}

	best := cache.BestBPM(key)
	if best == nil || *best != 95 {
		t.Errorf("BestBPM = %v, want 95", best)
	}
}

func TestCacheDailyUpsert(t *testing.T) {
	cache := newTestCache(t)

	date := time.Now().Format(models.DateLayout)
	if err := cache.SaveDaily(&models.DailyPractice{Date: date, TotalTime: 120}); err != nil {
		t.Fatalf("SaveDaily failed: %v", err)
	}
	if err := cache.SaveDaily(&models.DailyPractice{Date: date, TotalTime: 240}); err != nil {
		t.Fatalf("SaveDaily failed: %v", err)
	}

	record := cache.GetDaily(date)
	if record == nil || record.TotalTime != 240 {
		t.Errorf("Daily record = %+v, want total 240", record)
	}

	if missing := cache.GetDaily("Sat Jan 03 2026"); missing != nil {
		t.Errorf("Unlogged day should be nil, got %+v", missing)
	}
}

func TestCacheScaleNameDedup(t *testing.T) {
	cache := newTestCache(t)

	added, err := cache.AddScale(&models.Scale{Name: "C Major", Level: "Easy"})
	if err != nil || added == nil {
		t.Fatalf("AddScale failed: scale=%v err=%v", added, err)
	}

	dup, err := cache.AddScale(&models.Scale{Name: "C Major", Level: "Advanced"})
	if err != nil {
		t.Fatalf("Duplicate AddScale errored: %v", err)
	}
	if dup != nil {
		t.Errorf("Duplicate name should return nil, got %+v", dup)
	}

	if got := len(cache.Scales()); got != 1 {
		t.Errorf("Expected 1 scale, got %d", got)
	}
}

func TestCacheResetToDefaults(t *testing.T) {
	cache := newTestCache(t)

	if _, err := cache.AddScale(&models.Scale{Name: "B Locrian", Level: "Advanced"}); err != nil {
		t.Fatalf("AddScale failed: %v", err)
	}

	scales, err := cache.ResetToDefaults()
	if err != nil {
		t.Fatalf("ResetToDefaults failed: %v", err)
	}
	if len(scales) != len(models.DefaultScales) {
		t.Errorf("Expected %d defaults, got %d", len(models.DefaultScales), len(scales))
	}
	for _, s := range scales {
		if s.Name == "B Locrian" {
			t.Error("Custom scale should not survive a reset")
		}
	}
}

func TestCacheSurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	cache, err := NewCache(dir)
	if err != nil {
		t.Fatalf("NewCache failed: %v", err)
	}
	if _, err := cache.SaveSession(cacheSession("C Major", "scales", 2, 60)); err != nil {
		t.Fatalf("SaveSession failed: %v", err)
	}

	reopened, err := NewCache(dir)
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	if got := len(reopened.AllSessions()); got != 1 {
		t.Errorf("Reopened cache should hold 1 session, got %d", got)
	}
}
