package service

import (
	"path/filepath"
	"testing"

	"scalecoach/internal/database"
	"scalecoach/internal/models"
	"scalecoach/internal/repository"
)

func newBackupFixture(t *testing.T) (*BackupService, *repository.SessionRepository, *repository.DailyRepository, *repository.ScaleRepository) {
	t.Helper()

	db, err := database.Initialize(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to initialize test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations(); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	sessions := repository.NewSessionRepository(db)
	daily := repository.NewDailyRepository(db)
	scales := repository.NewScaleRepository(db)
	return NewBackupService(sessions, daily, scales), sessions, daily, scales
}

func TestBackupRoundTrip(t *testing.T) {
	source, sessions, daily, scales := newBackupFixture(t)

	if _, err := sessions.Insert(&models.Session{Scale: "C Major", PracticeType: "scales", Octaves: 2, BPM: 60, Duration: 120}); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if _, err := sessions.Insert(&models.Session{Scale: "G Major", PracticeType: "arpeggios", Octaves: 4, BPM: 72, Duration: 90}); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := daily.Save(&models.DailyPractice{Date: "Mon Jan 05 2026", TotalTime: 210}); err != nil {
		t.Fatalf("Save daily failed: %v", err)
	}
	if _, err := scales.Add(&models.Scale{Name: "C Major", Level: "Easy"}); err != nil {
		t.Fatalf("Add scale failed: %v", err)
	}

	backupPath := filepath.Join(t.TempDir(), "backup.json")
	if err := source.Export(backupPath); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	target, targetSessions, targetDaily, targetScales := newBackupFixture(t)
	if err := target.Import(backupPath, false); err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	restored, err := targetSessions.ListAll()
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(restored) != 2 {
		t.Errorf("Expected 2 restored sessions, got %d", len(restored))
	}

	record, err := targetDaily.Get("Mon Jan 05 2026")
	if err != nil || record == nil {
		t.Fatalf("Daily record missing after import: record=%v err=%v", record, err)
	}
	if record.TotalTime != 210 {
		t.Errorf("Restored daily total = %d, want 210", record.TotalTime)
	}

	scaleList, err := targetScales.List()
	if err != nil {
		t.Fatalf("List scales failed: %v", err)
	}
	if len(scaleList) != 1 || scaleList[0].Name != "C Major" {
		t.Errorf("Restored scales = %+v", scaleList)
	}
}

func TestBackupImportWithClear(t *testing.T) {
	source, sessions, _, _ := newBackupFixture(t)
	if _, err := sessions.Insert(&models.Session{Scale: "C Major", PracticeType: "scales", Octaves: 2, BPM: 60, Duration: 30}); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	backupPath := filepath.Join(t.TempDir(), "backup.json")
	if err := source.Export(backupPath); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	target, targetSessions, _, _ := newBackupFixture(t)
	if _, err := targetSessions.Insert(&models.Session{Scale: "Old Data", PracticeType: "scales", Octaves: 2, BPM: 40, Duration: 30}); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	if err := target.Import(backupPath, true); err != nil {
		t.Fatalf("Import with clear failed: %v", err)
	}

	restored, err := targetSessions.ListAll()
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(restored) != 1 {
		t.Fatalf("Expected only the imported session, got %d", len(restored))
	}
	if restored[0].Scale != "C Major" {
		t.Errorf("Pre-existing data should have been cleared, found %s", restored[0].Scale)
	}
}
