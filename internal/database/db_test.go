package database

import (
	"os"
	"path/filepath"
	"testing"
)

func TestInitializeAndMigrate(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := Initialize(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	tables := []string{"practice_sessions", "daily_practice", "user_scales"}
	for _, table := range tables {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("Table %s not found: %v", table, err)
		}
	}

	// Re-running migrations must be a no-op
	if err := db.RunMigrations(); err != nil {
		t.Fatalf("Second migration run failed: %v", err)
	}
}

func TestInitializeRecoversCorruptDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "corrupt.db")

	// A SQLite header with garbage after it fails the open or integrity check
	garbage := append([]byte("SQLite format 3\x00"), make([]byte, 4096)...)
	for i := 16; i < len(garbage); i++ {
		garbage[i] = byte(i % 251)
	}
	if err := os.WriteFile(dbPath, garbage, 0o644); err != nil {
		t.Fatalf("Failed to write corrupt file: %v", err)
	}

	db, err := Initialize(dbPath)
	if err != nil {
		t.Fatalf("Initialize should recover from corruption, got: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		t.Fatalf("Migrations failed on recreated database: %v", err)
	}

	// The recreated store starts empty
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM practice_sessions").Scan(&count); err != nil {
		t.Fatalf("Query on recreated database failed: %v", err)
	}
	if count != 0 {
		t.Errorf("Recreated database should be empty, got %d sessions", count)
	}
}

func TestExecReturningID(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "ids.db")

	db, err := Initialize(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	first, err := db.ExecReturningID(
		"INSERT INTO user_scales (name, level, sharps, flats) VALUES (?, ?, ?, ?)",
		"B Major", "Advanced", 5, 0)
	if err != nil {
		t.Fatalf("ExecReturningID failed: %v", err)
	}
	second, err := db.ExecReturningID(
		"INSERT INTO user_scales (name, level, sharps, flats) VALUES (?, ?, ?, ?)",
		"E Major", "Intermediate", 4, 0)
	if err != nil {
		t.Fatalf("ExecReturningID failed: %v", err)
	}

	if second <= first {
		t.Errorf("Expected increasing ids, got %d then %d", first, second)
	}
}
