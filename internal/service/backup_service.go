package service

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"scalecoach/internal/models"
	"scalecoach/internal/repository"
)

// BackupData represents the complete database backup structure
type BackupData struct {
	Version       string                 `json:"version"`
	ExportedAt    time.Time              `json:"exported_at"`
	Sessions      []models.Session       `json:"sessions"`
	DailyPractice []models.DailyPractice `json:"daily_practice"`
	Scales        []models.Scale         `json:"scales"`
}

// BackupService handles database backup and restore operations
type BackupService struct {
	sessions *repository.SessionRepository
	daily    *repository.DailyRepository
	scales   *repository.ScaleRepository
}

// NewBackupService creates a new backup service
func NewBackupService(sessions *repository.SessionRepository, daily *repository.DailyRepository, scales *repository.ScaleRepository) *BackupService {
	return &BackupService{sessions: sessions, daily: daily, scales: scales}
}

// Export writes a complete backup of all three collections to a file
func (s *BackupService) Export(outputPath string) error {
	log.Println("Starting database export...")

	backup := &BackupData{
		Version:    "1.0",
		ExportedAt: time.Now(),
	}

	sessions, err := s.sessions.ListAll()
	if err != nil {
		return fmt.Errorf("failed to export sessions: %w", err)
	}
	backup.Sessions = sessions

	scales, err := s.scales.List()
	if err != nil {
		return fmt.Errorf("failed to export scales: %w", err)
	}
	backup.Scales = scales

	daily, err := s.daily.List()
	if err != nil {
		return fmt.Errorf("failed to export daily practice: %w", err)
	}
	backup.DailyPractice = daily

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create backup file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}

	log.Printf("Exported %d sessions, %d daily records, %d scales",
		len(backup.Sessions), len(backup.DailyPractice), len(backup.Scales))
	return nil
}

// Import restores a backup file. When clear is set, existing data is removed
// first; otherwise imported rows are appended via the plain insert path.
func (s *BackupService) Import(inputPath string, clear bool) error {
	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open backup file: %w", err)
	}
	defer file.Close()

	var backup BackupData
	if err := json.NewDecoder(file).Decode(&backup); err != nil {
		return fmt.Errorf("failed to parse backup file: %w", err)
	}

	if clear {
		log.Println("Clearing existing data before import...")
		if err := s.sessions.ClearAll(); err != nil {
			return fmt.Errorf("failed to clear sessions: %w", err)
		}
		if err := s.daily.ClearAll(); err != nil {
			return fmt.Errorf("failed to clear daily practice: %w", err)
		}
		if err := s.scales.ClearAll(); err != nil {
			return fmt.Errorf("failed to clear scales: %w", err)
		}
	}

	imported := 0
	for i := range backup.Sessions {
		session := backup.Sessions[i]
		session.ID = 0
		if _, err := s.sessions.Insert(&session); err != nil {
			log.Printf("Error importing session for %s: %v", session.Scale, err)
			continue
		}
		imported++
	}

	for i := range backup.DailyPractice {
		record := backup.DailyPractice[i]
		record.ID = 0
		if err := s.daily.Save(&record); err != nil {
			log.Printf("Error importing daily record for %s: %v", record.Date, err)
		}
	}

	for i := range backup.Scales {
		scale := backup.Scales[i]
		scale.ID = 0
		if _, err := s.scales.Add(&scale); err != nil {
			log.Printf("Error importing scale %s: %v", scale.Name, err)
		}
	}

	log.Printf("Imported %d of %d sessions", imported, len(backup.Sessions))
	return nil
}
