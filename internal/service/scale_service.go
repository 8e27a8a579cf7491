package service

import (
	"log"

	"scalecoach/internal/models"
	"scalecoach/internal/repository"
)

// ScaleService wraps the user's scale collection
type ScaleService struct {
	scales *repository.ScaleRepository
}

// NewScaleService creates a new scale collection service
func NewScaleService(scales *repository.ScaleRepository) *ScaleService {
	return &ScaleService{scales: scales}
}

// List returns the collection in insertion order
func (s *ScaleService) List() []models.Scale {
	scales, err := s.scales.List()
	if err != nil {
		log.Printf("Error listing scale collection: %v", err)
		return []models.Scale{}
	}
	if scales == nil {
		scales = []models.Scale{}
	}
	return scales
}

// Add inserts a scale unless its name is already present. A (nil, nil)
// return means the name exists, which callers surface as "already in your
// collection" rather than an error.
func (s *ScaleService) Add(scale *models.Scale) (*models.Scale, error) {
	return s.scales.Add(scale)
}

// Remove deletes a scale by id, reporting whether anything was removed
func (s *ScaleService) Remove(id int64) (bool, error) {
	return s.scales.Remove(id)
}

// SeedDefaults idempotently ensures the default scales exist
func (s *ScaleService) SeedDefaults() ([]models.Scale, error) {
	return s.scales.SeedDefaults()
}

// ResetToDefaults clears the collection and reseeds the default set
func (s *ScaleService) ResetToDefaults() ([]models.Scale, error) {
	return s.scales.ResetToDefaults()
}

// ClearAll empties the collection without reseeding
func (s *ScaleService) ClearAll() error {
	return s.scales.ClearAll()
}
