package repository

import (
	"scalecoach/internal/database"
	"scalecoach/internal/models"
)

// ScaleRepository handles the user's scale collection
type ScaleRepository struct {
	db *database.DB
}

// NewScaleRepository creates a new scale repository
func NewScaleRepository(db *database.DB) *ScaleRepository {
	return &ScaleRepository{db: db}
}

// List retrieves the collection in insertion order
func (r *ScaleRepository) List() ([]models.Scale, error) {
	query := `
		SELECT id, name, level, sharps, flats, created_at
		FROM user_scales
		ORDER BY id ASC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scales []models.Scale
	for rows.Next() {
		var scale models.Scale
		err := rows.Scan(&scale.ID, &scale.Name, &scale.Level, &scale.Sharps, &scale.Flats, &scale.CreatedAt)
		if err != nil {
			return nil, err
		}
		scales = append(scales, scale)
	}

	return scales, rows.Err()
}

// Add inserts a scale if its name is not already present. Returns nil when
// the name exists; duplicates are an expected outcome, not an error.
func (r *ScaleRepository) Add(scale *models.Scale) (*models.Scale, error) {
	exists, err := r.nameExists(scale.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, nil
	}

	query := `
		INSERT INTO user_scales (name, level, sharps, flats)
		VALUES (?, ?, ?, ?)
	`

	id, err := r.db.ExecReturningID(query, scale.Name, scale.Level, scale.Sharps, scale.Flats)
	if err != nil {
		return nil, err
	}

	return r.getByID(id)
}

// Remove deletes a scale by id, reporting whether a row was actually removed
func (r *ScaleRepository) Remove(id int64) (bool, error) {
	result, err := r.db.Exec("DELETE FROM user_scales WHERE id = ?", id)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// SeedDefaults ensures the default scale set exists, inserting only the
// missing ones. Safe to call on every startup.
func (r *ScaleRepository) SeedDefaults() ([]models.Scale, error) {
	for _, scale := range models.DefaultScales {
		s := scale
		if _, err := r.Add(&s); err != nil {
			return nil, err
		}
	}
	return r.List()
}

// ResetToDefaults clears the collection and reseeds the default set
func (r *ScaleRepository) ResetToDefaults() ([]models.Scale, error) {
	if err := r.ClearAll(); err != nil {
		return nil, err
	}
	return r.SeedDefaults()
}

// ClearAll deletes every entry, leaving the collection empty
func (r *ScaleRepository) ClearAll() error {
	_, err := r.db.Exec("DELETE FROM user_scales")
	return err
}

// nameExists checks collection membership by name
func (r *ScaleRepository) nameExists(name string) (bool, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM user_scales WHERE name = ?", name).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// getByID retrieves a scale by id
func (r *ScaleRepository) getByID(id int64) (*models.Scale, error) {
	query := `
		SELECT id, name, level, sharps, flats, created_at
		FROM user_scales
		WHERE id = ?
	`

	scale := &models.Scale{}
	err := r.db.QueryRow(query, id).Scan(
		&scale.ID, &scale.Name, &scale.Level, &scale.Sharps, &scale.Flats, &scale.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return scale, nil
}
