package models

import "time"

// Scale is an entry in the user's practice collection. Name is the dedup key:
// adding a name that already exists is a no-op, not an error.
type Scale struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name" validate:"required"`
	Level     string    `json:"level" validate:"required"`
	Sharps    int       `json:"sharps" validate:"min=0"`
	Flats     int       `json:"flats" validate:"min=0"`
	CreatedAt time.Time `json:"created_at,omitzero"`
}

// DefaultScales is the minimal collection seeded on first run.
var DefaultScales = []Scale{
	{Name: "C Major", Level: "Easy"},
	{Name: "G Major", Level: "Easy", Sharps: 1},
	{Name: "D Major", Level: "Intermediate", Sharps: 2},
	{Name: "A Minor", Level: "Easy"},
	{Name: "E Minor", Level: "Intermediate", Sharps: 1},
	{Name: "F Major", Level: "Advanced", Flats: 1},
}
