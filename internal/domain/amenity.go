package domain

import (
	"time"

	"github.com/google/uuid"
)

// Amenity represents a bookable campus facility
// Maps to the Postgres amenities table
type Amenity struct {
	AmenityID   uuid.UUID `json:"amenity_id" db:"amenity_id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description,omitempty" db:"description"`
	Location    string    `json:"location,omitempty" db:"location"`
	Capacity    int       `json:"capacity" db:"capacity"`
	Available   bool      `json:"available" db:"available"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// AmenityCreate represents data to create an amenity
type AmenityCreate struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
	Capacity    int    `json:"capacity" binding:"min=0"`
}

// AmenityUpdate represents partial amenity updates
type AmenityUpdate struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Location    *string `json:"location,omitempty"`
	Capacity    *int    `json:"capacity,omitempty"`
	Available   *bool   `json:"available,omitempty"`
}
