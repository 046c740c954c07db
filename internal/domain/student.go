package domain

import (
	"time"

	"github.com/google/uuid"
)

// Student represents an enrolled student record
// Maps to the Postgres students table
type Student struct {
	StudentID      uuid.UUID `json:"student_id" db:"student_id"`
	FirstName      string    `json:"first_name" db:"first_name"`
	LastName       string    `json:"last_name" db:"last_name"`
	Email          string    `json:"email" db:"email"`
	EnrollmentYear int       `json:"enrollment_year" db:"enrollment_year"`
	Program        string    `json:"program,omitempty" db:"program"`
	Status         string    `json:"status" db:"status"` // enrolled, suspended, graduated
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// StudentCreate represents data to create a student record
type StudentCreate struct {
	FirstName      string `json:"first_name" binding:"required"`
	LastName       string `json:"last_name" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	EnrollmentYear int    `json:"enrollment_year" binding:"required,min=2000"`
	Program        string `json:"program,omitempty"`
}

// StudentUpdate represents partial student updates
type StudentUpdate struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Email     *string `json:"email,omitempty"`
	Program   *string `json:"program,omitempty"`
	Status    *string `json:"status,omitempty"`
}
