package domain

import (
	"time"

	"github.com/google/uuid"
)

// Vendor represents a supplier managed through the admin portal
// Maps to the Postgres vendors table
type Vendor struct {
	VendorID  uuid.UUID `json:"vendor_id" db:"vendor_id"`
	Name      string    `json:"name" db:"name"`
	Category  string    `json:"category" db:"category"`
	Email     string    `json:"email" db:"email"`
	Phone     string    `json:"phone,omitempty" db:"phone"`
	Address   string    `json:"address,omitempty" db:"address"`
	Status    string    `json:"status" db:"status"` // active, inactive
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// VendorCreate represents data to create a vendor
type VendorCreate struct {
	Name     string `json:"name" binding:"required"`
	Category string `json:"category" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
}

// VendorUpdate represents partial vendor updates
type VendorUpdate struct {
	Name     *string `json:"name,omitempty"`
	Category *string `json:"category,omitempty"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Address  *string `json:"address,omitempty"`
	Status   *string `json:"status,omitempty"`
}
