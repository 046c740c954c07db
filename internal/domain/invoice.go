package domain

import (
	"time"

	"github.com/google/uuid"
)

// Invoice statuses
const (
	InvoiceStatusDraft   = "draft"
	InvoiceStatusPending = "pending"
	InvoiceStatusPaid    = "paid"
	InvoiceStatusOverdue = "overdue"
)

// Invoice represents a billing record for a vendor
// Maps to the Postgres invoices table
type Invoice struct {
	InvoiceID     uuid.UUID  `json:"invoice_id" db:"invoice_id"`
	VendorID      uuid.UUID  `json:"vendor_id" db:"vendor_id"`
	InvoiceNumber string     `json:"invoice_number" db:"invoice_number"`
	Amount        int64      `json:"amount" db:"amount"` // minor currency units
	Currency      string     `json:"currency" db:"currency"`
	Status        string     `json:"status" db:"status"`
	DueDate       time.Time  `json:"due_date" db:"due_date"`
	PaidAt        *time.Time `json:"paid_at,omitempty" db:"paid_at"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}

// InvoiceCreate represents data to create an invoice
type InvoiceCreate struct {
	VendorID      string    `json:"vendor_id" binding:"required,uuid"`
	InvoiceNumber string    `json:"invoice_number" binding:"required"`
	Amount        int64     `json:"amount" binding:"required,min=1"`
	Currency      string    `json:"currency" binding:"required,len=3"`
	DueDate       time.Time `json:"due_date" binding:"required"`
}

// InvoiceUpdate represents partial invoice updates
type InvoiceUpdate struct {
	Amount  *int64     `json:"amount,omitempty"`
	Status  *string    `json:"status,omitempty"`
	DueDate *time.Time `json:"due_date,omitempty"`
	PaidAt  *time.Time `json:"paid_at,omitempty"`
}
