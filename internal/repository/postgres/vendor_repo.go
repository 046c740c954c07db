package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"eduportal-backend/internal/domain"
)

// VendorRepository handles vendor data operations in Postgres
type VendorRepository struct {
	pool *pgxpool.Pool
}

// NewVendorRepository creates a new VendorRepository
func NewVendorRepository(pool *pgxpool.Pool) *VendorRepository {
	return &VendorRepository{pool: pool}
}

// Create inserts a new vendor
func (r *VendorRepository) Create(ctx context.Context, vendor *domain.Vendor) error {
	query := `
		INSERT INTO vendors (vendor_id, name, category, email, phone, address, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		vendor.VendorID,
		vendor.Name,
		vendor.Category,
		vendor.Email,
		vendor.Phone,
		vendor.Address,
		vendor.Status,
	).Scan(&vendor.CreatedAt, &vendor.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create vendor: %w", err)
	}

	return nil
}

// GetByID retrieves a vendor by ID
func (r *VendorRepository) GetByID(ctx context.Context, vendorID uuid.UUID) (*domain.Vendor, error) {
	query := `
		SELECT vendor_id, name, category, email, phone, address, status, created_at, updated_at
		FROM vendors
		WHERE vendor_id = $1
	`

	vendor := &domain.Vendor{}
	err := r.pool.QueryRow(ctx, query, vendorID).Scan(
		&vendor.VendorID,
		&vendor.Name,
		&vendor.Category,
		&vendor.Email,
		&vendor.Phone,
		&vendor.Address,
		&vendor.Status,
		&vendor.CreatedAt,
		&vendor.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("vendor not found")
		}
		return nil, fmt.Errorf("failed to get vendor: %w", err)
	}

	return vendor, nil
}

// List retrieves vendors with pagination, newest first
func (r *VendorRepository) List(ctx context.Context, limit, offset int) ([]*domain.Vendor, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM vendors`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count vendors: %w", err)
	}

	query := `
		SELECT vendor_id, name, category, email, phone, address, status, created_at, updated_at
		FROM vendors
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list vendors: %w", err)
	}
	defer rows.Close()

	var vendors []*domain.Vendor
	for rows.Next() {
		vendor := &domain.Vendor{}
		err := rows.Scan(
			&vendor.VendorID,
			&vendor.Name,
			&vendor.Category,
			&vendor.Email,
			&vendor.Phone,
			&vendor.Address,
			&vendor.Status,
			&vendor.CreatedAt,
			&vendor.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan vendor: %w", err)
		}
		vendors = append(vendors, vendor)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate vendors: %w", err)
	}

	return vendors, total, nil
}

// Update applies a partial update to a vendor
func (r *VendorRepository) Update(ctx context.Context, vendorID uuid.UUID, update *domain.VendorUpdate) error {
	query := `
		UPDATE vendors
		SET name = COALESCE($1, name),
		    category = COALESCE($2, category),
		    email = COALESCE($3, email),
		    phone = COALESCE($4, phone),
		    address = COALESCE($5, address),
		    status = COALESCE($6, status),
		    updated_at = NOW()
		WHERE vendor_id = $7
	`

	cmdTag, err := r.pool.Exec(ctx, query,
		update.Name,
		update.Category,
		update.Email,
		update.Phone,
		update.Address,
		update.Status,
		vendorID,
	)

	if err != nil {
		return fmt.Errorf("failed to update vendor: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("vendor not found")
	}

	return nil
}

// Delete removes a vendor
func (r *VendorRepository) Delete(ctx context.Context, vendorID uuid.UUID) error {
	query := `DELETE FROM vendors WHERE vendor_id = $1`

	cmdTag, err := r.pool.Exec(ctx, query, vendorID)
	if err != nil {
		return fmt.Errorf("failed to delete vendor: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("vendor not found")
	}

	return nil
}
