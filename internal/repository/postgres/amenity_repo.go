package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"eduportal-backend/internal/domain"
)

// AmenityRepository handles amenity data operations in Postgres
type AmenityRepository struct {
	pool *pgxpool.Pool
}

// NewAmenityRepository creates a new AmenityRepository
func NewAmenityRepository(pool *pgxpool.Pool) *AmenityRepository {
	return &AmenityRepository{pool: pool}
}

// Create inserts a new amenity
func (r *AmenityRepository) Create(ctx context.Context, amenity *domain.Amenity) error {
	query := `
		INSERT INTO amenities (amenity_id, name, description, location, capacity, available)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		amenity.AmenityID,
		amenity.Name,
		amenity.Description,
		amenity.Location,
		amenity.Capacity,
		amenity.Available,
	).Scan(&amenity.CreatedAt, &amenity.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create amenity: %w", err)
	}

	return nil
}

// GetByID retrieves an amenity by ID
func (r *AmenityRepository) GetByID(ctx context.Context, amenityID uuid.UUID) (*domain.Amenity, error) {
	query := `
		SELECT amenity_id, name, description, location, capacity, available, created_at, updated_at
		FROM amenities
		WHERE amenity_id = $1
	`

	amenity := &domain.Amenity{}
	err := r.pool.QueryRow(ctx, query, amenityID).Scan(
		&amenity.AmenityID,
		&amenity.Name,
		&amenity.Description,
		&amenity.Location,
		&amenity.Capacity,
		&amenity.Available,
		&amenity.CreatedAt,
		&amenity.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("amenity not found")
		}
		return nil, fmt.Errorf("failed to get amenity: %w", err)
	}

	return amenity, nil
}

// List retrieves amenities with pagination, alphabetical by name
func (r *AmenityRepository) List(ctx context.Context, limit, offset int) ([]*domain.Amenity, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM amenities`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count amenities: %w", err)
	}

	query := `
		SELECT amenity_id, name, description, location, capacity, available, created_at, updated_at
		FROM amenities
		ORDER BY name ASC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list amenities: %w", err)
	}
	defer rows.Close()

	var amenities []*domain.Amenity
	for rows.Next() {
		amenity := &domain.Amenity{}
		err := rows.Scan(
			&amenity.AmenityID,
			&amenity.Name,
			&amenity.Description,
			&amenity.Location,
			&amenity.Capacity,
			&amenity.Available,
			&amenity.CreatedAt,
			&amenity.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan amenity: %w", err)
		}
		amenities = append(amenities, amenity)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate amenities: %w", err)
	}

	return amenities, total, nil
}

// Update applies a partial update to an amenity
func (r *AmenityRepository) Update(ctx context.Context, amenityID uuid.UUID, update *domain.AmenityUpdate) error {
	query := `
		UPDATE amenities
		SET name = COALESCE($1, name),
		    description = COALESCE($2, description),
		    location = COALESCE($3, location),
		    capacity = COALESCE($4, capacity),
		    available = COALESCE($5, available),
		    updated_at = NOW()
		WHERE amenity_id = $6
	`

	cmdTag, err := r.pool.Exec(ctx, query,
		update.Name,
		update.Description,
		update.Location,
		update.Capacity,
		update.Available,
		amenityID,
	)

	if err != nil {
		return fmt.Errorf("failed to update amenity: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("amenity not found")
	}

	return nil
}

// Delete removes an amenity
func (r *AmenityRepository) Delete(ctx context.Context, amenityID uuid.UUID) error {
	query := `DELETE FROM amenities WHERE amenity_id = $1`

	cmdTag, err := r.pool.Exec(ctx, query, amenityID)
	if err != nil {
		return fmt.Errorf("failed to delete amenity: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("amenity not found")
	}

	return nil
}
