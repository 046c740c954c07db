package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"eduportal-backend/internal/domain"
)

// InvoiceRepository handles invoice data operations in Postgres
type InvoiceRepository struct {
	pool *pgxpool.Pool
}

// NewInvoiceRepository creates a new InvoiceRepository
func NewInvoiceRepository(pool *pgxpool.Pool) *InvoiceRepository {
	return &InvoiceRepository{pool: pool}
}

// Create inserts a new invoice
func (r *InvoiceRepository) Create(ctx context.Context, invoice *domain.Invoice) error {
	query := `
		INSERT INTO invoices (invoice_id, vendor_id, invoice_number, amount, currency, status, due_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		invoice.InvoiceID,
		invoice.VendorID,
		invoice.InvoiceNumber,
		invoice.Amount,
		invoice.Currency,
		invoice.Status,
		invoice.DueDate,
	).Scan(&invoice.CreatedAt, &invoice.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create invoice: %w", err)
	}

	return nil
}

// GetByID retrieves an invoice by ID
func (r *InvoiceRepository) GetByID(ctx context.Context, invoiceID uuid.UUID) (*domain.Invoice, error) {
	query := `
		SELECT invoice_id, vendor_id, invoice_number, amount, currency, status, due_date, paid_at, created_at, updated_at
		FROM invoices
		WHERE invoice_id = $1
	`

	invoice := &domain.Invoice{}
	err := r.pool.QueryRow(ctx, query, invoiceID).Scan(
		&invoice.InvoiceID,
		&invoice.VendorID,
		&invoice.InvoiceNumber,
		&invoice.Amount,
		&invoice.Currency,
		&invoice.Status,
		&invoice.DueDate,
		&invoice.PaidAt,
		&invoice.CreatedAt,
		&invoice.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("invoice not found")
		}
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}

	return invoice, nil
}

// ListByVendor retrieves a vendor's invoices with pagination, newest first
func (r *InvoiceRepository) ListByVendor(ctx context.Context, vendorID uuid.UUID, limit, offset int) ([]*domain.Invoice, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM invoices WHERE vendor_id = $1`, vendorID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count invoices: %w", err)
	}

	query := `
		SELECT invoice_id, vendor_id, invoice_number, amount, currency, status, due_date, paid_at, created_at, updated_at
		FROM invoices
		WHERE vendor_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, vendorID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	invoices, err := scanInvoices(rows)
	if err != nil {
		return nil, 0, err
	}

	return invoices, total, nil
}

// ListByStatus retrieves invoices in a given status with pagination
func (r *InvoiceRepository) ListByStatus(ctx context.Context, status string, limit, offset int) ([]*domain.Invoice, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM invoices WHERE status = $1`, status).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count invoices: %w", err)
	}

	query := `
		SELECT invoice_id, vendor_id, invoice_number, amount, currency, status, due_date, paid_at, created_at, updated_at
		FROM invoices
		WHERE status = $1
		ORDER BY due_date ASC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, status, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	invoices, err := scanInvoices(rows)
	if err != nil {
		return nil, 0, err
	}

	return invoices, total, nil
}

// Update applies a partial update to an invoice
func (r *InvoiceRepository) Update(ctx context.Context, invoiceID uuid.UUID, update *domain.InvoiceUpdate) error {
	query := `
		UPDATE invoices
		SET amount = COALESCE($1, amount),
		    status = COALESCE($2, status),
		    due_date = COALESCE($3, due_date),
		    paid_at = COALESCE($4, paid_at),
		    updated_at = NOW()
		WHERE invoice_id = $5
	`

	cmdTag, err := r.pool.Exec(ctx, query,
		update.Amount,
		update.Status,
		update.DueDate,
		update.PaidAt,
		invoiceID,
	)

	if err != nil {
		return fmt.Errorf("failed to update invoice: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("invoice not found")
	}

	return nil
}

// MarkOverdue flips pending invoices past their due date to overdue and
// returns how many rows changed
func (r *InvoiceRepository) MarkOverdue(ctx context.Context) (int64, error) {
	query := `
		UPDATE invoices
		SET status = $1, updated_at = NOW()
		WHERE status = $2 AND due_date < NOW()
	`

	cmdTag, err := r.pool.Exec(ctx, query, domain.InvoiceStatusOverdue, domain.InvoiceStatusPending)
	if err != nil {
		return 0, fmt.Errorf("failed to mark overdue invoices: %w", err)
	}

	return cmdTag.RowsAffected(), nil
}

// Delete removes an invoice
func (r *InvoiceRepository) Delete(ctx context.Context, invoiceID uuid.UUID) error {
	query := `DELETE FROM invoices WHERE invoice_id = $1`

	cmdTag, err := r.pool.Exec(ctx, query, invoiceID)
	if err != nil {
		return fmt.Errorf("failed to delete invoice: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("invoice not found")
	}

	return nil
}

func scanInvoices(rows pgx.Rows) ([]*domain.Invoice, error) {
	var invoices []*domain.Invoice
	for rows.Next() {
		invoice := &domain.Invoice{}
		err := rows.Scan(
			&invoice.InvoiceID,
			&invoice.VendorID,
			&invoice.InvoiceNumber,
			&invoice.Amount,
			&invoice.Currency,
			&invoice.Status,
			&invoice.DueDate,
			&invoice.PaidAt,
			&invoice.CreatedAt,
			&invoice.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		invoices = append(invoices, invoice)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate invoices: %w", err)
	}

	return invoices, nil
}
