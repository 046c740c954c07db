package admin

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"eduportal-backend/internal/domain"
	apperrors "eduportal-backend/pkg/errors"
	"eduportal-backend/pkg/logger"
	"eduportal-backend/pkg/pagination"
)

// VendorStore is the persistence surface for vendors
type VendorStore interface {
	Create(ctx context.Context, vendor *domain.Vendor) error
	GetByID(ctx context.Context, vendorID uuid.UUID) (*domain.Vendor, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Vendor, int64, error)
	Update(ctx context.Context, vendorID uuid.UUID, update *domain.VendorUpdate) error
	Delete(ctx context.Context, vendorID uuid.UUID) error
}

// InvoiceStore is the persistence surface for invoices
type InvoiceStore interface {
	Create(ctx context.Context, invoice *domain.Invoice) error
	GetByID(ctx context.Context, invoiceID uuid.UUID) (*domain.Invoice, error)
	ListByVendor(ctx context.Context, vendorID uuid.UUID, limit, offset int) ([]*domain.Invoice, int64, error)
	ListByStatus(ctx context.Context, status string, limit, offset int) ([]*domain.Invoice, int64, error)
	Update(ctx context.Context, invoiceID uuid.UUID, update *domain.InvoiceUpdate) error
	Delete(ctx context.Context, invoiceID uuid.UUID) error
}

// AmenityStore is the persistence surface for amenities
type AmenityStore interface {
	Create(ctx context.Context, amenity *domain.Amenity) error
	GetByID(ctx context.Context, amenityID uuid.UUID) (*domain.Amenity, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Amenity, int64, error)
	Update(ctx context.Context, amenityID uuid.UUID, update *domain.AmenityUpdate) error
	Delete(ctx context.Context, amenityID uuid.UUID) error
}

// StudentStore is the persistence surface for student records
type StudentStore interface {
	Create(ctx context.Context, student *domain.Student) error
	GetByID(ctx context.Context, studentID uuid.UUID) (*domain.Student, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Student, int64, error)
	Update(ctx context.Context, studentID uuid.UUID, update *domain.StudentUpdate) error
	Delete(ctx context.Context, studentID uuid.UUID) error
	EmailExists(ctx context.Context, email string) (bool, error)
}

// Service handles the admin portal's CRUD domains
type Service struct {
	vendors   VendorStore
	invoices  InvoiceStore
	amenities AmenityStore
	students  StudentStore
}

// NewService creates a new admin service
func NewService(vendors VendorStore, invoices InvoiceStore, amenities AmenityStore, students StudentStore) *Service {
	return &Service{
		vendors:   vendors,
		invoices:  invoices,
		amenities: amenities,
		students:  students,
	}
}

// CreateVendor registers a new vendor
func (s *Service) CreateVendor(ctx context.Context, input *domain.VendorCreate) (*domain.Vendor, error) {
	vendor := &domain.Vendor{
		VendorID: uuid.New(),
		Name:     input.Name,
		Category: input.Category,
		Email:    input.Email,
		Phone:    input.Phone,
		Address:  input.Address,
		Status:   "active",
	}

	if err := s.vendors.Create(ctx, vendor); err != nil {
		return nil, apperrors.DatabaseError(fmt.Errorf("failed to create vendor: %w", err))
	}

	logger.Info("Vendor created",
		zap.String("vendor_id", vendor.VendorID.String()),
		zap.String("name", vendor.Name))

	return vendor, nil
}

// GetVendor retrieves a vendor by ID
func (s *Service) GetVendor(ctx context.Context, vendorID uuid.UUID) (*domain.Vendor, error) {
	vendor, err := s.vendors.GetByID(ctx, vendorID)
	if err != nil {
		return nil, apperrors.NotFoundError("Vendor")
	}
	return vendor, nil
}

// ListVendors retrieves vendors with pagination
func (s *Service) ListVendors(ctx context.Context, params *pagination.Params) ([]*domain.Vendor, int64, error) {
	vendors, total, err := s.vendors.List(ctx, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, apperrors.DatabaseError(fmt.Errorf("failed to list vendors: %w", err))
	}
	return vendors, total, nil
}

// UpdateVendor applies a partial update to a vendor
func (s *Service) UpdateVendor(ctx context.Context, vendorID uuid.UUID, update *domain.VendorUpdate) (*domain.Vendor, error) {
	if err := s.vendors.Update(ctx, vendorID, update); err != nil {
		return nil, apperrors.NotFoundError("Vendor")
	}
	return s.GetVendor(ctx, vendorID)
}

// DeleteVendor removes a vendor
func (s *Service) DeleteVendor(ctx context.Context, vendorID uuid.UUID) error {
	if err := s.vendors.Delete(ctx, vendorID); err != nil {
		return apperrors.NotFoundError("Vendor")
	}

	logger.Info("Vendor deleted", zap.String("vendor_id", vendorID.String()))
	return nil
}

// CreateInvoice registers a new invoice for a vendor
func (s *Service) CreateInvoice(ctx context.Context, input *domain.InvoiceCreate) (*domain.Invoice, error) {
	vendorID, err := uuid.Parse(input.VendorID)
	if err != nil {
		return nil, apperrors.ValidationError("invalid vendor id")
	}

	// The vendor must exist before billing against it
	if _, err := s.vendors.GetByID(ctx, vendorID); err != nil {
		return nil, apperrors.NotFoundError("Vendor")
	}

	invoice := &domain.Invoice{
		InvoiceID:     uuid.New(),
		VendorID:      vendorID,
		InvoiceNumber: input.InvoiceNumber,
		Amount:        input.Amount,
		Currency:      input.Currency,
		Status:        domain.InvoiceStatusPending,
		DueDate:       input.DueDate,
	}

	if err := s.invoices.Create(ctx, invoice); err != nil {
		return nil, apperrors.DatabaseError(fmt.Errorf("failed to create invoice: %w", err))
	}

	logger.Info("Invoice created",
		zap.String("invoice_id", invoice.InvoiceID.String()),
		zap.String("vendor_id", vendorID.String()),
		zap.Int64("amount", invoice.Amount))

	return invoice, nil
}

// GetInvoice retrieves an invoice by ID
func (s *Service) GetInvoice(ctx context.Context, invoiceID uuid.UUID) (*domain.Invoice, error) {
	invoice, err := s.invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, apperrors.NotFoundError("Invoice")
	}
	return invoice, nil
}

// ListVendorInvoices retrieves a vendor's invoices with pagination
func (s *Service) ListVendorInvoices(ctx context.Context, vendorID uuid.UUID, params *pagination.Params) ([]*domain.Invoice, int64, error) {
	invoices, total, err := s.invoices.ListByVendor(ctx, vendorID, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, apperrors.DatabaseError(fmt.Errorf("failed to list invoices: %w", err))
	}
	return invoices, total, nil
}

// ListInvoicesByStatus retrieves invoices in a given status
func (s *Service) ListInvoicesByStatus(ctx context.Context, status string, params *pagination.Params) ([]*domain.Invoice, int64, error) {
	switch status {
	case domain.InvoiceStatusDraft, domain.InvoiceStatusPending, domain.InvoiceStatusPaid, domain.InvoiceStatusOverdue:
	default:
		return nil, 0, apperrors.ValidationError("invalid invoice status")
	}

	invoices, total, err := s.invoices.ListByStatus(ctx, status, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, apperrors.DatabaseError(fmt.Errorf("failed to list invoices: %w", err))
	}
	return invoices, total, nil
}

// UpdateInvoice applies a partial update to an invoice
func (s *Service) UpdateInvoice(ctx context.Context, invoiceID uuid.UUID, update *domain.InvoiceUpdate) (*domain.Invoice, error) {
	if update.Status != nil {
		switch *update.Status {
		case domain.InvoiceStatusDraft, domain.InvoiceStatusPending, domain.InvoiceStatusPaid, domain.InvoiceStatusOverdue:
		default:
			return nil, apperrors.ValidationError("invalid invoice status")
		}
	}

	if err := s.invoices.Update(ctx, invoiceID, update); err != nil {
		return nil, apperrors.NotFoundError("Invoice")
	}
	return s.GetInvoice(ctx, invoiceID)
}

// DeleteInvoice removes an invoice
func (s *Service) DeleteInvoice(ctx context.Context, invoiceID uuid.UUID) error {
	if err := s.invoices.Delete(ctx, invoiceID); err != nil {
		return apperrors.NotFoundError("Invoice")
	}
	return nil
}

// CreateAmenity registers a new amenity
func (s *Service) CreateAmenity(ctx context.Context, input *domain.AmenityCreate) (*domain.Amenity, error) {
	amenity := &domain.Amenity{
		AmenityID:   uuid.New(),
		Name:        input.Name,
		Description: input.Description,
		Location:    input.Location,
		Capacity:    input.Capacity,
		Available:   true,
	}

	if err := s.amenities.Create(ctx, amenity); err != nil {
		return nil, apperrors.DatabaseError(fmt.Errorf("failed to create amenity: %w", err))
	}

	return amenity, nil
}

// GetAmenity retrieves an amenity by ID
func (s *Service) GetAmenity(ctx context.Context, amenityID uuid.UUID) (*domain.Amenity, error) {
	amenity, err := s.amenities.GetByID(ctx, amenityID)
	if err != nil {
		return nil, apperrors.NotFoundError("Amenity")
	}
	return amenity, nil
}

// ListAmenities retrieves amenities with pagination
func (s *Service) ListAmenities(ctx context.Context, params *pagination.Params) ([]*domain.Amenity, int64, error) {
	amenities, total, err := s.amenities.List(ctx, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, apperrors.DatabaseError(fmt.Errorf("failed to list amenities: %w", err))
	}
	return amenities, total, nil
}

// UpdateAmenity applies a partial update to an amenity
func (s *Service) UpdateAmenity(ctx context.Context, amenityID uuid.UUID, update *domain.AmenityUpdate) (*domain.Amenity, error) {
	if err := s.amenities.Update(ctx, amenityID, update); err != nil {
		return nil, apperrors.NotFoundError("Amenity")
	}
	return s.GetAmenity(ctx, amenityID)
}

// DeleteAmenity removes an amenity
func (s *Service) DeleteAmenity(ctx context.Context, amenityID uuid.UUID) error {
	if err := s.amenities.Delete(ctx, amenityID); err != nil {
		return apperrors.NotFoundError("Amenity")
	}
	return nil
}

// CreateStudent registers a new student record
func (s *Service) CreateStudent(ctx context.Context, input *domain.StudentCreate) (*domain.Student, error) {
	exists, err := s.students.EmailExists(ctx, input.Email)
	if err != nil {
		return nil, apperrors.DatabaseError(fmt.Errorf("failed to check email: %w", err))
	}
	if exists {
		return nil, apperrors.ConflictError("A student with this email already exists")
	}

	student := &domain.Student{
		StudentID:      uuid.New(),
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Email:          input.Email,
		EnrollmentYear: input.EnrollmentYear,
		Program:        input.Program,
		Status:         "enrolled",
	}

	if err := s.students.Create(ctx, student); err != nil {
		return nil, apperrors.DatabaseError(fmt.Errorf("failed to create student: %w", err))
	}

	logger.Info("Student created",
		zap.String("student_id", student.StudentID.String()),
		zap.Int("enrollment_year", student.EnrollmentYear))

	return student, nil
}

// GetStudent retrieves a student by ID
func (s *Service) GetStudent(ctx context.Context, studentID uuid.UUID) (*domain.Student, error) {
	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		return nil, apperrors.NotFoundError("Student")
	}
	return student, nil
}

// ListStudents retrieves students with pagination
func (s *Service) ListStudents(ctx context.Context, params *pagination.Params) ([]*domain.Student, int64, error) {
	students, total, err := s.students.List(ctx, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, apperrors.DatabaseError(fmt.Errorf("failed to list students: %w", err))
	}
	return students, total, nil
}

// UpdateStudent applies a partial update to a student
func (s *Service) UpdateStudent(ctx context.Context, studentID uuid.UUID, update *domain.StudentUpdate) (*domain.Student, error) {
	if err := s.students.Update(ctx, studentID, update); err != nil {
		return nil, apperrors.NotFoundError("Student")
	}
	return s.GetStudent(ctx, studentID)
}

// DeleteStudent removes a student record
func (s *Service) DeleteStudent(ctx context.Context, studentID uuid.UUID) error {
	if err := s.students.Delete(ctx, studentID); err != nil {
		return apperrors.NotFoundError("Student")
	}
	return nil
}
