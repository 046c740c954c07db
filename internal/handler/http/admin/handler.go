package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"eduportal-backend/internal/domain"
	"eduportal-backend/internal/service/admin"
	apperrors "eduportal-backend/pkg/errors"
	"eduportal-backend/pkg/pagination"
	"eduportal-backend/pkg/response"
)

// Handler handles admin portal HTTP requests
type Handler struct {
	adminService *admin.Service
}

// NewHandler creates a new admin handler
func NewHandler(adminService *admin.Service) *Handler {
	return &Handler{adminService: adminService}
}

func parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		response.ValidationError(c, "Invalid ID")
		return uuid.Nil, false
	}
	return id, true
}

func parsePagination(c *gin.Context) (*pagination.Params, bool) {
	params, err := pagination.Parse(
		c.Query("page"),
		c.Query("limit"),
		c.Query("sort_by"),
		c.Query("sort_order"),
	)
	if err != nil {
		response.ValidationError(c, err.Error())
		return nil, false
	}
	return params, true
}

func respondError(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)
	response.Error(c, appErr.StatusCode, string(appErr.Code), appErr.Message)
}

// CreateVendor handles POST /v1/vendors
func (h *Handler) CreateVendor(c *gin.Context) {
	var req domain.VendorCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	vendor, err := h.adminService.CreateVendor(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, vendor)
}

// GetVendor handles GET /v1/vendors/:id
func (h *Handler) GetVendor(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	vendor, err := h.adminService.GetVendor(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, vendor)
}

// ListVendors handles GET /v1/vendors
func (h *Handler) ListVendors(c *gin.Context) {
	params, ok := parsePagination(c)
	if !ok {
		return
	}

	vendors, total, err := h.adminService.ListVendors(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, pagination.BuildResponse(params, total, vendors))
}

// UpdateVendor handles PUT /v1/vendors/:id
func (h *Handler) UpdateVendor(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req domain.VendorUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	vendor, err := h.adminService.UpdateVendor(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, vendor)
}

// DeleteVendor handles DELETE /v1/vendors/:id
func (h *Handler) DeleteVendor(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.adminService.DeleteVendor(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// CreateInvoice handles POST /v1/invoices
func (h *Handler) CreateInvoice(c *gin.Context) {
	var req domain.InvoiceCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	invoice, err := h.adminService.CreateInvoice(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, invoice)
}

// GetInvoice handles GET /v1/invoices/:id
func (h *Handler) GetInvoice(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	invoice, err := h.adminService.GetInvoice(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, invoice)
}

// ListInvoices handles GET /v1/invoices?vendor_id=...&status=...
func (h *Handler) ListInvoices(c *gin.Context) {
	params, ok := parsePagination(c)
	if !ok {
		return
	}

	if vendorIDStr := c.Query("vendor_id"); vendorIDStr != "" {
		vendorID, err := uuid.Parse(vendorIDStr)
		if err != nil {
			response.ValidationError(c, "Invalid vendor ID")
			return
		}

		invoices, total, err := h.adminService.ListVendorInvoices(c.Request.Context(), vendorID, params)
		if err != nil {
			respondError(c, err)
			return
		}
		response.Success(c, http.StatusOK, pagination.BuildResponse(params, total, invoices))
		return
	}

	status := c.DefaultQuery("status", domain.InvoiceStatusPending)
	invoices, total, err := h.adminService.ListInvoicesByStatus(c.Request.Context(), status, params)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, pagination.BuildResponse(params, total, invoices))
}

// UpdateInvoice handles PUT /v1/invoices/:id
func (h *Handler) UpdateInvoice(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req domain.InvoiceUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	invoice, err := h.adminService.UpdateInvoice(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, invoice)
}

// DeleteInvoice handles DELETE /v1/invoices/:id
func (h *Handler) DeleteInvoice(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.adminService.DeleteInvoice(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// CreateAmenity handles POST /v1/amenities
func (h *Handler) CreateAmenity(c *gin.Context) {
	var req domain.AmenityCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	amenity, err := h.adminService.CreateAmenity(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, amenity)
}

// GetAmenity handles GET /v1/amenities/:id
func (h *Handler) GetAmenity(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	amenity, err := h.adminService.GetAmenity(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, amenity)
}

// ListAmenities handles GET /v1/amenities
func (h *Handler) ListAmenities(c *gin.Context) {
	params, ok := parsePagination(c)
	if !ok {
		return
	}

	amenities, total, err := h.adminService.ListAmenities(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, pagination.BuildResponse(params, total, amenities))
}

// UpdateAmenity handles PUT /v1/amenities/:id
func (h *Handler) UpdateAmenity(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req domain.AmenityUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	amenity, err := h.adminService.UpdateAmenity(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, amenity)
}

// DeleteAmenity handles DELETE /v1/amenities/:id
func (h *Handler) DeleteAmenity(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.adminService.DeleteAmenity(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// CreateStudent handles POST /v1/students
func (h *Handler) CreateStudent(c *gin.Context) {
	var req domain.StudentCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	student, err := h.adminService.CreateStudent(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, student)
}

// GetStudent handles GET /v1/students/:id
func (h *Handler) GetStudent(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	student, err := h.adminService.GetStudent(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, student)
}

// ListStudents handles GET /v1/students
func (h *Handler) ListStudents(c *gin.Context) {
	params, ok := parsePagination(c)
	if !ok {
		return
	}

	students, total, err := h.adminService.ListStudents(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, pagination.BuildResponse(params, total, students))
}

// UpdateStudent handles PUT /v1/students/:id
func (h *Handler) UpdateStudent(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req domain.StudentUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	student, err := h.adminService.UpdateStudent(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, student)
}

// DeleteStudent handles DELETE /v1/students/:id
func (h *Handler) DeleteStudent(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.adminService.DeleteStudent(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
