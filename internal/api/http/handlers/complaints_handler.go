package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/Prateekyadav17/ElectricHelp/internal/api/dto"
	"github.com/Prateekyadav17/ElectricHelp/internal/auth"
	"github.com/Prateekyadav17/ElectricHelp/internal/domain"
	"github.com/Prateekyadav17/ElectricHelp/internal/service"
	apperrors "github.com/Prateekyadav17/ElectricHelp/pkg/util"
)

// ComplaintsHandler exposes complaint lifecycle endpoints.
type ComplaintsHandler struct {
	service *service.ComplaintService
}

// NewComplaintsHandler constructs the handler.
func NewComplaintsHandler(complaintService *service.ComplaintService) *ComplaintsHandler {
	return &ComplaintsHandler{service: complaintService}
}

// Create handles POST /api/complaints.
func (h *ComplaintsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	complaint, err := h.service.Create(c.Context(), principal, service.ComplaintCreateInput{
		Title:        req.Title,
		Description:  req.Description,
		Location:     req.Location,
		Priority:     domain.ComplaintPriority(req.Priority),
		Category:     req.Category,
		Images:       req.Images,
		VisibleToAll: req.VisibleToAll,
		AssignedTo:   req.AssignedTo,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewComplaintResponse(complaint))
}

// ListMine handles GET /api/complaints/mine.
func (h *ComplaintsHandler) ListMine(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	items, err := h.service.ListMine(c.Context(), principal)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewComplaintListResponse(items))
}

// ListForElectrician handles GET /api/complaints/for-electrician.
func (h *ComplaintsHandler) ListForElectrician(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	items, err := h.service.ListForElectrician(c.Context(), principal)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewComplaintListResponse(items))
}

// ListAll handles GET /api/complaints with an optional assignedTo filter.
func (h *ComplaintsHandler) ListAll(c *fiber.Ctx) error {
	items, err := h.service.ListAll(c.Context(), c.Query("assignedTo"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewComplaintListResponse(items))
}

// Assign handles PATCH /api/complaints/:id/assign.
func (h *ComplaintsHandler) Assign(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id := c.Params("id")
	if !domain.IsID(id) {
		return apperrors.NewValidationError("Invalid complaint id", nil)
	}
	var req dto.AssignComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	complaint, err := h.service.Assign(c.Context(), principal, id, req.AssignedTo, req.VisibleToAll)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewComplaintResponse(complaint))
}

// UpdateStatus handles PATCH /api/complaints/:id/status.
func (h *ComplaintsHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id := c.Params("id")
	if !domain.IsID(id) {
		return apperrors.NewValidationError("Invalid complaint id", nil)
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	complaint, err := h.service.UpdateStatus(c.Context(), principal, id, domain.ComplaintStatus(req.Status), req.Comment)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewComplaintResponse(complaint))
}
