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

// UsersHandler exposes the account directory endpoints.
type UsersHandler struct {
	directory *service.DirectoryService
}

// NewUsersHandler constructs the handler.
func NewUsersHandler(directoryService *service.DirectoryService) *UsersHandler {
	return &UsersHandler{directory: directoryService}
}

// Search handles GET /api/users?role=&q=.
func (h *UsersHandler) Search(c *fiber.Ctx) error {
	accounts, err := h.directory.Search(c.Context(), c.Query("role"), c.Query("q"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserListResponse(accounts))
}

// Register handles POST /api/users.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	account, err := h.directory.Register(c.Context(), service.RegisterInput{
		Name:           req.Name,
		Email:          req.Email,
		Password:       req.Password,
		Role:           domain.Role(req.Role),
		Department:     req.Department,
		Specialization: req.Specialization,
		Phone:          req.Phone,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewProfileResponse(account))
}

// Remove handles DELETE /api/users/:id.
func (h *UsersHandler) Remove(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id := c.Params("id")
	if !domain.IsID(id) {
		return apperrors.NewValidationError("Invalid user id", nil)
	}

	if err := h.directory.Remove(c.Context(), principal, id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"ok": true})
}
