package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Prateekyadav17/ElectricHelp/internal/api/dto"
	"github.com/Prateekyadav17/ElectricHelp/internal/service"
	apperrors "github.com/Prateekyadav17/ElectricHelp/pkg/util"
)

// AuthHandler exposes login and the password-reset flow.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	account, token, _, err := h.auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(dto.LoginResponse{
		Token: token,
		User:  dto.NewProfileResponse(account),
	})
}

// Forgot handles POST /api/auth/forgot. It responds ok regardless of whether
// the email resolves to an account.
func (h *AuthHandler) Forgot(c *fiber.Ctx) error {
	var req dto.ForgotRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	devToken, err := h.auth.RequestPasswordReset(c.Context(), req.Email)
	if err != nil {
		return err
	}

	resp := fiber.Map{"ok": true}
	if devToken != "" {
		resp["devToken"] = devToken
	}
	return c.JSON(resp)
}

// Reset handles POST /api/auth/reset.
func (h *AuthHandler) Reset(c *fiber.Ctx) error {
	var req dto.ResetRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	if err := h.auth.ResetPassword(c.Context(), req.Token, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"ok": true})
}
