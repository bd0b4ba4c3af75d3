package dto

import "github.com/Prateekyadav17/ElectricHelp/internal/domain"

// LoginRequest payload for credential exchange.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ForgotRequest payload for requesting a reset token.
type ForgotRequest struct {
	Email string `json:"email"`
}

// ResetRequest payload for consuming a reset token.
type ResetRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

// ProfileResponse is the public view of an account. It never carries the
// password hash or reset fields.
type ProfileResponse struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	Email          string      `json:"email"`
	Role           domain.Role `json:"role"`
	Department     string      `json:"department,omitempty"`
	Specialization string      `json:"specialization,omitempty"`
	Phone          string      `json:"phone,omitempty"`
}

// LoginResponse is returned on successful credential exchange.
type LoginResponse struct {
	Token string          `json:"token"`
	User  ProfileResponse `json:"user"`
}

// NewProfileResponse maps an account to its public view.
func NewProfileResponse(account *domain.Account) ProfileResponse {
	return ProfileResponse{
		ID:             account.ID,
		Name:           account.Name,
		Email:          account.Email,
		Role:           account.Role,
		Department:     account.Department,
		Specialization: account.Specialization,
		Phone:          account.Phone,
	}
}
