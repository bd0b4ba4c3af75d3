package dto

import "github.com/Prateekyadav17/ElectricHelp/internal/domain"

// RegisterUserRequest payload for admin account registration.
type RegisterUserRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	Role           string `json:"role"`
	Department     string `json:"department"`
	Specialization string `json:"specialization"`
	Phone          string `json:"phone"`
}

// NewUserListResponse maps accounts to their public views.
func NewUserListResponse(accounts []domain.Account) []ProfileResponse {
	out := make([]ProfileResponse, 0, len(accounts))
	for i := range accounts {
		out = append(out, NewProfileResponse(&accounts[i]))
	}
	return out
}
