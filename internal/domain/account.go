package domain

import "time"

// Role enumerates portal roles.
type Role string

const (
	RoleStaff       Role = "staff"
	RoleElectrician Role = "electrician"
	RoleAdmin       Role = "admin"
)

// Valid reports whether the role is one of the three recognized values.
func (r Role) Valid() bool {
	switch r {
	case RoleStaff, RoleElectrician, RoleAdmin:
		return true
	}
	return false
}

// Account models a portal login: staff, electrician or admin.
type Account struct {
	ID             string
	Name           string
	Email          string
	PasswordHash   string
	Role           Role
	Specialization string
	Phone          string
	Department     string
	ResetToken     *string
	ResetTokenExp  *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// AccountRef is the display form of an account embedded in complaint views.
// It never carries the password hash or reset fields.
type AccountRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Ref returns the display form of the account.
func (a *Account) Ref() AccountRef {
	return AccountRef{ID: a.ID, Name: a.Name, Email: a.Email}
}
