package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/Prateekyadav17/ElectricHelp/internal/auth"
	"github.com/Prateekyadav17/ElectricHelp/internal/config"
	"github.com/Prateekyadav17/ElectricHelp/internal/domain"
	"github.com/Prateekyadav17/ElectricHelp/internal/repository"
	apperrors "github.com/Prateekyadav17/ElectricHelp/pkg/util"
)

// DirectoryService manages account records: search, registration and guarded
// deletion.
type DirectoryService struct {
	accounts   repository.AccountRepository
	complaints repository.ComplaintRepository
	bcryptCost int
}

// NewDirectoryService constructs the service.
func NewDirectoryService(cfg config.AuthConfig, accounts repository.AccountRepository, complaints repository.ComplaintRepository) *DirectoryService {
	return &DirectoryService{
		accounts:   accounts,
		complaints: complaints,
		bcryptCost: cfg.BcryptCost,
	}
}

// RegisterInput describes the admin registration payload.
type RegisterInput struct {
	Name           string
	Email          string
	Password       string
	Role           domain.Role
	Department     string
	Specialization string
	Phone          string
}

// Search returns accounts matching an optional exact role filter and an
// optional case-insensitive substring match on name or email.
func (s *DirectoryService) Search(ctx context.Context, roleFilter, query string) ([]domain.Account, error) {
	filter := repository.AccountFilter{Query: query}
	if roleFilter != "" {
		role := domain.Role(roleFilter)
		filter.Role = &role
	}
	accounts, err := s.accounts.Search(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return accounts, nil
}

// Register creates a new account with a freshly hashed password.
func (s *DirectoryService) Register(ctx context.Context, input RegisterInput) (*domain.Account, error) {
	name := strings.TrimSpace(input.Name)
	email := NormalizeEmail(input.Email)
	if name == "" || email == "" || input.Password == "" || input.Role == "" {
		return nil, apperrors.NewValidationError("name, email, password, and role are required", nil)
	}
	if !input.Role.Valid() {
		return nil, apperrors.NewValidationError("Invalid role", nil)
	}

	if _, err := s.accounts.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("Email already registered", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	account := &domain.Account{
		Name:           name,
		Email:          email,
		PasswordHash:   hash,
		Role:           input.Role,
		Department:     strings.TrimSpace(input.Department),
		Specialization: strings.TrimSpace(input.Specialization),
		Phone:          strings.TrimSpace(input.Phone),
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, apperrors.MapError(err)
	}
	return account, nil
}

// Remove deletes an account. Self-deletion is rejected, and an account that
// still has complaints claimed for it must be reassigned first.
func (s *DirectoryService) Remove(ctx context.Context, actor *auth.Principal, targetID string) error {
	if targetID == actor.ID {
		return apperrors.NewValidationError("Cannot delete your own admin account", nil)
	}

	hasAssigned, err := s.complaints.ExistsAssignedTo(ctx, targetID)
	if err != nil {
		return apperrors.MapError(err)
	}
	if hasAssigned {
		return apperrors.NewConflict("User has assigned complaints. Reassign before deleting.", nil)
	}

	if err := s.accounts.Delete(ctx, targetID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("User not found", nil)
		}
		return apperrors.MapError(err)
	}
	return nil
}
