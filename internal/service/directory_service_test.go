package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Prateekyadav17/ElectricHelp/internal/domain"
	apperrors "github.com/Prateekyadav17/ElectricHelp/pkg/util"
)

func newDirectoryFixture(t *testing.T) (*DirectoryService, *memAccountRepo, *memComplaintRepo) {
	t.Helper()
	accounts := newMemAccountRepo()
	complaints := newMemComplaintRepo(accounts)
	return NewDirectoryService(testAuthConfig(), accounts, complaints), accounts, complaints
}

func TestRegisterHashesPasswordAndNormalizesEmail(t *testing.T) {
	svc, accounts, _ := newDirectoryFixture(t)

	created, err := svc.Register(context.Background(), RegisterInput{
		Name:           "  Sparky  ",
		Email:          "  Sparky@Example.COM ",
		Password:       "secret123",
		Role:           domain.RoleElectrician,
		Specialization: " wiring ",
	})
	require.NoError(t, err)

	assert.True(t, domain.IsID(created.ID))
	assert.Equal(t, "Sparky", created.Name)
	assert.Equal(t, "sparky@example.com", created.Email)
	assert.Equal(t, "wiring", created.Specialization)
	assert.NotEqual(t, "secret123", created.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("secret123")))

	stored, err := accounts.GetByEmail(context.Background(), "sparky@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, stored.ID)
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _ := newDirectoryFixture(t)

	tests := []struct {
		name  string
		input RegisterInput
	}{
		{"missing name", RegisterInput{Email: "a@b.c", Password: "secret123", Role: domain.RoleStaff}},
		{"missing email", RegisterInput{Name: "A", Password: "secret123", Role: domain.RoleStaff}},
		{"blank email", RegisterInput{Name: "A", Email: "   ", Password: "secret123", Role: domain.RoleStaff}},
		{"blank name", RegisterInput{Name: "   ", Email: "a@b.c", Password: "secret123", Role: domain.RoleStaff}},
		{"missing password", RegisterInput{Name: "A", Email: "a@b.c", Role: domain.RoleStaff}},
		{"missing role", RegisterInput{Name: "A", Email: "a@b.c", Password: "secret123"}},
		{"unknown role", RegisterInput{Name: "A", Email: "a@b.c", Password: "secret123", Role: "plumber"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.input)
			require.Error(t, err)
			assert.Equal(t, 400, apperrors.ToDomainError(err).HTTPStatus)
		})
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _, _ := newDirectoryFixture(t)

	input := RegisterInput{Name: "A", Email: "dup@example.com", Password: "secret123", Role: domain.RoleStaff}
	_, err := svc.Register(context.Background(), input)
	require.NoError(t, err)

	// case differences do not dodge the uniqueness check
	input.Email = "DUP@example.com"
	_, err = svc.Register(context.Background(), input)
	require.Error(t, err)
	de := apperrors.ToDomainError(err)
	assert.Equal(t, 409, de.HTTPStatus)
	assert.Equal(t, "Email already registered", de.Message)
}

func TestSearchFilters(t *testing.T) {
	svc, accounts, _ := newDirectoryFixture(t)
	seedAccount(t, accounts, "anna.admin@example.com", "secret123", domain.RoleAdmin)
	sparky := seedAccount(t, accounts, "sparky@example.com", "secret123", domain.RoleElectrician)
	seedAccount(t, accounts, "rival@example.com", "secret123", domain.RoleElectrician)

	byRole, err := svc.Search(context.Background(), string(domain.RoleElectrician), "")
	require.NoError(t, err)
	assert.Len(t, byRole, 2)

	byQuery, err := svc.Search(context.Background(), "", "SPARKY")
	require.NoError(t, err)
	require.Len(t, byQuery, 1)
	assert.Equal(t, sparky.ID, byQuery[0].ID)

	both, err := svc.Search(context.Background(), string(domain.RoleAdmin), "sparky")
	require.NoError(t, err)
	assert.Empty(t, both)

	all, err := svc.Search(context.Background(), "", "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestRemoveRejectsSelfDeletion(t *testing.T) {
	svc, accounts, _ := newDirectoryFixture(t)
	admin := seedAccount(t, accounts, "admin@example.com", "secret123", domain.RoleAdmin)

	err := svc.Remove(context.Background(), principalFor(admin), admin.ID)
	require.Error(t, err)
	de := apperrors.ToDomainError(err)
	assert.Equal(t, 400, de.HTTPStatus)
	assert.Equal(t, "Cannot delete your own admin account", de.Message)
}

func TestRemoveGuardsAssignedComplaints(t *testing.T) {
	svc, accounts, complaintRepo := newDirectoryFixture(t)
	admin := seedAccount(t, accounts, "admin@example.com", "secret123", domain.RoleAdmin)
	staff := seedAccount(t, accounts, "staff@example.com", "secret123", domain.RoleStaff)
	sparky := seedAccount(t, accounts, "sparky@example.com", "secret123", domain.RoleElectrician)

	complaintSvc := NewComplaintService(complaintRepo, nil)
	claimed, err := complaintSvc.Create(context.Background(), principalFor(staff), ComplaintCreateInput{
		Title:      "Broken Light",
		AssignedTo: sparky.ID,
	})
	require.NoError(t, err)

	err = svc.Remove(context.Background(), principalFor(admin), sparky.ID)
	require.Error(t, err)
	de := apperrors.ToDomainError(err)
	assert.Equal(t, 409, de.HTTPStatus)
	assert.Equal(t, "User has assigned complaints. Reassign before deleting.", de.Message)

	// after reassignment the deletion goes through
	_, err = complaintSvc.Assign(context.Background(), principalFor(admin), claimed.ID, "", true)
	require.NoError(t, err)

	require.NoError(t, svc.Remove(context.Background(), principalFor(admin), sparky.ID))
	_, err = accounts.GetByID(context.Background(), sparky.ID)
	require.Error(t, err)
}

func TestRemoveUnknownAccount(t *testing.T) {
	svc, accounts, _ := newDirectoryFixture(t)
	admin := seedAccount(t, accounts, "admin@example.com", "secret123", domain.RoleAdmin)

	err := svc.Remove(context.Background(), principalFor(admin), domain.NewID())
	require.Error(t, err)
	de := apperrors.ToDomainError(err)
	assert.Equal(t, 404, de.HTTPStatus)
	assert.Equal(t, "User not found", de.Message)
}
