package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Prateekyadav17/ElectricHelp/internal/auth"
	"github.com/Prateekyadav17/ElectricHelp/internal/config"
	"github.com/Prateekyadav17/ElectricHelp/internal/domain"
	apperrors "github.com/Prateekyadav17/ElectricHelp/pkg/util"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:         "test-secret",
		SessionTTLMinutes: 12 * 60,
		ResetTTLMinutes:   15,
		BcryptCost:        bcrypt.MinCost,
		MinPasswordLength: 6,
	}
}

func seedAccount(t *testing.T, repo *memAccountRepo, email, password string, role domain.Role) *domain.Account {
	t.Helper()
	hash, err := auth.HashPassword(password, bcrypt.MinCost)
	require.NoError(t, err)
	account := &domain.Account{
		Name:         "Test Account",
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	require.NoError(t, repo.Create(context.Background(), account))
	return account
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	repo := newMemAccountRepo()
	seedAccount(t, repo, "staff@example.com", "secret123", domain.RoleStaff)
	svc := NewAuthService(testAuthConfig(), repo, &stubMailer{}, zapNop())

	_, _, _, wrongPass := svc.Login(context.Background(), "staff@example.com", "not-the-password")
	_, _, _, unknownEmail := svc.Login(context.Background(), "ghost@example.com", "secret123")

	require.Error(t, wrongPass)
	require.Error(t, unknownEmail)

	de1 := apperrors.ToDomainError(wrongPass)
	de2 := apperrors.ToDomainError(unknownEmail)
	assert.Equal(t, de1.Message, de2.Message)
	assert.Equal(t, de1.HTTPStatus, de2.HTTPStatus)
	assert.Equal(t, 400, de1.HTTPStatus)
	assert.Equal(t, "Invalid credentials", de1.Message)
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	repo := newMemAccountRepo()
	account := seedAccount(t, repo, "staff@example.com", "secret123", domain.RoleStaff)
	svc := NewAuthService(testAuthConfig(), repo, &stubMailer{}, zapNop())

	got, token, expiresAt, err := svc.Login(context.Background(), "  STAFF@Example.COM ", "secret123")
	require.NoError(t, err)
	assert.Equal(t, account.ID, got.ID)
	assert.WithinDuration(t, time.Now().Add(12*time.Hour), expiresAt, time.Minute)

	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, account.ID, claims.ID)
	assert.Equal(t, domain.RoleStaff, claims.Role)
	assert.Equal(t, "staff@example.com", claims.Email)
}

func TestRequestPasswordResetUnknownEmailHasNoSideEffect(t *testing.T) {
	repo := newMemAccountRepo()
	account := seedAccount(t, repo, "staff@example.com", "secret123", domain.RoleStaff)
	mailer := &stubMailer{configured: true}
	svc := NewAuthService(testAuthConfig(), repo, mailer, zapNop())

	devToken, err := svc.RequestPasswordReset(context.Background(), "ghost@example.com")
	require.NoError(t, err)
	assert.Empty(t, devToken)
	assert.Empty(t, mailer.sent)

	stored, err := repo.GetByID(context.Background(), account.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.ResetToken)
	assert.Nil(t, stored.ResetTokenExp)
}

func TestRequestPasswordResetWithoutTransportEchoesToken(t *testing.T) {
	repo := newMemAccountRepo()
	account := seedAccount(t, repo, "staff@example.com", "secret123", domain.RoleStaff)
	svc := NewAuthService(testAuthConfig(), repo, &stubMailer{configured: false}, zapNop())

	devToken, err := svc.RequestPasswordReset(context.Background(), "staff@example.com")
	require.NoError(t, err)
	assert.Len(t, devToken, 40)

	stored, err := repo.GetByID(context.Background(), account.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.ResetToken)
	assert.Equal(t, devToken, *stored.ResetToken)
	require.NotNil(t, stored.ResetTokenExp)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), *stored.ResetTokenExp, time.Minute)
}

func TestRequestPasswordResetSwallowsDeliveryFailure(t *testing.T) {
	repo := newMemAccountRepo()
	seedAccount(t, repo, "staff@example.com", "secret123", domain.RoleStaff)
	mailer := &stubMailer{configured: true, fail: true}
	svc := NewAuthService(testAuthConfig(), repo, mailer, zapNop())

	devToken, err := svc.RequestPasswordReset(context.Background(), "staff@example.com")
	require.NoError(t, err)
	assert.Empty(t, devToken, "a configured transport must never echo the token")
	assert.Equal(t, []string{"staff@example.com"}, mailer.sent)
}

func TestResetPasswordIsSingleUse(t *testing.T) {
	repo := newMemAccountRepo()
	seedAccount(t, repo, "staff@example.com", "secret123", domain.RoleStaff)
	svc := NewAuthService(testAuthConfig(), repo, &stubMailer{}, zapNop())

	token, err := svc.RequestPasswordReset(context.Background(), "staff@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	require.NoError(t, svc.ResetPassword(context.Background(), token, "brand-new-pass"))

	_, _, _, err = svc.Login(context.Background(), "staff@example.com", "brand-new-pass")
	assert.NoError(t, err)

	err = svc.ResetPassword(context.Background(), token, "another-pass")
	require.Error(t, err)
	assert.Equal(t, "Invalid or expired token", apperrors.ToDomainError(err).Message)
}

func TestResetPasswordRejectsExpiredToken(t *testing.T) {
	repo := newMemAccountRepo()
	account := seedAccount(t, repo, "staff@example.com", "secret123", domain.RoleStaff)
	svc := NewAuthService(testAuthConfig(), repo, &stubMailer{}, zapNop())

	require.NoError(t, repo.SetResetToken(context.Background(), account.ID, "stale-token", time.Now().Add(-time.Second)))

	err := svc.ResetPassword(context.Background(), "stale-token", "brand-new-pass")
	require.Error(t, err)
	assert.Equal(t, "Invalid or expired token", apperrors.ToDomainError(err).Message)
}

func TestResetPasswordRejectsShortPassword(t *testing.T) {
	repo := newMemAccountRepo()
	svc := NewAuthService(testAuthConfig(), repo, &stubMailer{}, zapNop())

	err := svc.ResetPassword(context.Background(), "whatever", "short")
	require.Error(t, err)
	de := apperrors.ToDomainError(err)
	assert.Equal(t, 400, de.HTTPStatus)
	assert.Equal(t, "Password too short (min 6)", de.Message)
}
