package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/Prateekyadav17/ElectricHelp/internal/auth"
	"github.com/Prateekyadav17/ElectricHelp/internal/config"
	"github.com/Prateekyadav17/ElectricHelp/internal/domain"
	"github.com/Prateekyadav17/ElectricHelp/internal/mail"
	"github.com/Prateekyadav17/ElectricHelp/internal/repository"
	apperrors "github.com/Prateekyadav17/ElectricHelp/pkg/util"
)

const resetTokenBytes = 20

// ResetMailer delivers password-reset mail. Failures are swallowed by the
// reset-request flow.
type ResetMailer interface {
	Configured() bool
	SendResetMail(ctx context.Context, toEmail, token string) error
}

var _ ResetMailer = (*mail.Mailer)(nil)

// AuthService coordinates login and the reset-token lifecycle.
type AuthService struct {
	accounts   repository.AccountRepository
	mailer     ResetMailer
	tokenMgr   *auth.TokenManager
	logger     *zap.Logger
	bcryptCost int
	resetTTL   time.Duration
	minPassLen int
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, accounts repository.AccountRepository, mailer ResetMailer, logger *zap.Logger) *AuthService {
	return &AuthService{
		accounts:   accounts,
		mailer:     mailer,
		tokenMgr:   auth.NewTokenManager(cfg.JWTSecret, cfg.SessionTTLMinutes),
		logger:     logger,
		bcryptCost: cfg.BcryptCost,
		resetTTL:   time.Duration(cfg.ResetTTLMinutes) * time.Minute,
		minPassLen: cfg.MinPasswordLength,
	}
}

// NormalizeEmail trims and lowercases an address before lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Login authenticates an account and returns a signed session token.
// A missing account and a failed password comparison produce the identical
// error so the response never reveals which check failed.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Account, string, time.Time, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, "", time.Time{}, apperrors.NewValidationError("email and password are required", nil)
	}

	account, err := s.accounts.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewValidationError("Invalid credentials", nil)
		}
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(account.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewValidationError("Invalid credentials", nil)
	}

	token, expiresAt, err := s.tokenMgr.GenerateToken(account)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}
	return account, token, expiresAt, nil
}

// RequestPasswordReset issues a one-time reset token and attempts delivery.
// An unknown email reports success with no side effect so responses cannot be
// used to enumerate accounts. The returned devToken is non-empty only when no
// mail transport is configured.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (devToken string, err error) {
	normalized := NormalizeEmail(email)
	if normalized == "" {
		return "", apperrors.NewValidationError("Email is required", nil)
	}

	account, err := s.accounts.GetByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", apperrors.MapError(err)
	}

	token, err := newResetToken()
	if err != nil {
		return "", apperrors.NewInternalError(err)
	}
	expiresAt := time.Now().Add(s.resetTTL)
	if err := s.accounts.SetResetToken(ctx, account.ID, token, expiresAt); err != nil {
		return "", apperrors.MapError(err)
	}

	if s.mailer != nil && s.mailer.Configured() {
		if err := s.mailer.SendResetMail(ctx, normalized, token); err != nil {
			s.logger.Warn("reset mail delivery failed", zap.String("email", normalized), zap.Error(err))
		}
		return "", nil
	}
	return token, nil
}

// ResetPassword consumes a reset token and installs the new password. The
// match, expiry check and clear happen in a single store operation, so a
// token can succeed at most once.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" || newPassword == "" {
		return apperrors.NewValidationError("token and newPassword are required", nil)
	}
	if len(newPassword) < s.minPassLen {
		return apperrors.NewValidationError("Password too short (min 6)", nil)
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}

	ok, err := s.accounts.ConsumeResetToken(ctx, token, hash, time.Now())
	if err != nil {
		return apperrors.MapError(err)
	}
	if !ok {
		return apperrors.NewValidationError("Invalid or expired token", nil)
	}
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func newResetToken() (string, error) {
	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
