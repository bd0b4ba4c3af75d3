package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Prateekyadav17/ElectricHelp/internal/domain"
	apperrors "github.com/Prateekyadav17/ElectricHelp/pkg/util"
)

const principalKey = "auth_principal"

// Principal is the verified identity attached to the request after the
// bearer token checks out. It is built entirely from claims; no store
// round trip happens during verification.
type Principal struct {
	ID    string
	Role  domain.Role
	Email string
	Name  string
}

// Ref returns the principal in account display form.
func (p *Principal) Ref() domain.AccountRef {
	return domain.AccountRef{ID: p.ID, Name: p.Name, Email: p.Email}
}

// AuthMiddleware validates bearer tokens and attaches principals.
type AuthMiddleware struct {
	tokens *TokenManager
}

// NewAuthMiddleware constructs middleware around a token manager.
func NewAuthMiddleware(tokens *TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.Fields(authHeader)
	token := ""
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		token = parts[1]
	}
	if token == "" {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(token)
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	c.Locals(principalKey, &Principal{
		ID:    claims.ID,
		Role:  claims.Role,
		Email: claims.Email,
		Name:  claims.Name,
	})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated identity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
