package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/triagem/triage-console/pkg/errorutil"
)

const principalKey = "auth_principal"

// Principal is the authenticated operator.
type Principal struct {
	Operator string
	// Anonymous is set when authentication is switched off.
	Anonymous bool
}

// AuthMiddleware validates bearer tokens. When disabled every request runs
// as the configured operator.
type AuthMiddleware struct {
	tokens          *TokenManager
	enabled         bool
	defaultOperator string
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, enabled bool, defaultOperator string) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, enabled: enabled, defaultOperator: defaultOperator}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	if !m.enabled {
		c.Locals(principalKey, &Principal{Operator: m.defaultOperator, Anonymous: true})
		return c.Next()
	}

	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(strings.TrimSpace(token))
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	c.Locals(principalKey, &Principal{Operator: claims.Operator})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated operator.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	principal, ok := c.Locals(principalKey).(*Principal)
	return principal, ok && principal != nil
}
