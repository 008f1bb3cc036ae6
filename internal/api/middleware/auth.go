package middleware

import (
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/lumeon/visage/internal/domain"
	"github.com/lumeon/visage/internal/token"
)

const (
	// LocalIdentityID is the key to retrieve the authenticated identity from context
	LocalIdentityID = "identity_id"
	// LocalIdentityEmail is the key to retrieve the authenticated email from context
	LocalIdentityEmail = "identity_email"
)

// AuthDependencies contains dependencies for JWT authentication
type AuthDependencies struct {
	JWTService *token.JWTService
	Logger     *slog.Logger
}

// Auth creates a JWT authentication middleware. Tokens are issued by the
// login endpoint after a successful face authentication.
func Auth(deps AuthDependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		bearer := extractBearerToken(c)
		if bearer == "" {
			deps.Logger.Debug("missing authorization header")
			return domain.ErrUnauthorized
		}

		claims, err := deps.JWTService.ValidateToken(bearer)
		if err != nil {
			deps.Logger.Warn("invalid JWT token", "error", err)
			return domain.ErrUnauthorized
		}

		c.Locals(LocalIdentityID, claims.IdentityID)
		c.Locals(LocalIdentityEmail, claims.Email)

		deps.Logger.Debug("identity authenticated",
			"identity_id", claims.IdentityID,
			"email", claims.Email,
		)

		return c.Next()
	}
}

// GetIdentityID retrieves the authenticated identity ID from context
func GetIdentityID(c *fiber.Ctx) (uuid.UUID, error) {
	identityID, ok := c.Locals(LocalIdentityID).(uuid.UUID)
	if !ok || identityID == uuid.Nil {
		return uuid.Nil, domain.ErrUnauthorized
	}
	return identityID, nil
}

// GetIdentityEmail retrieves the authenticated email from context
func GetIdentityEmail(c *fiber.Ctx) (string, error) {
	email, ok := c.Locals(LocalIdentityEmail).(string)
	if !ok {
		return "", domain.ErrUnauthorized
	}
	return email, nil
}

// extractBearerToken extracts token from Authorization header
func extractBearerToken(c *fiber.Ctx) string {
	auth := c.Get("Authorization")
	if auth == "" {
		return ""
	}

	// Expected format: "Bearer <token>"
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
