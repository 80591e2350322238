package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/prof-ashleyevans/os-strength-checkin-app/pkg/utils"
)

const ClaimsLocal = "auth_claims"

// AuthRequired validates the bearer token and stores its claims on the
// request for RequireRole and handlers.
func AuthRequired(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := BearerToken(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing or malformed bearer token",
			})
		}

		claims, err := utils.ValidateToken(token, secret)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		SetClaims(c, claims)
		return c.Next()
	}
}

// RequireRole must run after AuthRequired.
func RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := Claims(c)
		if !ok || claims.Role != role {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
		}
		return c.Next()
	}
}

// BearerToken reads "Authorization: Bearer <token>". The scheme is
// matched case-insensitively.
func BearerToken(c *fiber.Ctx) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(c.Get(fiber.HeaderAuthorization)), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func SetClaims(c *fiber.Ctx, claims *utils.Claims) {
	c.Locals(ClaimsLocal, claims)
}

func Claims(c *fiber.Ctx) (*utils.Claims, bool) {
	claims, ok := c.Locals(ClaimsLocal).(*utils.Claims)
	return claims, ok && claims != nil
}
