package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/code-jungle/fitlife-ai-glow-sub001/pkg/utils"
)

func AuthRequired(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := bearerUserID(c, secret)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or missing token",
			})
		}

		c.Locals("user_id", userID)
		return c.Next()
	}
}

// AuthOptional resolves an identity when a valid token is present and
// passes through anonymously otherwise. The gate endpoint needs this: an
// anonymous visitor is a legitimate gate state, not an auth failure.
func AuthOptional(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if userID, ok := bearerUserID(c, secret); ok {
			c.Locals("user_id", userID)
		}
		return c.Next()
	}
}

func bearerUserID(c *fiber.Ctx, secret string) (string, bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}

	claims, err := utils.ValidateToken(parts[1], secret)
	if err != nil {
		return "", false
	}
	return claims.UserID, true
}
