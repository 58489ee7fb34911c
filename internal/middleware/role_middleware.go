package middleware

import (
	"mkc-office-backend/internal/model"

	"github.com/gofiber/fiber/v2"
)

func Role(allowedRoles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Session is set by Auth
		s, ok := c.Locals(SessionKey).(model.Session)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "error": "unauthorized"})
		}

		for _, role := range allowedRoles {
			if role == s.Role {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"success": false, "error": "access denied for role " + s.Role})
	}
}
