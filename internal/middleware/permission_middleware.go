package middleware

import (
	"mkc-office-backend/internal/model"

	"github.com/gofiber/fiber/v2"
)

func Permission(requiredPermission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// 1. Session from Auth
		s, ok := c.Locals(SessionKey).(model.Session)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "error": "unauthorized"})
		}

		// 2. Static role table
		if !model.HasPermission(s.Role, requiredPermission) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"success": false, "error": "missing permission " + requiredPermission})
		}

		return c.Next()
	}
}
