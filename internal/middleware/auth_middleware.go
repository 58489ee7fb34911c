package middleware

import (
	"strings"
	"time"

	"mkc-office-backend/internal/logger"
	"mkc-office-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

const (
	SessionKey    = "session"
	SessionCookie = "session"
	// RefreshWindow is how close to expiry a token must be before it is reissued.
	RefreshWindow = time.Hour
)

// Auth accepts "Authorization: Bearer <token>" or the session cookie and
// stores the resulting model.Session in c.Locals(SessionKey).
func Auth(tokens *usecase.TokenIssuer, now func() time.Time) fiber.Handler {
	if now == nil {
		now = time.Now
	}
	return func(c *fiber.Ctx) error {
		// 1. Take the token from the header, falling back to the cookie
		tokenString := strings.TrimSpace(strings.TrimPrefix(c.Get(fiber.HeaderAuthorization), "Bearer "))
		if tokenString == "" {
			tokenString = c.Cookies(SessionCookie)
		}
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "error": "missing token"})
		}

		// 2. Parse and validate
		session, expires, err := tokens.Parse(tokenString)
		if err != nil || session.UserID == 0 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "error": "invalid or expired token"})
		}

		// 3. Reissue tokens that are about to expire
		if expires.Sub(now()) < RefreshWindow {
			fresh, freshExp, err := tokens.Issue(session, now())
			if err != nil {
				logger.Warn("auth.refresh_failed", "user_id", session.UserID, "err", err)
			} else {
				c.Set("X-New-Token", fresh)
				SetSessionCookie(c, fresh, freshExp)
			}
		}

		// 4. Keep the session for handlers
		c.Locals(SessionKey, session)
		return c.Next()
	}
}

func SetSessionCookie(c *fiber.Ctx, token string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func ClearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
