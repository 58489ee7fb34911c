package routes

import (
	"time"

	deliveryhttp "mkc-office-backend/internal/delivery/http"
	"mkc-office-backend/internal/repository"
	"mkc-office-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

func SetupAuthRoutes(app *fiber.App, d Deps) {
	userRepo := repository.NewUserRepository(d.DB)
	hdl := deliveryhttp.NewUserHandler(usecase.NewUserUsecase(userRepo, d.Tokens, d.Cal))

	loginLimiter := limiter.New(limiter.Config{
		Max:        10,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"success": false, "error": "too many login attempts, try again in a minute"})
		},
	})

	api := app.Group("/api/auth")
	api.Post("/login", loginLimiter, hdl.Login)
	api.Post("/logout", hdl.Logout)
	api.Get("/me", d.auth(), hdl.Me)
	api.Put("/password", d.auth(), hdl.ChangePassword)
}
