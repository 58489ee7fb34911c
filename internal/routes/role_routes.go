package routes

import (
	"mkc-office-backend/internal/handler"

	"github.com/gofiber/fiber/v2"
)

func SetupRoleRoutes(app *fiber.App, d Deps) {
	hdl := handler.NewRoleHandler()

	api := app.Group("/api/roles", d.auth())
	api.Get("/", hdl.GetAll)
	api.Get("/me", hdl.Mine)
}
