package routes

import (
	"mkc-office-backend/internal/handler"
	"mkc-office-backend/internal/middleware"
	"mkc-office-backend/internal/model"
	"mkc-office-backend/internal/repository"
	"mkc-office-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

func SetupComplianceRoutes(app *fiber.App, d Deps) {
	uc := usecase.NewComplianceUsecase(repository.NewComplianceRepository(d.DB), d.Cal)
	hdl := handler.NewComplianceHandler(uc)

	api := app.Group("/api/compliance", d.auth())
	api.Get("/", hdl.List)
	api.Get("/upcoming", hdl.Upcoming)
	api.Get("/staff", hdl.StaffUpcoming)

	manage := middleware.Permission(model.PermManageCompliance)
	api.Post("/", manage, hdl.Create)
	api.Put("/:id", manage, hdl.Update)
	api.Patch("/:id/toggle", manage, hdl.Toggle)
}
