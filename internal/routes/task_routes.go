package routes

import (
	"mkc-office-backend/internal/handler"
	"mkc-office-backend/internal/middleware"
	"mkc-office-backend/internal/model"
	"mkc-office-backend/internal/repository"
	"mkc-office-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

func SetupTaskRoutes(app *fiber.App, d Deps) {
	uc := usecase.NewTaskUsecase(
		repository.NewTaskRepository(d.DB),
		repository.NewUserRepository(d.DB),
		d.Uploader,
		d.Cal,
	)
	hdl := handler.NewTaskHandler(uc)

	api := app.Group("/api/tasks", d.auth())
	api.Get("/meta", hdl.Statuses)
	api.Get("/assigned", hdl.Assigned)
	api.Patch("/:id/status", hdl.UpdateStatus)

	// Partner Routes
	api.Post("/", middleware.Permission(model.PermAssignTask), hdl.Create)
	api.Get("/created", middleware.Role(model.RolePartner), hdl.Created)
	api.Delete("/:id", middleware.Permission(model.PermAssignTask), hdl.Delete)
}
