package routes

import (
	"mkc-office-backend/internal/handler"
	"mkc-office-backend/internal/middleware"
	"mkc-office-backend/internal/model"
	"mkc-office-backend/internal/repository"
	"mkc-office-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

func SetupStaffRoutes(app *fiber.App, d Deps) {
	hdl := handler.NewStaffHandler(d.overviewUsecase())
	tasks := handler.NewTaskHandler(usecase.NewTaskUsecase(
		repository.NewTaskRepository(d.DB),
		repository.NewUserRepository(d.DB),
		d.Uploader,
		d.Cal,
	))

	api := app.Group("/api/partner/staff", d.auth(), middleware.Permission(model.PermViewStaff))
	api.Get("/", hdl.List)
	api.Get("/:id", hdl.Detail)
	api.Get("/:id/attendance", hdl.Attendance)
	api.Get("/:id/activity", hdl.Activity)
	api.Get("/:id/tasks", tasks.ForStaff)
}
