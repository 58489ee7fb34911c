package routes

import (
	"mkc-office-backend/internal/handler"
	"mkc-office-backend/internal/middleware"
	"mkc-office-backend/internal/model"

	"github.com/gofiber/fiber/v2"
)

func SetupReportRoutes(app *fiber.App, d Deps) {
	hdl := handler.NewReportHandler(d.reportUsecase())

	api := app.Group("/api/reports", d.auth())
	api.Post("/", hdl.Submit)
	api.Get("/pending", hdl.Pending)
	api.Get("/mine", hdl.Mine)
	api.Get("/date/:date", hdl.GetForDate)

	// Partner review
	partner := app.Group("/api/partner/reports", d.auth(), middleware.Role(model.RolePartner))
	partner.Get("/", middleware.Permission(model.PermViewReports), hdl.ListAll)
	partner.Get("/export", middleware.Permission(model.PermExportReports), hdl.Export)
	partner.Post("/request", middleware.Permission(model.PermViewReports), hdl.RequestMissing)
}
