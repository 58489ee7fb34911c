package routes

import (
	"mkc-office-backend/internal/handler"
	"mkc-office-backend/internal/middleware"
	"mkc-office-backend/internal/model"

	"github.com/gofiber/fiber/v2"
)

func SetupDashboardRoutes(app *fiber.App, d Deps) {
	hdl := handler.NewDashboardHandler(d.overviewUsecase())

	api := app.Group("/api/partner", d.auth(), middleware.Role(model.RolePartner))
	if d.Cache != nil {
		cached := d.Cache.Middleware()
		api.Get("/overview", cached, hdl.LiveOverview)
		api.Get("/stats", cached, hdl.TodayStats)
	} else {
		api.Get("/overview", hdl.LiveOverview)
		api.Get("/stats", hdl.TodayStats)
	}
	api.Post("/announce", middleware.Permission(model.PermAnnounce), hdl.Announce)
}
