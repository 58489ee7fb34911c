package routes

import (
	"mkc-office-backend/internal/handler"
	"mkc-office-backend/internal/repository"
	"mkc-office-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

func SetupAttendanceRoutes(app *fiber.App, d Deps) {
	reportRepo := repository.NewDailyReportRepository(d.DB)
	ledger := d.reportUsecase()
	gate := usecase.NewCheckoutGate(reportRepo)

	uc := usecase.NewAttendanceUsecase(
		repository.NewAttendanceRepository(d.DB),
		repository.NewActivityLogRepository(d.DB),
		ledger,
		gate,
		d.invalidator(),
		d.Cal,
	)
	hdl := handler.NewAttendanceHandler(uc)

	api := app.Group("/api/attendance", d.auth())
	api.Post("/checkin", hdl.CheckIn)
	api.Post("/checkout", hdl.CheckOut)
	api.Post("/checkout/override", hdl.OverrideCheckout)
	api.Get("/can-checkout", hdl.CanCheckout)
	api.Get("/state", hdl.State)
	api.Post("/activity", hdl.UpdateActivity)
	api.Get("/history", hdl.History)
}
