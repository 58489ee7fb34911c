package routes

import (
	"mkc-office-backend/internal/cache"
	"mkc-office-backend/internal/middleware"
	"mkc-office-backend/internal/repository"
	"mkc-office-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Deps carries what the route groups share.
type Deps struct {
	DB       *gorm.DB
	Cal      usecase.Calendar
	Tokens   *usecase.TokenIssuer
	Cache    *cache.Dashboard
	Notifier usecase.Notifier
	Uploader usecase.FileUploader
}

func (d Deps) auth() fiber.Handler {
	return middleware.Auth(d.Tokens, d.Cal.Now)
}

// invalidator keeps a nil *cache.Dashboard out of the interface.
func (d Deps) invalidator() usecase.Invalidator {
	if d.Cache == nil {
		return nil
	}
	return d.Cache
}

func (d Deps) reportUsecase() *usecase.ReportUsecase {
	return usecase.NewReportUsecase(
		repository.NewDailyReportRepository(d.DB),
		repository.NewAttendanceRepository(d.DB),
		repository.NewDashboardRepository(d.DB),
		d.Notifier,
		d.invalidator(),
		d.Cal,
	)
}

func (d Deps) overviewUsecase() *usecase.OverviewUsecase {
	return usecase.NewOverviewUsecase(
		repository.NewUserRepository(d.DB),
		repository.NewAttendanceRepository(d.DB),
		repository.NewActivityLogRepository(d.DB),
		repository.NewDailyReportRepository(d.DB),
		repository.NewTaskRepository(d.DB),
		repository.NewDashboardRepository(d.DB),
		d.Notifier,
		d.Cal,
	)
}

// Setup registers every route group.
func Setup(app *fiber.App, d Deps) {
	SetupAuthRoutes(app, d)
	SetupAttendanceRoutes(app, d)
	SetupReportRoutes(app, d)
	SetupTaskRoutes(app, d)
	SetupDashboardRoutes(app, d)
	SetupStaffRoutes(app, d)
	SetupComplianceRoutes(app, d)
	SetupRoleRoutes(app, d)
}
