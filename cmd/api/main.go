package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mkc-office-backend/config"
	"mkc-office-backend/internal/cache"
	"mkc-office-backend/internal/logger"
	"mkc-office-backend/internal/middleware"
	"mkc-office-backend/internal/notify"
	"mkc-office-backend/internal/repository"
	"mkc-office-backend/internal/routes"
	"mkc-office-backend/internal/scheduler"
	"mkc-office-backend/internal/storage"
	"mkc-office-backend/internal/usecase"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/etag"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	// 1. Environment
	envErr := godotenv.Load()
	cfg := config.Load()
	logger.Init(cfg.Log)
	if envErr != nil {
		logger.Warn("no .env file, using process environment")
	}
	if cfg.InsecureJWTSecret() {
		logger.Warn("JWT_SECRET is unset or the development default; set a private secret before deploying")
	}

	// 2. Database
	if err := config.ConnectDB(cfg.DB); err != nil {
		logger.Error("database connection failed", "driver", cfg.DB.Driver, "err", err)
		os.Exit(1)
	}

	// 3. Shared services
	cal := usecase.NewCalendar(cfg.Location)
	deps := routes.Deps{
		DB:       config.DB,
		Cal:      cal,
		Tokens:   usecase.NewTokenIssuer(cfg.JWTSecret, time.Duration(cfg.JWTTTLHours)*time.Hour),
		Cache:    cache.NewDashboard(30 * time.Second),
		Notifier: notify.FromConfig(cfg.SMTP),
	}
	if cfg.UploadServiceURL != "" {
		deps.Uploader = storage.NewBlobUploader(cfg.UploadServiceURL, cfg.UploadServiceToken)
	}

	// 4. HTTP server
	app := fiber.New(fiber.Config{
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		BodyLimit:             storage.MaxUploadBytes + 1<<20,
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"success": false, "error": err.Error()})
		},
	})

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "${time} ${locals:request_id} ${status} ${method} ${path} ${latency}\n",
		TimeZone:   cfg.Location.String(),
		TimeFormat: time.RFC3339,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowCredentials: cfg.CORSOrigins != "*",
		ExposeHeaders:    "X-New-Token, X-Request-ID",
	}))
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"success": true, "message": "ok"})
	})
	routes.Setup(app, deps)

	// 5. Report reminder
	reminderLedger := usecase.NewReportUsecase(
		repository.NewDailyReportRepository(config.DB),
		repository.NewAttendanceRepository(config.DB),
		repository.NewDashboardRepository(config.DB),
		deps.Notifier,
		deps.Cache,
		cal,
	)
	reminder := scheduler.NewReportReminder(reminderLedger, cfg.ReminderCron, cfg.Location)
	if err := reminder.Start(); err != nil {
		logger.Error("scheduler start failed", "err", err)
		os.Exit(1)
	}

	// 6. Serve until SIGINT/SIGTERM
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		logger.Info("server listening", "addr", addr)
		if err := app.Listen(addr); err != nil {
			logger.Error("server stopped", "err", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	reminder.Stop()
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("shutdown failed", "err", err)
	}
}
