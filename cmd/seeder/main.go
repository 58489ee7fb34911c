package main

import (
	"context"
	"os"

	"mkc-office-backend/config"
	"mkc-office-backend/internal/database"
	"mkc-office-backend/internal/logger"

	"github.com/joho/godotenv"
)

func main() {
	// .env is optional for the seeder as well
	envErr := godotenv.Load()
	cfg := config.Load()
	logger.Init(cfg.Log)
	if envErr != nil {
		logger.Warn("no .env file, using process environment")
	}

	if err := config.ConnectDB(cfg.DB); err != nil {
		logger.Error("database connection failed", "err", err)
		os.Exit(1)
	}

	password := config.GetEnv("SEED_PASSWORD", "changeme123")
	if err := database.SeedAll(context.Background(), config.DB, password); err != nil {
		logger.Error("seeding failed", "err", err)
		os.Exit(1)
	}
	logger.Info("seeding finished")
}
