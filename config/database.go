package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"mkc-office-backend/internal/model"

	gomysql "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func ConnectDB(cfg DatabaseConfig) error {
	dialector, err := Dialector(cfg)
	if err != nil {
		return err
	}

	gLogger := logger.New(
		log.New(os.Stdout, "", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gLogger,
		TranslateError: true,
	})
	if err != nil {
		return fmt.Errorf("open %s: %w", cfg.Driver, err)
	}

	if err := Migrate(db); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	DB = db
	return nil
}

// Dialector picks the gorm driver for cfg.Driver.
func Dialector(cfg DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "", "mysql":
		mc := gomysql.NewConfig()
		mc.User = cfg.User
		mc.Passwd = cfg.Password
		mc.Net = "tcp"
		mc.Addr = fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
		mc.DBName = cfg.Name
		mc.ParseTime = true
		mc.Params = map[string]string{"charset": "utf8mb4"}
		return mysql.Open(mc.FormatDSN()), nil
	case "postgres":
		if cfg.URL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for postgres")
		}
		return postgres.Open(cfg.URL), nil
	case "sqlite":
		path := cfg.URL
		if path == "" {
			path = "mkc_office.db"
		}
		return sqlite.Open(path), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}
}

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.AttendanceSession{},
		&model.DailyReport{},
		&model.Task{},
		&model.ActivityLog{},
		&model.ComplianceItem{},
	)
}
