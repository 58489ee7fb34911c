package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Helper function to get environment variable with fallback default value
func GetEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// Helper function to get environment variable as integer with fallback
func GetEnvAsInt(key string, fallback int) int {
	valueStr := GetEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

func GetEnvAsBool(key string, fallback bool) bool {
	valueStr := GetEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return fallback
}

// DefaultJWTSecret is only meant for local development.
const DefaultJWTSecret = "mkc-office-dev-secret"

type AppConfig struct {
	Port        int
	CORSOrigins string

	DB DatabaseConfig

	JWTSecret   string
	JWTTTLHours int
	Location    *time.Location

	UploadServiceURL   string
	UploadServiceToken string
	SMTP               SMTPConfig
	ReminderCron       string

	Log LogConfig
}

type DatabaseConfig struct {
	Driver   string // mysql | postgres | sqlite
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	URL      string // postgres DSN or sqlite file
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type LogConfig struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Load reads the whole configuration from the environment. Call after godotenv.Load.
func Load() *AppConfig {
	loc, err := time.LoadLocation(GetEnv("APP_TIMEZONE", "Asia/Kolkata"))
	if err != nil {
		loc = time.Local
	}

	return &AppConfig{
		Port:        GetEnvAsInt("PORT", 3000),
		CORSOrigins: GetEnv("CORS_ORIGINS", "*"),
		DB: DatabaseConfig{
			Driver:   strings.ToLower(GetEnv("DB_DRIVER", "mysql")),
			Host:     GetEnv("DB_HOST", "127.0.0.1"),
			Port:     GetEnvAsInt("DB_PORT", 3306),
			User:     GetEnv("DB_USER", "root"),
			Password: GetEnv("DB_PASS", ""),
			Name:     GetEnv("DB_NAME", "mkc_office"),
			URL:      GetEnv("DATABASE_URL", ""),
		},
		JWTSecret:          GetEnv("JWT_SECRET", DefaultJWTSecret),
		JWTTTLHours:        GetEnvAsInt("JWT_TTL_HOURS", 24),
		Location:           loc,
		UploadServiceURL:   GetEnv("UPLOAD_SERVICE_URL", ""),
		UploadServiceToken: GetEnv("UPLOAD_SERVICE_TOKEN", ""),
		SMTP: SMTPConfig{
			Host:     GetEnv("SMTP_HOST", ""),
			Port:     GetEnvAsInt("SMTP_PORT", 587),
			User:     GetEnv("SMTP_USER", ""),
			Password: GetEnv("SMTP_PASS", ""),
			From:     GetEnv("SMTP_FROM", "office@mkc.local"),
		},
		ReminderCron: GetEnv("REMINDER_CRON", ""),
		Log: LogConfig{
			Level:      GetEnv("LOG_LEVEL", "info"),
			File:       GetEnv("LOG_FILE", ""),
			MaxSizeMB:  GetEnvAsInt("LOG_MAX_SIZE_MB", 100),
			MaxBackups: GetEnvAsInt("LOG_MAX_BACKUPS", 3),
			MaxAgeDays: GetEnvAsInt("LOG_MAX_AGE_DAYS", 30),
		},
	}
}

// InsecureJWTSecret reports whether tokens are signed with the built-in
// development secret or an empty one.
func (c *AppConfig) InsecureJWTSecret() bool {
	return c.JWTSecret == "" || c.JWTSecret == DefaultJWTSecret
}
