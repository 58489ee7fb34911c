package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"mkc-office-backend/config"

	"gopkg.in/lumberjack.v2"
)

// Init installs the JSON logger as slog's default. Output always goes to
// stdout and, when cfg.File is set, to a rotated file as well.
func Init(cfg config.LogConfig) {
	writers := []io.Writer{os.Stdout}
	if cfg.File != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			LocalTime:  true,
			Compress:   true,
		})
	}

	h := slog.NewJSONHandler(io.MultiWriter(writers...), &slog.HandlerOptions{Level: parseLevel(cfg.Level)})
	slog.SetDefault(slog.New(h).With("service", "mkc-office"))
	Info("logger initialized", "level", cfg.Level, "file", cfg.File)
}

func Info(msg string, args ...any)  { slog.Info(msg, args...) }
func Warn(msg string, args ...any)  { slog.Warn(msg, args...) }
func Error(msg string, args ...any) { slog.Error(msg, args...) }
func Debug(msg string, args ...any) { slog.Debug(msg, args...) }

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
