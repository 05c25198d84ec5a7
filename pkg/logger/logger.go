package logger

import (
	"log/slog"
	"os"
	"strings"
)

var defaultLogger *slog.Logger

// Init installs the process logger. Production logs JSON at info unless
// level or format say otherwise; every other environment logs text at debug.
func Init(env, level, format string) {
	var handler slog.Handler

	fallback := slog.LevelDebug
	if env == "production" {
		fallback = slog.LevelInfo
		if format == "" {
			format = "json"
		}
	}
	opts := &slog.HandlerOptions{Level: parseLevel(level, fallback)}

	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	defaultLogger = slog.New(handler)
	slog.SetDefault(defaultLogger)
}

func LoggerWrapper() *slog.Logger {
	if defaultLogger == nil {
		// lazy initialize a development logger to avoid nil pointer panics
		Init("development", "", "")
	}
	return defaultLogger
}

func parseLevel(level string, fallback slog.Level) slog.Level {
	if strings.TrimSpace(level) == "" {
		return fallback
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return fallback
	}
	return l
}
