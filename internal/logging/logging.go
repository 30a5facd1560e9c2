package logging

import (
	"log/slog"
	"os"

	"github.com/gogpu/gg"
)

// Init installs the default logger. LOG_LEVEL selects the level; the
// rasterizer's own logger is only enabled at debug.
func Init() {
	level := ParseLevel(os.Getenv("LOG_LEVEL"))

	logger := slog.New(
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		}),
	)
	slog.SetDefault(logger)

	if level <= slog.LevelDebug {
		gg.SetLogger(logger.With("component", "gg"))
	}
}

// ParseLevel maps a LOG_LEVEL value to a slog level. Unknown or empty
// values mean errors only.
func ParseLevel(l string) slog.Level {
	switch l {
	case "dev", "development", "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	}
	return slog.LevelError
}
