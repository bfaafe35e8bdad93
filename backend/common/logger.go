package common

import (
	"log/slog"
	"os"
)

var logger = slog.New(slog.NewTextHandler(os.Stderr, nil))

// SetupLog replaces the default logger, e.g. to emit JSON in production.
func SetupLog(l *slog.Logger) {
	logger = l
}

func SysLog(s string) {
	logger.Info(s)
}

func SysError(s string) {
	logger.Error(s)
}

func FatalLog(v any) {
	logger.Error("fatal", slog.Any("error", v))
	os.Exit(1)
}
