package logging

import (
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"
	"strings"
)

func NewProgramAttr() slog.Attr {
	buildInfo, _ := debug.ReadBuildInfo()
	hostname, _ := os.Hostname()

	return slog.Group("program",
		slog.Int("pid", os.Getpid()),
		slog.String("machine", hostname),
		slog.String("version", buildInfo.Main.Version),
	)
}

func Error(err error) slog.Attr {
	return slog.Any("error", err)
}

func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level: %q", s)
	}
}
