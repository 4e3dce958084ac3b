package config

import (
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger picks the log handler for c. The terminal front-end owns the tty,
// so it only logs when a log file is set. closeLog flushes and closes the file.
func NewLogger(c *Config) (logger *slog.Logger, closeLog func() error) {
	level := slog.LevelInfo
	if c.Development {
		level = slog.LevelDebug
	}
	closeLog = func() error { return nil }

	var handler slog.Handler
	switch {
	case c.LogFile != "":
		file := &lumberjack.Logger{
			Filename:   c.LogFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}
		handler = slog.NewJSONHandler(file, &slog.HandlerOptions{Level: level})
		closeLog = file.Close
	case c.UI == UITerminal:
		handler = slog.DiscardHandler
	case c.Development:
		handler = tint.NewHandler(os.Stderr, &tint.Options{Level: level})
	default:
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}

	return slog.New(handler), closeLog
}
