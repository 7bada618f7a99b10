package config

import (
	"io"
	"log/slog"
	"os"
)

var logLevel = new(slog.LevelVar)

// ConfigureLogging installs a text handler on stdout as the default logger and
// returns it. The level can be changed later with SetLogLevel.
func ConfigureLogging(level slog.Level) *slog.Logger {
	return configureLogging(os.Stdout, level)
}

func configureLogging(w io.Writer, level slog.Level) *slog.Logger {
	logLevel.Set(level)
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)
	return logger
}

// SetLogLevel changes the level of the logger installed by ConfigureLogging.
func SetLogLevel(level slog.Level) {
	logLevel.Set(level)
}
