package lrc

import (
	"io"
	"log/slog"
	"os"
)

var logLevel = new(slog.LevelVar)

// ConfigureLogging sets up the global default logger with a TextHandler
// and configures the log level based on the LRC_LOG_LEVEL environment variable.
// It defaults to Info level if not specified.
//
// The compiler itself never logs; the tools call this at startup.
func ConfigureLogging() {
	ConfigureLoggingTo(os.Stdout)
}

// ConfigureLoggingTo is ConfigureLogging writing to w, for tools whose stdout carries data.
func ConfigureLoggingTo(w io.Writer) {
	logLevel.Set(slog.LevelInfo)

	lvl := os.Getenv("LRC_LOG_LEVEL")
	switch lvl {
	case "DEBUG":
		logLevel.Set(slog.LevelDebug)
	case "WARN":
		logLevel.Set(slog.LevelWarn)
	case "ERROR":
		logLevel.Set(slog.LevelError)
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

// SetLogLevel sets the logging level for the logger configured by ConfigureLogging.
func SetLogLevel(level slog.Level) {
	logLevel.Set(level)
}
