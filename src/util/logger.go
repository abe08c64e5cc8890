package util

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"legacy-analyzer/src/config"
)

// NewLogger creates a logrus logger from config. Unknown levels fall back to
// info, and an unopenable log file falls back to stderr.
func NewLogger(cfg config.LoggingConfig) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	switch strings.ToLower(cfg.Format) {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{
			DisableTimestamp: !cfg.IncludeTimestamp,
		})
	default:
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:    cfg.IncludeTimestamp,
			DisableTimestamp: !cfg.IncludeTimestamp,
		})
	}

	output := io.Writer(os.Stderr)
	if cfg.File != "" {
		if f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
			output = f
		} else {
			logger.Warnf("Failed to open log file %q, using stderr: %v", cfg.File, err)
		}
	}
	logger.SetOutput(output)

	return logger
}

// DefaultLogger is the package-level default logger
var DefaultLogger = NewLogger(config.LoggingConfig{
	Level:            "info",
	IncludeTimestamp: true,
})

// SetDefaultLogger updates the default logger with new configuration
func SetDefaultLogger(cfg config.LoggingConfig) {
	DefaultLogger = NewLogger(cfg)
}

// WithFields returns an entry on the default logger carrying fields
func WithFields(fields logrus.Fields) *logrus.Entry {
	return DefaultLogger.WithFields(fields)
}

// Debug logs using the default logger
func Debug(msg string, args ...any) {
	DefaultLogger.Debugf(msg, args...)
}

// Info logs using the default logger
func Info(msg string, args ...any) {
	DefaultLogger.Infof(msg, args...)
}

// Warn logs using the default logger
func Warn(msg string, args ...any) {
	DefaultLogger.Warnf(msg, args...)
}

// Error logs using the default logger
func Error(msg string, args ...any) {
	DefaultLogger.Errorf(msg, args...)
}
