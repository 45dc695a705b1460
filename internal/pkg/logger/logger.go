package logger

import (
	"log/slog"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"
)

// New builds a JSON production zap logger at the given level and installs it
// behind slog's default logger, so packages logging through slog end up in the
// same stream. Unknown levels fall back to info.
func New(levelStr string) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(levelStr)))
	invalid := err != nil
	if invalid {
		level = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.DisableCaller = true
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	if invalid {
		l.Warn("Invalid log level string, defaulting to INFO", zap.String("input", levelStr))
	}

	slog.SetDefault(slog.New(zapslog.NewHandler(l.Core())))
	return l, nil
}
