package logger

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ShutdownFunc flushes buffered log entries and releases exporter resources.
type ShutdownFunc func(ctx context.Context) error

// New creates a new logger instance with the given configuration. The
// returned ShutdownFunc must be called before the process exits.
func New(ctx context.Context, config *Config) (*zap.Logger, ShutdownFunc, error) {
	encoding := config.Encoding
	if encoding == "" {
		encoding = "json"
	}

	// Construct zap configuration.
	zapConfig := zap.Config{
		Level:             zap.NewAtomicLevelAt(config.Level),
		Encoding:          encoding,
		DisableStacktrace: true,
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "ts",
			LevelKey:       "level",
			NameKey:        "name",
			CallerKey:      "caller",
			MessageKey:     "msg",
			EncodeLevel:    zapcore.CapitalLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, err := zapConfig.Build()
	if err != nil {
		return nil, nil, err
	}
	shutdown := func(context.Context) error {
		_ = logger.Sync()
		return nil
	}

	// Add hostname to the logger.
	hostname, err := os.Hostname()
	if err == nil {
		logger = logger.With(zap.String("host", hostname))
	} else {
		logger.Error("Could not detect hostname", zap.Error(err))
	}

	// If OTEL exporter is configured, add exporter to the logger.
	if config.OTEL != nil {
		otelCore, provider, err := setupOTELExporter(ctx, config.OTEL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to setup OTEL exporter: %w", err)
		}

		logger = logger.WithOptions(
			zap.WrapCore(func(core zapcore.Core) zapcore.Core {
				return zapcore.NewTee(core, otelCore)
			}),
		)
		shutdown = func(ctx context.Context) error {
			_ = logger.Sync()
			return provider.Shutdown(ctx)
		}
	}

	return logger, shutdown, nil
}
