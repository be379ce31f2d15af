package logger

import (
	"go.uber.org/zap/zapcore"
)

// Config represents the logger configuration.
type Config struct {
	// Encoding is the log encoding.
	// Possible values: json, console.
	Encoding string `yaml:"encoding" toml:"encoding"`
	// Level is the log level.
	Level zapcore.Level `yaml:"level" toml:"level"`
	// OTEL is the OTEL exporter configuration.
	OTEL *OTELConfig `yaml:"otel_exporter" toml:"otel_exporter"`
}

// Default sets the default values for the configuration.
func (m *Config) Default() {
	m.Encoding = "json"
	m.Level = zapcore.InfoLevel
}
