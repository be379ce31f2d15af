package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v2"

	"github.com/yanet-platform/bgtasks/internal/monitoring/logger"
	"github.com/yanet-platform/bgtasks/internal/scheduler"
	"github.com/yanet-platform/bgtasks/internal/server"
	"github.com/yanet-platform/bgtasks/internal/types/duration"
	"github.com/yanet-platform/bgtasks/internal/utils/coalescer"
)

const (
	defaultStopTimeout     = 30 * time.Second
	defaultFailureLogLimit = 16
)

type Config struct {
	Logger   *logger.Config    `yaml:"logging" toml:"logging"`
	Server   *server.Config    `yaml:"server" toml:"server"`
	Shutdown *ShutdownConfig   `yaml:"shutdown" toml:"shutdown"`
	Reporter *scheduler.Config `yaml:"reporter" toml:"reporter"`
}

// ShutdownConfig controls how background operations are drained when the
// process is asked to stop.
type ShutdownConfig struct {
	// Immediate makes the stop request block until every background operation
	// finished, instead of returning and waiting for the drain separately.
	Immediate bool `yaml:"immediate" toml:"immediate"`
	// Timeout bounds the time spent waiting for background operations.
	Timeout *duration.Duration `yaml:"timeout" toml:"timeout"`
	// FailureLogLimit is the number of operation failures logged before
	// failure logs get throttled.
	FailureLogLimit *uint64 `yaml:"failure_log_limit" toml:"failure_log_limit"`
}

// GetTimeout returns the drain timeout.
func (m *ShutdownConfig) GetTimeout() time.Duration {
	return coalescer.Coalesce(m.Timeout, duration.Ptr(defaultStopTimeout)).Std()
}

// GetFailureLogLimit returns the failure log limit.
func (m *ShutdownConfig) GetFailureLogLimit() uint64 {
	limit := uint64(defaultFailureLogLimit)
	return coalescer.Value(m.FailureLogLimit, &limit)
}

// DefaultConfig returns the configuration used for values missing from the
// config file.
func DefaultConfig() Config {
	config := Config{
		Logger:   &logger.Config{},
		Server:   &server.Config{},
		Shutdown: &ShutdownConfig{},
		Reporter: &scheduler.Config{},
	}
	config.Logger.Default()
	config.Server.Default()
	config.Reporter.Default()

	return config
}

// withDefaults replaces sections missing from the config, such as explicit
// nulls in the file, with their defaults.
func (m Config) withDefaults() Config {
	defaults := DefaultConfig()
	m.Logger = coalescer.Coalesce(m.Logger, defaults.Logger)
	m.Server = coalescer.Coalesce(m.Server, defaults.Server)
	m.Shutdown = coalescer.Coalesce(m.Shutdown, defaults.Shutdown)
	m.Reporter = coalescer.Coalesce(m.Reporter, defaults.Reporter)
	return m
}

// LoadConfig loads the configuration from a YAML or TOML file, depending on
// its extension.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	config := DefaultConfig()
	switch ext := filepath.Ext(path); ext {
	case ".toml":
		err = toml.Unmarshal(data, &config)
	case ".yaml", ".yml", "":
		err = yaml.Unmarshal(data, &config)
	default:
		return Config{}, fmt.Errorf("unsupported config format: %q", ext)
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return config.withDefaults(), nil
}
