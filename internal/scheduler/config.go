package scheduler

import (
	"time"

	"github.com/yanet-platform/bgtasks/internal/types/duration"
	"github.com/yanet-platform/bgtasks/internal/utils/coalescer"
)

const defaultInterval = 30 * time.Second // default delay between job runs

// Config holds the configuration for scheduling a periodic job.
type Config struct {
	// Interval between job runs. Unset or non-positive means the default.
	Interval *duration.Duration `yaml:"interval" toml:"interval"`
	// InitialDelay before the first run. Unset means no delay.
	InitialDelay *duration.Duration `yaml:"initial_delay" toml:"initial_delay"`
}

// Default sets the configuration to default values.
func (m *Config) Default() {
	m.Interval = duration.Ptr(defaultInterval)
	m.InitialDelay = nil
}

// GetInterval returns the delay between job runs.
func (m Config) GetInterval() time.Duration {
	interval := coalescer.Coalesce(m.Interval, duration.Ptr(defaultInterval)).Std()
	if interval <= 0 {
		return defaultInterval
	}
	return interval
}

// GetInitialDelay returns the delay before the first job run.
func (m Config) GetInitialDelay() time.Duration {
	return coalescer.Coalesce(m.InitialDelay, duration.Ptr(0)).Std()
}
