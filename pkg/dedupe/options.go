package dedupe

import "time"

type config struct {
	window        time.Duration
	sweepInterval time.Duration
}

func defaultConfig() config {
	return config{
		window:        DefaultWindow,
		sweepInterval: time.Minute,
	}
}

// Option configures a Guard implementation.
type Option func(*config)

// WithWindow overrides the deduplication window.
func WithWindow(window time.Duration) Option {
	return func(c *config) {
		if window > 0 {
			c.window = window
		}
	}
}

// WithSweepInterval overrides how often the in-memory janitor removes
// expired entries. Only relevant for MemoryGuard.
func WithSweepInterval(interval time.Duration) Option {
	return func(c *config) {
		if interval > 0 {
			c.sweepInterval = interval
		}
	}
}
