package jobqueue

import "time"

// Config holds worker and scheduler settings loaded from the environment.
type Config struct {
	PollInterval    time.Duration `env:"NOTIFY_QUEUE_POLL_INTERVAL" envDefault:"250ms"`
	MaxConcurrent   int           `env:"NOTIFY_QUEUE_MAX_CONCURRENT" envDefault:"8"`
	MaxAttempts     int           `env:"NOTIFY_QUEUE_MAX_ATTEMPTS" envDefault:"3"`
	BaseBackoff     time.Duration `env:"NOTIFY_QUEUE_BASE_BACKOFF" envDefault:"2s"`
	DispatchTimeout time.Duration `env:"NOTIFY_QUEUE_DISPATCH_TIMEOUT" envDefault:"1m"`
	Timezone        string        `env:"NOTIFY_SCHEDULER_TZ" envDefault:"UTC"`
}

// WorkerOptions converts the config into worker options.
func (c Config) WorkerOptions() []WorkerOption {
	return []WorkerOption{
		WithPollInterval(c.PollInterval),
		WithMaxConcurrent(c.MaxConcurrent),
		WithMaxAttempts(c.MaxAttempts),
		WithBaseBackoff(c.BaseBackoff),
		WithDispatchTimeout(c.DispatchTimeout),
	}
}

// Location resolves the scheduler timezone, falling back to UTC.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
