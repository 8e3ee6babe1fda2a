package jobqueue

import (
	"log/slog"
	"time"
)

type workerOptions struct {
	pollInterval    time.Duration
	maxConcurrent   int
	maxAttempts     int
	baseBackoff     time.Duration
	dispatchTimeout time.Duration
	logger          *slog.Logger
}

func defaultWorkerOptions() workerOptions {
	return workerOptions{
		pollInterval:    250 * time.Millisecond,
		maxConcurrent:   8,
		maxAttempts:     3,
		baseBackoff:     2 * time.Second,
		dispatchTimeout: time.Minute,
		logger:          slog.Default(),
	}
}

// WorkerOption configures a Worker.
type WorkerOption func(*workerOptions)

// WithPollInterval sets how often the worker checks for ready jobs.
func WithPollInterval(d time.Duration) WorkerOption {
	return func(o *workerOptions) {
		if d > 0 {
			o.pollInterval = d
		}
	}
}

// WithMaxConcurrent sets how many jobs may be processed at once.
func WithMaxConcurrent(n int) WorkerOption {
	return func(o *workerOptions) {
		if n > 0 {
			o.maxConcurrent = n
		}
	}
}

// WithMaxAttempts sets the per-channel delivery attempt cap.
func WithMaxAttempts(n int) WorkerOption {
	return func(o *workerOptions) {
		if n > 0 {
			o.maxAttempts = n
		}
	}
}

// WithBaseBackoff sets the delay before the first retry; each further retry
// doubles it.
func WithBaseBackoff(d time.Duration) WorkerOption {
	return func(o *workerOptions) {
		if d > 0 {
			o.baseBackoff = d
		}
	}
}

// WithDispatchTimeout bounds a single dispatch round.
func WithDispatchTimeout(d time.Duration) WorkerOption {
	return func(o *workerOptions) {
		if d > 0 {
			o.dispatchTimeout = d
		}
	}
}

// WithWorkerLogger sets the worker's logger.
func WithWorkerLogger(log *slog.Logger) WorkerOption {
	return func(o *workerOptions) {
		if log != nil {
			o.logger = log
		}
	}
}
